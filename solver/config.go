package solver

import (
	"gopkg.in/gcfg.v1"

	"github.com/notargets/BEMKernel/green"
)

const ExampleConfigFile = `[Green]
# Root finding and series truncation tolerance
Tolerance = 1e-10
# Cap on Newton steps and on eigenfunction series terms
MaxIterations = 200
# Gauss points of the deep-water wave integral
ThetaPoints = 64
# Gauss points per sub-interval of the finite-depth integral
KPoints = 16

[Solver]
# Concurrent rows during assembly, 0 means one per CPU
Workers = 0
# Failure thresholds of the dense solve
MaxCondition = 1e8
MaxResidual = 1e-6
Verbose = false

[Cache]
# 0 keeps every assembled matrix for the lifetime of the solver
MaxEntries = 0`

// Config holds the numerical settings of a Solver.
type Config struct {
	Green        green.Options
	Workers      int
	MaxCondition float64 // condition estimate of the system above which a solve fails
	MaxResidual  float64 // relative residual above which a solve fails
	CacheEntries int     // 0 means unbounded
	Verbose      bool
}

func DefaultConfig() Config {
	return Config{
		Green:        green.DefaultOptions(),
		MaxCondition: 1e8,
		MaxResidual:  1e-6,
	}
}

type configFile struct {
	Green struct {
		Tolerance     float64
		MaxIterations int
		ThetaPoints   int
		KPoints       int
	}
	Solver struct {
		Workers      int
		MaxCondition float64
		MaxResidual  float64
		Verbose      bool
	}
	Cache struct {
		MaxEntries int
	}
}

func (c Config) file() configFile {
	var cf configFile
	cf.Green.Tolerance = c.Green.Tolerance
	cf.Green.MaxIterations = c.Green.MaxIterations
	cf.Green.ThetaPoints = c.Green.ThetaPoints
	cf.Green.KPoints = c.Green.KPoints
	cf.Solver.Workers = c.Workers
	cf.Solver.MaxCondition = c.MaxCondition
	cf.Solver.MaxResidual = c.MaxResidual
	cf.Solver.Verbose = c.Verbose
	cf.Cache.MaxEntries = c.CacheEntries
	return cf
}

func (cf configFile) config() Config {
	return Config{
		Green: green.Options{
			Tolerance:     cf.Green.Tolerance,
			MaxIterations: cf.Green.MaxIterations,
			ThetaPoints:   cf.Green.ThetaPoints,
			KPoints:       cf.Green.KPoints,
		},
		Workers:      cf.Solver.Workers,
		MaxCondition: cf.Solver.MaxCondition,
		MaxResidual:  cf.Solver.MaxResidual,
		CacheEntries: cf.Cache.MaxEntries,
		Verbose:      cf.Solver.Verbose,
	}
}

// ReadConfig reads an INI style file in the format of ExampleConfigFile.
// Missing variables keep their default values.
func ReadConfig(fname string) (Config, error) {
	cf := DefaultConfig().file()
	if err := gcfg.ReadFileInto(&cf, fname); err != nil {
		return Config{}, configErrorf(fname, "%v", err)
	}
	c := cf.config()
	return c, c.Validate()
}

// ParseConfig is ReadConfig for a config held in memory.
func ParseConfig(text string) (Config, error) {
	cf := DefaultConfig().file()
	if err := gcfg.ReadStringInto(&cf, text); err != nil {
		return Config{}, configErrorf("config", "%v", err)
	}
	c := cf.config()
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Green.Tolerance <= 0:
		return configErrorf("Green.Tolerance", "must be positive, got %g", c.Green.Tolerance)
	case c.Green.MaxIterations <= 0:
		return configErrorf("Green.MaxIterations", "must be positive, got %d", c.Green.MaxIterations)
	case c.Green.ThetaPoints <= 0:
		return configErrorf("Green.ThetaPoints", "must be positive, got %d", c.Green.ThetaPoints)
	case c.Green.KPoints <= 0:
		return configErrorf("Green.KPoints", "must be positive, got %d", c.Green.KPoints)
	case c.Workers < 0:
		return configErrorf("Solver.Workers", "must not be negative, got %d", c.Workers)
	case !(c.MaxCondition > 1):
		return configErrorf("Solver.MaxCondition", "must exceed 1, got %g", c.MaxCondition)
	case !(c.MaxResidual > 0):
		return configErrorf("Solver.MaxResidual", "must be positive, got %g", c.MaxResidual)
	case c.CacheEntries < 0:
		return configErrorf("Cache.MaxEntries", "must not be negative, got %d", c.CacheEntries)
	}
	return nil
}
