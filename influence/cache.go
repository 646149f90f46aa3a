package influence

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/notargets/BEMKernel/green"
	"github.com/notargets/BEMKernel/mesh"
	"golang.org/x/sync/singleflight"
)

// Key identifies a set of matrices by value. Without a free surface the
// kernel does not depend on frequency or gravity, and those fields are zero.
type Key struct {
	Mesh        mesh.Hash
	Omega       float64
	Depth       float64
	Gravity     float64
	FreeSurface bool
}

func KeyFor(m *mesh.Mesh, env green.Environment) Key {
	k := Key{Mesh: m.Hash(), Depth: env.Depth, FreeSurface: env.FreeSurface}
	if env.FreeSurface {
		k.Omega, k.Gravity = env.Omega, env.Gravity
	}
	return k
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Mesh, k.params())
}

func (k Key) params() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return fmt.Sprintf("w=%s/h=%s/g=%s/fs=%t", f(k.Omega), f(k.Depth), f(k.Gravity), k.FreeSurface)
}

// id is the full-length form of String used for request deduplication.
func (k Key) id() string {
	return fmt.Sprintf("%x/%s", k.Mesh[:], k.params())
}

// Entry is an immutable cached assembly: the matrices and the
// factorization of D.
type Entry struct {
	Key
	*Matrices
	LU *Factorization
}

// Cache shares assembled matrices between solves of the same mesh and
// environment. Concurrent lookups of a missing key trigger a single build.
// With MaxEntries > 0 the oldest entry is dropped when the cache is full.
type Cache struct {
	MaxEntries int
	Options    Options

	mu      sync.RWMutex
	entries map[Key]*Entry
	order   []Key
	group   singleflight.Group
	builds  atomic.Int64
	build   func(context.Context, *mesh.Mesh, green.Environment, Options) (*Entry, error)
}

func NewCache(maxEntries int, opts Options) *Cache {
	return &Cache{
		MaxEntries: maxEntries,
		Options:    opts,
		entries:    make(map[Key]*Entry),
		build:      Build,
	}
}

func (c *Cache) lookup(k Key) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[k]
	return e, ok
}

// Get returns the entry for m in env, assembling and factorizing it if needed.
// The shared build outlives the caller that started it: cancelling ctx only
// abandons the wait, and other callers still receive the entry.
func (c *Cache) Get(ctx context.Context, m *mesh.Mesh, env green.Environment) (*Entry, error) {
	k := KeyFor(m, env)
	if e, ok := c.lookup(k); ok {
		return e, nil
	}
	build := c.build
	if build == nil {
		build = Build
	}
	ch := c.group.DoChan(k.id(), func() (interface{}, error) {
		if e, ok := c.lookup(k); ok {
			return e, nil
		}
		e, err := build(context.WithoutCancel(ctx), m, env, c.Options)
		if err != nil {
			return nil, err
		}
		c.builds.Add(1)
		c.insert(k, e)
		return e, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Entry), nil
	}
}

// Build assembles and factorizes without caching.
func Build(ctx context.Context, m *mesh.Mesh, env green.Environment, opts Options) (*Entry, error) {
	mats, err := Assemble(ctx, m, env, opts)
	if err != nil {
		return nil, err
	}
	lu, err := Factorize(mats.D)
	if err != nil {
		return nil, err
	}
	return &Entry{Key: KeyFor(m, env), Matrices: mats, LU: lu}, nil
}

func (c *Cache) insert(k Key, e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[Key]*Entry)
	}
	if _, ok := c.entries[k]; !ok {
		c.order = append(c.order, k)
	}
	c.entries[k] = e
	for c.MaxEntries > 0 && len(c.order) > c.MaxEntries {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// Contains reports whether the matrices for m in env are cached.
func (c *Cache) Contains(m *mesh.Mesh, env green.Environment) bool {
	_, ok := c.lookup(KeyFor(m, env))
	return ok
}

func (c *Cache) Evict(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[k]; !ok {
		return false
	}
	delete(c.entries, k)
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*Entry)
	c.order = nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Builds counts the assemblies performed by the cache since creation.
func (c *Cache) Builds() int64 { return c.builds.Load() }
