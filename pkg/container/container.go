// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var (
	// ErrNotBound is returned when a key has no binding, instance or alias target.
	ErrNotBound = errors.New("service is not bound")
	// ErrCircularDependency is returned when a factory resolves its own key again.
	ErrCircularDependency = errors.New("circular dependency")
	// ErrSelfAlias is returned when a key is aliased to itself.
	ErrSelfAlias = errors.New("key is aliased to itself")
	// ErrTypeMismatch is returned by Resolve when the stored value has another type.
	ErrTypeMismatch = errors.New("resolved value has unexpected type")
)

type (
	// Factory builds a service. It receives the container so it can resolve
	// its own dependencies explicitly.
	Factory func(c *Container) (any, error)

	binding struct {
		factory Factory
		shared  bool
	}

	// Container maps service keys to factories and shared instances.
	//
	// A Container is not safe for concurrent use. The application resolves
	// every service from a single goroutine.
	Container struct {
		bindings  map[string]binding
		instances map[string]any
		// aliases maps an alias to the key it stands for.
		aliases map[string]string
		// resolving is the stack of keys currently being built.
		resolving []string
	}
)

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[string]binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
	}
}

// Bind registers a transient factory: every Make call builds a new value.
func (c *Container) Bind(key string, factory Factory) {
	c.dropStale(key)
	c.bindings[key] = binding{factory: factory}
}

// Singleton registers a shared factory: the first Make call builds the value
// and later calls return the same one.
func (c *Container) Singleton(key string, factory Factory) {
	c.dropStale(key)
	c.bindings[key] = binding{factory: factory, shared: true}
}

// Instance registers an already built shared value.
func (c *Container) Instance(key string, value any) {
	delete(c.aliases, key)
	c.instances[key] = value
}

// Alias makes alias resolve to abstract. Many aliases may point at the same
// abstract, and registering the same pair twice is a no-op.
func (c *Container) Alias(abstract, alias string) error {
	if abstract == alias {
		return fmt.Errorf("alias %q: %w", alias, ErrSelfAlias)
	}
	if c.canonical(abstract) == alias {
		return fmt.Errorf("alias %q -> %q: %w", alias, abstract, ErrCircularDependency)
	}
	c.aliases[alias] = abstract
	return nil
}

// Aliases returns every alias that resolves directly to abstract, sorted.
func (c *Container) Aliases(abstract string) []string {
	var out []string
	for alias, target := range c.aliases {
		if target == abstract {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// Has reports whether key (or the key it aliases) can be resolved.
func (c *Container) Has(key string) bool {
	key = c.canonical(key)
	if _, ok := c.instances[key]; ok {
		return true
	}
	_, ok := c.bindings[key]
	return ok
}

// Make resolves key, following aliases.
func (c *Container) Make(key string) (any, error) {
	abstract := c.canonical(key)

	if v, ok := c.instances[abstract]; ok {
		return v, nil
	}

	b, ok := c.bindings[abstract]
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", key, ErrNotBound)
	}

	if slices.Contains(c.resolving, abstract) {
		chain := append(slices.Clone(c.resolving), abstract)
		return nil, fmt.Errorf("resolve %q: %w: %v", key, ErrCircularDependency, chain)
	}

	v, err := c.build(abstract, b.factory)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", key, err)
	}

	if b.shared {
		c.instances[abstract] = v
	}
	return v, nil
}

// build runs factory with abstract on the resolving stack. The stack is
// popped even when the factory panics.
func (c *Container) build(abstract string, factory Factory) (any, error) {
	c.resolving = append(c.resolving, abstract)
	defer func() { c.resolving = c.resolving[:len(c.resolving)-1] }()
	return factory(c)
}

// Get is the indexed read: it returns the resolved value or nil when the key
// cannot be resolved.
func (c *Container) Get(key string) any {
	v, err := c.Make(key)
	if err != nil {
		return nil
	}
	return v
}

// Set is the indexed write: it binds key to a transient factory returning value.
func (c *Container) Set(key string, value any) {
	c.Bind(key, func(*Container) (any, error) { return value, nil })
}

// Forget removes the binding, instance and alias registered under key.
func (c *Container) Forget(key string) {
	delete(c.bindings, key)
	delete(c.instances, key)
	delete(c.aliases, key)
}

// Keys returns every bound key (bindings and instances), sorted.
func (c *Container) Keys() []string {
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, dup := c.bindings[k]; !dup {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// canonical follows the alias chain of key.
func (c *Container) canonical(key string) string {
	seen := map[string]bool{}
	for {
		next, ok := c.aliases[key]
		if !ok || seen[key] {
			return key
		}
		seen[key] = true
		key = next
	}
}

// dropStale removes a previous instance and alias so a re-bound key is
// built from its new factory.
func (c *Container) dropStale(key string) {
	delete(c.instances, key)
	delete(c.aliases, key)
}

// KeyOf returns the type identifier of T, e.g.
// "*github.com/zero-cli/zero/pkg/container.Container".
func KeyOf[T any]() string {
	t := reflect.TypeFor[T]()
	prefix := ""
	for t.Kind() == reflect.Pointer {
		prefix += "*"
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return prefix + t.String()
	}
	return prefix + t.PkgPath() + "." + t.Name()
}

// Resolve resolves key and asserts the result to T.
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	v, err := c.Make(key)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("resolve %q: %w: got %T, want %s", key, ErrTypeMismatch, v, KeyOf[T]())
	}
	return out, nil
}

// MustResolve is like Resolve but panics on failure. It is meant for
// factories whose dependencies are bound during bootstrap.
func MustResolve[T any](c *Container, key string) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Make resolves the service registered under the type identifier of T.
func Make[T any](c *Container) (T, error) {
	return Resolve[T](c, KeyOf[T]())
}
