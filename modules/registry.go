package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/birkland/entrypoints/internal/resolv"
)

// Attrs are the top level attributes of a module
type Attrs map[string]interface{}

// InitFunc lazily produces the attributes of a module
type InitFunc func() (Attrs, error)

// Registry maps dotted module names to modules.  The zero value is not usable,
// use New.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*entry
	waiting map[uint64]*entry // Goroutines blocked on a module being initialized
	path    []string
}

type entry struct {
	mu     sync.Mutex
	init   InitFunc
	module *Module
	owner  uint64 // Goroutine running init, guarded by the registry's mu
}

// Default is the process-wide registry used by the package level functions
var Default = New(defaultPath())

// New creates an empty registry with the given search path
func New(searchPath []string) *Registry {
	return &Registry{
		modules: make(map[string]*entry),
		waiting: make(map[uint64]*entry),
		path:    append([]string(nil), searchPath...),
	}
}

// Register adds an eagerly initialized module.  It panics if a module of the
// same name is already registered.
func (r *Registry) Register(name string, attrs Attrs) {
	r.add(name, &entry{module: newModule(r, name, attrs)})
}

// RegisterFunc adds a module whose attributes are produced by init the first
// time the module is imported.  It panics if a module of the same name is
// already registered.
func (r *Registry) RegisterFunc(name string, init InitFunc) {
	if init == nil {
		panic(fmt.Sprintf("modules: nil init func for module '%s'", name))
	}
	r.add(name, &entry{init: init})
}

func (r *Registry) add(name string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !resolv.ValidIdent(name) {
		panic(fmt.Sprintf("modules: invalid module name '%s'", name))
	}
	if _, exists := r.modules[name]; exists {
		panic(fmt.Sprintf("modules: module with name '%s' already registered", name))
	}
	r.modules[name] = e
}

// Import returns the named module, initializing it first if needed.  A module
// is initialized at most once; an initializer that fails is tried again on the
// next import.  Importing a module whose initializer is still running, from
// within that initializer or through a cycle of initializers, fails with
// ErrCircularImport.
func (r *Registry) Import(name string) (interface{}, error) {
	return r.importModule(name)
}

func (r *Registry) importModule(name string) (*Module, error) {
	r.mu.RLock()
	e, ok := r.modules[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ImportError{Name: name}
	}

	g := goroutineID()
	if err := r.lock(g, e); err != nil {
		return nil, &ImportError{Name: name, Err: err}
	}
	defer e.mu.Unlock()

	if e.module != nil {
		return e.module, nil
	}

	r.setOwner(e, g)
	defer r.setOwner(e, 0)

	attrs, err := e.init()

	if err != nil {
		return nil, &ImportError{Name: name, Err: err}
	}
	e.module = newModule(r, name, attrs)

	return e.module, nil
}

// Lock a module entry, unless waiting for it would never end: when this
// goroutine is the one initializing it, or is waited on by the goroutine that
// is, directly or through other waiting initializers.
func (r *Registry) lock(g uint64, e *entry) error {
	r.mu.Lock()
	for owner := e.owner; owner != 0; {
		if owner == g {
			r.mu.Unlock()
			return ErrCircularImport
		}
		next, ok := r.waiting[owner]
		if !ok {
			break
		}
		owner = next.owner
	}
	r.waiting[g] = e
	r.mu.Unlock()

	e.mu.Lock()

	r.mu.Lock()
	delete(r.waiting, g)
	r.mu.Unlock()
	return nil
}

func (r *Registry) setOwner(e *entry, g uint64) {
	r.mu.Lock()
	e.owner = g
	r.mu.Unlock()
}

// Names lists registered module names in lexical order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[name]
	return ok
}

// SearchPath returns a copy of the registry's default search path
func (r *Registry) SearchPath() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.path...)
}

// SetSearchPath replaces the registry's default search path
func (r *Registry) SetSearchPath(path []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = append([]string(nil), path...)
}

// Register adds a module to the Default registry
func Register(name string, attrs Attrs) {
	Default.Register(name, attrs)
}

// RegisterFunc adds a lazily initialized module to the Default registry
func RegisterFunc(name string, init InitFunc) {
	Default.RegisterFunc(name, init)
}

// Import imports a module from the Default registry
func Import(name string) (interface{}, error) {
	return Default.Import(name)
}

// SearchPath is the default search path of the Default registry
func SearchPath() []string {
	return Default.SearchPath()
}

// SetSearchPath sets the default search path of the Default registry
func SetSearchPath(path []string) {
	Default.SetSearchPath(path)
}

// The directory holding the running executable, and its plugins directory
func defaultPath() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	dir := filepath.Dir(exe)
	return []string{dir, filepath.Join(dir, "plugins")}
}
