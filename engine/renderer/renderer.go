package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	programCache map[string]*Program
	sources      map[string]ProgramSource

	backend RendererBackend
	binder  Binder

	preProcessor shader.PreProcessor
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the backend, the Binder recording against it and a cache of loaded programs
// keyed by name. Programs keep their identity across hot reloads, so callers may hold on to them.
type Renderer interface {
	// Backend returns the GPU backend.
	//
	// Returns:
	//   - RendererBackend: the backend
	Backend() RendererBackend

	// Binder returns the draw-state binder shared by every pass.
	//
	// Returns:
	//   - Binder: the binder
	Binder() Binder

	// LoadProgram loads and caches a program. Loading a name that is already cached returns the cached program.
	//
	// Parameters:
	//   - src: the program source
	//
	// Returns:
	//   - *Program: the loaded program
	//   - error: a load error
	LoadProgram(src ProgramSource) (*Program, error)

	// Program retrieves a cached program by name, or nil.
	//
	// Parameters:
	//   - name: the program name
	//
	// Returns:
	//   - *Program: the program, or nil if not loaded
	Program(name string) *Program

	// ReloadProgram rebuilds a cached program from new WGSL source. On failure the previous
	// program stays in use and the error is returned.
	//
	// Parameters:
	//   - name: the program name
	//   - source: the new WGSL source
	//
	// Returns:
	//   - error: an error if the program is unknown or the new source fails to load
	ReloadProgram(name, source string) error

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer over the given backend.
//
// Parameters:
//   - backend: the GPU backend
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(backend RendererBackend, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:           &sync.Mutex{},
		programCache: make(map[string]*Program),
		sources:      make(map[string]ProgramSource),
		backend:      backend,
		binder:       NewBinder(backend),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Binder() Binder {
	return r.binder
}

func (r *renderer) LoadProgram(src ProgramSource) (*Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.programCache[src.Name]; ok {
		return p, nil
	}
	if src.PreProcessor == nil {
		src.PreProcessor = r.preProcessor
	}
	p, err := LoadProgram(r.backend, src)
	if err != nil {
		return nil, err
	}
	r.programCache[src.Name] = p
	r.sources[src.Name] = src
	common.Logger().Info("program loaded", "name", src.Name, "slots", p.Slots().Len())
	return p, nil
}

func (r *renderer) Program(name string) *Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.programCache[name]
}

func (r *renderer) ReloadProgram(name, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.programCache[name]
	if !ok {
		return fmt.Errorf("renderer: program %q is not loaded", name)
	}
	src := r.sources[name]
	src.Source = source

	next := &Program{name: name}
	if err := next.build(r.backend, src); err != nil {
		return err
	}
	r.backend.ReleaseProgram(p.handle)
	p.handle, p.pipeline, p.slots = next.handle, next.pipeline, next.slots
	r.sources[name] = src
	common.Logger().Info("program reloaded", "name", name)
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}
