package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
)

// ProgramSource is the load-time description of a program: its WGSL source, the ordered list of
// uniform slot names it exposes and its raster state.
type ProgramSource struct {
	Name     string
	Source   string
	Uniforms []string
	Raster   pipeline.RasterState
	// PreProcessor resolves @oxy: annotations. Nil uses a pre-processor without includes.
	PreProcessor shader.PreProcessor
}

// Program is a compiled program together with its resolved slot table.
type Program struct {
	name     string
	handle   ProgramHandle
	pipeline pipeline.Pipeline
	slots    *shader.SlotTable
}

// LoadProgram parses, resolves and compiles a program. Every declared uniform must resolve;
// an unresolved name fails here and never at draw time.
//
// Parameters:
//   - backend: the backend compiling the program
//   - src: the program source
//
// Returns:
//   - *Program: the compiled program
//   - error: a parse error, shader.ErrUnresolvedUniform or a compile error
func LoadProgram(backend RendererBackend, src ProgramSource) (*Program, error) {
	p := &Program{name: src.Name}
	if err := p.build(backend, src); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) build(backend RendererBackend, src ProgramSource) error {
	pp := src.PreProcessor
	if pp == nil {
		pp = shader.NewPreProcessor()
	}
	sh, err := shader.NewShader(src.Name, src.Source, pp)
	if err != nil {
		return fmt.Errorf("renderer: failed to parse program %q: %w", src.Name, err)
	}
	slots, err := shader.ResolveSlots(sh, src.Uniforms)
	if err != nil {
		return fmt.Errorf("renderer: failed to load program %q: %w", src.Name, err)
	}
	pl := pipeline.NewPipeline(src.Name, sh, pipeline.WithRasterState(src.Raster))
	handle, err := backend.CompileProgram(ProgramDescriptor{Pipeline: pl})
	if err != nil {
		return fmt.Errorf("renderer: failed to compile program %q: %w", src.Name, err)
	}
	p.handle = handle
	p.pipeline = pl
	p.slots = slots
	return nil
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Handle returns the backend program handle.
func (p *Program) Handle() ProgramHandle { return p.handle }

// Pipeline returns the raster state and parsed shader.
func (p *Program) Pipeline() pipeline.Pipeline { return p.pipeline }

// Slots returns the resolved slot table.
func (p *Program) Slots() *shader.SlotTable { return p.slots }

// Has reports whether the program declares k.
func (p *Program) Has(k shader.UniformKey) bool {
	_, ok := p.slots.LookupKey(k)
	return ok
}

// slot returns the slot declared for k.
func (p *Program) slot(k shader.UniformKey) (shader.Slot, error) {
	i, ok := p.slots.LookupKey(k)
	if !ok {
		return shader.Slot{}, fmt.Errorf("%w %q in program %q", shader.ErrUnresolvedUniform, k.Name(), p.name)
	}
	return p.slots.Slot(i), nil
}

// slotByName returns the slot declared with name.
func (p *Program) slotByName(name string) (shader.Slot, error) {
	i, ok := p.slots.Lookup(name)
	if !ok {
		return shader.Slot{}, fmt.Errorf("%w %q in program %q", shader.ErrUnresolvedUniform, name, p.name)
	}
	return p.slots.Slot(i), nil
}
