// Command oxy-shadercheck validates every pipeline program offline: each source is pre-processed,
// its uniform names are resolved to slots, and the result is compiled to SPIR-V.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-probe/assets"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
)

func main() {
	dir := flag.String("shaders", "", "directory of <program>.wgsl overrides; empty checks the embedded programs")
	out := flag.String("spirv", "", "directory to write <program>.spv into; empty skips writing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	programs, err := assets.LoadPrograms(*dir)
	if err != nil {
		logger.Error("failed to load programs", "error", err)
		os.Exit(1)
	}
	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			logger.Error("failed to create output directory", "error", err)
			os.Exit(1)
		}
	}

	failed := 0
	for _, src := range programs {
		slots, code, err := check(src)
		if err != nil {
			logger.Error("program rejected", "program", src.Name, "error", err)
			failed++
			continue
		}
		if *out != "" {
			path := filepath.Join(*out, src.Name+".spv")
			if err := os.WriteFile(path, code, 0o644); err != nil {
				logger.Error("failed to write SPIR-V", "path", path, "error", err)
				failed++
				continue
			}
		}
		logger.Info("program ok", "program", src.Name, "slots", slots, "spirv_bytes", len(code))
	}
	if failed > 0 {
		logger.Error("shader check failed", "rejected", failed, "total", len(programs))
		os.Exit(1)
	}
}

// check pre-processes src, resolves its uniform slots and compiles it.
func check(src renderer.ProgramSource) (int, []byte, error) {
	pp := src.PreProcessor
	if pp == nil {
		pp = assets.PreProcessor()
	}
	sh, err := shader.NewShader(src.Name, src.Source, pp)
	if err != nil {
		return 0, nil, err
	}
	table, err := shader.ResolveSlots(sh, src.Uniforms)
	if err != nil {
		return 0, nil, err
	}

	ast, err := naga.Parse(sh.Source())
	if err != nil {
		return 0, nil, err
	}
	module, err := naga.LowerWithSource(ast, sh.Source())
	if err != nil {
		return 0, nil, err
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return 0, nil, err
	}
	if len(problems) > 0 {
		errs := make([]error, len(problems))
		for i := range problems {
			errs[i] = problems[i]
		}
		return 0, nil, fmt.Errorf("%d validation problems: %w", len(problems), errors.Join(errs...))
	}
	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return 0, nil, err
	}
	return table.Len(), code, nil
}
