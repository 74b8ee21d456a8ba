// Package assets embeds the WGSL programs of the frame pipeline and the pre-processor that
// resolves their struct includes.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/light"
	"github.com/Carmen-Shannon/oxy-probe/engine/model"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/target"
)

// Program names. Each program's source file is named after it with a .wgsl extension.
const (
	ShadingProgram     = "shading"
	ShadowDepthProgram = "shadow_depth"
	SkyProgram         = "sky"
	ProbeDebugProgram  = "probe_debug"
)

//go:embed shaders/shading.wgsl
var shadingSource string

//go:embed shaders/shadow_depth.wgsl
var shadowDepthSource string

//go:embed shaders/sky.wgsl
var skySource string

//go:embed shaders/probe_debug.wgsl
var probeDebugSource string

// PreProcessor returns a pre-processor with every engine uniform struct registered.
func PreProcessor() shader.PreProcessor {
	return shader.NewPreProcessor(
		shader.WithInclude(shader.AnnotationArgVertex, model.VertexTypeName, model.VertexSource),
		shader.WithInclude(shader.AnnotationArgCamera, camera.CameraBlockTypeName, camera.CameraBlockSource),
		shader.WithInclude(shader.AnnotationArgLighting, light.LightingBlockTypeName, light.LightingBlockSource),
		shader.WithInclude(shader.AnnotationArgShadow, light.ShadowBlockTypeName, light.ShadowBlockSource),
		shader.WithInclude(shader.AnnotationArgMaterial, material.MaterialBlockTypeName, material.MaterialBlockSource),
		shader.WithInclude(shader.AnnotationArgEnvironment, target.EnvironmentBlockTypeName, target.EnvironmentBlockSource),
	)
}

// Programs returns the embedded program sources in load order.
func Programs() []renderer.ProgramSource {
	return []renderer.ProgramSource{
		{
			Name:   ShadowDepthProgram,
			Source: shadowDepthSource,
			Uniforms: shader.UniformKeyNames(
				shader.UniformObjectToWorld,
				shader.UniformWorldToShadowMap,
			),
			Raster: pipeline.RasterState{
				DepthOnly:           true,
				DepthBias:           2,
				DepthBiasSlopeScale: 2,
			},
		},
		{
			Name:   SkyProgram,
			Source: skySource,
			Uniforms: shader.UniformKeyNames(
				shader.UniformClipToWorld,
				shader.UniformSkyboxCubeMap,
			),
			Raster: pipeline.RasterState{
				DepthTestDisabled:  true,
				DepthWriteDisabled: true,
			},
		},
		{
			Name:   ShadingProgram,
			Source: shadingSource,
			Uniforms: shader.UniformKeyNames(
				shader.UniformObjectToWorld,
				shader.UniformMaterialGloss,
				shader.UniformMaterialMetalness,
				shader.UniformMaterialSpecularColor,
				shader.UniformMaterialDiffuseColor,
				shader.UniformMaterialDiffuseMap,
				shader.UniformMaterialNormalMap,
				shader.UniformShadowWorldToShadow,
				shader.UniformShadowMap,
				shader.UniformEnvironmentWorldToEnvironment,
				shader.UniformEnvironmentMap,
				shader.UniformEnvironmentLevelOfDetailCount,
				shader.UniformCamera,
				shader.UniformLighting,
			),
		},
		{
			Name:   ProbeDebugProgram,
			Source: probeDebugSource,
			Uniforms: shader.UniformKeyNames(
				shader.UniformObjectToWorld,
				shader.UniformCamera,
				shader.UniformEnvironmentWorldToEnvironment,
				shader.UniformEnvironmentMap,
			),
		},
	}
}

// LoadPrograms returns the program sources with any file <dir>/<name>.wgsl replacing the
// embedded source of that program. An empty dir returns the embedded sources.
//
// Parameters:
//   - dir: the shader override directory
//
// Returns:
//   - []renderer.ProgramSource: the program sources
//   - error: an error if an override file exists but cannot be read
func LoadPrograms(dir string) ([]renderer.ProgramSource, error) {
	programs := Programs()
	if dir == "" {
		return programs, nil
	}
	for i := range programs {
		src, err := os.ReadFile(SourcePath(dir, programs[i].Name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("assets: failed to read program %q: %w", programs[i].Name, err)
		}
		programs[i].Source = string(src)
	}
	return programs, nil
}

// ExportPrograms writes every embedded program into dir that does not already have a file
// there, so the sources can be edited while the engine hot-reloads them.
//
// Parameters:
//   - dir: the shader directory, created when missing
//
// Returns:
//   - error: an error if the directory or a file cannot be written
func ExportPrograms(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("assets: failed to create %q: %w", dir, err)
	}
	for _, p := range Programs() {
		path := SourcePath(dir, p.Name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(p.Source), 0o644); err != nil {
			return fmt.Errorf("assets: failed to write %q: %w", path, err)
		}
	}
	return nil
}

// SourcePath returns the file a program is loaded from inside dir.
func SourcePath(dir, name string) string {
	return filepath.Join(dir, name+".wgsl")
}

// ProgramName returns the program a source file belongs to.
func ProgramName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
