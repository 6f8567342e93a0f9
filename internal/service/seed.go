package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/shader-playground/internal/model"
)

const classicRainbow = `precision highp float;
uniform float time;
uniform vec2 resolution;

void main() {
    vec2 uv = gl_FragCoord.xy / resolution.xy;
    vec3 col = 0.5 + 0.5 * cos(time + uv.xyx + vec3(0,2,4));
    gl_FragColor = vec4(col, 1.0);
}`

const audioReactiveCircles = `precision highp float;
uniform float time;
uniform vec2 resolution;
uniform float audioVolume;
uniform float audioBass;

void main() {
    vec2 uv = gl_FragCoord.xy / resolution.xy - 0.5;
    float radius = 0.3 + audioBass * 0.2;
    float dist = length(uv);
    vec3 col = vec3(0.0);
    if (dist < radius) {
        col = vec3(1.0, 0.5, 0.0) * audioVolume;
    }
    gl_FragColor = vec4(col, 1.0);
}`

// DefaultPresets returns the presets a fresh install starts with.
func DefaultPresets() []model.Preset {
	emptyUniforms := func() *string { s := "[]"; return &s }
	return []model.Preset{
		{Name: "Classic Rainbow", ShaderCode: classicRainbow, Language: model.LanguageGLSL, Uniforms: emptyUniforms()},
		{Name: "Audio Reactive Circles", ShaderCode: audioReactiveCircles, Language: model.LanguageGLSL, Uniforms: emptyUniforms()},
	}
}

// SeedDefaults saves DefaultPresets when there are no presets at all and
// returns how many were added. A library that already has presets, even ones
// the user created, is left untouched.
func (s *PresetService) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defaults := DefaultPresets()
	for i := range defaults {
		if _, err := s.Save(ctx, &defaults[i]); err != nil {
			return i, fmt.Errorf("seeding preset %q: %w", defaults[i].Name, err)
		}
	}

	s.logger.Info("default presets seeded", slog.Int("count", len(defaults)))
	return len(defaults), nil
}
