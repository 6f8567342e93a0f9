// Package model defines the records persisted by the shader backend.
//
// Both record kinds use ID 0 for "not yet persisted". SQLite AUTOINCREMENT
// starts at 1, so a stored row never has a zero ID.
package model

import "time"

// Shader languages accepted for presets.
const (
	LanguageGLSL = "glsl"
	LanguageWGSL = "wgsl"
)

// Preset is a saved shader program with its language tag.
//
// Uniforms is a pointer because NULL and "" are different things in the
// table: nil means the preset carries no uniform values at all.
type Preset struct {
	ID         int64     `json:"id,omitempty"`
	Name       string    `json:"name"`
	ShaderCode string    `json:"shader_code"`
	Language   string    `json:"language"`
	Uniforms   *string   `json:"uniforms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Persisted reports whether the preset already has a row.
func (p *Preset) Persisted() bool { return p.ID != 0 }
