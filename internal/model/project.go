package model

import "time"

// Project bundles one or more shader definitions with optional audio settings.
// Shaders and AudioSettings hold serialized JSON; the store never looks inside.
type Project struct {
	ID            int64     `json:"id,omitempty"`
	Name          string    `json:"name"`
	Shaders       string    `json:"shaders"`
	AudioSettings *string   `json:"audio_settings,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Persisted reports whether the project already has a row.
func (p *Project) Persisted() bool { return p.ID != 0 }
