// Package repository declares the persistence contracts used by the service
// layer. internal/repository/sqlite provides the implementation.
package repository

import (
	"context"

	"github.com/sakif/shader-playground/internal/model"
)

// PresetRepository persists presets.
//
// Save inserts when preset.ID is 0 and overwrites the row otherwise; it
// returns the row id and fills in the ID and timestamps on the argument.
// Saving with an id that has no row returns an apperror.ErrNotFound error.
// GetByID returns (nil, nil) when no row matches. Delete of a missing id
// is not an error.
type PresetRepository interface {
	Save(ctx context.Context, preset *model.Preset) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Preset, error)
	List(ctx context.Context) ([]model.Preset, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectRepository persists projects with the same semantics as PresetRepository.
type ProjectRepository interface {
	Save(ctx context.Context, project *model.Project) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Delete(ctx context.Context, id int64) error
}
