// Package service holds the operations the command layer calls: validation,
// logging and delegation to the repositories.
//
// Each exported method is one boundary operation (savePreset, getPreset, ...).
// Failures are *apperror.AppError values, whose Message is safe to show to the
// user as-is.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/shader-playground/internal/apperror"
	"github.com/sakif/shader-playground/internal/model"
	"github.com/sakif/shader-playground/internal/repository"
)

// Limits enforced by Save. MaxNameLength counts characters, the others bytes.
const (
	MaxNameLength       = 100
	MaxShaderCodeLength = 256 * 1024
	MaxPayloadLength    = 1024 * 1024
)

var languages = map[string]bool{
	model.LanguageGLSL: true,
	model.LanguageWGSL: true,
}

// PresetService validates presets and stores them through a PresetRepository.
type PresetService struct {
	repo   repository.PresetRepository
	logger *slog.Logger
}

// NewPresetService creates a PresetService on top of repo.
func NewPresetService(repo repository.PresetRepository, logger *slog.Logger) *PresetService {
	return &PresetService{
		repo:   repo,
		logger: logger,
	}
}

// Save creates the preset when preset.ID is 0 and overwrites it otherwise.
// It returns the preset's id.
//
// Save rewrites the record before storing it: the name is trimmed and the
// language lower-cased, so " Glow"/"GLSL" is stored and returned as
// "Glow"/"glsl". ID and timestamps are filled in from the store.
func (s *PresetService) Save(ctx context.Context, preset *model.Preset) (int64, error) {
	if err := normalizePreset(preset); err != nil {
		return 0, err
	}

	creating := !preset.Persisted()
	id, err := s.repo.Save(ctx, preset)
	if err != nil {
		s.logger.Error("failed to save preset",
			slog.Int64("id", preset.ID),
			slog.String("name", preset.Name),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("saving preset: %w", err)
	}

	s.logger.Info("preset saved",
		slog.Int64("id", id),
		slog.String("name", preset.Name),
		slog.Bool("created", creating),
	)
	return id, nil
}

// Get returns the preset, or nil if it does not exist.
func (s *PresetService) Get(ctx context.Context, id int64) (*model.Preset, error) {
	preset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get preset", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("getting preset: %w", err)
	}
	return preset, nil
}

// List returns all presets, most recently saved first.
func (s *PresetService) List(ctx context.Context) ([]model.Preset, error) {
	presets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list presets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	return presets, nil
}

// Delete removes the preset. Deleting a preset that does not exist succeeds.
func (s *PresetService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete preset", slog.Int64("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("deleting preset: %w", err)
	}
	s.logger.Info("preset deleted", slog.Int64("id", id))
	return nil
}

func normalizePreset(p *model.Preset) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperror.ValidationFailed("name", "preset name is required")
	}
	if utf8.RuneCountInString(p.Name) > MaxNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("preset name must be %d characters or less", MaxNameLength))
	}

	p.Language = strings.ToLower(strings.TrimSpace(p.Language))
	if !languages[p.Language] {
		return apperror.ValidationFailed("language",
			fmt.Sprintf("unsupported shader language %q (want glsl or wgsl)", p.Language))
	}

	if len(p.ShaderCode) > MaxShaderCodeLength {
		return apperror.ValidationFailed("shader_code",
			fmt.Sprintf("shader code must be %d bytes or less", MaxShaderCodeLength))
	}

	if p.Uniforms != nil && len(*p.Uniforms) > MaxPayloadLength {
		return apperror.ValidationFailed("uniforms",
			fmt.Sprintf("uniforms must be %d bytes or less", MaxPayloadLength))
	}
	return uniformsPayload.checkOptional(p.Uniforms)
}
