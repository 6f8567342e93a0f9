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

// ProjectService validates projects and stores them through a ProjectRepository.
type ProjectService struct {
	repo   repository.ProjectRepository
	logger *slog.Logger
}

// NewProjectService creates a ProjectService on top of repo.
func NewProjectService(repo repository.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		logger: logger,
	}
}

// Save creates or overwrites the project and returns its id. Like
// PresetService.Save it trims the name in place.
func (s *ProjectService) Save(ctx context.Context, project *model.Project) (int64, error) {
	if err := normalizeProject(project); err != nil {
		return 0, err
	}

	creating := !project.Persisted()
	id, err := s.repo.Save(ctx, project)
	if err != nil {
		s.logger.Error("failed to save project",
			slog.Int64("id", project.ID),
			slog.String("name", project.Name),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("saving project: %w", err)
	}

	s.logger.Info("project saved",
		slog.Int64("id", id),
		slog.String("name", project.Name),
		slog.Bool("created", creating),
	)
	return id, nil
}

// Get returns the project, or nil if it does not exist.
func (s *ProjectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get project", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return project, nil
}

// List returns all projects, most recently saved first.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Delete removes the project. Deleting a project that does not exist succeeds.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete project", slog.Int64("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", slog.Int64("id", id))
	return nil
}

func normalizeProject(p *model.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperror.ValidationFailed("name", "project name is required")
	}
	if utf8.RuneCountInString(p.Name) > MaxNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("project name must be %d characters or less", MaxNameLength))
	}

	if strings.TrimSpace(p.Shaders) == "" {
		return apperror.ValidationFailed("shaders", "project shaders are required")
	}
	if len(p.Shaders) > MaxPayloadLength {
		return apperror.ValidationFailed("shaders",
			fmt.Sprintf("shaders must be %d bytes or less", MaxPayloadLength))
	}
	if err := shadersPayload.check(p.Shaders); err != nil {
		return err
	}

	if p.AudioSettings != nil && len(*p.AudioSettings) > MaxPayloadLength {
		return apperror.ValidationFailed("audio_settings",
			fmt.Sprintf("audio settings must be %d bytes or less", MaxPayloadLength))
	}
	return audioSettingsPayload.checkOptional(p.AudioSettings)
}
