package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/shader-playground/internal/apperror"
	"github.com/sakif/shader-playground/internal/model"
	"github.com/sakif/shader-playground/internal/repository"
)

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

const projectColumns = `id, name, shaders, audio_settings, created_at, updated_at`

// ProjectRepository stores projects in the projects table. It mirrors
// PresetRepository statement for statement.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository returns a repository that borrows db's connection.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Save inserts or overwrites the project; see PresetRepository.Save.
func (r *ProjectRepository) Save(ctx context.Context, project *model.Project) (int64, error) {
	err := r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		now := r.db.timestamp()
		ts := formatTimestamp(now)

		if project.Persisted() {
			// RETURNING reads created_at under the same guard, so the record
			// handed back is complete even if the row is deleted right after.
			var created sql.NullString
			err := conn.QueryRowContext(ctx,
				`UPDATE projects
				 SET name = ?, shaders = ?, audio_settings = ?, updated_at = ?
				 WHERE id = ?
				 RETURNING created_at`,
				project.Name, project.Shaders, toNullString(project.AudioSettings), ts,
				project.ID,
			).Scan(&created)
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("project", project.ID)
			}
			if err != nil {
				return apperror.Storage(fmt.Sprintf("sqlite: updating project %d", project.ID), err)
			}
			createdAt, err := parseTimestamp("created_at", created)
			if err != nil {
				return apperror.Storage(fmt.Sprintf("sqlite: updating project %d", project.ID), err)
			}
			project.CreatedAt = createdAt
			project.UpdatedAt = now
			return nil
		}

		result, err := conn.ExecContext(ctx,
			`INSERT INTO projects (name, shaders, audio_settings, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			project.Name, project.Shaders, toNullString(project.AudioSettings), ts, ts,
		)
		if err != nil {
			return apperror.Storage("sqlite: creating project", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return apperror.Storage("sqlite: reading new project id", err)
		}
		project.ID = id
		project.CreatedAt = now
		project.UpdatedAt = now
		return nil
	})
	if err != nil {
		return 0, err
	}
	return project.ID, nil
}

// GetByID returns the project with the given id, or nil if there is none.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var project *model.Project
	err := r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		row := conn.QueryRowContext(ctx,
			`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
		p, err := decodeProject(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return apperror.Storage(fmt.Sprintf("sqlite: getting project %d", id), err)
		}
		project = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List returns every project, most recently saved first.
func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	err := r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT `+projectColumns+` FROM projects ORDER BY updated_at DESC, id DESC`)
		if err != nil {
			return apperror.Storage("sqlite: listing projects", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := decodeProject(rows)
			if err != nil {
				return apperror.Storage("sqlite: scanning project row", err)
			}
			projects = append(projects, p)
		}
		if err := rows.Err(); err != nil {
			return apperror.Storage("sqlite: iterating projects", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes the project if it exists. A missing row is not an error.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		if _, err := conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
			return apperror.Storage(fmt.Sprintf("sqlite: deleting project %d", id), err)
		}
		return nil
	})
}
