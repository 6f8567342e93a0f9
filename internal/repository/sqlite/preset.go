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

var _ repository.PresetRepository = (*PresetRepository)(nil)

const presetColumns = `id, name, shader_code, language, uniforms, created_at, updated_at`

// PresetRepository stores presets in the presets table.
type PresetRepository struct {
	db *DB
}

// NewPresetRepository returns a repository that borrows db's connection.
func NewPresetRepository(db *DB) *PresetRepository {
	return &PresetRepository{db: db}
}

// Save inserts the preset when it has no ID yet and overwrites the existing
// row otherwise. created_at is only ever written by the insert; an overwrite
// copies the stored value back into preset.CreatedAt.
//
// The clock is read once per call, so a fresh preset gets
// created_at == updated_at exactly.
func (r *PresetRepository) Save(ctx context.Context, preset *model.Preset) (int64, error) {
	err := r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		now := r.db.timestamp()
		ts := formatTimestamp(now)

		if preset.Persisted() {
			// RETURNING reads created_at under the same guard, so the record
			// handed back is complete even if the row is deleted right after.
			var created sql.NullString
			err := conn.QueryRowContext(ctx,
				`UPDATE presets
				 SET name = ?, shader_code = ?, language = ?, uniforms = ?, updated_at = ?
				 WHERE id = ?
				 RETURNING created_at`,
				preset.Name, preset.ShaderCode, preset.Language, toNullString(preset.Uniforms), ts,
				preset.ID,
			).Scan(&created)
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("preset", preset.ID)
			}
			if err != nil {
				return apperror.Storage(fmt.Sprintf("sqlite: updating preset %d", preset.ID), err)
			}
			createdAt, err := parseTimestamp("created_at", created)
			if err != nil {
				return apperror.Storage(fmt.Sprintf("sqlite: updating preset %d", preset.ID), err)
			}
			preset.CreatedAt = createdAt
			preset.UpdatedAt = now
			return nil
		}

		result, err := conn.ExecContext(ctx,
			`INSERT INTO presets (name, shader_code, language, uniforms, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			preset.Name, preset.ShaderCode, preset.Language, toNullString(preset.Uniforms), ts, ts,
		)
		if err != nil {
			return apperror.Storage("sqlite: creating preset", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return apperror.Storage("sqlite: reading new preset id", err)
		}
		preset.ID = id
		preset.CreatedAt = now
		preset.UpdatedAt = now
		return nil
	})
	if err != nil {
		return 0, err
	}
	return preset.ID, nil
}

// GetByID returns the preset with the given id, or nil if there is none.
func (r *PresetRepository) GetByID(ctx context.Context, id int64) (*model.Preset, error) {
	var preset *model.Preset
	err := r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		row := conn.QueryRowContext(ctx,
			`SELECT `+presetColumns+` FROM presets WHERE id = ?`, id)
		p, err := decodePreset(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return apperror.Storage(fmt.Sprintf("sqlite: getting preset %d", id), err)
		}
		preset = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return preset, nil
}

// List returns every preset, most recently saved first.
func (r *PresetRepository) List(ctx context.Context) ([]model.Preset, error) {
	presets := []model.Preset{}
	err := r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT `+presetColumns+` FROM presets ORDER BY updated_at DESC, id DESC`)
		if err != nil {
			return apperror.Storage("sqlite: listing presets", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := decodePreset(rows)
			if err != nil {
				return apperror.Storage("sqlite: scanning preset row", err)
			}
			presets = append(presets, p)
		}
		if err := rows.Err(); err != nil {
			return apperror.Storage("sqlite: iterating presets", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return presets, nil
}

// Delete removes the preset if it exists. A missing row is not an error.
func (r *PresetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.withConn(ctx, func(ctx context.Context, conn *sql.DB) error {
		if _, err := conn.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id); err != nil {
			return apperror.Storage(fmt.Sprintf("sqlite: deleting preset %d", id), err)
		}
		return nil
	})
}
