package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/shader-playground/internal/model"
)

// timestampLayout is fixed width and always UTC, so comparing the stored text
// (ORDER BY updated_at) gives the same order as comparing the times.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Layouts accepted when reading. The last one is what SQLite writes for
// DEFAULT CURRENT_TIMESTAMP.
var readLayouts = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp reads a stored timestamp. NULL decodes to the zero time.
func parseTimestamp(column string, v sql.NullString) (time.Time, error) {
	if !v.Valid {
		return time.Time{}, nil
	}
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed %s %q", column, v.String)
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// decodePreset maps one row of presetColumns onto a Preset.
func decodePreset(row rowScanner) (model.Preset, error) {
	var (
		p                model.Preset
		uniforms         sql.NullString
		created, updated sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.ShaderCode, &p.Language, &uniforms, &created, &updated); err != nil {
		return model.Preset{}, err
	}
	p.Uniforms = nullableString(uniforms)

	var err error
	if p.CreatedAt, err = parseTimestamp("created_at", created); err != nil {
		return model.Preset{}, fmt.Errorf("preset %d: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updated); err != nil {
		return model.Preset{}, fmt.Errorf("preset %d: %w", p.ID, err)
	}
	return p, nil
}

// decodeProject maps one row of projectColumns onto a Project.
func decodeProject(row rowScanner) (model.Project, error) {
	var (
		p                model.Project
		audio            sql.NullString
		created, updated sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Shaders, &audio, &created, &updated); err != nil {
		return model.Project{}, err
	}
	p.AudioSettings = nullableString(audio)

	var err error
	if p.CreatedAt, err = parseTimestamp("created_at", created); err != nil {
		return model.Project{}, fmt.Errorf("project %d: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updated); err != nil {
		return model.Project{}, fmt.Errorf("project %d: %w", p.ID, err)
	}
	return p, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
