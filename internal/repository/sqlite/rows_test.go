package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow feeds fixed column values to a decoder, the way *sql.Row would.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *string:
			*p = r.values[i].(string)
		case *sql.NullString:
			if v, ok := r.values[i].(string); ok {
				*p = sql.NullString{String: v, Valid: true}
			} else {
				*p = sql.NullString{}
			}
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      sql.NullString
		want    time.Time
		wantErr bool
	}{
		{
			name: "store layout",
			in:   sql.NullString{String: "2024-03-01T10:20:30.000000123Z", Valid: true},
			want: time.Date(2024, 3, 1, 10, 20, 30, 123, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			in:   sql.NullString{String: "2024-03-01T12:20:30+02:00", Valid: true},
			want: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		},
		{
			name: "sqlite CURRENT_TIMESTAMP",
			in:   sql.NullString{String: "2024-03-01 10:20:30", Valid: true},
			want: time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		},
		{
			name: "NULL is zero",
			in:   sql.NullString{},
			want: time.Time{},
		},
		{
			name:    "garbage",
			in:      sql.NullString{String: "last tuesday", Valid: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp("updated_at", tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestFormatTimestamp_SortsLexically(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := formatTimestamp(base.Add(900 * time.Millisecond))
	later := formatTimestamp(base.Add(time.Second))

	// RFC3339Nano would drop trailing zeros and put "…00.9Z" after "…01Z".
	assert.Less(t, earlier, later)
	assert.Len(t, earlier, len(later))
}

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	in := time.Date(2024, 7, 14, 8, 9, 10, 987654321, time.FixedZone("CEST", 2*60*60))

	got, err := parseTimestamp("created_at", sql.NullString{String: formatTimestamp(in), Valid: true})
	require.NoError(t, err)
	assert.True(t, got.Equal(in))
	assert.Equal(t, time.UTC, got.Location())
}

func TestDecodePreset(t *testing.T) {
	row := fakeRow{values: []any{
		int64(3), "glow", "void main(){}", "glsl", "[]",
		"2024-01-01T00:00:00.000000000Z", "2024-01-02T00:00:00.000000000Z",
	}}

	p, err := decodePreset(row)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "glow", p.Name)
	assert.Equal(t, "glsl", p.Language)
	require.NotNil(t, p.Uniforms)
	assert.Equal(t, "[]", *p.Uniforms)
	assert.True(t, p.UpdatedAt.After(p.CreatedAt))
}

func TestDecodePreset_NullUniforms(t *testing.T) {
	row := fakeRow{values: []any{int64(1), "n", "x", "wgsl", nil, nil, nil}}

	p, err := decodePreset(row)
	require.NoError(t, err)
	assert.Nil(t, p.Uniforms)
	assert.True(t, p.CreatedAt.IsZero())
}

func TestDecodePreset_MalformedTimestamp(t *testing.T) {
	row := fakeRow{values: []any{int64(8), "n", "x", "glsl", nil, "2024-01-01 00:00:00", "soon"}}

	_, err := decodePreset(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preset 8")
	assert.Contains(t, err.Error(), "updated_at")
}

func TestDecodePreset_ScanErrorPassesThrough(t *testing.T) {
	_, err := decodePreset(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDecodeProject(t *testing.T) {
	row := fakeRow{values: []any{
		int64(2), "set", `[{"code":"x"}]`, nil,
		"2024-01-01 00:00:00", "2024-01-01 00:00:00",
	}}

	p, err := decodeProject(row)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, `[{"code":"x"}]`, p.Shaders)
	assert.Nil(t, p.AudioSettings)
	assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
}

func TestDecodeProject_MalformedTimestamp(t *testing.T) {
	row := fakeRow{values: []any{int64(4), "set", "[]", `{}`, "not a date", nil}}

	_, err := decodeProject(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at")
}
