package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sakif/shader-playground/internal/apperror"
	"github.com/sakif/shader-playground/internal/model"
)

// mockPresetRepo keeps presets in memory. It follows the repository contract:
// missing rows give (nil, nil) on get and NotFound on update.
type mockPresetRepo struct {
	presets map[int64]model.Preset
	nextID  int64
	err     error // returned by every call when set
}

func newMockPresetRepo() *mockPresetRepo {
	return &mockPresetRepo{presets: make(map[int64]model.Preset)}
}

func (m *mockPresetRepo) Save(_ context.Context, p *model.Preset) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	now := time.Now()
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
		p.CreatedAt = now
	} else if _, ok := m.presets[p.ID]; !ok {
		return 0, apperror.NotFound("preset", p.ID)
	}
	p.UpdatedAt = now
	m.presets[p.ID] = *p
	return p.ID, nil
}

func (m *mockPresetRepo) GetByID(_ context.Context, id int64) (*model.Preset, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.presets[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mockPresetRepo) List(_ context.Context) ([]model.Preset, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Preset, 0, len(m.presets))
	for _, p := range m.presets {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPresetRepo) Delete(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.presets, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestPresetService(t *testing.T) (*PresetService, *mockPresetRepo) {
	t.Helper()
	repo := newMockPresetRepo()
	return NewPresetService(repo, testLogger()), repo
}

func str(s string) *string { return &s }

func TestPresetSave_Success(t *testing.T) {
	svc, repo := newTestPresetService(t)

	p := &model.Preset{Name: "  glow  ", ShaderCode: "void main(){}", Language: " GLSL ", Uniforms: str(`[]`)}
	id, err := svc.Save(context.Background(), p)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}

	stored := repo.presets[id]
	if stored.Name != "glow" {
		t.Errorf("Name = %q, want trimmed %q", stored.Name, "glow")
	}
	if stored.Language != "glsl" {
		t.Errorf("Language = %q, want %q", stored.Language, "glsl")
	}
}

func TestPresetSave_Validation(t *testing.T) {
	tests := []struct {
		name      string
		preset    model.Preset
		wantField string
	}{
		{
			name:      "empty name",
			preset:    model.Preset{Name: "   ", Language: "glsl"},
			wantField: "name",
		},
		{
			name:      "name too long",
			preset:    model.Preset{Name: strings.Repeat("a", MaxNameLength+1), Language: "glsl"},
			wantField: "name",
		},
		{
			name:      "multibyte name too long",
			preset:    model.Preset{Name: strings.Repeat("虹", MaxNameLength+1), Language: "glsl"},
			wantField: "name",
		},
		{
			name:      "unknown language",
			preset:    model.Preset{Name: "x", Language: "hlsl"},
			wantField: "language",
		},
		{
			name:      "shader code too large",
			preset:    model.Preset{Name: "x", Language: "glsl", ShaderCode: strings.Repeat("a", MaxShaderCodeLength+1)},
			wantField: "shader_code",
		},
		{
			name:      "uniforms not JSON",
			preset:    model.Preset{Name: "x", Language: "glsl", Uniforms: str(`[{"a":`)},
			wantField: "uniforms",
		},
		{
			name:      "uniforms a bare string",
			preset:    model.Preset{Name: "x", Language: "glsl", Uniforms: str(`"speed"`)},
			wantField: "uniforms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestPresetService(t)
			p := tt.preset

			_, err := svc.Save(context.Background(), &p)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Save() error = %v, want ErrValidation", err)
			}
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
			if len(repo.presets) != 0 {
				t.Error("invalid preset reached the repository")
			}
		})
	}
}

func TestPresetSave_NormalizesRecord(t *testing.T) {
	svc, repo := newTestPresetService(t)

	p := &model.Preset{Name: "  Glow ", Language: " GLSL", ShaderCode: "x"}
	id, err := svc.Save(context.Background(), p)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p.Name != "Glow" || p.Language != model.LanguageGLSL {
		t.Errorf("record = %q/%q, want Glow/glsl", p.Name, p.Language)
	}
	if stored := repo.presets[id]; stored.Name != "Glow" || stored.Language != model.LanguageGLSL {
		t.Errorf("stored = %q/%q, want Glow/glsl", stored.Name, stored.Language)
	}
}

func TestPresetSave_NameLimitCountsCharacters(t *testing.T) {
	svc, _ := newTestPresetService(t)

	// 100 characters, 300 bytes.
	p := &model.Preset{Name: strings.Repeat("虹", MaxNameLength), Language: "glsl"}
	if _, err := svc.Save(context.Background(), p); err != nil {
		t.Fatalf("Save() with a %d-character name: %v", MaxNameLength, err)
	}
}

func TestPresetSave_OptionalUniformsAccepted(t *testing.T) {
	for _, u := range []*string{nil, str(""), str(`{"speed":1}`), str(`[1,2]`)} {
		svc, _ := newTestPresetService(t)
		p := &model.Preset{Name: "x", Language: "wgsl", Uniforms: u}
		if _, err := svc.Save(context.Background(), p); err != nil {
			t.Errorf("Save() with uniforms %v: error = %v", u, err)
		}
	}
}

func TestPresetSave_UpdateMissing(t *testing.T) {
	svc, _ := newTestPresetService(t)

	_, err := svc.Save(context.Background(), &model.Preset{ID: 7, Name: "x", Language: "glsl"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Save() error = %v, want ErrNotFound", err)
	}
}

func TestPresetGet_Missing(t *testing.T) {
	svc, _ := newTestPresetService(t)

	got, err := svc.Get(context.Background(), 3)
	if err != nil || got != nil {
		t.Errorf("Get() = %v, %v; want nil, nil", got, err)
	}
}

func TestPresetService_StorageErrorsPropagate(t *testing.T) {
	svc, repo := newTestPresetService(t)
	cause := errors.New("disk full")
	repo.err = apperror.Storage("sqlite: creating preset", cause)
	ctx := context.Background()

	_, err := svc.Save(ctx, &model.Preset{Name: "x", Language: "glsl"})
	if !errors.Is(err, apperror.ErrStorage) || !errors.Is(err, cause) {
		t.Errorf("Save() error = %v, want storage error wrapping cause", err)
	}
	if _, err := svc.Get(ctx, 1); !errors.Is(err, cause) {
		t.Errorf("Get() error = %v, want cause", err)
	}
	if _, err := svc.List(ctx); !errors.Is(err, cause) {
		t.Errorf("List() error = %v, want cause", err)
	}
	if err := svc.Delete(ctx, 1); !errors.Is(err, cause) {
		t.Errorf("Delete() error = %v, want cause", err)
	}
}

func TestPresetDelete_Missing(t *testing.T) {
	svc, _ := newTestPresetService(t)

	if err := svc.Delete(context.Background(), 99); err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
}

func TestSeedDefaults(t *testing.T) {
	svc, repo := newTestPresetService(t)
	ctx := context.Background()

	n, err := svc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}
	if n != len(DefaultPresets()) {
		t.Errorf("SeedDefaults() = %d, want %d", n, len(DefaultPresets()))
	}
	if len(repo.presets) != n {
		t.Errorf("repository holds %d presets, want %d", len(repo.presets), n)
	}

	// Second run sees a non-empty library and does nothing.
	n, err = svc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("second SeedDefaults() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second SeedDefaults() = %d, want 0", n)
	}
}

func TestSeedDefaults_SkipsNonEmptyLibrary(t *testing.T) {
	svc, repo := newTestPresetService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, &model.Preset{Name: "mine", Language: "glsl"}); err != nil {
		t.Fatal(err)
	}

	n, err := svc.SeedDefaults(ctx)
	if err != nil || n != 0 {
		t.Errorf("SeedDefaults() = %d, %v; want 0, nil", n, err)
	}
	if len(repo.presets) != 1 {
		t.Errorf("repository holds %d presets, want 1", len(repo.presets))
	}
}

func TestDefaultPresetsAreValid(t *testing.T) {
	for _, p := range DefaultPresets() {
		p := p
		if err := normalizePreset(&p); err != nil {
			t.Errorf("default preset %q is invalid: %v", p.Name, err)
		}
	}
}
