package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chitouru-maker/khoushou3/internal/admin"
	"github.com/chitouru-maker/khoushou3/internal/config"
	"github.com/chitouru-maker/khoushou3/internal/engine"
	"github.com/chitouru-maker/khoushou3/internal/store"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "data", "khoushou.db")
	cfg.Timezone = "UTC"
	return cfg
}

func TestOpen_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendMemory

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Engine.IsLoaded())
	assert.False(t, a.Viewer(ctx).IsAdmin)
	assert.Equal(t, engine.OutcomeApplied, a.Engine.CompleteCard(ctx, 1, "u1-c1"))
}

func TestOpen_SQLitePersistsAcrossRuns(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	a.Engine.CompleteCard(ctx, 1, "u1-c1")
	a.Engine.CompleteExercise(ctx, 1)
	require.NoError(t, a.Close())

	b, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 15, b.Engine.Points())
	assert.True(t, b.Engine.UnitProgress(1).ExerciseCompleted)
	assert.Equal(t, 1, b.Engine.Streak().Count)

	totals, total, err := b.Engine.Awards().Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Len(t, totals, 2)
}

func TestOpen_StrictPrerequisites(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendMemory
	cfg.StrictPrerequisites = true

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, engine.OutcomePrerequisiteNotMet, a.Engine.CompleteExercise(ctx, 1))
	assert.Zero(t, a.Engine.Points())
}

func TestOpen_MissingCurriculum(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Curriculum = filepath.Join(t.TempDir(), "absent.json")

	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestLoadCurriculum_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "course.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: Test
  locale: en
  rtl: false
levels:
  - level_id: 1
    title: One
    units:
      - unit_id: 7
        title: Seven
        cards:
          - card_id: a
            title: A
            sections:
              - id: summary
                title: S
                content: text
        exercise:
          title: E
          instructions: do it
          cta_label: Done
`), 0o644))

	cfg := config.DefaultConfig()
	cfg.Curriculum = path
	g, err := LoadCurriculum(cfg)
	require.NoError(t, err)
	_, ok := g.Unit(7)
	assert.True(t, ok)
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := OpenBackend(context.Background(), config.StorageConfig{Backend: "mongo"})
	assert.Error(t, err)
}

func TestReset_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	hash, err := admin.HashPassword("secret")
	require.NoError(t, err)
	cfg.Admin.PasswordHash = hash

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	a.Engine.CompleteCard(ctx, 1, "u1-c1")
	require.NoError(t, a.Admin.Login(ctx, "admin", "secret"))
	require.True(t, a.Viewer(ctx).IsAdmin)

	require.NoError(t, a.Reset(ctx))
	for _, key := range store.AllKeys() {
		_, err := a.Backend.Load(ctx, key)
		assert.True(t, errors.Is(err, store.ErrNotFound), key)
	}
	events, err := a.Backend.QueryAwards(ctx, store.QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, events)
	require.NoError(t, a.Close())

	b, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer b.Close()
	assert.Zero(t, b.Engine.Points())
	assert.False(t, b.Viewer(ctx).IsAdmin)
}
