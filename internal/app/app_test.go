package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/amix-engine/internal/config"
	"github.com/jwebster45206/amix-engine/internal/storage"
	"github.com/jwebster45206/amix-engine/pkg/pet"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:       t.TempDir(),
		Lore:          "amix",
		Backend:       config.BackendStatic,
		ContentRating: "PG",
		Seed:          7,
		MovementSpeed: 0.02,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_WithoutFeed(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), testLogger())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	assert.Nil(t, a.Broadcaster)
	assert.Equal(t, "Amix", a.Pet.Persona().Identity().Name)

	a.Pet.Talk(context.Background())
	flushed := a.Flush(context.Background())
	assert.NotEmpty(t, flushed)
	assert.Empty(t, a.Pet.DrainEvents())
}

func TestNew_UnknownLore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Lore = "nobody"
	_, err := New(context.Background(), cfg, testLogger())
	assert.ErrorIs(t, err, storage.ErrLoreNotFound)
	assert.Contains(t, err.Error(), "available: amix")
}

func TestNew_UnknownLoreListsFiles(t *testing.T) {
	cfg := testConfig(t)
	loreDir := filepath.Join(cfg.DataDir, "lore")
	require.NoError(t, os.MkdirAll(loreDir, 0o755))
	src, err := os.ReadFile("../../data/lore/amix_es.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(loreDir, "amix_es.json"), src, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(loreDir, "broken.json"), []byte("{"), 0o644))

	cfg.Lore = "nobody"
	_, err = New(context.Background(), cfg, testLogger())
	require.ErrorIs(t, err, storage.ErrLoreNotFound)
	assert.Contains(t, err.Error(), "available: amix, amix_es)")
	assert.NotContains(t, err.Error(), "broken")
}

func TestNew_BadRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "not-a-url"
	_, err := New(context.Background(), cfg, testLogger())
	require.Error(t, err)
}

func TestFlush_PublishesToFeed(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	ctx := context.Background()
	a, err := New(ctx, cfg, testLogger())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	require.NotNil(t, a.Broadcaster)

	_, err = a.Pet.DropItem()
	require.NoError(t, err)
	flushed := a.Flush(ctx)
	require.NotEmpty(t, flushed)
	assert.Equal(t, pet.EventTypeItemDropped, flushed[0].Type)

	mr.Close()
	a.Pet.Talk(ctx)
	assert.NotEmpty(t, a.Flush(ctx), "events survive a feed failure")
}
