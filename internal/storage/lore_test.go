package storage

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/amix-engine/pkg/phrases"
)

func testStore(t *testing.T) (*LoreStore, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lore"), 0o755))
	return NewLoreStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func writeLore(t *testing.T, dir, stem string, l *phrases.Lore) {
	t.Helper()
	data, err := json.Marshal(l)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lore", stem+".json"), data, 0o644))
}

func TestGetLore_BuiltIn(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "default", "amix", "amix.json"} {
		l, err := store.GetLore(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, "Amix", l.Name)
	}
}

func TestGetLore_FromFile(t *testing.T) {
	store, dir := testStore(t)
	custom := phrases.DefaultLore()
	custom.Name = "Zib"
	writeLore(t, dir, "zib", custom)

	l, err := store.GetLore(context.Background(), "zib")
	require.NoError(t, err)
	assert.Equal(t, "Zib", l.Name)
	assert.Equal(t, custom.Templates, l.Templates)
}

func TestGetLore_FileOverridesBuiltIn(t *testing.T) {
	store, dir := testStore(t)
	custom := phrases.DefaultLore()
	custom.Homeworld = "Elsewhere"
	writeLore(t, dir, "amix", custom)

	l, err := store.GetLore(context.Background(), "amix")
	require.NoError(t, err)
	assert.Equal(t, "Elsewhere", l.Homeworld)
}

func TestGetLore_NotFound(t *testing.T) {
	store, _ := testStore(t)

	_, err := store.GetLore(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrLoreNotFound)
}

func TestGetLore_InvalidName(t *testing.T) {
	store, _ := testStore(t)

	for _, name := range []string{"../secrets", "My-Lore", "a b"} {
		_, err := store.GetLore(context.Background(), name)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "invalid lore name")
	}
}

func TestGetLore_StrictRejectsUnknownFields(t *testing.T) {
	store, dir := testStore(t)
	path := filepath.Join(dir, "lore", "odd.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Odd","wings":2}`), 0o644))

	_, err := store.GetLore(context.Background(), "odd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load lore odd")
}

func TestListLore(t *testing.T) {
	store, dir := testStore(t)
	a := phrases.DefaultLore()
	writeLore(t, dir, "amix", a)
	b := phrases.DefaultLore()
	b.Name = "Zib"
	writeLore(t, dir, "zib", b)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lore", "broken.json"), []byte(`{`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lore", "notes.txt"), []byte(`hi`), 0o644))

	lore, err := store.ListLore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Amix": "amix", "Zib": "zib"}, lore)
}

func TestListLore_MissingDir(t *testing.T) {
	store := NewLoreStore(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	lore, err := store.ListLore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lore)
}

func TestValidLoreName(t *testing.T) {
	assert.True(t, ValidLoreName("amix_es"))
	assert.False(t, ValidLoreName("amix-es"))
	assert.False(t, ValidLoreName("_amix"))
}

func TestGetLore_YAML(t *testing.T) {
	store, dir := testStore(t)
	doc := `name: Zib
species: Glorp
homeworld: Vell
mood: content
energy: 50
templates: ["I like {thing}"]
placeholders:
  thing: [rocks]
variations:
  - {kind: emotional, suffix: ". It's great!"}
fallback:
  greetings: ["Hi!"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lore", "zib.yaml"), []byte(doc), 0o644))

	l, err := store.GetLore(context.Background(), "zib")
	require.NoError(t, err)
	assert.Equal(t, "Glorp", l.Species)

	l, err = store.GetLore(context.Background(), "zib.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Zib", l.Name)

	names, err := store.ListLore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Zib": "zib"}, names)
}
