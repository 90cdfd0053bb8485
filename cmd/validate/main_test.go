package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/amix-engine/pkg/phrases"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func marshalLore(t *testing.T, l *phrases.Lore) []byte {
	t.Helper()
	data, err := json.Marshal(l)
	require.NoError(t, err)
	return data
}

func TestValidateFile_BuiltInLore(t *testing.T) {
	path := writeFile(t, "amix.json", marshalLore(t, phrases.DefaultLore()))

	v := &LoreValidator{}
	assert.NoError(t, v.validateFile(path))
}

func TestValidateFile_SpanishSample(t *testing.T) {
	v := &LoreValidator{}
	assert.NoError(t, v.validateFile(filepath.Join("..", "..", "data", "lore", "amix_es.json")))
}

func TestValidateFile_Filename(t *testing.T) {
	data := marshalLore(t, phrases.DefaultLore())
	v := &LoreValidator{}

	err := v.validateFile(writeFile(t, "amix.txt", data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".json extension")

	err = v.validateFile(writeFile(t, "Amix-Lore.json", data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snake_case")
}

func TestValidateFile_InvalidJSON(t *testing.T) {
	v := &LoreValidator{}
	err := v.validateFile(writeFile(t, "broken.json", []byte(`{"name":`)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestValidateFile_UnknownField(t *testing.T) {
	v := &LoreValidator{}
	err := v.validateFile(writeFile(t, "odd.json", []byte(`{"name":"Odd","tail":true}`)))
	require.Error(t, err)
}

func TestValidateFile_EditorialChecks(t *testing.T) {
	l := phrases.DefaultLore()
	l.Fallback["gossip"] = []string{"Did you hear?"}
	delete(l.Fallback, phrases.CategoryGreetings)
	l.Variations[0].Kind = "sarcastic"
	l.Placeholders["unused"] = []string{"nothing"}

	v := &LoreValidator{}
	err := v.validateFile(writeFile(t, "edited.json", marshalLore(t, l)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback category 'gossip' is not one of")
	assert.Contains(t, err.Error(), "fallback category 'greetings' is missing")
	assert.Contains(t, err.Error(), "unknown kind 'sarcastic'")
	assert.Contains(t, err.Error(), "placeholder 'unused' is not used")
}

func TestValidateFile_RatingWarnings(t *testing.T) {
	l := phrases.DefaultLore()
	l.Placeholders["adjective"] = append(l.Placeholders["adjective"], "stupid")
	l.Fallback[phrases.CategoryFeelings] = append(l.Fallback[phrases.CategoryFeelings], "What the hell is this place?")

	v := &LoreValidator{}
	require.NoError(t, v.validateFile(writeFile(t, "rude.json", marshalLore(t, l))))
	require.Len(t, v.warnings, 2)
	assert.Contains(t, v.warnings[0], "placeholder 'adjective'")
	assert.Contains(t, v.warnings[1], "fallback 'feelings'")

	v = &LoreValidator{}
	require.NoError(t, v.validateFile(writeFile(t, "amix.json", marshalLore(t, phrases.DefaultLore()))))
	assert.Empty(t, v.warnings)
}
