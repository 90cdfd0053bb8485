package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/jwebster45206/amix-engine/pkg/phrases"
)

// DefaultLoreName selects the built-in lore when no file overrides it.
const DefaultLoreName = "amix"

var ErrLoreNotFound = errors.New("lore not found")

var loreNamePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// loreExtensions are tried in order when resolving a lore name.
var loreExtensions = []string{".json", ".yaml", ".yml"}

// LoreStore loads lore files from <dataDir>/lore.
type LoreStore struct {
	dataDir string
	logger  *slog.Logger
}

func NewLoreStore(dataDir string, logger *slog.Logger) *LoreStore {
	return &LoreStore{dataDir: dataDir, logger: logger}
}

// ValidLoreName reports whether name is a lowercase snake_case file stem.
func ValidLoreName(name string) bool {
	return loreNamePattern.MatchString(name)
}

func (s *LoreStore) loreDir() string {
	return filepath.Join(s.dataDir, "lore")
}

// ListLore maps each readable lore's persona name to its file stem. Files
// that fail to parse are logged and skipped.
func (s *LoreStore) ListLore(ctx context.Context) (map[string]string, error) {
	lore := make(map[string]string)

	err := filepath.WalkDir(s.loreDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		ext := filepath.Ext(path)
		if d.IsDir() || !slices.Contains(loreExtensions, ext) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Failed to read lore file", "path", path, "error", err)
			return nil
		}
		l, err := parseLore(data, ext, false)
		if err != nil {
			s.logger.Warn("Skipping invalid lore file", "path", path, "error", err)
			return nil
		}

		lore[l.Name] = strings.TrimSuffix(filepath.Base(path), ext)
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to walk lore directory", "error", err)
		return nil, fmt.Errorf("failed to list lore: %w", err)
	}

	return lore, nil
}

// GetLore loads <name>.json, .yaml or .yml strictly. The built-in lore
// answers for the default name, or an empty one, when no such file exists.
func (s *LoreStore) GetLore(ctx context.Context, name string) (*phrases.Lore, error) {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "default" {
		name = DefaultLoreName
	}
	if !ValidLoreName(name) {
		return nil, fmt.Errorf("invalid lore name %q: must be lowercase snake_case", name)
	}

	for _, ext := range loreExtensions {
		path := filepath.Join(s.loreDir(), name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read lore file: %w", err)
		}

		s.logger.Debug("Loading lore", "name", name, "path", path)
		l, err := parseLore(data, ext, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load lore %s: %w", name, err)
		}
		return l, nil
	}

	if name == DefaultLoreName {
		s.logger.Debug("Using built-in lore", "name", name)
		return phrases.DefaultLore(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrLoreNotFound, name)
}

func parseLore(data []byte, ext string, strict bool) (*phrases.Lore, error) {
	if ext == ".json" {
		return phrases.ParseLore(data, strict)
	}
	return phrases.ParseLoreYAML(data, strict)
}
