// Package app wires configuration, lore, the generation backend and the
// optional event feed into a running pet.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/amix-engine/internal/config"
	"github.com/jwebster45206/amix-engine/internal/logger"
	"github.com/jwebster45206/amix-engine/internal/services"
	"github.com/jwebster45206/amix-engine/internal/services/events"
	"github.com/jwebster45206/amix-engine/internal/storage"
	"github.com/jwebster45206/amix-engine/pkg/patrol"
	"github.com/jwebster45206/amix-engine/pkg/pet"
	"github.com/jwebster45206/amix-engine/pkg/random"
	"github.com/jwebster45206/amix-engine/pkg/textfilter"
)

// App is one pet session.
type App struct {
	Pet         *pet.Pet
	Broadcaster *events.Broadcaster // nil when REDIS_URL is empty
	SessionID   uuid.UUID
	Logger      *slog.Logger
}

// New builds the session described by cfg. The generation backend is
// probed here so the first talk does not block.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	sessionID := uuid.New()
	log = logger.WithSession(log, sessionID.String())

	store := storage.NewLoreStore(cfg.DataDir, log)
	lore, err := store.GetLore(ctx, cfg.Lore)
	if errors.Is(err, storage.ErrLoreNotFound) {
		return nil, fmt.Errorf("%w (available: %s)", err, availableLore(ctx, store))
	}
	if err != nil {
		return nil, err
	}

	backend, err := services.NewBackend(cfg, log)
	if err != nil {
		return nil, err
	}

	patrolCfg := patrol.DefaultConfig()
	patrolCfg.Speed = cfg.MovementSpeed

	p, err := pet.New(pet.Options{
		Lore:    lore,
		Backend: backend,
		Patrol:  &patrolCfg,
		Rand:    random.New(cfg.Seed),
		Filter:  textfilter.NewFilter(cfg.ContentRating),
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	p.Ready(probeCtx)

	a := &App{Pet: p, SessionID: sessionID, Logger: log}

	if cfg.RedisURL != "" {
		client, err := events.Connect(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		a.Broadcaster = events.NewBroadcaster(client, sessionID, log)
		log.Info("Publishing pet events", "channel", a.Broadcaster.Channel())
	}

	return a, nil
}

// availableLore names the lore files on disk plus the built-in default.
func availableLore(ctx context.Context, store *storage.LoreStore) string {
	names := []string{storage.DefaultLoreName}
	if found, err := store.ListLore(ctx); err == nil {
		for _, stem := range slices.Sorted(maps.Values(found)) {
			if !slices.Contains(names, stem) {
				names = append(names, stem)
			}
		}
	}
	return strings.Join(names, ", ")
}

// Flush drains the pet's events and forwards them to the feed. A feed
// failure is logged and the events are still returned to the host.
func (a *App) Flush(ctx context.Context) []pet.Event {
	drained := a.Pet.DrainEvents()
	if a.Broadcaster != nil && len(drained) > 0 {
		if err := a.Broadcaster.PublishAll(ctx, drained); err != nil {
			a.Logger.Warn("Failed to forward pet events", "error", err, "count", len(drained))
		}
	}
	return drained
}

// Close releases the event feed.
func (a *App) Close() error {
	if a.Broadcaster == nil {
		return nil
	}
	return a.Broadcaster.Close()
}
