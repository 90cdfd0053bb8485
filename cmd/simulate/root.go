package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/amix-engine/internal/app"
	"github.com/jwebster45206/amix-engine/internal/config"
	"github.com/jwebster45206/amix-engine/internal/logger"
	"github.com/jwebster45206/amix-engine/pkg/pet"
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the pet headless",
	Long: "Runs the pet without a display for a fixed number of ticks, talking and dropping " +
		"leaves on a schedule, and logs everything it does. Configuration comes from the " +
		"environment; flags override it.",
	SilenceUsage: true,
	RunE:         runSimulate,
}

func init() {
	rootCmd.Flags().IntP("ticks", "n", 3600, "Number of ticks to run")
	rootCmd.Flags().Uint64P("seed", "s", 0, "Random seed (default: $SEED, 0 picks one)")
	rootCmd.Flags().StringP("lore", "l", "", "Lore name (default: $LORE)")
	rootCmd.Flags().Duration("talk-every", 5*time.Second, "Pet clock time between talks (0 disables)")
	rootCmd.Flags().Duration("drop-every", 20*time.Second, "Pet clock time between leaf drops (0 disables)")
	rootCmd.Flags().Bool("realtime", false, "Sleep one tick between ticks")
}

// plan is the scripted interaction schedule, in pet clock time.
type plan struct {
	ticks     int
	talkEvery time.Duration
	dropEvery time.Duration
	realtime  bool
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("lore") {
		cfg.Lore, _ = cmd.Flags().GetString("lore")
	}

	var p plan
	p.ticks, _ = cmd.Flags().GetInt("ticks")
	p.talkEvery, _ = cmd.Flags().GetDuration("talk-every")
	p.dropEvery, _ = cmd.Flags().GetDuration("drop-every")
	p.realtime, _ = cmd.Flags().GetBool("realtime")
	if p.ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", p.ticks)
	}

	log, closer, err := logger.Setup(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	log.Info("Starting simulation",
		"ticks", p.ticks,
		"tick_rate", cfg.TickRate,
		"seed", cfg.Seed,
		"lore", cfg.Lore,
		"backend", cfg.Backend)

	summary := simulate(ctx, a, cfg.TickRate, p)
	log.Info("Simulation finished",
		"elapsed", summary.elapsed,
		"speeches", summary.speeches,
		"fallbacks", summary.fallbacks,
		"waypoints", summary.waypoints,
		"items", summary.items,
		"mood", a.Pet.Persona().Mood(),
		"energy", a.Pet.Persona().Energy())
	return nil
}

type summary struct {
	elapsed   time.Duration
	speeches  int
	fallbacks int // speeches taken straight from the fallback bank
	waypoints int
	items     int
}

// simulate ticks the pet and reports what happened. It stops early when
// ctx is cancelled.
func simulate(ctx context.Context, a *app.App, tickRate time.Duration, p plan) summary {
	var (
		s        summary
		nextTalk = p.talkEvery
		nextDrop = p.dropEvery
	)

	var ticker *time.Ticker
	if p.realtime {
		ticker = time.NewTicker(tickRate)
		defer ticker.Stop()
	}

	for i := 0; i < p.ticks; i++ {
		if ctx.Err() != nil {
			break
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}

		a.Pet.Tick(ctx, tickRate)
		elapsed := a.Pet.View().Elapsed

		if p.talkEvery > 0 && elapsed >= nextTalk {
			a.Pet.Click()
			nextTalk += p.talkEvery
		}
		if p.dropEvery > 0 && elapsed >= nextDrop {
			if _, err := a.Pet.DropItem(); err != nil {
				a.Logger.Debug("Leaf not dropped", "error", err)
			}
			nextDrop += p.dropEvery
		}

		for _, event := range a.Flush(ctx) {
			logEvent(a.Logger, event)
			switch event.Type {
			case pet.EventTypeSpeech:
				s.speeches++
				if text, _ := event.Data["text"].(string); a.Pet.Lore().BankContains(text) {
					s.fallbacks++
				}
			case pet.EventTypeWaypointReached:
				s.waypoints++
			case pet.EventTypeItemConsumed:
				s.items++
			}
		}
	}

	s.elapsed = a.Pet.View().Elapsed
	return s
}

func logEvent(log *slog.Logger, event pet.Event) {
	attrs := []any{"type", event.Type, "at", event.At}
	for k, v := range event.Data {
		attrs = append(attrs, k, v)
	}

	switch event.Type {
	case pet.EventTypeSpeech, pet.EventTypeItemConsumed, pet.EventTypeMoodChanged:
		log.Info("Pet event", attrs...)
	default:
		log.Debug("Pet event", attrs...)
	}
}
