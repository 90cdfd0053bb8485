package patrol

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/jwebster45206/amix-engine/pkg/schedule"
)

// Config holds the movement constants. Speed is distance per FrameDuration,
// so a tick of exactly FrameDuration moves the actor Speed units.
type Config struct {
	Waypoints     []mgl64.Vec2
	Start         mgl64.Vec2
	GroundHeight  float64
	Speed         float64
	Epsilon       float64
	FrameDuration time.Duration

	StartDelay     time.Duration // before the first patrol check
	PatrolInterval time.Duration // between patrol checks
	LegDelay       time.Duration // after reaching a waypoint
	ConsumeDelay   time.Duration // after consuming an override target
	SettleDelay    time.Duration // after resuming while idle

	// Scheduler is the clock the controller books its delays on. Nil gives
	// the controller a private one that Tick advances. A shared scheduler is
	// advanced by its owner, who calls Step instead of Tick.
	Scheduler *schedule.Scheduler
}

// DefaultConfig is the four-point patrol around the centre of a 20x20 ground.
func DefaultConfig() Config {
	return Config{
		Waypoints: []mgl64.Vec2{
			{-8, 0},
			{8, 0},
			{0, -8},
			{0, 8},
		},
		GroundHeight:   -0.5,
		Speed:          0.02,
		Epsilon:        0.1,
		FrameDuration:  16 * time.Millisecond,
		StartDelay:     2 * time.Second,
		PatrolInterval: 3 * time.Second,
		LegDelay:       500 * time.Millisecond,
		ConsumeDelay:   time.Second,
		SettleDelay:    time.Second,
	}
}

// Validate rejects constants the controller cannot run with. An empty
// waypoint list is allowed; the patrol simply stalls.
func (c Config) Validate() error {
	var errs []error
	if c.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speed must be positive, got %g", c.Speed))
	}
	if c.Epsilon <= 0 {
		errs = append(errs, fmt.Errorf("epsilon must be positive, got %g", c.Epsilon))
	}
	if c.FrameDuration <= 0 {
		errs = append(errs, errors.New("frame duration must be positive"))
	}
	if c.PatrolInterval <= 0 {
		errs = append(errs, errors.New("patrol interval must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid patrol config: %w", errors.Join(errs...))
	}
	return nil
}
