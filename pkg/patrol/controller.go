// Package patrol drives a single actor between cyclic waypoints, or toward
// an override target that takes precedence until it is reached.
package patrol

import (
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jwebster45206/amix-engine/pkg/schedule"
)

// State is the controller's logical state.
type State int

const (
	StateIdle State = iota
	StatePatrolling
	StateSeeking
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePatrolling:
		return "patrolling"
	case StateSeeking:
		return "seeking"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// headingOffset turns the model so its front faces the direction of travel.
const headingOffset = 3 * math.Pi / 2

// Scheduler slots.
const (
	slotCheck   = "patrol.check"
	slotAdvance = "patrol.advance"
)

// Hooks are called synchronously from Tick and the mutators. Any may be nil.
type Hooks struct {
	OnLegStart        func(target mgl64.Vec2, seeking bool)
	OnWaypointReached func(index int, at mgl64.Vec2)
	OnTargetConsumed  func(at mgl64.Vec2)
}

// Snapshot is a copy of the locomotion state.
type Snapshot struct {
	State           State
	Position        mgl64.Vec2
	Height          float64
	Heading         float64
	Waypoints       []mgl64.Vec2
	CurrentWaypoint int
	Target          *mgl64.Vec2
	Override        bool
	Moving          bool
	Paused          bool
	Speed           float64
}

// Controller owns the PatrolState and mutates it on every tick.
type Controller struct {
	cfg       Config
	position  mgl64.Vec2
	heading   float64
	waypoints []mgl64.Vec2
	current   int
	override  *mgl64.Vec2
	moving    bool
	paused    bool

	sched     *schedule.Scheduler
	ownsSched bool
	hooks     Hooks
	logger    *slog.Logger
}

// NewController places the actor at cfg.Start and arms the first patrol
// check after cfg.StartDelay.
func NewController(cfg Config, hooks Hooks, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		cfg:       cfg,
		position:  cfg.Start,
		waypoints: append([]mgl64.Vec2(nil), cfg.Waypoints...),
		sched:     cfg.Scheduler,
		hooks:     hooks,
		logger:    logger,
	}
	if c.sched == nil {
		c.sched = schedule.New()
		c.ownsSched = true
	}
	c.sched.Schedule(slotCheck, cfg.StartDelay, c.check)
	return c
}

// State derives the logical state from the flags.
func (c *Controller) State() State {
	switch {
	case c.paused:
		return StatePaused
	case c.moving && c.override != nil:
		return StateSeeking
	case c.moving:
		return StatePatrolling
	default:
		return StateIdle
	}
}

// Position returns the planar position.
func (c *Controller) Position() mgl64.Vec2 { return c.position }

// Heading returns the model's yaw in radians.
func (c *Controller) Heading() float64 { return c.heading }

// CurrentWaypoint returns the index of the waypoint being patrolled to.
func (c *Controller) CurrentWaypoint() int { return c.current }

// Elapsed returns the controller's clock.
func (c *Controller) Elapsed() time.Duration { return c.sched.Now() }

// Target returns the active destination, if any.
func (c *Controller) Target() (mgl64.Vec2, bool) {
	if c.override != nil {
		return *c.override, true
	}
	if len(c.waypoints) == 0 {
		return mgl64.Vec2{}, false
	}
	return c.waypoints[c.current], true
}

// Snapshot copies the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:           c.State(),
		Position:        c.position,
		Height:          c.cfg.GroundHeight,
		Heading:         c.heading,
		Waypoints:       append([]mgl64.Vec2(nil), c.waypoints...),
		CurrentWaypoint: c.current,
		Override:        c.override != nil,
		Moving:          c.moving,
		Paused:          c.paused,
		Speed:           c.cfg.Speed,
	}
	if target, ok := c.Target(); ok && c.moving {
		snap.Target = &target
	}
	return snap
}

// SetWaypoints replaces the patrol route. The index restarts at zero.
func (c *Controller) SetWaypoints(waypoints []mgl64.Vec2) {
	c.waypoints = append([]mgl64.Vec2(nil), waypoints...)
	c.current = 0
	if c.override == nil && c.moving && len(c.waypoints) == 0 {
		c.moving = false
	}
}

// SetOverrideTarget sends the actor to target ahead of the patrol. The
// switch is immediate from any state; while paused it takes effect on resume.
func (c *Controller) SetOverrideTarget(target mgl64.Vec2) {
	c.override = &target
	c.moving = true
	c.sched.Cancel(slotAdvance)

	c.logger.Debug("Override target set", "x", target.X(), "y", target.Y(), "paused", c.paused)
	if !c.paused {
		c.legStarted(target, true)
	}
}

// ClearOverrideTarget drops the override without consuming it. The patrol
// picks up again after LegDelay. No-op without an override.
func (c *Controller) ClearOverrideTarget() {
	if c.override == nil {
		return
	}
	c.override = nil
	c.moving = false
	c.logger.Debug("Override target cleared")
	if !c.paused {
		c.sched.Schedule(slotAdvance, c.cfg.LegDelay, c.rederive)
	}
}

// Pause freezes the actor. Any deferred advance is cancelled so a later
// resume cannot race it. Repeated calls are no-ops.
func (c *Controller) Pause() {
	if c.paused {
		return
	}
	c.paused = true
	c.sched.Cancel(slotAdvance)
	c.logger.Debug("Movement paused", "at", c.sched.Now())
}

// Resume unfreezes the actor. A leg in progress continues at once;
// otherwise the controller settles for SettleDelay, then decides whether to
// seek or patrol. No-op when not paused.
func (c *Controller) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	c.logger.Debug("Movement resumed", "at", c.sched.Now(), "moving", c.moving)

	if c.moving {
		if target, ok := c.Target(); ok {
			c.legStarted(target, c.override != nil)
		}
		return
	}
	c.sched.Schedule(slotAdvance, c.cfg.SettleDelay, c.rederive)
}

// Tick advances the controller's own clock by dt, fires due deferred
// actions and moves the actor one step toward its target. With a shared
// scheduler the clock is left to its owner and Tick only steps.
func (c *Controller) Tick(dt time.Duration) {
	if c.ownsSched {
		c.sched.Advance(max(dt, 0))
	}
	c.Step(dt)
}

// Step moves the actor by the distance covered in dt without touching the
// clock. Negative durations do not move it.
func (c *Controller) Step(dt time.Duration) {
	c.step(max(dt, 0))
}

// check is the periodic patrol trigger.
func (c *Controller) check() {
	c.sched.Schedule(slotCheck, c.cfg.PatrolInterval, c.check)
	if !c.moving && !c.paused && c.override == nil {
		c.startLeg()
	}
}

// startLeg heads for the current waypoint. No-op while an override is
// pending or there is nowhere to go.
func (c *Controller) startLeg() {
	if c.override != nil || len(c.waypoints) == 0 {
		return
	}
	c.moving = true
	c.legStarted(c.waypoints[c.current], false)
}

// rederive picks seek or patrol after a delay, if still idle.
func (c *Controller) rederive() {
	if c.paused || c.moving {
		return
	}
	if c.override != nil {
		c.moving = true
		c.legStarted(*c.override, true)
		return
	}
	c.startLeg()
}

func (c *Controller) legStarted(target mgl64.Vec2, seeking bool) {
	c.logger.Debug("Leg started", "x", target.X(), "y", target.Y(), "seeking", seeking, "waypoint", c.current)
	if c.hooks.OnLegStart != nil {
		c.hooks.OnLegStart(target, seeking)
	}
}

func (c *Controller) step(dt time.Duration) {
	if c.paused || !c.moving {
		return
	}
	target, ok := c.Target()
	if !ok {
		c.moving = false
		return
	}

	delta := target.Sub(c.position)
	dist := delta.Len()
	if dist >= c.cfg.Epsilon {
		dir := delta.Normalize()
		c.heading = math.Atan2(dir.X(), dir.Y()) + headingOffset

		stride := c.cfg.Speed * float64(dt) / float64(c.cfg.FrameDuration)
		if stride >= dist {
			c.position = target
		} else {
			c.position = c.position.Add(dir.Mul(stride))
		}
		dist = target.Sub(c.position).Len()
	}

	if dist < c.cfg.Epsilon {
		c.arrive(target)
	}
}

// arrive snaps onto target and ends the leg: an override is consumed, a
// waypoint advances the index. Never both.
func (c *Controller) arrive(target mgl64.Vec2) {
	c.position = target
	c.moving = false

	if c.override != nil {
		c.override = nil
		c.logger.Debug("Override target reached", "x", target.X(), "y", target.Y())
		if c.hooks.OnTargetConsumed != nil {
			c.hooks.OnTargetConsumed(target)
		}
		c.sched.Schedule(slotAdvance, c.cfg.ConsumeDelay, c.rederive)
		return
	}

	reached := c.current
	c.current = (c.current + 1) % len(c.waypoints)
	c.logger.Debug("Waypoint reached", "index", reached, "next", c.current)
	if c.hooks.OnWaypointReached != nil {
		c.hooks.OnWaypointReached(reached, target)
	}
	c.sched.Schedule(slotAdvance, c.cfg.LegDelay, c.rederive)
}
