// Package system wires the world's tick stages into the phase runner.
package system

import (
	"time"

	core "github.com/frostmere/server/internal/core/system"
	"github.com/frostmere/server/internal/world"
)

// JoinSystem adopts newly authenticated sessions at the start of the tick.
type JoinSystem struct {
	World *world.World
}

func (s *JoinSystem) Phase() core.Phase { return core.PhaseJoin }

func (s *JoinSystem) Update(dt time.Duration) {
	s.World.AdoptJoins()
}

// CharScreenSystem dispatches character screen messages and promotions.
type CharScreenSystem struct {
	World *world.World
}

func (s *CharScreenSystem) Phase() core.Phase { return core.PhaseCharScreen }

func (s *CharScreenSystem) Update(dt time.Duration) {
	s.World.DispatchCharacterScreen()
}

// PromoteSystem completes logins accepted during the character screen
// drain, before any in-world messages are handled this tick.
type PromoteSystem struct {
	World *world.World
}

func (s *PromoteSystem) Phase() core.Phase { return core.PhasePromote }

func (s *PromoteSystem) Update(dt time.Duration) {
	s.World.PromotePending()
}

// WorldSystem dispatches in-world messages and advances combat.
type WorldSystem struct {
	World *world.World
}

func (s *WorldSystem) Phase() core.Phase { return core.PhaseWorld }

func (s *WorldSystem) Update(dt time.Duration) {
	s.World.DispatchWorld(dt)
}

// LogoutSystem completes logouts deferred during dispatch.
type LogoutSystem struct {
	World *world.World
}

func (s *LogoutSystem) Phase() core.Phase { return core.PhaseLogout }

func (s *LogoutSystem) Update(dt time.Duration) {
	s.World.ProcessLogouts()
}

// OutputSystem flushes buffered frames to the writer goroutines.
type OutputSystem struct {
	World *world.World
}

func (s *OutputSystem) Phase() core.Phase { return core.PhaseOutput }

func (s *OutputSystem) Update(dt time.Duration) {
	s.World.FlushOutput()
}

// CleanupSystem prunes dead sessions after everything else ran.
type CleanupSystem struct {
	World *world.World
}

func (s *CleanupSystem) Phase() core.Phase { return core.PhaseCleanup }

func (s *CleanupSystem) Update(dt time.Duration) {
	s.World.Prune()
}

// RegisterAll registers every stage on the runner.
func RegisterAll(r *core.Runner, w *world.World) {
	r.Register(&JoinSystem{World: w})
	r.Register(&CharScreenSystem{World: w})
	r.Register(&PromoteSystem{World: w})
	r.Register(&WorldSystem{World: w})
	r.Register(&LogoutSystem{World: w})
	r.Register(&OutputSystem{World: w})
	r.Register(&CleanupSystem{World: w})
}
