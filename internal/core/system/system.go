package system

import "time"

// Phase defines execution ordering within a single tick. Later phases always
// observe the effects of earlier ones: a session accepted in PhaseJoin can be
// promoted and addressed by other players' messages in the same tick.
type Phase int

const (
	PhaseJoin       Phase = iota // 0: adopt newly authenticated sessions
	PhaseCharScreen              // 1: character screen messages
	PhasePromote                 // 2: promote waiting-to-log-in clients
	PhaseWorld                   // 3: in-world messages, combat timers
	PhaseLogout                  // 4: deferred logouts
	PhaseOutput                  // 5: flush buffered frames
	PhaseCleanup                 // 6: prune dead sessions
)

// System is one tick stage.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
