package converge

import (
	"context"
	"fmt"
	"time"

	"github.com/gns3ops/gns3ctl/internal/gns3"
	gnserrors "github.com/gns3ops/gns3ctl/pkg/errors"
)

// State is a desired node lifecycle state. Reload is special: it has no
// stable end-state check and is re-issued on every run.
type State string

const (
	StateStarted   State = "started"
	StateStopped   State = "stopped"
	StateSuspended State = "suspended"
	StateReload    State = "reload"
)

// Idempotent reports whether reaching the state is a no-op when the node
// already holds it.
func (s State) Idempotent() bool {
	return s != StateReload
}

// Action maps the desired state onto the transition the server understands.
func (s State) Action() gns3.Action {
	switch s {
	case StateStarted:
		return gns3.ActionStart
	case StateStopped:
		return gns3.ActionStop
	case StateSuspended:
		return gns3.ActionSuspend
	case StateReload:
		return gns3.ActionReload
	}
	return ""
}

// Strategy is the temporal policy for applying transitions across nodes.
type Strategy string

const (
	// StrategyAll issues every transition back to back, then waits once for
	// the lab to settle.
	StrategyAll Strategy = "all"
	// StrategyOneByOne paces transitions with a delay between nodes.
	StrategyOneByOne Strategy = "one_by_one"
)

// Transitioner is the narrow slice of the GNS3 client the controller needs.
type Transitioner interface {
	Transition(ctx context.Context, projectID, nodeID string, action gns3.Action) error
}

// Options tunes a convergence run.
type Options struct {
	Strategy Strategy
	// Delay in seconds. Settle wait for StrategyAll, inter-node pause for
	// StrategyOneByOne.
	Delay int
	// Retry re-issues a failed transition exactly once before surfacing
	// the error.
	Retry bool
	// Sleeper defaults to real wall-clock sleeping when nil.
	Sleeper Sleeper
}

func (o *Options) validate(desired State) error {
	switch o.Strategy {
	case StrategyAll, StrategyOneByOne:
	default:
		return gnserrors.NewValidationError("strategy", fmt.Sprintf("unknown strategy %q", o.Strategy), nil)
	}
	if o.Delay < 0 {
		return gnserrors.NewValidationError("delay", "must be zero or greater", nil)
	}
	if desired.Action() == "" {
		return gnserrors.NewValidationError("state", fmt.Sprintf("unknown desired state %q", desired), nil)
	}
	return nil
}

// NodeChange records what happened to one node during a run.
type NodeChange struct {
	NodeID  string `json:"node_id"`
	Name    string `json:"name"`
	Changed bool   `json:"changed"`
}

// Outcome reports a convergence run. Changed is the logical OR of the
// per-node flags.
type Outcome struct {
	Changed bool         `json:"changed"`
	Nodes   []NodeChange `json:"nodes"`
}

// Converge drives every node toward the desired state, in input order, one
// transition at a time. Nodes already holding an idempotent desired state
// are skipped without a remote call. The first transition failure aborts
// the run (fail-fast); the returned Outcome still lists the nodes changed
// before the failure so the operator can see how far the run got.
//
// Waiting semantics: one_by_one sleeps Delay after each issued transition
// except when no node remains after it; all sleeps Delay exactly once
// after the loop, and only if at least one transition was issued, so fully
// converged runs return without waiting.
func Converge(ctx context.Context, tr Transitioner, projectID string, nodes []gns3.Node, desired State, opts Options) (*Outcome, error) {
	if err := opts.validate(desired); err != nil {
		return nil, err
	}

	outcome := &Outcome{}
	if len(nodes) == 0 {
		return outcome, nil
	}

	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = WallClock{}
	}
	delay := time.Duration(opts.Delay) * time.Second
	issued := 0

	for i := range nodes {
		node := &nodes[i]

		if desired.Idempotent() && node.Status == string(desired) {
			outcome.Nodes = append(outcome.Nodes, NodeChange{NodeID: node.NodeID, Name: node.Name, Changed: false})
			continue
		}

		if err := transitionOnce(ctx, tr, projectID, node.NodeID, desired.Action(), opts.Retry); err != nil {
			outcome.Nodes = append(outcome.Nodes, NodeChange{NodeID: node.NodeID, Name: node.Name, Changed: false})
			return outcome, fmt.Errorf("converging node %s: %w", nameOf(node), err)
		}

		issued++
		outcome.Nodes = append(outcome.Nodes, NodeChange{NodeID: node.NodeID, Name: node.Name, Changed: true})
		outcome.Changed = true

		if opts.Strategy == StrategyOneByOne && i < len(nodes)-1 {
			if err := sleeper.Sleep(ctx, delay); err != nil {
				return outcome, err
			}
		}
	}

	if opts.Strategy == StrategyAll && issued > 0 {
		if err := sleeper.Sleep(ctx, delay); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

func transitionOnce(ctx context.Context, tr Transitioner, projectID, nodeID string, action gns3.Action, retry bool) error {
	err := tr.Transition(ctx, projectID, nodeID, action)
	if err == nil || !retry {
		return err
	}
	return tr.Transition(ctx, projectID, nodeID, action)
}

func nameOf(node *gns3.Node) string {
	if node.Name != "" {
		return node.Name
	}
	return node.NodeID
}
