package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/model/session"
	"voiceorder/internal/pkg/errs"
)

// ErrOrchestrationLoop is the unwrap target raised when routing an intent
// needs more handoffs than the configured bound allows.
var ErrOrchestrationLoop = errors.New("orchestration loop")

// contextReplayDepth is how many caller utterances the condensed summary
// replays to an agent receiving a handoff.
const contextReplayDepth = 3

// OrchestrationLoopError reports a routing path that exceeded the handoff
// bound within a single turn.
type OrchestrationLoopError struct {
	Intent agent.Intent
	Hops   int
	Bound  int
}

// NewOrchestrationLoopError creates an OrchestrationLoopError for the given intent and path.
func NewOrchestrationLoopError(intent agent.Intent, hops, bound int) *OrchestrationLoopError {
	return &OrchestrationLoopError{Intent: intent, Hops: hops, Bound: bound}
}

func (e *OrchestrationLoopError) Error() string {
	return fmt.Sprintf("%s: routing %s needs %d handoffs, bound is %d",
		ErrOrchestrationLoop, e.Intent, e.Hops, e.Bound)
}

func (e *OrchestrationLoopError) Unwrap() error {
	return ErrOrchestrationLoop
}

// Turn is one caller utterance reduced against a session: the raw text, the
// intent the NLU collaborator tagged it with, and the tool context the
// resolved agent executes against.
type Turn struct {
	Utterance string
	Intent    agent.Intent
	Context   *ToolContext
}

// Orchestrator routes each caller turn to the agent that can resolve it,
// recording handoffs on the session along the way. One Orchestrator serves
// all sessions; per-session serialization is the caller's concern.
type Orchestrator struct {
	registry     *agent.Registry
	executors    map[agent.ID]Agent
	handoffBound int
}

// NewOrchestrator wires the capability table to the agent executors. Every
// registered agent must have exactly one executor with a matching ID.
func NewOrchestrator(registry *agent.Registry, handoffBound int, agents ...Agent) (*Orchestrator, error) {
	if registry == nil {
		return nil, errs.NewValueIsRequiredError("registry")
	}
	if handoffBound < 1 {
		return nil, errs.NewValueIsOutOfRangeError("handoffBound", handoffBound, 1, len(agent.AllIDs()))
	}

	executors := make(map[agent.ID]Agent, len(agents))
	for _, a := range agents {
		if !registry.Contains(a.ID()) {
			return nil, errs.NewValueIsInvalidError("executor " + a.ID().String())
		}
		if _, dup := executors[a.ID()]; dup {
			return nil, errs.NewValueIsInvalidError("duplicate executor " + a.ID().String())
		}
		executors[a.ID()] = a
	}
	for _, id := range agent.AllIDs() {
		if registry.Contains(id) {
			if _, ok := executors[id]; !ok {
				return nil, errs.NewValueIsRequiredError("executor for " + id.String())
			}
		}
	}

	return &Orchestrator{
		registry:     registry,
		executors:    executors,
		handoffBound: handoffBound,
	}, nil
}

// Reduce applies one caller turn to the session: it rejects expired
// sessions, appends the utterance, routes the intent through the handoff
// graph, executes the resolved agent, and appends the spoken reply.
//
// Domain rule violations raised by the agent do not fail the turn; they are
// translated into a caller-safe reply with no order mutation. Only
// infrastructure errors propagate.
func (o *Orchestrator) Reduce(ctx context.Context, sess *session.Session, turn Turn) (Result, error) {
	if sess == nil {
		return Result{}, errs.NewValueIsRequiredError("session")
	}
	if turn.Context == nil {
		return Result{}, errs.NewValueIsRequiredError("tool context")
	}
	if err := sess.CheckExpired(turn.Context.Now); err != nil {
		return Result{}, err
	}

	sess.AppendUtterance(session.SpeakerCaller, turn.Utterance, turn.Context.Now)
	sess.Touch(turn.Context.Now)

	result, err := o.dispatch(ctx, sess, turn)
	if err != nil {
		if safe, ok := safeReply(err); ok {
			result = Result{Reply: safe}
		} else {
			return Result{}, err
		}
	}

	sess.AppendUtterance(session.SpeakerAgent, result.Reply, turn.Context.Now)
	return result, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, sess *session.Session, turn Turn) (Result, error) {
	path, err := o.route(sess.ActiveAgent(), turn.Intent)
	if err != nil {
		var loopErr *OrchestrationLoopError
		if errors.As(err, &loopErr) {
			return o.forceSupport(ctx, sess, turn, loopErr)
		}
		return Result{}, err
	}
	if path == nil {
		return Result{Reply: clarificationReply(turn.Intent)}, nil
	}

	for _, hop := range path {
		if err := sess.RecordHandoff(hop, "routing "+turn.Intent.String(), turn.Context.Now); err != nil {
			return Result{}, err
		}
	}
	if len(path) > 0 {
		turn.Context.Summary = sess.ContextSummary(contextReplayDepth)
	}

	return o.execute(ctx, sess.ActiveAgent(), turn)
}

// route finds the shortest handoff path from the active agent to an agent
// accepting the intent. A nil path with nil error means no reachable agent
// accepts the intent; a path longer than the bound is an orchestration loop.
func (o *Orchestrator) route(from agent.ID, intent agent.Intent) ([]agent.ID, error) {
	start, err := o.registry.Lookup(from)
	if err != nil {
		return nil, err
	}
	if start.Accepted.Contains(intent) {
		return []agent.ID{}, nil
	}

	type node struct {
		id   agent.ID
		path []agent.ID
	}
	visited := map[agent.ID]struct{}{from: {}}
	queue := []node{{id: from}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		capability, err := o.registry.Lookup(current.id)
		if err != nil {
			return nil, err
		}
		for _, target := range capability.HandoffTargets {
			if _, seen := visited[target]; seen {
				continue
			}
			visited[target] = struct{}{}

			path := append(append([]agent.ID{}, current.path...), target)
			targetCap, err := o.registry.Lookup(target)
			if err != nil {
				return nil, err
			}
			if targetCap.Accepted.Contains(intent) {
				if len(path) > o.handoffBound {
					return nil, NewOrchestrationLoopError(intent, len(path), o.handoffBound)
				}
				return path, nil
			}
			queue = append(queue, node{id: target, path: path})
		}
	}

	return nil, nil
}

// forceSupport parks the session at customer support when routing blew the
// handoff bound. Support always answers something sensible, so the caller
// never hears about the routing failure itself.
func (o *Orchestrator) forceSupport(ctx context.Context, sess *session.Session, turn Turn, loopErr *OrchestrationLoopError) (Result, error) {
	if sess.ActiveAgent() != agent.CustomerSupport {
		if err := sess.RecordHandoff(agent.CustomerSupport, "handoff limit reached", turn.Context.Now); err != nil {
			return Result{}, err
		}
		turn.Context.Summary = sess.ContextSummary(contextReplayDepth)
	}

	capability, err := o.registry.Lookup(agent.CustomerSupport)
	if err != nil {
		return Result{}, err
	}
	if !capability.Accepted.Contains(turn.Intent) {
		return Result{Reply: "Let me connect you with our support team. How can we help?"}, nil
	}
	return o.execute(ctx, agent.CustomerSupport, turn)
}

func (o *Orchestrator) execute(ctx context.Context, id agent.ID, turn Turn) (Result, error) {
	executor, ok := o.executors[id]
	if !ok {
		return Result{}, errs.NewObjectNotFoundError("agent executor", id.String())
	}
	return executor.Execute(ctx, turn.Intent, turn.Context)
}

// clarificationReply is spoken when no reachable agent accepts the intent.
// The active agent stays put so the caller can simply rephrase.
func clarificationReply(intent agent.Intent) string {
	if intent == agent.IntentUnknown {
		return "Sorry, I didn't quite catch that. Could you rephrase?"
	}
	return "I can't help with that from here. Could you tell me more about what you need?"
}

// safeReply translates domain rule violations into lines the caller can
// act on. Anything not recognized is an infrastructure failure and is not
// translated.
func safeReply(err error) (string, bool) {
	var incomplete *order.IncompleteOrderError
	if errors.As(err, &incomplete) {
		return "Before I place the order I still need your " + strings.Join(incomplete.Missing, " and ") + ".", true
	}

	switch {
	case errors.Is(err, order.ErrTerminalStateViolation):
		return "That order is already closed, so I can't change it anymore.", true
	case errors.Is(err, order.ErrLifecycleViolation):
		return "I'm sorry, the driver has already picked up your order, so it can no longer be cancelled.", true
	case errors.Is(err, order.ErrInvalidTransition):
		return "I can't move your order to that step yet.", true
	case errors.Is(err, order.ErrInvalidOrderState):
		return "I can't do that for your order right now.", true
	default:
		return "", false
	}
}
