package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mohammad-safakhou/compscout/internal/agent/telemetry"
)

// ErrUnknownAgent is returned by Orchestrator.Run when a workflow step names
// an agent that was never registered. Unlike an agent execution failure, a
// missing agent aborts the whole run: the workflow itself is malformed.
var ErrUnknownAgent = errors.New("unknown agent")

// Orchestrator owns the agent registry and runs workflows against it.
// Registration happens once at startup; Run can then be called concurrently
// because the registry is never mutated afterwards.
type Orchestrator struct {
	agents    map[string]Agent
	logger    *log.Logger
	telemetry *telemetry.Telemetry
}

func NewOrchestrator(tel *telemetry.Telemetry) *Orchestrator {
	return &Orchestrator{
		agents:    map[string]Agent{},
		logger:    log.New(os.Stdout, "[ORCH] ", log.LstdFlags),
		telemetry: tel,
	}
}

// Register adds an agent under its own name. Registering the same name twice
// replaces the previous agent silently; the last registration wins.
func (o *Orchestrator) Register(agent Agent) {
	o.agents[agent.Name()] = agent
	o.logger.Printf("registered agent: %s", agent.Name())
}

// Run executes the workflow steps strictly in order, one at a time, and
// returns the final result of each agent keyed by agent name. If an agent
// appears in more than one step, its later result overwrites the earlier one.
//
// A step whose agent returns an error does not stop the workflow: the error
// is recorded as that agent's result ({"error": ...}) and execution moves on.
// Only an unregistered agent name aborts the run, wrapping ErrUnknownAgent.
func (o *Orchestrator) Run(ctx context.Context, steps []WorkflowStep) (map[string]map[string]interface{}, error) {
	results := map[string]map[string]interface{}{}

	for _, step := range steps {
		agent, ok := o.agents[step.Agent]
		if !ok {
			return nil, fmt.Errorf("workflow step %q: %w: %s", step.Action, ErrUnknownAgent, step.Agent)
		}

		o.logger.Printf("executing step: agent=%s action=%s", step.Agent, step.Action)
		started := time.Now()
		result, err := agent.Execute(ctx, step.Params)
		o.telemetry.RecordAgentExecution(step.Agent, time.Since(started), err)
		if err != nil {
			o.logger.Printf("agent %s failed: %v", step.Agent, err)
			results[step.Agent] = map[string]interface{}{"error": err.Error()}
			continue
		}
		results[step.Agent] = result
	}

	return results, nil
}
