package finder

import (
	"context"

	"github.com/google/uuid"
	"github.com/martinsuchenak/portfinder/internal/log"
	"github.com/martinsuchenak/portfinder/internal/mac"
	"github.com/martinsuchenak/portfinder/internal/model"
	"golang.org/x/sync/errgroup"
)

// Fleet runs the walker against a list of agents
type Fleet struct {
	walker      *Walker
	concurrency int
}

// NewFleet creates a fleet iterator. A concurrency of 1 or less walks agents
// strictly one after another.
func NewFleet(walker *Walker, concurrency int) *Fleet {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fleet{walker: walker, concurrency: concurrency}
}

// Locate resolves macText on every agent. The address is validated once,
// before any agent is contacted; a validation error is the only error Locate
// returns. Per-agent failures are carried in the results. report, if set, is
// called once per agent in list order as results become available.
func (f *Fleet) Locate(ctx context.Context, macText string, agents []model.Agent, report func(model.Result)) ([]model.Result, error) {
	suffix, err := mac.Parse(macText)
	if err != nil {
		return nil, err
	}

	runID := generateID()
	log.Info("Locating MAC address", "run_id", runID, "mac", macText, "suffix", suffix.String(), "agents", len(agents), "concurrency", f.concurrency)

	results := make([]model.Result, len(agents))

	if f.concurrency == 1 {
		for i, agent := range agents {
			results[i] = f.locateOne(ctx, runID, macText, suffix, agent)
			if report != nil {
				report(results[i])
			}
		}
		return results, nil
	}

	done := make([]chan struct{}, len(agents))
	for i := range done {
		done[i] = make(chan struct{})
	}

	// Walks never return errors to the group, so one agent's failure cannot
	// cancel the others.
	var g errgroup.Group
	g.SetLimit(f.concurrency)
	go func() {
		for i, agent := range agents {
			g.Go(func() error {
				defer close(done[i])
				results[i] = f.locateOne(ctx, runID, macText, suffix, agent)
				return nil
			})
		}
		g.Wait()
	}()

	for i := range agents {
		<-done[i]
		if report != nil {
			report(results[i])
		}
	}

	return results, nil
}

func (f *Fleet) locateOne(ctx context.Context, runID, macText string, suffix mac.RowSuffix, agent model.Agent) model.Result {
	out, err := f.walker.Find(ctx, agent, suffix)
	if err != nil {
		log.Error("Agent walk failed", "run_id", runID, "agent", agent.Address, "state", out.State.String(), "requests", out.Requests, "error", err)
	} else {
		log.Debug("Agent walk finished", "run_id", runID, "agent", agent.Address, "state", out.State.String(), "requests", out.Requests, "port", out.Port)
	}

	return model.NewResult(macText, agent.Address, out.Port, out.State == Matched && err == nil, err)
}

// AnyFound reports whether at least one agent matched
func AnyFound(results []model.Result) bool {
	for _, r := range results {
		if r.Found {
			return true
		}
	}
	return false
}

// generateID generates a unique run ID
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
