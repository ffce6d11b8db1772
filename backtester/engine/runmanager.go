package engine

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	qbtcommon "github.com/quantbt/qbt/common"
)

// SetupRunManager creates a run manager to allow the backtester to manage
// multiple strategies
func SetupRunManager() *RunManager {
	return &RunManager{}
}

// AddRun adds a backtest and the arguments it should be run with
func (r *RunManager) AddRun(b *BackTest, req Request) error {
	if r == nil {
		return fmt.Errorf("%w RunManager", qbtcommon.ErrNilPointer)
	}
	if b == nil {
		return fmt.Errorf("%w BackTest", qbtcommon.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.runs {
		if r.runs[i].backtest.id == b.id {
			return fmt.Errorf("%w %s %s", errRunAlreadyMonitored, b.id, b.nickname)
		}
	}
	r.runs = append(r.runs, &managedRun{backtest: b, request: req})
	return nil
}

// List details all runs
func (r *RunManager) List() ([]*RunSummary, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", qbtcommon.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	resp := make([]*RunSummary, len(r.runs))
	for i := range r.runs {
		resp[i] = r.runs[i].summary()
	}
	return resp, nil
}

// GetSummary returns details about a run
func (r *RunManager) GetSummary(id uuid.UUID) (*RunSummary, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", qbtcommon.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	run, err := r.find(id)
	if err != nil {
		return nil, err
	}
	return run.summary(), nil
}

// GetResult returns the result of a completed run along with the error it
// finished with
func (r *RunManager) GetResult(id uuid.UUID) (*Result, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", qbtcommon.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	run, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if !run.backtest.hasRun {
		return nil, fmt.Errorf("%w %v", errRunHasNotRan, id)
	}
	return run.result, run.err
}

// StartRun executes a run if found
func (r *RunManager) StartRun(ctx context.Context, id uuid.UUID) (*Result, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", qbtcommon.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	run, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if run.backtest.hasRun {
		return nil, fmt.Errorf("%w %v", errAlreadyRan, id)
	}
	run.execute(ctx)
	return run.result, run.err
}

// StartAllRuns executes every run which has not ran yet, in the order they
// were added. Each run's own error is kept with the run, only a cancelled
// context stops the remaining runs
func (r *RunManager) StartAllRuns(ctx context.Context) ([]uuid.UUID, error) {
	if r == nil {
		return nil, fmt.Errorf("%w RunManager", qbtcommon.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	executedRuns := make([]uuid.UUID, 0, len(r.runs))
	for i := range r.runs {
		if r.runs[i].backtest.hasRun {
			continue
		}
		if err := ctx.Err(); err != nil {
			return executedRuns, err
		}
		executedRuns = append(executedRuns, r.runs[i].backtest.id)
		r.runs[i].execute(ctx)
	}
	return executedRuns, nil
}

// ClearRun removes a run from memory
func (r *RunManager) ClearRun(id uuid.UUID) error {
	if r == nil {
		return fmt.Errorf("%w RunManager", qbtcommon.ErrNilPointer)
	}
	r.m.Lock()
	defer r.m.Unlock()
	for i := range r.runs {
		if r.runs[i].backtest.id != id {
			continue
		}
		r.runs = append(r.runs[:i], r.runs[i+1:]...)
		return nil
	}
	return fmt.Errorf("%s %w", id, errRunNotFound)
}

func (r *RunManager) find(id uuid.UUID) (*managedRun, error) {
	for i := range r.runs {
		if r.runs[i].backtest.id == id {
			return r.runs[i], nil
		}
	}
	return nil, fmt.Errorf("%s %w", id, errRunNotFound)
}

func (m *managedRun) execute(ctx context.Context) {
	m.result, m.err = m.backtest.Run(ctx, m.request.Universe, m.request.Start, m.request.End, m.request.Interval)
}

func (m *managedRun) summary() *RunSummary {
	s := &RunSummary{
		ID:       m.backtest.id,
		Nickname: m.backtest.nickname,
		Strategy: m.backtest.strategy.Name(),
		Status:   m.backtest.status,
	}
	if m.result != nil {
		s.DateErrors = len(m.result.DateErrors)
		if m.result.Primary != nil {
			s.FinalEquity = m.result.Primary.FinalEquity
		}
	}
	if m.err != nil {
		s.Error = m.err.Error()
	}
	return s
}
