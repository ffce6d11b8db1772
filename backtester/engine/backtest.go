package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/quantbt/qbt/backtester/common"
	"github.com/quantbt/qbt/backtester/data"
	"github.com/quantbt/qbt/backtester/eventhandlers/exchange"
	"github.com/quantbt/qbt/backtester/eventhandlers/portfolio"
	"github.com/quantbt/qbt/backtester/eventhandlers/strategies"
	"github.com/quantbt/qbt/backtester/eventtypes/order"
	"github.com/quantbt/qbt/backtester/metrics"
	qbtcommon "github.com/quantbt/qbt/common"
	"github.com/quantbt/qbt/log"
	"github.com/shopspring/decimal"
)

// New validates the settings and returns a BackTest ready to run
func New(s *Settings) (*BackTest, error) {
	if s == nil {
		return nil, fmt.Errorf("%w settings", qbtcommon.ErrNilPointer)
	}
	var errs error
	if s.Source == nil {
		errs = qbtcommon.AppendError(errs, errNoSource)
	}
	if s.Strategy == nil {
		errs = qbtcommon.AppendError(errs, errNoStrategy)
	}
	if s.Exchange == nil {
		errs = qbtcommon.AppendError(errs, errNoExecution)
	}
	if !s.InitialCash.IsPositive() {
		errs = qbtcommon.AppendError(errs, fmt.Errorf("%w, received %v", errInvalidInitialCash, s.InitialCash))
	}
	names := make([]string, 0, len(s.Benchmarks))
	owners := map[strategies.Handler]string{}
	if s.Strategy != nil {
		owners[s.Strategy] = PrimaryTrack
	}
	for name, h := range s.Benchmarks {
		switch {
		case strings.TrimSpace(name) == "" || strings.EqualFold(name, PrimaryTrack):
			errs = qbtcommon.AppendError(errs, fmt.Errorf("%w '%v'", errBenchmarkName, name))
		case h == nil:
			errs = qbtcommon.AppendError(errs, fmt.Errorf("%w benchmark %v", qbtcommon.ErrNilPointer, name))
		default:
			if owner, ok := owners[h]; ok {
				errs = qbtcommon.AppendError(errs, fmt.Errorf("%w: %v and %v", errSharedStrategy, owner, name))
			}
			owners[h] = name
		}
		names = append(names, name)
	}
	if errs != nil {
		return nil, errs
	}
	sort.Strings(names)
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	recorder := s.Recorder
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &BackTest{
		id:             id,
		nickname:       s.Nickname,
		source:         s.Source,
		generators:     s.Generators,
		strategy:       s.Strategy,
		benchmarkNames: names,
		benchmarks:     s.Benchmarks,
		exchange:       s.Exchange,
		initialCash:    s.InitialCash,
		recorder:       recorder,
		status:         StatusInit,
	}, nil
}

// ID returns the identifier the run's result will carry
func (bt *BackTest) ID() uuid.UUID {
	return bt.id
}

// Status returns the lifecycle state of the BackTest
func (bt *BackTest) Status() Status {
	return bt.status
}

// Run simulates the strategy and every benchmark over the universe between
// start and end inclusive. An empty data set returns the empty result with
// common.ErrNoData. A cancelled context stops the loop between dates and
// returns what was processed along with the context's error
func (bt *BackTest) Run(ctx context.Context, universe []string, start, end time.Time, interval string) (*Result, error) {
	if bt.hasRun {
		return nil, errRunAlreadyExecuted
	}
	bt.hasRun = true
	started := time.Now()
	universe = common.UniqueSymbols(universe)
	if len(universe) == 0 {
		bt.status = StatusFailed
		return nil, common.ErrEmptyUniverse
	}
	if end.Before(start) {
		bt.status = StatusFailed
		return nil, fmt.Errorf("%w start %v after end %v", common.ErrInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	trackers, err := bt.setupTrackers()
	if err != nil {
		bt.status = StatusFailed
		return nil, err
	}
	resolved := bt.resolveUniverse(universe, trackers)
	result := bt.newResult(universe, resolved, start, end, interval, trackers)
	result.Metadata.StartedAt = started

	bt.status = StatusFetching
	log.Infof(common.Backtester, "fetching %v between %v and %v", strings.Join(resolved, ","), start.Format(time.DateOnly), end.Format(time.DateOnly))
	table, err := bt.source.GetPrice(ctx, resolved, start, end, interval)
	if err != nil {
		bt.fail(started)
		return nil, fmt.Errorf("fetching data: %w", err)
	}
	if table == nil || table.Len() == 0 {
		log.Warnf(common.Backtester, "%v for %v between %v and %v", common.ErrNoData, strings.Join(resolved, ","), start.Format(time.DateOnly), end.Format(time.DateOnly))
		bt.finalize(result, trackers, started)
		return result, common.ErrNoData
	}

	bt.status = StatusSignalPrep
	table, err = data.Prepare(table, bt.generators...)
	if err != nil {
		bt.fail(started)
		return nil, err
	}

	bt.status = StatusIterating
	dates := table.Dates()
	lastPrices := make(map[string]decimal.Decimal)
	var loopErr error
	for i := range dates {
		if err = ctx.Err(); err != nil {
			log.Warnf(common.Backtester, "run cancelled after %d of %d dates: %v", i, len(dates), err)
			loopErr = err
			break
		}
		slice := table.SliceAt(dates[i])
		for sym, p := range slice.Closes() {
			lastPrices[sym] = p
		}
		for _, tr := range trackers {
			if dErr := bt.processDate(tr, universe, slice, lastPrices); dErr != nil {
				log.Errorf(common.Backtester, "%v", dErr)
				result.DateErrors = append(result.DateErrors, *dErr)
				bt.recorder.DateFailed(tr.name)
			}
		}
		if (i+1)%progressInterval == 0 {
			log.Infof(common.Backtester, "processed %d of %d dates, primary equity %v", i+1, len(dates), trackers[0].equity())
		}
	}
	bt.finalize(result, trackers, started)
	primary := result.Primary
	log.Infof(common.Backtester, "run complete. Final equity %v, return %v%%, %d trades",
		primary.FinalEquity.StringFixed(2),
		common.PercentOf(primary.TotalReturn()),
		len(primary.Fills))
	return result, loopErr
}

func (bt *BackTest) setupTrackers() ([]*tracker, error) {
	trackers := make([]*tracker, 0, len(bt.benchmarkNames)+1)
	add := func(name string, h strategies.Handler) error {
		state, err := portfolio.NewState(bt.initialCash)
		if err != nil {
			return err
		}
		trackers = append(trackers, &tracker{
			name:     name,
			strategy: h,
			extra:    common.UniqueSymbols(strategies.ExtraSymbols(h)),
			state:    state,
			track: &Track{
				Name:        name,
				Strategy:    h.Name(),
				InitialCash: bt.initialCash,
			},
		})
		return nil
	}
	if err := add(PrimaryTrack, bt.strategy); err != nil {
		return nil, err
	}
	for _, name := range bt.benchmarkNames {
		if err := add(name, bt.benchmarks[name]); err != nil {
			return nil, err
		}
	}
	return trackers, nil
}

// resolveUniverse adds every symbol a strategy asks for to the requested
// universe. The primary's own extra symbols are included too, it is traded
// against the data it asked for
func (bt *BackTest) resolveUniverse(universe []string, trackers []*tracker) []string {
	all := [][]string{universe}
	for _, tr := range trackers {
		all = append(all, tr.extra)
	}
	return common.UniqueSymbols(all...)
}

// processDate runs one track's strategy for a date and executes its orders.
// A strategy error drops its orders but the date is still valued, a panic
// skips the track for the date
func (bt *BackTest) processDate(tr *tracker, universe []string, slice data.Slice, lastPrices map[string]decimal.Decimal) (dErr *DateError) {
	defer func() {
		if r := recover(); r != nil {
			dErr = &DateError{
				Date:     slice.Date,
				Strategy: tr.strategy.Name(),
				Track:    tr.name,
				Err:      fmt.Errorf("%w: %v", errStrategyPanic, r),
			}
		}
	}()
	view := slice.Filter(append(append([]string{}, universe...), tr.extra...))
	orders, err := tr.strategy.OnBar(slice.Date, view, tr.state)
	if err != nil {
		dErr = &DateError{
			Date:     slice.Date,
			Strategy: tr.strategy.Name(),
			Track:    tr.name,
			Err:      err,
		}
		orders = nil
	}
	if len(orders) > 0 {
		bt.execute(tr, orders, view, slice.Date)
	}
	tr.record(slice.Date, lastPrices)
	bt.recorder.DateProcessed(tr.name)
	return dErr
}

func (bt *BackTest) execute(tr *tracker, orders []order.Order, view data.Slice, t time.Time) {
	fills, err := bt.exchange.ExecuteOrders(orders, view.Closes(), tr.state, t)
	if err != nil {
		// only a nil state errors and trackers always have one
		log.Errorf(common.Exchange, "%v %v execution failed: %v", t.Format(time.DateOnly), tr.name, err)
		return
	}
	for i := range fills {
		side := "sell"
		if fills[i].IsBuy() {
			side = "buy"
		}
		bt.recorder.FillExecuted(tr.name, side, fills[i].TradeValue().InexactFloat64())
		log.Debugf(common.Portfolio, "%v %v %v %v %v @ %v fees %v", t.Format(time.DateOnly), tr.name, side, fills[i].AbsQuantity(), fills[i].Symbol, fills[i].Price.StringFixed(4), fills[i].Fees.StringFixed(4))
	}
	for i := len(fills); i < len(orders); i++ {
		bt.recorder.OrderDropped(tr.name)
	}
	tr.track.Fills = append(tr.track.Fills, fills...)
}

func (bt *BackTest) newResult(universe, resolved []string, start, end time.Time, interval string, trackers []*tracker) *Result {
	r := &Result{
		Metadata: Metadata{
			ID:               bt.id,
			Nickname:         bt.nickname,
			Universe:         universe,
			ResolvedUniverse: resolved,
			Start:            start,
			End:              end,
			Interval:         interval,
			InitialCash:      bt.initialCash,
		},
		Benchmarks: make(map[string]*Track, len(trackers)-1),
	}
	for i, tr := range trackers {
		info := StrategyInfo{
			Track:    tr.name,
			Name:     tr.strategy.Name(),
			Settings: strategies.Settings(tr.strategy),
		}
		if i == 0 {
			r.Metadata.Strategy = info
			r.Primary = tr.track
			continue
		}
		r.Metadata.Benchmarks = append(r.Metadata.Benchmarks, info)
		r.Benchmarks[tr.name] = tr.track
	}
	if e, ok := bt.exchange.(interface{ GetSettings() exchange.Settings }); ok {
		s := e.GetSettings()
		r.Metadata.Broker = &s
	}
	for i := range bt.generators {
		r.Metadata.Signals = append(r.Metadata.Signals, bt.generators[i].Name())
	}
	return r
}

func (bt *BackTest) finalize(r *Result, trackers []*tracker, started time.Time) {
	for _, tr := range trackers {
		tr.track.FinalEquity = tr.track.InitialCash
		if n := len(tr.track.EquityCurve); n > 0 {
			tr.track.FinalEquity = tr.track.EquityCurve[n-1].Equity
		}
	}
	bt.status = StatusFinalized
	r.Status = bt.status
	r.Metadata.FinishedAt = time.Now()
	bt.recorder.RunFinished(string(bt.status), time.Since(started))
}

func (bt *BackTest) fail(started time.Time) {
	bt.status = StatusFailed
	bt.recorder.RunFinished(string(bt.status), time.Since(started))
}

// record appends the end of date valuation, marking positions at the last
// known close of each symbol
func (tr *tracker) record(t time.Time, lastPrices map[string]decimal.Decimal) {
	snap := tr.state.Snapshot()
	positionsValue := snap.PositionsValue(lastPrices)
	tr.track.EquityCurve = append(tr.track.EquityCurve, EquityRecord{
		Date:           t,
		Cash:           snap.Cash,
		PositionsValue: positionsValue,
		Equity:         snap.Cash.Add(positionsValue),
		Positions:      snap.Positions,
	})
	if tr.name == PrimaryTrack {
		tr.track.History = append(tr.track.History, Snapshot{Date: t, State: snap})
	}
}

func (tr *tracker) equity() decimal.Decimal {
	if n := len(tr.track.EquityCurve); n > 0 {
		return tr.track.EquityCurve[n-1].Equity.Round(2)
	}
	return tr.track.InitialCash
}

// Error implements the error interface
func (d *DateError) Error() string {
	return fmt.Sprintf("%v %v (%v): %v", d.Date.Format(time.DateOnly), d.Track, d.Strategy, d.Err)
}

// Unwrap returns the underlying cause
func (d *DateError) Unwrap() error {
	return d.Err
}

// IsDateError returns whether err holds a DateError
func IsDateError(err error) bool {
	var d *DateError
	return errors.As(err, &d)
}
