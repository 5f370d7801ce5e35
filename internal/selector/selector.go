package selector

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"reflect"

	"smart100/internal/domain"
	"smart100/internal/evaluate"
	"smart100/internal/optimize"
	"smart100/internal/strategy"
)

// Compile-time interface checks.
var _ strategy.Strategy = (*Selector)(nil)
var _ strategy.Session = (*selectorSession)(nil)

// Config holds the selector's defaults. Context parameters override Lookback,
// Metric, and Optimize per run.
type Config struct {
	// Lookback is the number of bars immediately preceding the decision bar
	// used as the evaluation window.
	Lookback int

	// Metric ranks candidates.
	Metric evaluate.Metric

	// Optimize enables per-candidate parameter grid search.
	Optimize bool

	// CandidateIDs optionally restricts the candidate set to these strategy
	// IDs. Empty means all registered strategies.
	CandidateIDs []string
}

// ActiveChoice is the queryable outcome of the last successful selection for
// a symbol.
type ActiveChoice struct {
	StrategyID   string
	StrategyName string
	Params       domain.Params
}

// Selector is the AI strategy selector. It implements the Strategy contract
// so the backtest engine can run it like any other strategy, and keeps a
// per-symbol decision cache that survives across invocations.
type Selector struct {
	registry  *strategy.Registry
	evaluator *evaluate.Evaluator
	grid      *optimize.Grid
	cache     DecisionCache
	cfg       Config
	log       *slog.Logger
}

// New creates a Selector. A nil cache gets a fresh MemoryCache.
func New(registry *strategy.Registry, grid *optimize.Grid, cache DecisionCache, cfg Config, log *slog.Logger) *Selector {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 30
	}
	if cfg.Metric == "" {
		cfg.Metric = evaluate.MetricPnL
	}
	return &Selector{
		registry:  registry,
		evaluator: evaluate.New(log),
		grid:      grid,
		cache:     cache,
		cfg:       cfg,
		log:       log.With("component", "selector"),
	}
}

// ID returns "ai-selector".
func (s *Selector) ID() string { return "ai-selector" }

// Name returns the display name.
func (s *Selector) Name() string { return "AI Strategy Selector" }

// Parameters declares the selector's own tunables. None are optimizable;
// the selector never searches over itself.
func (s *Selector) Parameters() []domain.ParamDef {
	return []domain.ParamDef{
		{
			Name: "evaluationLookbackPeriod", Label: "Evaluation Lookback (bars)",
			Type: domain.ParamNumber, Default: float64(s.cfg.Lookback),
		},
		{
			Name: "evaluationMetric", Label: "Evaluation Metric", Type: domain.ParamString,
			Default: string(s.cfg.Metric),
			Options: []string{string(evaluate.MetricPnL), string(evaluate.MetricWinRate), string(evaluate.MetricSharpe)},
		},
		{
			Name: "optimizeParameters", Label: "Optimize Parameters", Type: domain.ParamBoolean,
			Default: s.cfg.Optimize,
		},
	}
}

// NewSession returns a session delegating to the shared selector state. The
// decision cache is deliberately shared across sessions; the winner's
// execution session is not.
func (s *Selector) NewSession() strategy.Session {
	return &selectorSession{selector: s}
}

// ActiveChoice returns the winning strategy recorded by the most recent
// selection for symbol, or false when no selection has produced a winner.
func (s *Selector) ActiveChoice(symbol string) (ActiveChoice, bool) {
	d, ok := s.cache.Get(symbol)
	if !ok || d.StrategyID == nil {
		return ActiveChoice{}, false
	}
	return ActiveChoice{
		StrategyID:   *d.StrategyID,
		StrategyName: *d.StrategyName,
		Params:       domain.Params(d.Parameters).Clone(),
	}, true
}

type selectorSession struct {
	selector *Selector

	// Live session of the current winner. It persists across bars within
	// this selector session so stateful winners keep their open-position
	// state between delegations.
	winner       strategy.Session
	winnerID     string
	winnerParams domain.Params
}

func (ss *selectorSession) Execute(ctx context.Context, c *strategy.Context) (domain.Signal, error) {
	return ss.selector.execute(ctx, ss, c)
}

func (ss *selectorSession) Close() error {
	if ss.winner == nil {
		return nil
	}
	err := ss.winner.Close()
	ss.winner = nil
	return err
}

// winnerSession returns the live session for the selected winner, reusing
// the existing one when the winner and its parameters are unchanged and
// replacing it otherwise.
func (ss *selectorSession) winnerSession(strat strategy.Strategy, params domain.Params) strategy.Session {
	if ss.winner != nil && ss.winnerID == strat.ID() && reflect.DeepEqual(ss.winnerParams, params) {
		return ss.winner
	}
	if ss.winner != nil {
		ss.winner.Close()
	}
	ss.winner = strat.NewSession()
	ss.winnerID = strat.ID()
	ss.winnerParams = params.Clone()
	return ss.winner
}

// execute performs one selection: score candidates over the lookback window,
// record the decision, and delegate to the winner on the real context.
func (s *Selector) execute(ctx context.Context, ss *selectorSession, c *strategy.Context) (domain.Signal, error) {
	lookback := int(c.Params.Number("evaluationLookbackPeriod", float64(s.cfg.Lookback)))
	metric := evaluate.Metric(c.Params.String("evaluationMetric", string(s.cfg.Metric)))
	optimizeParams := c.Params.Bool("optimizeParameters", s.cfg.Optimize)

	candidates := s.candidates()
	if len(candidates) == 0 || c.CurrentIndex < lookback {
		return domain.Hold(), nil
	}

	// Evaluation window: the lookback bars immediately preceding the
	// decision bar, end-exclusive.
	window := c.Bars[c.CurrentIndex-lookback : c.CurrentIndex]

	var (
		bestStrategy strategy.Strategy
		bestParams   domain.Params
		bestScore    = math.Inf(-1)
		found        bool
	)
	for _, cand := range candidates {
		paramSets := []domain.Params{domain.DefaultParams(cand.Parameters())}
		if optimizeParams {
			paramSets = s.grid.Combinations(cand.Parameters())
		}

		candBestScore := math.Inf(-1)
		var candBestParams domain.Params
		candFound := false
		for _, ps := range paramSets {
			score, err := s.scoreCombination(ctx, cand, ps, c.Symbol, window, metric)
			if err != nil {
				s.log.Warn("candidate evaluation failed, excluding combination",
					"strategyId", cand.ID(), "err", err)
				continue
			}
			if score > candBestScore || !candFound {
				candBestScore = score
				candBestParams = ps
				candFound = true
			}
		}
		if candFound && candBestScore > bestScore {
			bestScore = candBestScore
			bestStrategy = cand
			bestParams = candBestParams
			found = true
		}
	}

	bar := c.CurrentBar()
	if !found {
		s.cache.Put(c.Symbol, domain.Decision{
			Timestamp:        bar.Timestamp,
			Date:             bar.Date,
			EvaluationMetric: string(metric),
		})
		s.log.Info("no viable candidate", "symbol", c.Symbol, "metric", metric)
		return domain.Hold(), nil
	}

	winnerParams := domain.MergeParams(bestStrategy.Parameters(), bestParams)
	id, name, score := bestStrategy.ID(), bestStrategy.Name(), bestScore
	s.cache.Put(c.Symbol, domain.Decision{
		Timestamp:        bar.Timestamp,
		Date:             bar.Date,
		StrategyID:       &id,
		StrategyName:     &name,
		Parameters:       winnerParams.Clone(),
		EvaluationScore:  &score,
		EvaluationMetric: string(metric),
	})
	s.log.Info("selected strategy", "symbol", c.Symbol,
		"strategyId", id, "score", score, "metric", metric)

	// Delegate on the real, unsliced context with the winning parameters,
	// reusing the winner's live session so its state carries across bars.
	delegated := c.Snapshot()
	delegated.Params = winnerParams
	return ss.winnerSession(bestStrategy, winnerParams).Execute(ctx, delegated)
}

// scoreCombination runs one evaluation, converting panics from a misbehaving
// candidate into an error so selection can continue.
func (s *Selector) scoreCombination(ctx context.Context, cand strategy.Strategy, params domain.Params, symbol string, window []domain.Bar, metric evaluate.Metric) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("candidate panicked: %v", r)
		}
	}()
	res, err := s.evaluator.Run(ctx, cand, params, symbol, window)
	if err != nil {
		return 0, err
	}
	return res.Score(metric), nil
}

// candidates returns every registered strategy except the selector itself,
// filtered by the allow-list when one is configured.
func (s *Selector) candidates() []strategy.Strategy {
	var allowed map[string]bool
	if len(s.cfg.CandidateIDs) > 0 {
		allowed = make(map[string]bool, len(s.cfg.CandidateIDs))
		for _, id := range s.cfg.CandidateIDs {
			allowed[id] = true
		}
	}
	var out []strategy.Strategy
	for _, st := range s.registry.List() {
		if st.ID() == s.ID() {
			continue
		}
		if allowed != nil && !allowed[st.ID()] {
			continue
		}
		out = append(out, st)
	}
	return out
}
