package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"smart100/internal/domain"
	"smart100/internal/util"
)

// Compile-time interface check.
var _ BarSource = (*AlpacaSource)(nil)

// AlpacaSource fetches historical bars from the Alpaca market-data API, with
// retry and rate limiting around each request.
type AlpacaSource struct {
	client  *marketdata.Client
	limiter *util.RateLimiter
	retries int
	log     *slog.Logger
}

// NewAlpacaSource creates an AlpacaSource with the given credentials.
// rateLimitPerMin bounds the request rate; retries is the maximum number of
// attempts per request.
func NewAlpacaSource(apiKey, apiSecret, dataURL string, rateLimitPerMin, retries int, log *slog.Logger) *AlpacaSource {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if retries <= 0 {
		retries = 3
	}
	if rateLimitPerMin <= 0 {
		rateLimitPerMin = 200
	}
	return &AlpacaSource{
		client:  marketdata.NewClient(opts),
		limiter: util.NewRateLimiter(rateLimitPerMin),
		retries: retries,
		log:     log.With("component", "marketdata", "source", "alpaca"),
	}
}

// FetchBars returns bars ascending by timestamp for [start, end]. The source
// argument is ignored; this implementation always talks to Alpaca.
func (s *AlpacaSource) FetchBars(ctx context.Context, symbol string, start, end time.Time, _, interval string) ([]domain.Bar, error) {
	if interval == "" {
		interval = "1d"
	}
	timeframe, err := timeFrameFor(interval)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var alpacaBars []marketdata.Bar
	err = util.Retry(ctx, s.retries, time.Second, func() error {
		var ferr error
		alpacaBars, ferr = s.client.GetBars(strings.ToUpper(symbol), marketdata.GetBarsRequest{
			TimeFrame: timeframe,
			Start:     start,
			End:       end,
		})
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, domain.Bar{
			Symbol:    strings.ToUpper(symbol),
			Timestamp: ab.Timestamp.Unix(),
			Date:      ab.Timestamp.UTC().Format("2006-01-02"),
			Open:      ab.Open,
			High:      ab.High,
			Low:       ab.Low,
			Close:     ab.Close,
			Volume:    float64(ab.Volume),
			Source:    "alpaca",
			Interval:  interval,
		})
	}
	s.log.Debug("fetched bars", "symbol", symbol, "count", len(bars))
	return bars, nil
}

// timeFrameFor maps an interval string to an Alpaca TimeFrame.
func timeFrameFor(interval string) (marketdata.TimeFrame, error) {
	switch interval {
	case "1m":
		return marketdata.OneMin, nil
	case "1h":
		return marketdata.OneHour, nil
	case "1d":
		return marketdata.OneDay, nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval %q", interval)
	}
}
