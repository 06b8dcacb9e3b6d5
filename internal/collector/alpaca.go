package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"TrendScreener/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	Client   *marketdata.Client
	Suffix   string
	Feed     marketdata.Feed
	Lookback time.Duration
	MinBars  int
	now      func() time.Time
}

// NewAlpacaFetcher creates a fetcher for daily bars from Alpaca. An empty
// baseURL uses the SDK default data endpoint.
func NewAlpacaFetcher(apiKey, apiSecret, feed, suffix, baseURL string, timeout time.Duration) *AlpacaFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dataFeed := marketdata.Feed(feed)
	if feed == "" {
		dataFeed = marketdata.IEX
	}
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	return &AlpacaFetcher{
		Client:   client,
		Suffix:   suffix,
		Feed:     dataFeed,
		Lookback: 365 * 24 * time.Hour,
		MinBars:  DefaultMinBars,
		now:      time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchHistory requests one lookback window of daily bars. The SDK call takes
// no context, so cancellation abandons the in-flight request.
func (f *AlpacaFetcher) FetchHistory(ctx context.Context, ticker string) (*model.PriceHistory, error) {
	end := f.now()
	req := marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      end.Add(-f.Lookback),
		End:        end,
		Feed:       f.Feed,
	}

	type result struct {
		bars []marketdata.Bar
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		bars, err := f.Client.GetBars(ticker+f.Suffix, req)
		ch <- result{bars, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailure, ticker, ctx.Err())
	case res = <-ch:
	}
	if res.err != nil {
		return nil, fmt.Errorf("%w: %s: alpaca: %v", ErrFetchFailure, ticker, res.err)
	}

	h := &model.PriceHistory{Symbol: ticker, Bars: fromAlpacaBars(res.bars), FetchedAt: end}
	if err := Validate(h, f.MinBars); err != nil {
		return nil, err
	}
	return h, nil
}

func fromAlpacaBars(in []marketdata.Bar) []model.OHLCV {
	bars := make([]model.OHLCV, len(in))
	for i, b := range in {
		bars[i] = model.OHLCV{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return bars
}
