package collector

import (
	"context"
	"errors"

	"TrendScreener/internal/model"
)

// DefaultMinBars is the shortest history a fetcher hands to the engine.
const DefaultMinBars = 200

var (
	ErrFetchFailure        = errors.New("fetch failure")
	ErrEmptyHistory        = errors.New("empty history")
	ErrInsufficientHistory = errors.New("insufficient history")
)

// Fetcher returns one year of daily bars for a bare ticker symbol.
type Fetcher interface {
	FetchHistory(ctx context.Context, ticker string) (*model.PriceHistory, error)
	Name() string
}
