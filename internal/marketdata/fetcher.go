package marketdata

import (
	"time"

	"FinSight/internal/model"
)

// Fetcher defines the interface for fetching market data and headlines.
type Fetcher interface {
	// FetchDailyBars returns up to `years` years of daily bars in
	// chronological order.
	FetchDailyBars(ticker string, years int) ([]model.Bar, error)
	FetchCurrentPrice(ticker string) (float64, error)
	// FetchNews returns up to `limit` recent headline items.
	FetchNews(ticker string, limit int) ([]model.NewsItem, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price    float64
	Bars     []model.Bar
	News     []model.NewsItem
	BarsErr  error
	NewsErr  error
	PriceErr error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, years int) ([]model.Bar, error) {
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateBars(m.Price, years*252), nil
}

func (m *MockFetcher) FetchCurrentPrice(_ string) (float64, error) {
	if m.PriceErr != nil {
		return 0, m.PriceErr
	}
	if len(m.Bars) > 0 {
		return m.Bars[len(m.Bars)-1].Close, nil
	}
	return m.Price, nil
}

func (m *MockFetcher) FetchNews(_ string, limit int) ([]model.NewsItem, error) {
	if m.NewsErr != nil {
		return nil, m.NewsErr
	}
	if len(m.News) > limit {
		return m.News[:limit], nil
	}
	return m.News, nil
}

// GenerateBars builds a synthetic daily series drifting around basePrice.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
