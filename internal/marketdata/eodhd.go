package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"FinSight/internal/model"
)

const (
	// eodhdBaseURL is the base URL for the EODHD API.
	eodhdBaseURL = "https://eodhd.com/api"

	// eodhdRateLimit is the default rate limit (requests per second).
	eodhdRateLimit = 10
)

// EODHDFetcher implements Fetcher using the EODHD REST API. Symbols
// without an exchange suffix are assumed to be US listings.
type EODHDFetcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// EODHDOption configures the EODHDFetcher.
type EODHDOption func(*EODHDFetcher)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) EODHDOption {
	return func(f *EODHDFetcher) { f.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) EODHDOption {
	return func(f *EODHDFetcher) { f.httpClient = client }
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) EODHDOption {
	return func(f *EODHDFetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewEODHDFetcher creates a new EODHD API fetcher.
func NewEODHDFetcher(apiKey string, opts ...EODHDOption) *EODHDFetcher {
	f := &EODHDFetcher{
		baseURL: eodhdBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(eodhdRateLimit), eodhdRateLimit),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

func (f *EODHDFetcher) symbol(ticker string) string {
	for _, r := range ticker {
		if r == '.' {
			return ticker
		}
	}
	return ticker + ".US"
}

func (f *EODHDFetcher) get(path string, params url.Values, result interface{}) error {
	if err := f.limiter.Wait(context.Background()); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", f.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", f.baseURL, path, params.Encode())
	resp, err := f.httpClient.Get(reqURL)
	if err != nil {
		return fmt.Errorf("eodhd fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("eodhd: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("eodhd decode: %w", err)
	}
	return nil
}

// eodhdBar is the JSON row shape of the EOD endpoint.
type eodhdBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func (f *EODHDFetcher) FetchDailyBars(ticker string, years int) ([]model.Bar, error) {
	from := time.Now().AddDate(-years, 0, 0).Format("2006-01-02")
	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", from)

	var rows []eodhdBar
	if err := f.get("/eod/"+url.PathEscape(f.symbol(ticker)), params, &rows); err != nil {
		return nil, err
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue // skip malformed rows rather than fail the series
		}
		bars = append(bars, model.Bar{
			Date:   date,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return bars, nil
}

func (f *EODHDFetcher) FetchCurrentPrice(ticker string) (float64, error) {
	var quote struct {
		Close float64 `json:"close"`
	}
	if err := f.get("/real-time/"+url.PathEscape(f.symbol(ticker)), nil, &quote); err != nil {
		return 0, err
	}
	if quote.Close == 0 {
		return 0, fmt.Errorf("eodhd: no price data for %s", ticker)
	}
	return quote.Close, nil
}

// eodhdNews is the JSON row shape of the news endpoint.
type eodhdNews struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

func (f *EODHDFetcher) FetchNews(ticker string, limit int) ([]model.NewsItem, error) {
	params := url.Values{}
	params.Set("s", f.symbol(ticker))
	params.Set("limit", fmt.Sprintf("%d", limit))

	var rows []eodhdNews
	if err := f.get("/news", params, &rows); err != nil {
		return nil, err
	}

	items := make([]model.NewsItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.NewsItem{Title: r.Title, Link: r.Link})
		if len(items) == limit {
			break
		}
	}
	return items, nil
}
