package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"txnsense/internal/constants"
	"txnsense/internal/currency"
	"txnsense/pkg/circuitbreaker"
	"txnsense/pkg/metrics"
)

// Fetcher asks an external service for the rate that converts one unit of code into
// the base currency. Implementations make a single attempt.
type Fetcher interface {
	Fetch(ctx context.Context, code currency.Code) (decimal.Decimal, error)
}

// HTTPFetcher queries a public FX endpoint. The URL template must contain {currency},
// which is replaced with the source currency code. Responses are expected to look like
// {"rates": {"EGP": 48.9}} keyed by the base currency, or {"rate": 48.9}.
type HTTPFetcher struct {
	client      *http.Client
	urlTemplate string
	base        currency.Code
}

func NewHTTPFetcher(urlTemplate string, base currency.Code, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	return &HTTPFetcher{
		client:      &http.Client{Timeout: timeout},
		urlTemplate: urlTemplate,
		base:        base,
	}
}

type rateResponse struct {
	Result string                     `json:"result"`
	Rates  map[string]decimal.Decimal `json:"rates"`
	Rate   *decimal.Decimal           `json:"rate"`
}

func (f *HTTPFetcher) Fetch(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	start := time.Now()
	defer func() { metrics.ObserveRateFetch(time.Since(start)) }()

	url := strings.ReplaceAll(f.urlTemplate, "{currency}", string(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return decimal.Zero, fmt.Errorf("rate service returned status: %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response: %w", err)
	}

	if body.Result != "" && body.Result != "success" {
		return decimal.Zero, fmt.Errorf("rate service reported result %q", body.Result)
	}

	if rate, ok := body.Rates[string(f.base)]; ok {
		return rate, nil
	}
	if body.Rate != nil {
		return *body.Rate, nil
	}
	return decimal.Zero, fmt.Errorf("rate response has no %s rate", f.base)
}

type breakerFetcher struct {
	next Fetcher
	cb   *circuitbreaker.Wrapper
}

// WrapFetcherWithBreaker stops calling the rate service while it keeps failing.
func WrapFetcherWithBreaker(next Fetcher, cb *circuitbreaker.Wrapper) Fetcher {
	return &breakerFetcher{next: next, cb: cb}
}

func (f *breakerFetcher) Fetch(ctx context.Context, code currency.Code) (decimal.Decimal, error) {
	return circuitbreaker.Execute(ctx, f.cb, func(ctx context.Context) (decimal.Decimal, error) {
		return f.next.Fetch(ctx, code)
	})
}
