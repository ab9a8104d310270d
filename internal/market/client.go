package market

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"ge-flip-tracker/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const historyDays = 90

// Client talks to the external price API. It shields callers from the API's
// shape and latency: every lookup either succeeds or reports ErrNotFound.
type Client struct {
	client  *resty.Client
	cfg     *config.Market
	logger  *zap.Logger
	limiter *rate.Limiter
	catalog *catalogCache
	now     func() time.Time
}

// NewClient creates a new price API client.
func NewClient(cfg *config.Market, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout())

	return &Client{
		client:  client,
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		catalog: newCatalogCache(cfg.CatalogTTL()),
		now:     time.Now,
	}
}

// latestResponse mirrors the "latest price" endpoint payload.
type latestResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Volume    int64  `json:"volume"`
	Timestamp int64  `json:"timestamp"`
}

// LatestPrice resolves an item name to its current price record.
func (c *Client) LatestPrice(ctx context.Context, name string) (*ItemPrice, error) {
	var result latestResponse
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("name", name).
		SetResult(&result)

	resp, err := c.doRequest(ctx, http.MethodGet, "/latest", req)
	if err != nil {
		c.logger.Warn("latest price lookup failed", zap.String("item", name), zap.Error(err))
		return nil, ErrNotFound
	}

	latest := resp.Result().(*latestResponse)
	if latest.Name == "" || latest.Price <= 0 {
		return nil, ErrNotFound
	}

	return &ItemPrice{
		ID:        latest.ID,
		Name:      latest.Name,
		Price:     latest.Price,
		Volume:    latest.Volume,
		Timestamp: time.Unix(latest.Timestamp, 0),
	}, nil
}

// historyPoint mirrors one entry of the history endpoint payload.
type historyPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
}

// History fetches the item's daily price series, sorted ascending and
// deduplicated by calendar day, covering at most the trailing 90 days.
func (c *Client) History(ctx context.Context, itemID int) ([]PricePoint, error) {
	var raw []historyPoint
	req := c.client.R().
		SetContext(ctx).
		SetResult(&raw)

	path := fmt.Sprintf("/history/%d", itemID)
	resp, err := c.doRequest(ctx, http.MethodGet, path, req)
	if err != nil {
		c.logger.Warn("history fetch failed", zap.Int("item_id", itemID), zap.Error(err))
		return nil, ErrNotFound
	}

	entries := *resp.Result().(*[]historyPoint)
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	// The source does not guarantee order or one entry per day.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp < entries[j].Timestamp })

	points := make([]PricePoint, 0, len(entries))
	lastDay := ""
	for _, e := range entries {
		t := time.Unix(e.Timestamp, 0).UTC()
		day := t.Format("2006-01-02")
		p := PricePoint{Time: t, Price: e.Price, Volume: e.Volume}
		if day == lastDay {
			points[len(points)-1] = p
			continue
		}
		points = append(points, p)
		lastDay = day
	}

	if len(points) > historyDays {
		points = points[len(points)-historyDays:]
	}
	return points, nil
}

// doRequest executes a request with rate limiting and bounded retries.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else {
			// Network or client-side errors.
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
