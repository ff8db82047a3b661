// Package fetch retrieves market data from the CoinGecko HTTP API.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"coinscope/market"
)

// DefaultBaseURL is the pro API endpoint. The public endpoint works too
// with an empty API key, at tighter rate limits.
const DefaultBaseURL = "https://pro-api.coingecko.com/api/v3"

// hourlyRangeLimitDays is the longest range CoinGecko serves at hourly
// resolution; longer ranges come back as daily points.
const hourlyRangeLimitDays = 30

// Client talks to the CoinGecko API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type chartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// FetchOHLCV fetches the price/volume history of one coin and buckets
// it into candles at the requested granularity. Hourly requests longer
// than the API's hourly window are clamped to it.
func (c *Client) FetchOHLCV(ctx context.Context, coin, granularity string, lookbackDays int, now time.Time) (*market.Series, error) {
	if !market.ValidGranularity(granularity) {
		return nil, fmt.Errorf("fetch %s: unknown granularity %q", coin, granularity)
	}
	if granularity != market.Granularity1d && lookbackDays > hourlyRangeLimitDays {
		c.log.Debug().Str("coin", coin).Int("requested_days", lookbackDays).
			Msg("clamping lookback to the hourly range limit")
		lookbackDays = hourlyRangeLimitDays
	}

	to := now.UTC()
	from := to.AddDate(0, 0, -lookbackDays)

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("from", fmt.Sprintf("%d", from.Unix()))
	q.Set("to", fmt.Sprintf("%d", to.Unix()))

	var resp chartResponse
	path := fmt.Sprintf("/coins/%s/market_chart/range", url.PathEscape(coin))
	if err := c.getJSON(ctx, path, q, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", coin, err)
	}

	candles := bucketCandles(resp, market.GranularityDuration(granularity))
	s := &market.Series{Asset: coin, Granularity: granularity, Candles: candles}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("fetch %s: bad series from API: %w", coin, err)
	}
	return s, nil
}

type marketsRow struct {
	ID           string    `json:"id"`
	CurrentPrice float64   `json:"current_price"`
	MarketCap    float64   `json:"market_cap"`
	TotalVolume  float64   `json:"total_volume"`
	Change24h    float64   `json:"price_change_percentage_24h"`
	LastUpdated  time.Time `json:"last_updated"`
}

// FetchMarkets fetches current quotes for the given coins.
func (c *Client) FetchMarkets(ctx context.Context, coins []string) (map[string]market.Quote, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("ids", strings.Join(coins, ","))

	var rows []marketsRow
	if err := c.getJSON(ctx, "/coins/markets", q, &rows); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	out := make(map[string]market.Quote, len(rows))
	for _, r := range rows {
		out[r.ID] = market.Quote{
			Price:        r.CurrentPrice,
			MarketCap:    r.MarketCap,
			Volume24h:    r.TotalVolume,
			Change24hPct: r.Change24h,
			UpdatedAt:    r.LastUpdated,
		}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// bucketCandles folds raw (timestamp, price) and (timestamp, volume)
// points into OHLCV candles aligned to the granularity. Open and close
// come from the first and last price in a bucket, high and low from the
// extremes, and volume is the sum of the bucket's volume points.
func bucketCandles(resp chartResponse, step time.Duration) []market.Candle {
	type bucket struct {
		candle market.Candle
		seen   bool
	}
	buckets := make(map[int64]*bucket)

	at := func(ms float64) int64 {
		return time.UnixMilli(int64(ms)).UTC().Truncate(step).Unix()
	}

	for _, p := range resp.Prices {
		key, price := at(p[0]), p[1]
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		if !b.seen {
			b.candle = market.Candle{
				Time: time.Unix(key, 0).UTC(),
				Open: price, High: price, Low: price, Close: price,
			}
			b.seen = true
			continue
		}
		if price > b.candle.High {
			b.candle.High = price
		}
		if price < b.candle.Low {
			b.candle.Low = price
		}
		b.candle.Close = price
	}

	for _, v := range resp.TotalVolumes {
		if b, ok := buckets[at(v[0])]; ok && b.seen {
			b.candle.Volume += v[1]
		}
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	candles := make([]market.Candle, 0, len(keys))
	for _, k := range keys {
		candles = append(candles, buckets[k].candle)
	}
	return candles
}
