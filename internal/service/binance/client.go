// Package binance fetches closed candles from the Binance spot REST API.
package binance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"FinCast/internal/domain/errs"
	"FinCast/internal/domain/models"
	drepo "FinCast/internal/domain/repository"
	xhttp "FinCast/pkg/http"
	applogger "FinCast/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const klinesPath = "/api/v3/klines"

// Client implements repository.CandleSource against /api/v3/klines.
type Client struct {
	baseURL string
	http    *xhttp.Client
	logger  *applogger.Logger
}

// New creates a Binance candle source. A nil http client gets one with no
// timeout; cancellation comes from the request context only.
func New(baseURL string, httpClient *xhttp.Client, l *applogger.Logger) *Client {
	if httpClient == nil {
		httpClient = xhttp.NewClient()
	}
	if l == nil {
		l = applogger.NewNop()
	}
	return &Client{baseURL: baseURL, http: httpClient, logger: l}
}

var _ drepo.CandleSource = (*Client)(nil)

// FetchCandles returns the closed 5m candles for token, oldest first. The
// still-forming last candle is dropped.
func (c *Client) FetchCandles(ctx context.Context, token string) ([]models.CandleRecord, error) {
	symbol, ok := drepo.SymbolFor(token)
	if !ok {
		return nil, &errs.UnsupportedTokenError{Token: token}
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + klinesPath,
		QueryParams: map[string][]string{
			"symbol":   {symbol},
			"interval": {string(drepo.CandleTimeframe)},
			"limit":    {strconv.Itoa(drepo.CandleLimit)},
		},
	}, &body)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			return nil, &errs.UpstreamFetchError{Status: se.Status, Body: string(se.Body)}
		}
		return nil, &errs.UpstreamFetchError{Err: err}
	}

	candles, err := parseKlines(body)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, &errs.EmptyDataError{Reason: "exchange returned no candles for " + symbol}
	}

	candles = candles[:len(candles)-1]
	if len(candles) == 0 {
		return nil, &errs.EmptyDataError{Reason: "no closed candles for " + symbol}
	}

	c.logger.Debug("candles fetched",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(candles)),
	)
	return candles, nil
}

// parseKlines decodes the kline array. Each entry is
// [open_time, open, high, low, close, volume, close_time, ...].
func parseKlines(body []byte) ([]models.CandleRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, malformed("body is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, malformed("body is not an array")
	}

	entries := root.Array()
	out := make([]models.CandleRecord, 0, len(entries))
	for i, entry := range entries {
		rec, err := parseKline(entry)
		if err != nil {
			return nil, malformed(fmt.Sprintf("entry %d: %v", i, err))
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseKline(entry gjson.Result) (models.CandleRecord, error) {
	if !entry.IsArray() {
		return models.CandleRecord{}, fmt.Errorf("not an array")
	}
	f := entry.Array()
	if len(f) < 7 {
		return models.CandleRecord{}, fmt.Errorf("expected at least 7 fields, got %d", len(f))
	}

	var vals [5]float64
	for j, name := range [5]string{"open", "high", "low", "close", "volume"} {
		d, err := decimal.NewFromString(f[j+1].String())
		if err != nil {
			return models.CandleRecord{}, fmt.Errorf("%s %q: %w", name, f[j+1].Raw, err)
		}
		v := d.InexactFloat64()
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return models.CandleRecord{}, fmt.Errorf("%s %s is not finite", name, f[j+1].Raw)
		}
		vals[j] = v
	}

	if f[6].Type != gjson.Number {
		return models.CandleRecord{}, fmt.Errorf("close_time %s is not a number", f[6].Raw)
	}

	return models.CandleRecord{
		Timestamp: time.UnixMilli(f[6].Int()).UTC(),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
		Price:     vals[3],
	}, nil
}

func malformed(detail string) error {
	return &errs.UpstreamFetchError{Err: fmt.Errorf("malformed kline payload: %s", detail)}
}
