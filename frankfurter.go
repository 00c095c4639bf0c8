package tracker

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// The reference-rate source is the Frankfurter API, which republishes ECB
// rates with EUR as the base: exactly the "units per 1 EUR" semantics the
// rate table stores. No API key is needed.

// FrankfurterBase is the default reference-rate endpoint.
const FrankfurterBase = "https://api.frankfurter.dev/v1/latest"

// refreshTimeout bounds the one-shot rate fetch.
const refreshTimeout = 15 * time.Second

// ErrRefreshInFlight is returned when a refresh is requested while another
// one is still running.
var ErrRefreshInFlight = errors.New("a rates refresh is already running")

// RefreshResult is the completion event of an asynchronous refresh: either
// Rates and Date are set, or Err is.
type RefreshResult struct {
	Rates map[string]float64
	Date  string
	Err   error
}

// refreshClient returns the client used for rate fetches, timeout-bounded so
// the call never hangs the session.
func refreshClient() *http.Client {
	return &http.Client{Timeout: refreshTimeout}
}

// FetchRates fetches the latest EUR-based rates for the given currency
// codes from a Frankfurter-compatible endpoint. EUR is filtered out of the
// query; codes the service does not recognize are simply absent from the
// result. On failure the error states the concrete reason: timeout,
// unreachable service, or malformed response.
func FetchRates(client *http.Client, base string, currencies []string) (map[string]float64, string, error) {
	var symbols []string
	for _, c := range currencies {
		if strings.ToUpper(c) != "EUR" {
			symbols = append(symbols, c)
		}
	}
	if len(symbols) == 0 {
		return map[string]float64{}, "", nil
	}

	addr := base + "?symbols=" + url.QueryEscape(strings.Join(symbols, ","))

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		var uerr *url.Error
		switch {
		case errors.As(err, &uerr) && uerr.Timeout():
			return nil, "", fmt.Errorf("request timed out after %v: %w", refreshTimeout, err)
		case errors.As(err, &uerr):
			return nil, "", fmt.Errorf("could not reach rate service: %w", err)
		default:
			return nil, "", fmt.Errorf("invalid response from rate service: %w", err)
		}
	}

	jrates, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return nil, "", fmt.Errorf("invalid response from rate service: no rates object: %w", err)
	}
	rateMap, ok := jrates.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("invalid response from rate service: rates is not an object")
	}

	rates := make(map[string]float64, len(rateMap))
	for code, v := range rateMap {
		if f, ok := v.(float64); ok {
			rates[code] = f
		}
	}

	date := ""
	if jdate, err := jsonpath.Get("$.date", jobj); err == nil {
		if s, ok := jdate.(string); ok {
			date = s
		}
	}
	return rates, date, nil
}

// Refresh synchronously fetches rates for the table's tracked currencies
// and merges the returned subset in. On any failure the existing rates are
// left untouched. It returns the as-of date reported by the service.
func (t *RateTable) Refresh(client *http.Client, base string) (string, error) {
	rates, date, err := FetchRates(client, base, t.symbols())
	if err != nil {
		return "", err
	}
	t.merge(rates, date)
	return date, nil
}

// RefreshAsync runs Refresh off the caller's path and reports the outcome
// through done, called exactly once from the background goroutine. A second
// refresh while one is outstanding is rejected with ErrRefreshInFlight; no
// queueing.
func (t *RateTable) RefreshAsync(done func(RefreshResult)) error {
	t.mu.Lock()
	if t.refreshing {
		t.mu.Unlock()
		return ErrRefreshInFlight
	}
	t.refreshing = true
	t.mu.Unlock()

	go func() {
		date, err := t.Refresh(refreshClient(), FrankfurterBase)

		t.mu.Lock()
		t.refreshing = false
		rates := make(map[string]float64, len(t.rates))
		for k, v := range t.rates {
			rates[k] = v
		}
		t.mu.Unlock()

		if err != nil {
			done(RefreshResult{Err: err})
			return
		}
		done(RefreshResult{Rates: rates, Date: date})
	}()
	return nil
}
