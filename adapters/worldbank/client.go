package worldbank

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"macropulse/domain/core"
	"macropulse/domain/series"
)

// World Bank indicator codes for the two tracked series.
const (
	inflationCode = "FP.CPI.TOTL.ZG"    // inflation, consumer prices (annual %)
	gdpGrowthCode = "NY.GDP.MKTP.KD.ZG" // GDP growth (annual %)

	// DefaultBaseURL is the public World Bank indicators API.
	DefaultBaseURL = "https://api.worldbank.org/v2"
)

// Config selects what the client fetches and how long it may take.
type Config struct {
	BaseURL   string
	Country   string // ISO code, e.g. "US"
	StartYear int
	EndYear   int
	Timeout   time.Duration
}

// Client fetches both indicators from the World Bank API. The combined
// fetch is all-or-nothing: a failure on either indicator aborts the
// whole acquisition with ErrSourceUnavailable.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a World Bank API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Name identifies the source in errors and logs.
func (c *Client) Name() string {
	return fmt.Sprintf("worldbank(%s)", c.config.Country)
}

// Fetch retrieves both indicator series under one bounded deadline and
// merges them into yearly observations. Missing API values stay nil.
func (c *Client) Fetch(ctx context.Context) ([]series.Observation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var inflation, gdpGrowth map[int]float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inflation, err = c.fetchIndicator(gctx, inflationCode)
		return err
	})
	g.Go(func() error {
		var err error
		gdpGrowth, err = c.fetchIndicator(gctx, gdpGrowthCode)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, core.NewSourceError(c.Name(), err)
	}

	return mergeIndicators(inflation, gdpGrowth), nil
}

// fetchIndicator retrieves one indicator as a year-keyed map. Years the
// API reports with a null value are omitted from the map.
func (c *Client) fetchIndicator(ctx context.Context, code string) (map[int]float64, error) {
	url := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&date=%d:%d&per_page=1000",
		c.config.BaseURL, c.config.Country, code, c.config.StartYear, c.config.EndYear)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", code, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", code, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", code, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", code, resp.StatusCode)
	}

	return parseIndicator(body, code)
}

// parseIndicator extracts (year, value) pairs from the World Bank JSON
// envelope: a two-element array of [metadata, records]. An envelope
// without a records array is an API-level error message.
func parseIndicator(body []byte, code string) (map[int]float64, error) {
	records := gjson.GetBytes(body, "1")
	if !records.IsArray() {
		msg := gjson.GetBytes(body, "0.message.0.value").String()
		if msg == "" {
			msg = "response missing records array"
		}
		return nil, fmt.Errorf("%s: %s", code, msg)
	}

	out := make(map[int]float64)
	for _, rec := range records.Array() {
		value := rec.Get("value")
		if value.Type == gjson.Null {
			continue
		}
		year, err := strconv.Atoi(rec.Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("%s: bad date %q: %w", code, rec.Get("date").String(), err)
		}
		out[year] = value.Float()
	}
	return out, nil
}

// mergeIndicators joins the two year-keyed maps into observations.
func mergeIndicators(inflation, gdpGrowth map[int]float64) []series.Observation {
	years := make(map[int]struct{}, len(inflation)+len(gdpGrowth))
	for y := range inflation {
		years[y] = struct{}{}
	}
	for y := range gdpGrowth {
		years[y] = struct{}{}
	}

	obs := make([]series.Observation, 0, len(years))
	for y := range years {
		o := series.Observation{Year: y}
		if v, ok := inflation[y]; ok {
			o.Inflation = series.Float(v)
		}
		if v, ok := gdpGrowth[y]; ok {
			o.GDPGrowth = series.Float(v)
		}
		obs = append(obs, o)
	}
	return obs
}
