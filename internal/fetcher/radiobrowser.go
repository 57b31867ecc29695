// Package fetcher pulls station lists from the Radio Browser API.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/model"
)

const (
	defaultBaseURL  = "http://all.api.radio-browser.info/json/stations"
	defaultPageSize = 10000
)

// Client fetches stations lacking coordinates from Radio Browser.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
}

// ClientOption configures the fetcher client.
type ClientOption func(*Client)

// WithBaseURL overrides the Radio Browser endpoint, used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize sets the pagination chunk size.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewClient creates a Radio Browser client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageSize:   defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// stationJSON mirrors the Radio Browser station tuple. geo fields are
// strings-or-numbers upstream; raw JSON presence is what matters here.
type stationJSON struct {
	StationUUID string          `json:"stationuuid"`
	Name        string          `json:"name"`
	Country     string          `json:"country"`
	State       string          `json:"state"`
	GeoLat      json.RawMessage `json:"geo_lat"`
	GeoLong     json.RawMessage `json:"geo_long"`
}

func (s stationJSON) hasGeo() bool {
	return hasValue(s.GeoLat) || hasValue(s.GeoLong)
}

func hasValue(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null" && trimmed != `""`
}

// FetchUngeocoded returns stations without coordinates. Pages are fetched
// until a partial page signals end of data; limit > 0 caps the total.
func (c *Client) FetchUngeocoded(ctx context.Context, limit int) ([]model.Station, error) {
	var stations []model.Station
	offset := 0

	for {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, raw := range page {
			if raw.StationUUID == "" || raw.hasGeo() {
				continue
			}
			stations = append(stations, model.Station{
				UUID:    raw.StationUUID,
				Name:    raw.Name,
				Country: raw.Country,
				State:   raw.State,
			})
			if limit > 0 && len(stations) >= limit {
				return stations, nil
			}
		}

		offset += c.pageSize
		if len(page) < c.pageSize {
			break // partial page, end of data
		}
	}

	zap.L().Info("fetched stations without coordinates", zap.Int("count", len(stations)))
	return stations, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) ([]stationJSON, error) {
	reqURL := fmt.Sprintf("%s?offset=%d&limit=%d&has_geo_info=false", c.baseURL, offset, c.pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("fetcher: radio browser returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read body")
	}

	var page []stationJSON
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, eris.Wrap(err, "fetcher: parse response")
	}
	return page, nil
}
