package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// mapboxResponse is the JSON response of the forward-geocoding endpoint.
type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	Center    []float64 `json:"center"` // [longitude, latitude]
	PlaceName string    `json:"place_name"`
	PlaceType []string  `json:"place_type"`
}

// fetch issues one forward-geocoding request and returns the raw features.
func (r *Resolver) fetch(ctx context.Context, query, types string) ([]mapboxFeature, error) {
	params := url.Values{
		"access_token": {r.token},
		"types":        {types},
		"limit":        {fmt.Sprintf("%d", resultLimit)},
	}
	reqURL := fmt.Sprintf("%s/%s.json?%s", r.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}

	r.calls++
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: mapbox returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var parsed mapboxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}
	return parsed.Features, nil
}
