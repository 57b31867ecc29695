// Package geocode resolves place-name candidates through the Mapbox
// geocoding API, with response caching, a call-budget rate limiter, and
// country-consistency validation of the returned matches.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Misadov/radiomap/internal/model"
)

const (
	defaultBaseURL     = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	defaultRateCeiling = 300 // calls per rolling minute
	resultLimit        = 5   // fetch several matches for country validation
)

type cacheKey struct {
	text     string
	country  string
	category model.Category
}

// Resolver wraps the Mapbox geocoding service. All mutable state (cache,
// rate limiter, call counter) is owned by one instance; construct isolated
// instances in tests rather than sharing globals.
type Resolver struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *windowLimiter
	cache      map[cacheKey]*model.GeoResult
	persist    *Cache // optional cross-run cache, may be nil
	calls      int
}

// Option configures the resolver.
type Option func(*Resolver)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Resolver) { r.httpClient = hc }
}

// WithBaseURL overrides the Mapbox endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(r *Resolver) { r.baseURL = strings.TrimRight(u, "/") }
}

// WithRateCeiling sets the maximum calls per rolling minute.
func WithRateCeiling(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.limiter = newWindowLimiter(n, time.Minute)
		}
	}
}

// WithPersistentCache attaches a cross-run response cache.
func WithPersistentCache(c *Cache) Option {
	return func(r *Resolver) { r.persist = c }
}

// NewResolver creates a Resolver for the given Mapbox access token.
func NewResolver(token string, opts ...Option) *Resolver {
	r := &Resolver{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    newWindowLimiter(defaultRateCeiling, time.Minute),
		cache:      make(map[cacheKey]*model.GeoResult),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calls reports how many external calls this resolver has issued.
func (r *Resolver) Calls() int { return r.calls }

// Resolve geocodes a candidate text. A cached result short-circuits all
// network and rate-limit logic. Network or service failures are logged and
// reported as no result; the returned error is non-nil only when the
// context is done.
func (r *Resolver) Resolve(ctx context.Context, text, countryHint string, category model.Category) (*model.GeoResult, error) {
	key := cacheKey{strings.ToLower(text), countryHint, category}
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}
	if r.persist != nil {
		cached, err := r.persist.Get(ctx, key)
		if err != nil {
			zap.L().Warn("geocode: persistent cache read failed", zap.Error(err))
		} else if cached != nil {
			r.cache[key] = cached
			return cached, nil
		}
	}

	r.limiter.acquire()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := buildQuery(text, countryHint)
	features, err := r.fetch(ctx, query, typesForCategory(category))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		zap.L().Warn("geocode: lookup failed",
			zap.String("location", text),
			zap.Error(err),
		)
		return nil, nil
	}

	result := selectBest(features, countryHint)
	if result != nil {
		r.cache[key] = result
		if r.persist != nil {
			if err := r.persist.Put(ctx, key, result); err != nil {
				zap.L().Warn("geocode: persistent cache write failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

// buildQuery appends the country hint unless its name already appears in
// the candidate text.
func buildQuery(text, countryHint string) string {
	query := strings.TrimSpace(text)
	if countryHint != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(countryHint)) {
		query += ", " + countryHint
	}
	return query
}

// typesForCategory maps a candidate category to the place granularities the
// service may return, narrowing the search to reduce false positives.
func typesForCategory(c model.Category) string {
	switch c {
	case model.CategoryCity:
		return "place,locality"
	case model.CategoryVillage:
		return "locality,neighborhood,place"
	case model.CategoryRegion:
		return "region,place"
	case model.CategoryCountry:
		return "country"
	case model.CategoryPotential:
		return "place,locality,region"
	default:
		return "place,locality,region,country"
	}
}

// selectBest scans the returned features in order. A feature whose country
// fails to match the hint is discarded entirely. The first country-matched
// high-confidence feature wins outright; otherwise the first surviving
// feature is remembered and returned.
func selectBest(features []mapboxFeature, countryHint string) *model.GeoResult {
	var variations []string
	if countryHint != "" {
		variations = countryVariations(normalizeCountry(countryHint))
	}

	var best *model.GeoResult
	for _, f := range features {
		if len(f.Center) < 2 {
			continue
		}

		countryMatch := true
		if len(variations) > 0 {
			actual := lastSegment(f.PlaceName)
			countryMatch = matchesAny(actual, variations)
			if !countryMatch {
				zap.L().Debug("geocode: country mismatch",
					zap.String("expected", countryHint),
					zap.String("got", actual),
					zap.String("place", f.PlaceName),
				)
				continue
			}
		}

		confidence := classifyConfidence(f.PlaceType, countryMatch)
		placeType := "unknown"
		if len(f.PlaceType) > 0 {
			placeType = f.PlaceType[0]
		}
		result := &model.GeoResult{
			Latitude:   f.Center[1],
			Longitude:  f.Center[0],
			PlaceName:  f.PlaceName,
			PlaceType:  placeType,
			Confidence: confidence,
			Method:     "mapbox",
		}

		if best == nil {
			best = result
		}
		if countryMatch && confidence == model.ConfidenceHigh {
			return result
		}
	}
	return best
}

// classifyConfidence derives the confidence tier from the feature type and
// the country-match outcome.
func classifyConfidence(placeTypes []string, countryMatch bool) model.Confidence {
	hasType := func(want string) bool {
		for _, t := range placeTypes {
			if t == want {
				return true
			}
		}
		return false
	}
	switch {
	case hasType("place") || hasType("locality"):
		if countryMatch {
			return model.ConfidenceHigh
		}
		return model.ConfidenceMedium
	case hasType("region"):
		if countryMatch {
			return model.ConfidenceMedium
		}
		return model.ConfidenceLow
	default:
		return model.ConfidenceLow
	}
}

// lastSegment returns the final comma-delimited segment of a place label,
// which is where the service puts the country.
func lastSegment(placeName string) string {
	parts := strings.Split(placeName, ",")
	return strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
}

func matchesAny(actual string, variations []string) bool {
	for _, v := range variations {
		if strings.Contains(actual, v) {
			return true
		}
	}
	return false
}
