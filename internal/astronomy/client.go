// Package astronomy provides a client for the AstronomyAPI bodies/positions
// endpoint, with a process-wide cache in front of it.
package astronomy

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.astronomyapi.com"

	// Observer location is pinned to the reference point; the horoscope
	// only cares about geocentric sign placements, not local topocentric
	// corrections.
	observerLatitude  = "0"
	observerLongitude = "0"
	observerElevation = "0"
)

// Config holds the configuration for the astronomy client.
type Config struct {
	AppID     string
	AppSecret string
	BaseURL   string
	Cache     *Cache
}

// Client fetches planetary positions from AstronomyAPI.
type Client struct {
	http  *resty.Client
	cache *Cache
}

// NewClient creates a new astronomy client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Cache == nil {
		cfg.Cache = NewCache(DefaultTTL, DefaultMaxEntries)
	}

	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetBasicAuth(cfg.AppID, cfg.AppSecret).
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(1 * time.Second),
		cache: cfg.Cache,
	}
}

// FetchPositions returns the equatorial positions of all bodies for one
// calendar day (YYYY-MM-DD). Results are cached by (location, date range);
// the time-of-day parameter is deliberately left out of the key so repeated
// calls for the same day hit the cache. Upstream failures are returned
// uncached.
func (c *Client) FetchPositions(ctx context.Context, date string) (*PositionsPayload, error) {
	key := cacheKey(observerLatitude, observerLongitude, observerElevation, date, date)

	if payload, ok := c.cache.Get(key); ok {
		log.Debug().Str("date", date).Msg("Positions served from cache")
		return payload, nil
	}

	var payload PositionsPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  observerLatitude,
			"longitude": observerLongitude,
			"elevation": observerElevation,
			"from_date": date,
			"to_date":   date,
			"time":      "00:00:00",
		}).
		SetResult(&payload).
		Get("/api/v2/bodies/positions")
	if err != nil {
		return nil, fmt.Errorf("positions request failed: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("positions API returned %d: %s", resp.StatusCode(), resp.String())
	}

	c.cache.Put(key, &payload)

	log.Debug().
		Str("date", date).
		Int("bodies", len(payload.Data.Table.Rows)).
		Msg("Positions fetched from AstronomyAPI")

	return &payload, nil
}

func cacheKey(lat, lon, elev, from, to string) string {
	return lat + "|" + lon + "|" + elev + "|" + from + "|" + to
}

// PositionsPayload is the bodies/positions response.
type PositionsPayload struct {
	Data struct {
		Table struct {
			Rows []BodyRow `json:"rows"`
		} `json:"table"`
	} `json:"data"`
}

// BodyRow is one celestial body in the positions table.
type BodyRow struct {
	Entry BodyEntry  `json:"entry"`
	Cells []BodyCell `json:"cells"`
}

// BodyEntry identifies the body.
type BodyEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BodyCell holds one observation of the body.
type BodyCell struct {
	Position  *BodyPosition `json:"position"`
	ExtraInfo *ExtraInfo    `json:"extra_info"`
}

// BodyPosition wraps the coordinate systems the API reports.
type BodyPosition struct {
	Equatorial *EquatorialCoords `json:"equatorial"`
}

// EquatorialCoords is a right ascension / declination pair. The API encodes
// the numbers as strings.
type EquatorialCoords struct {
	RightAscension *Angle `json:"right_ascension"`
	Declination    *Angle `json:"declination"`
}

// Angle is a single string-encoded angular value.
type Angle struct {
	Hours   string `json:"hours,omitempty"`
	Degrees string `json:"degrees,omitempty"`
}

// ExtraInfo carries body-specific extras; only the moon has a phase.
type ExtraInfo struct {
	Phase *PhaseInfo `json:"phase"`
}

// PhaseInfo is the lunar phase descriptor.
type PhaseInfo struct {
	String string `json:"string"`
}

// Equatorial returns the body's RA (hours) and declination (degrees) from
// its first cell. ok is false when the payload carries no equatorial block
// at all; individual missing or malformed values fall back to zero, which
// the resolver tolerates.
func (r BodyRow) Equatorial() (raHours, decDeg float64, ok bool) {
	if len(r.Cells) == 0 {
		return 0, 0, false
	}
	cell := r.Cells[0]
	if cell.Position == nil || cell.Position.Equatorial == nil {
		return 0, 0, false
	}

	eq := cell.Position.Equatorial
	if eq.RightAscension != nil {
		raHours = parseAngle(eq.RightAscension.Hours)
	}
	if eq.Declination != nil {
		decDeg = parseAngle(eq.Declination.Degrees)
	}
	return raHours, decDeg, true
}

// MoonPhase returns the lunar phase string from the first cell, or "" when
// the body has none.
func (r BodyRow) MoonPhase() string {
	if len(r.Cells) == 0 || r.Cells[0].ExtraInfo == nil || r.Cells[0].ExtraInfo.Phase == nil {
		return ""
	}
	return r.Cells[0].ExtraInfo.Phase.String
}

func parseAngle(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
