package main

import (
	"time"
)

// Coordinates is an observer location. Valid instances always hold finite
// values inside [-90,90] / [-180,180]; construction goes through
// parseCoordinates.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SkyQuality is one fused weather reading converted into astronomy terms.
// Source names the provider that answered, or "estimated" when every
// provider failed and the fixed fallback reading was substituted.
type SkyQuality struct {
	CloudCover   float64 `json:"cloud_cover"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed_kmh"`
	Temperature  float64 `json:"temperature_c"`
	Transparency float64 `json:"transparency"`
	Quality      int     `json:"quality"`
	Seeing       string  `json:"seeing"`
	Source       string  `json:"source"`
}

// VisibilityScore is the composite 0-100 observability score for a single
// target, with its contributing factors.
type VisibilityScore struct {
	Score   int               `json:"score"`
	Rating  string            `json:"rating"`
	Factors VisibilityFactors `json:"factors"`
}

type VisibilityFactors struct {
	MoonInterference      int `json:"moon_interference"`
	Altitude              int `json:"altitude"`
	AtmosphericConditions int `json:"atmospheric_conditions"`
	LightPollution        int `json:"light_pollution"`
}

// AstronomyEvent is one generated calendar entry. IDs are deterministic
// slugs of type and date so regenerating a range reproduces identical ids.
type AstronomyEvent struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"` // ISO instant
	Window          string `json:"window"`
	Visibility      string `json:"visibility"`
	VisibilityScore int    `json:"visibility_score"`
	Summary         string `json:"summary"`
	Type            string `json:"type"` // moon, meteor, planet, eclipse, conjunction, other
	Peak            string `json:"peak,omitempty"`

	// at is the parsed instant behind Date; sorting uses it because
	// RFC3339 strings with mixed zone offsets do not order lexically.
	at time.Time
}

// MeteorShower is one entry of the static shower catalog.
type MeteorShower struct {
	Name        string
	Peak        time.Time
	ZHR         int
	ActiveStart time.Time
	ActiveEnd   time.Time
}

// ISSPass is one predicted station pass over the observer.
type ISSPass struct {
	Risetime    time.Time `json:"risetime"`
	Duration    int       `json:"duration_s"`
	RiseAzimuth float64   `json:"rise_azimuth"`
	MaxAltitude float64   `json:"max_altitude"`
	SetAzimuth  float64   `json:"set_azimuth"`
	Brightness  string    `json:"brightness"` // visible, possibly-visible, not-visible
}

// ISSPosition is the station's current ground track point.
type ISSPosition struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude_km"`
	Velocity  float64   `json:"velocity_kmh"`
	Timestamp time.Time `json:"timestamp"`
}

// DarkSkySite is one known observing location, scored against tonight's
// conditions when served.
type DarkSkySite struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Coordinates   Coordinates `json:"coordinates"`
	DistanceKm    float64     `json:"distance_km"`
	DarkSkyScore  int         `json:"dark_sky_score"`
	BortleClass   int         `json:"bortle_class"`
	Elevation     int         `json:"elevation_m"`
	Description   string      `json:"description"`
	Accessibility string      `json:"accessibility"`
	Type          string      `json:"type"`
}

// --- Tonight-plan payload ---

type MoonJSON struct {
	Phase        string     `json:"phase"`
	Illumination float64    `json:"illumination"`
	Age          float64    `json:"age"`
	Rise         *time.Time `json:"rise"`
	Set          *time.Time `json:"set"`
}

type SunJSON struct {
	Sunset           time.Time `json:"sunset"`
	Sunrise          time.Time `json:"sunrise"`
	AstronomicalDusk time.Time `json:"astronomical_dusk"`
	AstronomicalDawn time.Time `json:"astronomical_dawn"`
}

type OptimalWindowJSON struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Quality  int       `json:"quality"`
	Duration int       `json:"duration_h"`
}

type VisiblePlanet struct {
	Name          string  `json:"name"`
	Altitude      float64 `json:"altitude"`
	Azimuth       float64 `json:"azimuth"`
	Visibility    string  `json:"visibility"`
	BestDirection string  `json:"best_direction"`
}

type ActiveShowerJSON struct {
	Name string    `json:"name"`
	ZHR  int       `json:"zhr"`
	Peak time.Time `json:"peak"`
}

type ISSPassJSON struct {
	Risetime    string  `json:"risetime"`
	Duration    int     `json:"duration_s"`
	MaxAltitude float64 `json:"max_altitude"`
	Brightness  string  `json:"brightness"`
	Formatted   string  `json:"formatted"`
}

type Recommendation struct {
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timing      string `json:"timing"`
}

type OverallQuality struct {
	Score       int    `json:"score"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
}

// TonightPlan is the full composed payload for one (location, date)
// request. Degraded branches surface as null weather, empty pass lists or
// "estimated" source tags; the plan itself always materializes.
type TonightPlan struct {
	Location        Coordinates        `json:"location"`
	Date            string             `json:"date"`
	Moon            MoonJSON           `json:"moon"`
	Sun             SunJSON            `json:"sun"`
	OptimalWindow   OptimalWindowJSON  `json:"optimal_window"`
	LocalDarkSky    int                `json:"local_dark_sky_score"`
	Weather         *SkyQuality        `json:"weather"`
	VisiblePlanets  []VisiblePlanet    `json:"visible_planets"`
	TonightEvents   []AstronomyEvent   `json:"tonight_events"`
	ActiveShowers   []ActiveShowerJSON `json:"active_showers"`
	ISSPasses       []ISSPassJSON      `json:"iss_passes"`
	Recommendations []Recommendation   `json:"recommendations"`
	OverallQuality  OverallQuality     `json:"overall_quality"`
	GeneratedAt     string             `json:"generated_at"`
}

// EventsResponse wraps the events endpoint payload.
type EventsResponse struct {
	Location *Coordinates     `json:"location,omitempty"`
	From     string           `json:"from"`
	Days     int              `json:"days"`
	Events   []AstronomyEvent `json:"events"`
}

// SkyQualityResponse wraps the sky-quality endpoint payload.
type SkyQualityResponse struct {
	SkyQuality
	Location  Coordinates `json:"location"`
	Timestamp string      `json:"timestamp"`
}

// ISSResponse wraps the ISS endpoint payload.
type ISSResponse struct {
	Location Coordinates  `json:"location"`
	Passes   []ISSPass    `json:"passes"`
	Position *ISSPosition `json:"position"`
}

// ConfigResponse reports runtime configuration to clients.
type ConfigResponse struct {
	DevMode         bool   `json:"dev_mode"`
	CacheBackend    string `json:"cache_backend"`
	SkyProvider     string `json:"sky_provider"`
	RefreshInterval string `json:"refresh_interval"`
}
