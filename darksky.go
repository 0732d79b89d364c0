package main

import (
	"context"
	"database/sql"
	"math"
	"sort"

	"github.com/google/uuid"
)

// The dark-sky catalog lists known observing sites. The static catalog is
// the default; deployments that maintain their own site database plug in
// the Postgres store instead. Both satisfy darkSkyStore.

type darkSkyStore interface {
	Sites(ctx context.Context) ([]DarkSkySite, error)
}

// StaticDarkSkyCatalog serves the built-in site list.
type StaticDarkSkyCatalog struct {
	sites []DarkSkySite
}

func NewStaticDarkSkyCatalog() *StaticDarkSkyCatalog {
	return &StaticDarkSkyCatalog{sites: []DarkSkySite{
		{
			ID:            "great-basin-nv",
			Name:          "Great Basin National Park",
			Coordinates:   Coordinates{Lat: 38.98, Lng: -114.22},
			DarkSkyScore:  95,
			BortleClass:   2,
			Elevation:     2000,
			Description:   "IDA certified International Dark Sky Park with exceptional visibility",
			Accessibility: "easy",
			Type:          "park",
		},
		{
			ID:            "death-valley-ca",
			Name:          "Death Valley National Park",
			Coordinates:   Coordinates{Lat: 36.86, Lng: -117.13},
			DarkSkyScore:  93,
			BortleClass:   2,
			Elevation:     -86,
			Description:   "Vast dark sky preserve with minimal light pollution",
			Accessibility: "easy",
			Type:          "park",
		},
		{
			ID:            "joshua-tree-ca",
			Name:          "Joshua Tree National Park",
			Coordinates:   Coordinates{Lat: 33.87, Lng: -115.90},
			DarkSkyScore:  88,
			BortleClass:   3,
			Elevation:     1200,
			Description:   "Popular stargazing destination with unique desert landscape",
			Accessibility: "easy",
			Type:          "park",
		},
		{
			ID:            "red-rock-nv",
			Name:          "Red Rock Canyon",
			Coordinates:   Coordinates{Lat: 36.13, Lng: -115.43},
			DarkSkyScore:  72,
			BortleClass:   4,
			Elevation:     1000,
			Description:   "Accessible dark-sky site near Las Vegas",
			Accessibility: "easy",
			Type:          "reserve",
		},
		{
			ID:            "valley-fire-nv",
			Name:          "Valley of Fire State Park",
			Coordinates:   Coordinates{Lat: 36.49, Lng: -114.53},
			DarkSkyScore:  85,
			BortleClass:   3,
			Elevation:     650,
			Description:   "Stunning red rock formations with good dark skies",
			Accessibility: "easy",
			Type:          "park",
		},
	}}
}

func (c *StaticDarkSkyCatalog) Sites(ctx context.Context) ([]DarkSkySite, error) {
	sites := make([]DarkSkySite, len(c.sites))
	copy(sites, c.sites)
	return sites, nil
}

// PostgresDarkSkyStore reads the catalog from a darksky_sites table.
type PostgresDarkSkyStore struct {
	db *sql.DB
}

func NewPostgresDarkSkyStore(db *sql.DB) *PostgresDarkSkyStore {
	return &PostgresDarkSkyStore{db: db}
}

func (s *PostgresDarkSkyStore) Sites(ctx context.Context) ([]DarkSkySite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, name, latitude, longitude, dark_sky_score, bortle_class, elevation_m, description, accessibility, site_type
		FROM darksky_sites
		ORDER BY dark_sky_score DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []DarkSkySite
	for rows.Next() {
		var site DarkSkySite
		if err := rows.Scan(
			&site.ID,
			&site.Name,
			&site.Coordinates.Lat,
			&site.Coordinates.Lng,
			&site.DarkSkyScore,
			&site.BortleClass,
			&site.Elevation,
			&site.Description,
			&site.Accessibility,
			&site.Type,
		); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// AddSite inserts a new catalog entry and returns its generated row id.
func (s *PostgresDarkSkyStore) AddSite(ctx context.Context, site DarkSkySite) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO darksky_sites (id, slug, name, latitude, longitude, dark_sky_score, bortle_class, elevation_m, description, accessibility, site_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id,
		normalizeSlug(site.Name),
		site.Name,
		site.Coordinates.Lat,
		site.Coordinates.Lng,
		site.DarkSkyScore,
		site.BortleClass,
		site.Elevation,
		site.Description,
		site.Accessibility,
		site.Type,
	)
	return id, err
}

// findNearbyDarkSkySites resolves catalog sites within maxDistanceKm of
// coords, ranked by a blend of darkness and proximity so a slightly
// dimmer site next door can beat a pristine one three hours away.
func (cfg *apiConfig) findNearbyDarkSkySites(ctx context.Context, coords Coordinates, maxDistanceKm float64, limit int) ([]DarkSkySite, error) {
	sites, err := cfg.darkSkyStore.Sites(ctx)
	if err != nil {
		return nil, err
	}

	var nearby []DarkSkySite
	for _, site := range sites {
		site.DistanceKm = math.Round(haversineKm(coords, site.Coordinates)*10) / 10
		if site.DistanceKm <= maxDistanceKm {
			nearby = append(nearby, site)
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		scoreI := float64(nearby[i].DarkSkyScore) - nearby[i].DistanceKm*0.2
		scoreJ := float64(nearby[j].DarkSkyScore) - nearby[j].DistanceKm*0.2
		return scoreI > scoreJ
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

// Major light domes used by the score estimate.
var (
	cityLasVegas   = Coordinates{Lat: 36.1699, Lng: -115.1398}
	cityLosAngeles = Coordinates{Lat: 34.0522, Lng: -118.2437}
	cityPhoenix    = Coordinates{Lat: 33.4484, Lng: -112.0740}
)

// estimateDarkSkyScore approximates sky darkness at coords from the
// distance to the nearest major population center. A light-pollution
// raster would do this properly; the tiers are a serviceable stand-in.
func estimateDarkSkyScore(coords Coordinates) int {
	minDistance := math.Min(
		haversineKm(coords, cityLasVegas),
		math.Min(haversineKm(coords, cityLosAngeles), haversineKm(coords, cityPhoenix)),
	)

	switch {
	case minDistance < 10:
		return 35
	case minDistance < 20:
		return 50
	case minDistance < 40:
		return 65
	case minDistance < 80:
		return 80
	case minDistance < 150:
		return 90
	default:
		return 100
	}
}

// tonightDarkSkyScore folds tonight's moon and weather into the static
// estimate for the observer's own location. Clamped to [20,99]: even a
// perfect site is never reported as a flawless 100 under a real sky.
func tonightDarkSkyScore(coords Coordinates, moonIllumination float64, weather *SkyQuality) int {
	score := estimateDarkSkyScore(coords) - moonPenalty(moonIllumination) + weatherAdjustment(weather)
	return int(clamp(float64(score), 20, 99))
}

// rankSitesForTonight applies the same adjustment to each nearby site,
// with a small ordinal nudge so the response order is strict.
func rankSitesForTonight(sites []DarkSkySite, moonIllumination float64, weather *SkyQuality) []DarkSkySite {
	penalty := moonPenalty(moonIllumination)
	adjustment := weatherAdjustment(weather)

	ranked := make([]DarkSkySite, len(sites))
	copy(ranked, sites)
	for i := range ranked {
		ranked[i].DarkSkyScore = int(clamp(float64(ranked[i].DarkSkyScore-penalty+adjustment-i), 25, 99))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DarkSkyScore > ranked[j].DarkSkyScore
	})
	return ranked
}

func moonPenalty(moonIllumination float64) int {
	return int(math.Round(moonIllumination * 0.1))
}

func weatherAdjustment(weather *SkyQuality) int {
	if weather == nil {
		return 0
	}
	return int(math.Round(float64(weather.Quality-60) * 0.2))
}
