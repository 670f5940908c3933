package domain

import "time"

// Earthquake is the canonical record for one BMKG seismic event.
type Earthquake struct {
	OccurredAt       time.Time `json:"datetime"`
	Magnitude        float64   `json:"magnitude"`
	DepthKm          float64   `json:"depth_km"`
	Lat              float64   `json:"lat"`
	Lon              float64   `json:"lon"`
	LatText          string    `json:"lat_text"`
	LonText          string    `json:"lon_text"`
	Region           string    `json:"region"`
	TsunamiPotential *string   `json:"tsunami_potential"`
	FeltReport       *string   `json:"felt_report"`
	ShakemapURL      *string   `json:"shakemap_url"`
}

// EarthquakeWithDistance pairs an earthquake with its distance from a
// query point. Built fresh from a copy of the event, never by mutating
// the original.
type EarthquakeWithDistance struct {
	Earthquake
	DistanceKm float64 `json:"distance_km"`
}
