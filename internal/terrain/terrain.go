// Package terrain exposes terrain data (names, airports, default views and
// projections) to the exporter through a narrow provider interface.
package terrain

import (
	"errors"

	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
)

// ErrUnknownTerrain is returned when a provider has no terrain with the requested ID
var ErrUnknownTerrain = errors.New("unknown terrain")

// DefaultIDs lists the supported terrains in their declared export order.
var DefaultIDs = []string{
	"caucasus",
	"nevada",
	"normandy",
	"persiangulf",
	"thechannel",
	"syria",
	"marianaislands",
}

// AirportLocation is an airport with its position already converted to latitude/longitude.
type AirportLocation struct {
	Name     string
	Position core.LatLng
}

// Provider is the read-only view of a terrain source the exporter works against.
type Provider interface {
	// Terrains returns the identifiers of all terrains the provider knows, in declared order.
	Terrains() []string
	Name(id string) (string, error)
	// Airports returns the terrain's airports in declared order.
	Airports(id string) ([]AirportLocation, error)
	// Center returns the terrain's default map-view position.
	Center(id string) (core.LatLng, error)
	Projection(id string) (core.Projection, error)
}
