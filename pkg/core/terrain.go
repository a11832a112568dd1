// pkg/core/terrain.go
package core

import (
	"encoding/json"
	"fmt"
)

// Position2D is a position on a terrain's local map grid, in meters.
// X points north and Y points east.
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LatLng is a WGS84 geographic position in degrees.
// It serializes as a two-element [lat, lng] array.
type LatLng struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the position as [lat, lng].
func (ll LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{ll.Lat, ll.Lng})
}

// UnmarshalJSON decodes a [lat, lng] array.
func (ll *LatLng) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("lat/lng must have 2 elements, got %d", len(pair))
	}
	ll.Lat, ll.Lng = pair[0], pair[1]
	return nil
}

// Projection holds the transverse Mercator parameters a terrain uses to place
// its local grid on the globe.
type Projection struct {
	CentralMeridian int     `json:"centralMeridian"`
	FalseEasting    float64 `json:"falseEasting"`
	FalseNorthing   float64 `json:"falseNorthing"`
	ScaleFactor     float64 `json:"scaleFactor"`
}

// Airport is an airfield on a terrain
type Airport struct {
	Name     string     `json:"name"`
	Position Position2D `json:"position"`
}

// Terrain represents a map/theater
type Terrain struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Projection Projection `json:"projection"`
	MapView    Position2D `json:"mapView"` // default map-view position
	Airports   []Airport  `json:"airports"`
}
