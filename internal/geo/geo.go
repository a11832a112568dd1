package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Terrain grids are transverse Mercator projections on the WGS84 ellipsoid sharing the
// UTM scale factor and zone meridians, offset by a terrain-specific false origin.
// Grids reach up to about 9 degrees from their central meridian; the Krüger series in
// tmerc.go stays exact at that distance.

const (
	utmScaleFactor = 0.9996

	// EarthRadiusKm is the mean earth radius used for range calculations.
	EarthRadiusKm = 6371.0
)

var (
	// ErrInvalidCoordinates is returned when the coordinates are invalid
	ErrInvalidCoordinates = errors.New("invalid coordinates provided")

	// ErrUnsupportedProjection is returned for projections that do not line up with a UTM zone
	ErrUnsupportedProjection = errors.New("unsupported projection")

	// ErrNonFinite is returned when a conversion yields NaN or Inf
	ErrNonFinite = errors.New("non-finite coordinates")
)

// UTMZone returns the UTM zone whose central meridian and scale factor match the projection.
func UTMZone(p core.Projection) (int, error) {
	if math.Abs(p.ScaleFactor-utmScaleFactor) > 1e-9 {
		return 0, fmt.Errorf("%w: scale factor %v", ErrUnsupportedProjection, p.ScaleFactor)
	}
	if (p.CentralMeridian+183)%6 != 0 {
		return 0, fmt.Errorf("%w: central meridian %d is not a zone meridian", ErrUnsupportedProjection, p.CentralMeridian)
	}
	zone := (p.CentralMeridian + 183) / 6
	if zone < 1 || zone > 60 {
		return 0, fmt.Errorf("%w: central meridian %d out of range", ErrUnsupportedProjection, p.CentralMeridian)
	}
	return zone, nil
}

// ToLatLng converts a local terrain position into WGS84 latitude/longitude.
func ToLatLng(p core.Projection, pos core.Position2D) (core.LatLng, error) {
	if _, err := UTMZone(p); err != nil {
		return core.LatLng{}, err
	}
	lat, lng := wgs84Series.inverse(
		pos.Y-p.FalseEasting,
		pos.X-p.FalseNorthing,
		float64(p.CentralMeridian),
		p.ScaleFactor,
	)
	ll := core.LatLng{Lat: lat, Lng: lng}
	if !IsFinite(ll) {
		return core.LatLng{}, ErrNonFinite
	}
	return ll, nil
}

// ToPosition2D converts WGS84 latitude/longitude into a local terrain position.
func ToPosition2D(p core.Projection, ll core.LatLng) (core.Position2D, error) {
	if _, err := UTMZone(p); err != nil {
		return core.Position2D{}, err
	}
	east, north := wgs84Series.forward(ll.Lat, ll.Lng, float64(p.CentralMeridian), p.ScaleFactor)
	pos := core.Position2D{
		X: north + p.FalseNorthing,
		Y: east + p.FalseEasting,
	}
	if !isFinite(pos.X) || !isFinite(pos.Y) {
		return core.Position2D{}, ErrNonFinite
	}
	return pos, nil
}

// IsFinite reports whether both components are neither NaN nor Inf.
func IsFinite(ll core.LatLng) bool {
	return isFinite(ll.Lat) && isFinite(ll.Lng)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RangeKm returns the great-circle distance between two positions in kilometers (haversine).
func RangeKm(a, b core.LatLng) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// LatLngFromString parses a string in the format "lat,lng".
func LatLngFromString(coords string) (core.LatLng, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	ll := core.LatLng{Lat: lat, Lng: lng}
	if !IsFinite(ll) || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return core.LatLng{}, ErrInvalidCoordinates
	}
	return ll, nil
}

// PointFromPosition2D stores a local position as a 2D geometry point.
// Non-finite positions are rejected.
func PointFromPosition2D(pos core.Position2D) (geom.Point, error) {
	point, err := geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: pos.X, Y: pos.Y},
			Type: geom.DimXY,
		},
	)
	if err != nil {
		return geom.Point{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return point, nil
}

// Position2DFromPoint reads a local position back from a geometry point.
func Position2DFromPoint(point geom.Point) (core.Position2D, error) {
	coords, ok := point.Coordinates()
	if !ok {
		return core.Position2D{}, ErrInvalidCoordinates
	}
	return core.Position2D{X: coords.X, Y: coords.Y}, nil
}
