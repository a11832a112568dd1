// internal/export/export.go
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dcs-tacmap/terrain-data-generator/internal/geo"
	"github.com/dcs-tacmap/terrain-data-generator/internal/terrain"
	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
)

// ErrEmptyAirportName is returned when a provider yields an airport without a name
var ErrEmptyAirportName = errors.New("airport has no name")

// Terrain is the root JSON structure of a terrain data file.
// Field order is the key order in the written file.
type Terrain struct {
	Name       string      `json:"name"`
	Center     core.LatLng `json:"center"`
	Airports   []Airport   `json:"airports"`
	Projection *Projection `json:"projection,omitempty"`
}

// Airport is an airport marker on the front-end map
type Airport struct {
	Name     string      `json:"name"`
	Position core.LatLng `json:"position"`
}

// Projection mirrors the terrain's transverse Mercator parameters
type Projection struct {
	CentralMeridian int     `json:"centralMeridian"`
	FalseEasting    float64 `json:"falseEasting"`
	FalseNorthing   float64 `json:"falseNorthing"`
	ScaleFactor     float64 `json:"scaleFactor"`
}

// Build reads a terrain from the provider and maps it to its export record.
// The projection is only read and attached when includeProjection is set.
func Build(p terrain.Provider, id string, includeProjection bool) (Terrain, error) {
	name, err := p.Name(id)
	if err != nil {
		return Terrain{}, err
	}

	airports, err := p.Airports(id)
	if err != nil {
		return Terrain{}, fmt.Errorf("failed to read airports: %w", err)
	}
	out := Terrain{
		Name:     name,
		Airports: make([]Airport, 0, len(airports)),
	}
	for _, a := range airports {
		if a.Name == "" {
			return Terrain{}, ErrEmptyAirportName
		}
		if !geo.IsFinite(a.Position) {
			return Terrain{}, fmt.Errorf("airport %q: %w", a.Name, geo.ErrNonFinite)
		}
		out.Airports = append(out.Airports, Airport{Name: a.Name, Position: a.Position})
	}

	out.Center, err = p.Center(id)
	if err != nil {
		return Terrain{}, fmt.Errorf("failed to read center: %w", err)
	}
	if !geo.IsFinite(out.Center) {
		return Terrain{}, fmt.Errorf("center: %w", geo.ErrNonFinite)
	}

	if includeProjection {
		proj, err := p.Projection(id)
		if err != nil {
			return Terrain{}, fmt.Errorf("failed to read projection: %w", err)
		}
		out.Projection = &Projection{
			CentralMeridian: proj.CentralMeridian,
			FalseEasting:    proj.FalseEasting,
			FalseNorthing:   proj.FalseNorthing,
			ScaleFactor:     proj.ScaleFactor,
		}
	}

	return out, nil
}

// Marshal serializes a terrain record as JSON indented with two spaces, with no
// trailing newline.
func Marshal(t Terrain) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to encode terrain %q: %w", t.Name, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FilePath returns the output path for a terrain: the name is lowercased for the file
// name only.
func FilePath(outputDir, name string) string {
	return filepath.Join(outputDir, strings.ToLower(name)+".json")
}
