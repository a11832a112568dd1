package terrain

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	"github.com/dcs-tacmap/terrain-data-generator/internal/geo"
	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
)

//go:embed catalog/*.json
var builtinFS embed.FS

// Catalog is a Provider backed by terrains held in memory in local map coordinates.
// Positions are converted to latitude/longitude on read using each terrain's projection.
type Catalog struct {
	order    []string
	terrains map[string]core.Terrain
}

// NewCatalog builds a catalog from terrains, keeping their order.
func NewCatalog(terrains ...core.Terrain) (*Catalog, error) {
	c := &Catalog{
		order:    make([]string, 0, len(terrains)),
		terrains: make(map[string]core.Terrain, len(terrains)),
	}
	for _, t := range terrains {
		if t.ID == "" {
			return nil, fmt.Errorf("terrain %q has no id", t.Name)
		}
		if _, exists := c.terrains[t.ID]; exists {
			return nil, fmt.Errorf("duplicate terrain id %q", t.ID)
		}
		c.order = append(c.order, t.ID)
		c.terrains[t.ID] = t
	}
	return c, nil
}

// Builtin loads the catalog shipped with the binary, in DefaultIDs order.
func Builtin() (*Catalog, error) {
	terrains := make([]core.Terrain, 0, len(DefaultIDs))
	for _, id := range DefaultIDs {
		data, err := builtinFS.ReadFile(path.Join("catalog", id+".json"))
		if err != nil {
			return nil, fmt.Errorf("failed to read builtin terrain %s: %w", id, err)
		}
		var t core.Terrain
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse builtin terrain %s: %w", id, err)
		}
		terrains = append(terrains, t)
	}
	return NewCatalog(terrains...)
}

// All returns the raw terrains in declared order.
func (c *Catalog) All() []core.Terrain {
	out := make([]core.Terrain, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.terrains[id])
	}
	return out
}

// Terrain returns the raw terrain with the given ID.
func (c *Catalog) Terrain(id string) (core.Terrain, error) {
	t, ok := c.terrains[id]
	if !ok {
		return core.Terrain{}, fmt.Errorf("%w: %q", ErrUnknownTerrain, id)
	}
	return t, nil
}

func (c *Catalog) Terrains() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Name(id string) (string, error) {
	t, err := c.Terrain(id)
	if err != nil {
		return "", err
	}
	return t.Name, nil
}

func (c *Catalog) Airports(id string) ([]AirportLocation, error) {
	t, err := c.Terrain(id)
	if err != nil {
		return nil, err
	}
	airports := make([]AirportLocation, 0, len(t.Airports))
	for _, a := range t.Airports {
		ll, err := geo.ToLatLng(t.Projection, a.Position)
		if err != nil {
			return nil, fmt.Errorf("airport %q: %w", a.Name, err)
		}
		airports = append(airports, AirportLocation{Name: a.Name, Position: ll})
	}
	return airports, nil
}

func (c *Catalog) Center(id string) (core.LatLng, error) {
	t, err := c.Terrain(id)
	if err != nil {
		return core.LatLng{}, err
	}
	return geo.ToLatLng(t.Projection, t.MapView)
}

func (c *Catalog) Projection(id string) (core.Projection, error) {
	t, err := c.Terrain(id)
	if err != nil {
		return core.Projection{}, err
	}
	return t.Projection, nil
}
