// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"fmt"

	"github.com/dcs-tacmap/terrain-data-generator/internal/geo"
	"github.com/dcs-tacmap/terrain-data-generator/internal/model"
	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
	"gorm.io/datatypes"
)

// TerrainToModel converts a core.Terrain to its GORM model.
// ordinal is the terrain's position in the declared order.
func TerrainToModel(ordinal int, t core.Terrain) (model.Terrain, error) {
	mapView, err := geo.PointFromPosition2D(t.MapView)
	if err != nil {
		return model.Terrain{}, fmt.Errorf("terrain %s map view: %w", t.ID, err)
	}

	airports := make([]model.Airport, 0, len(t.Airports))
	for i, a := range t.Airports {
		pos, err := geo.PointFromPosition2D(a.Position)
		if err != nil {
			return model.Terrain{}, fmt.Errorf("terrain %s airport %q: %w", t.ID, a.Name, err)
		}
		airports = append(airports, model.Airport{
			TerrainID: t.ID,
			Ordinal:   i,
			Name:      a.Name,
			Position:  pos,
		})
	}

	return model.Terrain{
		ID:         t.ID,
		Ordinal:    ordinal,
		Name:       t.Name,
		MapView:    mapView,
		Projection: datatypes.NewJSONType(t.Projection),
		Airports:   airports,
	}, nil
}

// TerrainToCore converts a GORM Terrain (with airports loaded) to a core.Terrain.
// Airports are kept in the order they were loaded.
func TerrainToCore(m model.Terrain) (core.Terrain, error) {
	mapView, err := geo.Position2DFromPoint(m.MapView)
	if err != nil {
		return core.Terrain{}, fmt.Errorf("terrain %s map view: %w", m.ID, err)
	}

	airports := make([]core.Airport, 0, len(m.Airports))
	for _, a := range m.Airports {
		pos, err := geo.Position2DFromPoint(a.Position)
		if err != nil {
			return core.Terrain{}, fmt.Errorf("terrain %s airport %q: %w", m.ID, a.Name, err)
		}
		airports = append(airports, core.Airport{Name: a.Name, Position: pos})
	}

	return core.Terrain{
		ID:         m.ID,
		Name:       m.Name,
		Projection: m.Projection.Data(),
		MapView:    mapView,
		Airports:   airports,
	}, nil
}
