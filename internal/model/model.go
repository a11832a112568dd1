package model

import (
	"time"

	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Terrain{},
	&Airport{},
}

// Terrain is a stored terrain definition. Ordinal keeps the declared export order.
type Terrain struct {
	ID         string                              `json:"id" gorm:"primaryKey;size:64"`
	CreatedAt  time.Time                           `json:"createdAt"`
	UpdatedAt  time.Time                           `json:"updatedAt"`
	Ordinal    int                                 `json:"ordinal" gorm:"index"`
	Name       string                              `json:"name" gorm:"size:127;not null"`
	MapView    geom.Point                          `json:"mapView"`
	Projection datatypes.JSONType[core.Projection] `json:"projection"`
	Airports   []Airport                           `json:"airports" gorm:"foreignKey:TerrainID;constraint:OnDelete:CASCADE"`
}

func (*Terrain) TableName() string {
	return "terrains"
}

// Airport is a stored airport in terrain-local coordinates.
type Airport struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	TerrainID string     `json:"terrainId" gorm:"size:64;index;not null"`
	Ordinal   int        `json:"ordinal"`
	Name      string     `json:"name" gorm:"size:127;not null"`
	Position  geom.Point `json:"position"`
}

func (*Airport) TableName() string {
	return "airports"
}
