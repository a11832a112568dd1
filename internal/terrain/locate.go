package terrain

import (
	"github.com/dcs-tacmap/terrain-data-generator/internal/geo"
	"github.com/dcs-tacmap/terrain-data-generator/pkg/core"
)

// LocateRadiusKm is how close a reference point must be to a terrain's center to match it.
const LocateRadiusKm = 500.0

// Locate returns the first terrain, in declared order, whose center is within
// LocateRadiusKm of ref. Terrains whose center cannot be resolved are skipped.
func Locate(p Provider, ref core.LatLng) (string, bool) {
	for _, id := range p.Terrains() {
		center, err := p.Center(id)
		if err != nil {
			continue
		}
		if geo.RangeKm(ref, center) < LocateRadiusKm {
			return id, true
		}
	}
	return "", false
}
