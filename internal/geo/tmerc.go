package geo

import (
	"math"

	"github.com/wroge/wgs84"
)

// tmercSeries holds Krüger's transverse Mercator series for one ellipsoid,
// carried to sixth order in the third flattening n (Karney 2011).
type tmercSeries struct {
	e     float64    // first eccentricity
	rectA float64    // rectifying radius
	alpha [6]float64 // conformal latitude -> projected
	beta  [6]float64 // projected -> conformal latitude
}

var wgs84Series = newTMercSeries(wgs84.WGS84())

func newTMercSeries(s wgs84.Spheroid) tmercSeries {
	f := 1 / s.Fi()
	n := f / (2 - f)
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n

	return tmercSeries{
		e:     math.Sqrt(f * (2 - f)),
		rectA: s.A() / (1 + n) * (1 + n2/4 + n4/64 + n6/256),
		alpha: [6]float64{
			n/2 - 2*n2/3 + 5*n3/16 + 41*n4/180 - 127*n5/288 + 7891*n6/37800,
			13*n2/48 - 3*n3/5 + 557*n4/1440 + 281*n5/630 - 1983433*n6/1935360,
			61*n3/240 - 103*n4/140 + 15061*n5/26880 + 167603*n6/181440,
			49561*n4/161280 - 179*n5/168 + 6601661*n6/7257600,
			34729*n5/80640 - 3418889*n6/1995840,
			212378941 * n6 / 319334400,
		},
		beta: [6]float64{
			n/2 - 2*n2/3 + 37*n3/96 - n4/360 - 81*n5/512 + 96199*n6/604800,
			n2/48 + n3/15 - 437*n4/1440 + 46*n5/105 - 1118711*n6/3870720,
			17*n3/480 - 37*n4/840 - 209*n5/4480 + 5569*n6/90720,
			4397*n4/161280 - 11*n5/504 - 830251*n6/7257600,
			4583*n5/161280 - 108847*n6/3991680,
			20648693 * n6 / 638668800,
		},
	}
}

// conformal maps tan(latitude) to tan(conformal latitude).
func (s tmercSeries) conformal(tau float64) float64 {
	sigma := math.Sinh(s.e * math.Atanh(s.e*tau/math.Hypot(1, tau)))
	return tau*math.Hypot(1, sigma) - sigma*math.Hypot(1, tau)
}

// forward projects lat/lng in degrees to easting/northing in meters relative to
// the natural origin on the central meridian.
func (s tmercSeries) forward(lat, lng, centralMeridian, k0 float64) (east, north float64) {
	lambda := toRadians(lng - centralMeridian)
	tauP := s.conformal(math.Tan(toRadians(lat)))

	xiP := math.Atan2(tauP, math.Cos(lambda))
	etaP := math.Asinh(math.Sin(lambda) / math.Hypot(tauP, math.Cos(lambda)))

	xi, eta := xiP, etaP
	for j, a := range s.alpha {
		k := float64(2 * (j + 1))
		xi += a * math.Sin(k*xiP) * math.Cosh(k*etaP)
		eta += a * math.Cos(k*xiP) * math.Sinh(k*etaP)
	}
	return k0 * s.rectA * eta, k0 * s.rectA * xi
}

// inverse is the reverse of forward.
func (s tmercSeries) inverse(east, north, centralMeridian, k0 float64) (lat, lng float64) {
	xi := north / (k0 * s.rectA)
	eta := east / (k0 * s.rectA)

	xiP, etaP := xi, eta
	for j, b := range s.beta {
		k := float64(2 * (j + 1))
		xiP -= b * math.Sin(k*xi) * math.Cosh(k*eta)
		etaP -= b * math.Cos(k*xi) * math.Sinh(k*eta)
	}

	tauP := math.Sin(xiP) / math.Hypot(math.Sinh(etaP), math.Cos(xiP))

	// Newton iteration for tan(latitude); converges in two or three steps
	e2 := s.e * s.e
	tau := tauP
	for i := 0; i < 20; i++ {
		tauI := s.conformal(tau)
		delta := (tauP - tauI) / math.Hypot(1, tauI) *
			(1 + (1-e2)*tau*tau) / ((1 - e2) * math.Hypot(1, tau))
		tau += delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}

	lat = toDegrees(math.Atan(tau))
	lng = centralMeridian + toDegrees(math.Atan2(math.Sinh(etaP), math.Cos(xiP)))
	return lat, lng
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
