// Package geo projects longitude/latitude geometry onto a terminal grid and
// answers which region a grid cell belongs to.
package geo

import (
	"math"

	planar "github.com/paulmach/go.geo"
)

// Albers is a spherical Albers equal-area conic projection. Projected
// coordinates are unitless with y pointing north.
type Albers struct {
	lambda0 float64
	n       float64
	c       float64
	r0      float64
}

// NewAlbers builds the projection for a central meridian and two standard
// parallels, all in degrees.
func NewAlbers(centralMeridian, parallel1, parallel2 float64) *Albers {
	phi0, phi1 := radians(parallel1), radians(parallel2)
	sy0 := math.Sin(phi0)
	n := (sy0 + math.Sin(phi1)) / 2
	c := 1 + sy0*(2*n-sy0)
	return &Albers{
		lambda0: radians(centralMeridian),
		n:       n,
		c:       c,
		r0:      math.Sqrt(c) / n,
	}
}

// ConterminousUS returns the projection of the ARTCC map: central meridian
// 98.5°W with standard parallels 20°N and 45°N.
func ConterminousUS() *Albers {
	return NewAlbers(-98.5, 20, 45)
}

// Project maps a lon/lat pair in degrees to projected coordinates.
func (a *Albers) Project(lon, lat float64) *planar.Point {
	lambda := wrapPi(radians(lon) - a.lambda0)
	phi := radians(lat)
	r := math.Sqrt(math.Max(0, a.c-2*a.n*math.Sin(phi))) / a.n
	theta := lambda * a.n
	return planar.NewPoint(r*math.Sin(theta), a.r0-r*math.Cos(theta))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func wrapPi(x float64) float64 {
	for x > math.Pi {
		x -= 2 * math.Pi
	}
	for x < -math.Pi {
		x += 2 * math.Pi
	}
	return x
}
