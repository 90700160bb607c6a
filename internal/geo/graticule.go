package geo

import "math"

// Graticule returns meridians and parallels every step degrees covering the
// lon/lat box, each sampled at one degree so curves stay smooth once
// projected. Lines are lon/lat coordinate lists.
func Graticule(step, west, east, south, north float64) [][][]float64 {
	if step <= 0 || east <= west || north <= south {
		return nil
	}
	west = math.Floor(west/step) * step
	east = math.Ceil(east/step) * step
	south = math.Floor(south/step) * step
	north = math.Ceil(north/step) * step

	var lines [][][]float64
	for lon := west; lon <= east; lon += step {
		var line [][]float64
		for lat := south; lat <= north; lat++ {
			line = append(line, []float64{lon, lat})
		}
		lines = append(lines, line)
	}
	for lat := south; lat <= north; lat += step {
		var line [][]float64
		for lon := west; lon <= east; lon++ {
			line = append(line, []float64{lon, lat})
		}
		lines = append(lines, line)
	}
	return lines
}
