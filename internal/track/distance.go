package track

import "math"

// EarthRadiusMeters is the mean earth radius used for great-circle distances.
const EarthRadiusMeters = 6371008.8

// CumulativeDistances computes the running along-track distance for a
// polyline. Geographic coordinates use great-circle distance in meters before
// scaling; cartesian coordinates use the euclidean distance in coordinate
// units. scale converts to the configured output distance unit.
func CumulativeDistances(x, y []float64, geographic bool, scale float64) []float64 {
	dist := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		var step float64
		if geographic {
			step = haversineMeters(x[i-1], y[i-1], x[i], y[i])
		} else {
			step = math.Hypot(x[i]-x[i-1], y[i]-y[i-1])
		}
		dist[i] = dist[i-1] + step*scale
	}
	return dist
}

func haversineMeters(lon1, lat1, lon2, lat2 float64) float64 {
	const d2r = math.Pi / 180.0
	phi1 := lat1 * d2r
	phi2 := lat2 * d2r
	dphi := (lat2 - lat1) * d2r
	dlam := (lon2 - lon1) * d2r

	a := math.Sin(dphi/2)*math.Sin(dphi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlam/2)*math.Sin(dlam/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// AzimuthBetween returns the bearing in degrees [0, 360) from point 1 to
// point 2, measured clockwise from north. Geographic coordinates use the
// great-circle initial bearing; cartesian coordinates use the plane angle
// with the same north-clockwise convention.
func AzimuthBetween(x1, y1, x2, y2 float64, geographic bool) float64 {
	var az float64
	if geographic {
		const d2r = math.Pi / 180.0
		phi1 := y1 * d2r
		phi2 := y2 * d2r
		dlam := (x2 - x1) * d2r
		s := math.Sin(dlam) * math.Cos(phi2)
		c := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dlam)
		az = math.Atan2(s, c) / d2r
	} else {
		az = math.Atan2(x2-x1, y2-y1) * 180.0 / math.Pi
	}
	if az < 0 {
		az += 360.0
	}
	return az
}

// NormalizeLon wraps a longitude into [-180, 180).
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon, 360.0)
	if lon >= 180.0 {
		lon -= 360.0
	} else if lon < -180.0 {
		lon += 360.0
	}
	return lon
}
