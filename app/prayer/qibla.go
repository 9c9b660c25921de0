package prayer

import "math"

// Kaaba coordinates, the fixed target of every qibla computation.
const (
	KaabaLatitude  = 21.4225
	KaabaLongitude = 39.8262
)

const earthRadiusKm = 6371.0

// QiblaBearing returns the initial great-circle bearing from the given
// position towards the Kaaba, in degrees clockwise from true north, 0..360.
func QiblaBearing(lat, lon float64) float64 {
	p1 := radians(lat)
	p2 := radians(KaabaLatitude)
	dl := radians(KaabaLongitude - lon)

	y := math.Sin(dl) * math.Cos(p2)
	x := math.Cos(p1)*math.Sin(p2) - math.Sin(p1)*math.Cos(p2)*math.Cos(dl)
	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

// DistanceToKaabaKm returns the great-circle distance to the Kaaba.
func DistanceToKaabaKm(lat, lon float64) float64 {
	return HaversineKm(lat, lon, KaabaLatitude, KaabaLongitude)
}

// HaversineKm computes the great-circle distance between two positions.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := radians(lat1)
	p2 := radians(lat2)
	dp := radians(lat2 - lat1)
	dl := radians(lon2 - lon1)

	a := math.Sin(dp/2)*math.Sin(dp/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
