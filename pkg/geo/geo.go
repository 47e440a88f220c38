// Package geo содержит сферическую геометрию для расчётов по координатам курьеров.
// Все расстояния приближённые: считаются по большому кругу, а не по дорожному графу.
package geo

import "math"

// EarthRadiusMeters средний радиус Земли.
const EarthRadiusMeters = 6_371_000.0

type Point struct {
	Lat float64
	Lng float64
}

// Valid проверяет, что широта в [-90,90], а долгота в [-180,180].
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance расстояние между точками в метрах по формуле гаверсинуса.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// погрешности float могут дать h чуть больше 1
	h = math.Min(1, h)

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Bearing начальный азимут из a в b в градусах [0,360).
func Bearing(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := toDegrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Within true, если b находится не дальше radiusMeters от a.
func Within(a, b Point, radiusMeters float64) bool {
	return Distance(a, b) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
