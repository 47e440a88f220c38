package entities

import "tracking-service/pkg/geo"

type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) Point() geo.Point {
	return geo.Point{Lat: c.Lat, Lng: c.Lng}
}

func (c Coordinates) Valid() bool {
	return c.Point().Valid()
}

// DistanceTo расстояние по большому кругу в метрах.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	return geo.Distance(c.Point(), other.Point())
}

// BearingTo начальный азимут в градусах [0,360).
func (c Coordinates) BearingTo(other Coordinates) float64 {
	return geo.Bearing(c.Point(), other.Point())
}
