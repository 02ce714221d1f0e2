package domain

import (
	"errors"
	"math"
)

// ErrLocationNotFound - геокодер не вернул координаты для строки
var ErrLocationNotFound = errors.New("location not found")

// Coordinate - точка WGS84. В сценарии сериализуется как {"longitude", "latitude"}
type Coordinate struct {
	Lon float64 `json:"longitude"`
	Lat float64 `json:"latitude"`
}

// Valid проверяет границы широты и долготы
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

const earthRadiusKm = 6371.0

// DistanceKm - расстояние по большому кругу до другой точки
func (c Coordinate) DistanceKm(to Coordinate) float64 {
	lat1, lat2 := c.Lat*math.Pi/180, to.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLon := (to.Lon - c.Lon) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// MapIdentity - идентификатор карты в формате редактора симулятора
type MapIdentity struct {
	City CityIdentity `json:"city"`
	Map  string       `json:"map"`
}

type CityIdentity struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

var (
	errEmptyUserInput = errors.New("user_input is required for generate requests")
	errMissingSession = errors.New("session_id is required for simulate requests")
	errUnknownKind    = errors.New("unknown request kind")
)
