package repositories

import (
	"math"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into a literal substring pattern for
// `ILIKE ? ESCAPE '\'`.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

const earthRadiusKm = 6371.0

// geoBox bounds the points within a radius of a center. When the box crosses
// the antimeridian MinLng > MaxLng; AnyLng means longitude cannot narrow it.
type geoBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	AnyLng         bool
}

func (b geoBox) wraps() bool {
	return !b.AnyLng && b.MinLng > b.MaxLng
}

func boundingBox(lat, lng, radiusKm float64) geoBox {
	angular := radiusKm / earthRadiusKm
	latRad := lat * math.Pi / 180

	box := geoBox{
		MinLat: math.Max(lat-angular*180/math.Pi, -90),
		MaxLat: math.Min(lat+angular*180/math.Pi, 90),
	}
	if latRad+angular >= math.Pi/2 || latRad-angular <= -math.Pi/2 || angular >= math.Pi/2 {
		box.AnyLng = true
		return box
	}

	lngDelta := math.Asin(math.Sin(angular)/math.Cos(latRad)) * 180 / math.Pi
	box.MinLng, box.MaxLng = lng-lngDelta, lng+lngDelta
	if box.MinLng < -180 {
		box.MinLng += 360
	}
	if box.MaxLng > 180 {
		box.MaxLng -= 360
	}
	return box
}
