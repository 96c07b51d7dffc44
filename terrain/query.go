package terrain

import "github.com/go-gl/mathgl/mgl64"

// Tag classifies the geometry a query hit.
type Tag int

const (
	TagNone Tag = iota
	TagTerrain
	TagOcean
	TagOther
)

func (t Tag) String() string {
	switch t {
	case TagTerrain:
		return "terrain"
	case TagOcean:
		return "ocean"
	case TagOther:
		return "other"
	default:
		return "none"
	}
}

// LayerMask filters which tagged geometry a query may hit.
type LayerMask uint32

const (
	LayerTerrain LayerMask = 1 << iota
	LayerOcean
	LayerOther

	LayerAll = LayerTerrain | LayerOcean | LayerOther
)

// Has reports whether the mask includes geometry tagged t.
func (m LayerMask) Has(t Tag) bool {
	switch t {
	case TagTerrain:
		return m&LayerTerrain != 0
	case TagOcean:
		return m&LayerOcean != 0
	case TagOther:
		return m&LayerOther != 0
	}
	return false
}

// ParseLayer maps a layer name onto its mask bit.
func ParseLayer(name string) (LayerMask, bool) {
	switch name {
	case "terrain":
		return LayerTerrain, true
	case "ocean":
		return LayerOcean, true
	case "other":
		return LayerOther, true
	case "all":
		return LayerAll, true
	}
	return 0, false
}

// Hit describes the first surface found by a downward query.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Tag      Tag
}

// Query is the world geometry the simulation casts against. A false result
// means nothing was below the origin; it is not an error.
type Query interface {
	RaycastDown(origin mgl64.Vec3, mask LayerMask) (Hit, bool)
	SphereCastDown(origin mgl64.Vec3, radius, maxDistance float64, mask LayerMask) (Hit, bool)
}
