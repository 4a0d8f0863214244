package physics

// Point is a 2D world-space coordinate
type Point struct {
	X, Y float64
}

// Overlap identifies one directional pairwise overlap between two shapes.
// The overlap discovered from A's query pass against B is a distinct value
// from the one discovered from B's pass against A, even though the physical
// contact is the same.
type Overlap struct {
	SelfEntity  int
	OtherEntity int
	SelfShape   int
	OtherShape  int
}

// shape is one circle belonging to one entity. Shapes are copied by value
// into grid buckets, never aliased.
type shape struct {
	entity int
	index  int // disambiguates multiple circles on one entity
	pos    Point
	radius float64
	static bool
}

// collided reports whether this shape initiates a collision against other.
// Static shapes are passive and never initiate; an entity never collides
// with itself, even across distinct sub-shapes. Exact tangency counts.
func (s shape) collided(other shape) bool {
	if s.static {
		return false
	}
	if s.entity == other.entity {
		return false
	}
	dx := s.pos.X - other.pos.X
	dy := s.pos.Y - other.pos.Y
	radSum := s.radius + other.radius
	return dx*dx+dy*dy <= radSum*radSum
}

// bounds returns the axis-aligned bounding box (minX, maxX, minY, maxY)
func (s shape) bounds() (float64, float64, float64, float64) {
	return s.pos.X - s.radius, s.pos.X + s.radius, s.pos.Y - s.radius, s.pos.Y + s.radius
}
