package core

// PathSegment is the per-ray state carried across bounces. Color is the
// running throughput; it starts at white and is multiplied by each surface's
// attenuation.
type PathSegment struct {
	Ray              Ray
	Color            Vec3
	PixelIndex       int
	RemainingBounces int
}

// NewPathSegment starts a path for a pixel with a full bounce budget
func NewPathSegment(ray Ray, pixelIndex, maxBounces int) PathSegment {
	return PathSegment{
		Ray:              Ray{Origin: ray.Origin, Direction: ray.Direction.Normalize()},
		Color:            NewVec3(1, 1, 1),
		PixelIndex:       pixelIndex,
		RemainingBounces: maxBounces,
	}
}

// Active reports whether the path still has bounces left
func (p *PathSegment) Active() bool {
	return p.RemainingBounces > 0
}

// Terminate ends the path, keeping its current throughput
func (p *PathSegment) Terminate() {
	p.RemainingBounces = 0
}
