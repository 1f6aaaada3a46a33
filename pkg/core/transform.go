package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform holds a local-to-world affine matrix together with its inverse
// and inverse transpose. Normals must go through InverseTranspose so they
// stay perpendicular to surfaces under non-uniform scale.
type Transform struct {
	Matrix           mgl64.Mat4
	Inverse          mgl64.Mat4
	InverseTranspose mgl64.Mat4
}

// NewTransform derives the inverse and inverse transpose of m
func NewTransform(m mgl64.Mat4) Transform {
	inv := m.Inv()
	return Transform{
		Matrix:           m,
		Inverse:          inv,
		InverseTranspose: inv.Transpose(),
	}
}

// IdentityTransform returns the transform that leaves everything in place
func IdentityTransform() Transform {
	return NewTransform(mgl64.Ident4())
}

// NewTRS composes translate * rotX * rotY * rotZ * scale. Rotation angles are
// in degrees.
func NewTRS(translate, rotateDegrees, scale Vec3) Transform {
	m := mgl64.Translate3D(translate.X, translate.Y, translate.Z).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(rotateDegrees.X))).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(rotateDegrees.Y))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(rotateDegrees.Z))).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
	return NewTransform(m)
}

// IsDegenerate reports whether the matrix cannot be inverted reliably
func (t Transform) IsDegenerate() bool {
	det := t.Matrix.Det()
	return det == 0 || math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) < 1e-12
}

// ToLocal maps a world-space ray into object space. The direction is
// renormalised so object-space intersection tests always see a unit vector.
func (t Transform) ToLocal(ray Ray) Ray {
	return Ray{
		Origin:    mulPoint(t.Inverse, ray.Origin),
		Direction: mulVector(t.Inverse, ray.Direction).Normalize(),
	}
}

// PointToWorld maps an object-space point into world space
func (t Transform) PointToWorld(p Vec3) Vec3 {
	return mulPoint(t.Matrix, p)
}

// NormalToWorld maps an object-space normal into world space and renormalises it
func (t Transform) NormalToWorld(n Vec3) Vec3 {
	return mulVector(t.InverseTranspose, n).Normalize()
}

// BoundsToWorld returns the world-space box enclosing the transformed corners of b
func (t Transform) BoundsToWorld(b AABB) AABB {
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := Vec3{b.Min.X, b.Min.Y, b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		p := t.PointToWorld(corner)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

func mulPoint(m mgl64.Mat4, p Vec3) Vec3 {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return Vec3{v[0], v[1], v[2]}
}

func mulVector(m mgl64.Mat4, d Vec3) Vec3 {
	v := m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return Vec3{v[0], v[1], v[2]}
}
