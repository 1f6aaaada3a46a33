package core

import "math"

// Reflect mirrors v about the normal n
func Reflect(v, n Vec3) Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit vector v through a surface with unit normal n facing
// against v, using eta = n1/n2. It reports false on total internal reflection.
func Refract(v, n Vec3, eta float64) (Vec3, bool) {
	cosI := n.Dot(v)
	k := 1.0 - eta*eta*(1.0-cosI*cosI)
	if k < 0 {
		return Vec3{}, false
	}
	return v.Multiply(eta).Subtract(n.Multiply(eta*cosI + math.Sqrt(k))), true
}

// Schlick approximates the Fresnel reflectance for light crossing from a
// medium with index n1 into one with index n2 at the given incidence cosine.
func Schlick(cosTheta, n1, n2 float64) float64 {
	r0 := (n1 - n2) / (n1 + n2)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}
