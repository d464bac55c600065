package material

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Reflect mirrors direction i about normal n: i - 2(i·n)n
func Reflect(i, n r3.Vector) r3.Vector {
	return i.Sub(n.Mul(2 * i.Dot(n)))
}

// Refract bends direction i through a surface with normal n and index of
// refraction ior using Snell's law. The normal may face either side: when i
// and n point the same way the ray is leaving the medium. Returns the zero
// vector on total internal reflection.
func Refract(i, n r3.Vector, ior float64) r3.Vector {
	cosi := core.ClampFloat(i.Dot(n), -1, 1)
	etai, etat := 1.0, ior
	nx := n
	if cosi < 0 {
		cosi = -cosi
	} else {
		etai, etat = etat, etai
		nx = n.Mul(-1)
	}

	eta := etai / etat
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return r3.Vector{}
	}
	return i.Mul(eta).Add(nx.Mul(eta*cosi - math.Sqrt(k)))
}

// Fresnel returns the fraction of light reflected at the interface, averaged
// over both polarizations. Total internal reflection yields 1.
func Fresnel(i, n r3.Vector, ior float64) float64 {
	cosi := core.ClampFloat(i.Dot(n), -1, 1)
	etai, etat := 1.0, ior
	if cosi > 0 {
		etai, etat = etat, etai
	}

	sint := etai / etat * math.Sqrt(math.Max(0, 1-cosi*cosi))
	if sint >= 1 {
		return 1
	}

	cost := math.Sqrt(math.Max(0, 1-sint*sint))
	cosi = math.Abs(cosi)
	rs := (etat*cosi - etai*cost) / (etat*cosi + etai*cost)
	rp := (etai*cosi - etat*cost) / (etai*cosi + etat*cost)
	return (rs*rs + rp*rp) / 2
}
