package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ijTable maps the dominant normal axis to the two axes used for a 2D
// projection, ordered so the projected polygon winds clockwise when the
// dominant component is positive.
var ijTable = [3][2]int{
	{2, 1}, // x biggest
	{0, 2}, // y biggest
	{1, 0}, // z biggest
}

// projectionAxes picks the two coordinate axes orthogonal to the
// dominant component of normal, ordered to preserve winding.
func projectionAxes(normal mgl64.Vec3) (i, j int) {
	var biggest int

	if math.Abs(normal.X()) > math.Abs(normal.Y()) {
		if math.Abs(normal.X()) > math.Abs(normal.Z()) {
			biggest = 0
		} else {
			biggest = 2
		}
	} else if math.Abs(normal.Y()) > math.Abs(normal.Z()) {
		biggest = 1
	} else {
		biggest = 2
	}

	// A normal pointing down the axis flips the winding, so swap the
	// projection axes to keep circling clockwise with the normal.
	if normal[biggest] > 0.0 {
		return ijTable[biggest][0], ijTable[biggest][1]
	}
	return ijTable[biggest][1], ijTable[biggest][0]
}

// TangentBasis returns two unit vectors spanning the plane orthogonal
// to normal. normal must be normalized.
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

// ClosestApproach computes the parameters of closest approach of two
// lines p1+t1*v1 and p2+t2*v2. Returns false if the lines are parallel.
func ClosestApproach(p1, v1, p2, v2 mgl64.Vec3) (t1, t2 float64, ok bool) {
	delta := p2.Sub(p1)
	cross := v1.Cross(v2)

	crossMag2 := cross.Dot(cross)
	if crossMag2 == 0.0 {
		// lines are parallel
		return 0, 0, false
	}

	t1 = det3(delta, v2, cross) / crossMag2
	t2 = det3(delta, v1, cross) / crossMag2

	return t1, t2, true
}

func det3(a, b, c mgl64.Vec3) float64 {
	return a.Dot(b.Cross(c))
}
