// Package optics implements the Jones-calculus algebra for fully polarized
// coherent light, plus the classical polarization formulas (Malus, Fresnel,
// optical activity) used throughout the simulator.
package optics

import (
	"math"
	"math/cmplx"
)

// Vec is a Jones vector: complex amplitudes of the x and y field components.
type Vec [2]complex128

// Mat is a 2x2 complex Jones matrix acting on a Vec.
type Mat [2][2]complex128

const invSqrt2 = 0.7071067811865476

// Named polarization states. Circular handedness follows the receiver
// convention: in LeftCircular the y component leads the x component by 90°.
var (
	Horizontal    = Vec{1, 0}
	Vertical      = Vec{0, 1}
	DiagonalPlus  = Vec{complex(invSqrt2, 0), complex(invSqrt2, 0)}
	DiagonalMinus = Vec{complex(invSqrt2, 0), complex(-invSqrt2, 0)}
	LeftCircular  = Vec{complex(invSqrt2, 0), complex(0, invSqrt2)}
	RightCircular = Vec{complex(invSqrt2, 0), complex(0, -invSqrt2)}
)

// Identity is the do-nothing element.
var Identity = Mat{{1, 0}, {0, 1}}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func abs2(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}

// LinearVec returns the unit Jones vector of linearly polarized light at the
// given angle in degrees.
func LinearVec(deg float64) Vec {
	r := radians(deg)
	return Vec{complex(math.Cos(r), 0), complex(math.Sin(r), 0)}
}

// RotationMatrix returns the frame rotation R(θ) = [[cosθ, sinθ], [-sinθ, cosθ]].
func RotationMatrix(deg float64) Mat {
	c := complex(math.Cos(radians(deg)), 0)
	s := complex(math.Sin(radians(deg)), 0)
	return Mat{{c, s}, {-s, c}}
}

// rotated expresses the element m, defined with its axes along x/y, with its
// axes rotated to deg in the lab frame: R(-θ)·m·R(θ).
func rotated(m Mat, deg float64) Mat {
	return Mul(Mul(RotationMatrix(-deg), m), RotationMatrix(deg))
}

// PolarizerMatrix returns an ideal linear polarizer with its transmission
// axis at the given angle.
func PolarizerMatrix(axisDeg float64) Mat {
	return rotated(Mat{{1, 0}, {0, 0}}, axisDeg)
}

// RetarderMatrix returns a birefringent plate with the given fast-axis angle
// and phase retardation, both in degrees. Fast and slow axes acquire the
// eigenphases e^{+iδ/2} and e^{-iδ/2}, so retardation 90 is a quarter-wave
// plate and 180 a half-wave plate.
func RetarderMatrix(fastAxisDeg, retardationDeg float64) Mat {
	half := complex(0, radians(retardationDeg)/2)
	m := Mat{{cmplx.Exp(half), 0}, {0, cmplx.Exp(-half)}}
	return rotated(m, fastAxisDeg)
}

// QuarterWaveMatrix returns a λ/4 plate with the given fast-axis angle.
func QuarterWaveMatrix(fastAxisDeg float64) Mat {
	return RetarderMatrix(fastAxisDeg, 90)
}

// HalfWaveMatrix returns a λ/2 plate with the given fast-axis angle.
func HalfWaveMatrix(fastAxisDeg float64) Mat {
	return RetarderMatrix(fastAxisDeg, 180)
}

// RotatorMatrix rotates the polarization plane by deg (optical activity,
// Faraday rotation). Positive angles rotate counter-clockwise.
func RotatorMatrix(deg float64) Mat {
	return RotationMatrix(-deg)
}

// PhaseMatrix advances the global phase of a beam by deg. It changes no
// measurable single-beam quantity but shifts interference with other beams.
func PhaseMatrix(deg float64) Mat {
	p := cmplx.Exp(complex(0, radians(deg)))
	return Mat{{p, 0}, {0, p}}
}

// Handedness selects a circular polarization sense.
type Handedness int

const (
	LeftHanded Handedness = iota
	RightHanded
)

func (h Handedness) String() string {
	if h == RightHanded {
		return "right"
	}
	return "left"
}

// CircularProjector returns the projector onto the requested circular
// eigenstate: it passes that sense unchanged and extinguishes the opposite.
func CircularProjector(h Handedness) Mat {
	i2 := complex(0, 0.5)
	if h == RightHanded {
		return Mat{{0.5, i2}, {-i2, 0.5}}
	}
	return Mat{{0.5, -i2}, {i2, 0.5}}
}

// Mul returns the matrix product a·b. Light passing first through element B
// and then through element A is described by Mul(A, B).
func Mul(a, b Mat) Mat {
	return Mat{
		{a[0][0]*b[0][0] + a[0][1]*b[1][0], a[0][0]*b[0][1] + a[0][1]*b[1][1]},
		{a[1][0]*b[0][0] + a[1][1]*b[1][0], a[1][0]*b[0][1] + a[1][1]*b[1][1]},
	}
}

// Train composes elements in traversal order: the beam meets elements[0]
// first, so the result is elements[n-1]·…·elements[0].
func Train(elements ...Mat) Mat {
	m := Identity
	for _, e := range elements {
		m = Mul(e, m)
	}
	return m
}

// Apply returns m·v.
func Apply(m Mat, v Vec) Vec {
	return Vec{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}

// Add returns the coherent sum of two Jones vectors.
func Add(a, b Vec) Vec {
	return Vec{a[0] + b[0], a[1] + b[1]}
}

// Scale multiplies both components by the real factor s.
func Scale(v Vec, s float64) Vec {
	cs := complex(s, 0)
	return Vec{v[0] * cs, v[1] * cs}
}

// Intensity returns |Ex|² + |Ey|². A zero vector yields exactly 0.
func Intensity(v Vec) float64 {
	return abs2(v[0]) + abs2(v[1])
}

// MalusIntensity returns the intensity transmitted by an ideal polarizer whose
// axis sits at angleDeg from the incident linear polarization: I₀·cos²θ.
func MalusIntensity(i0, angleDeg float64) float64 {
	c := math.Cos(radians(angleDeg))
	return i0 * c * c
}
