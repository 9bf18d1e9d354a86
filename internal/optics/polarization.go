package optics

import (
	"math"
	"math/cmplx"
)

// StateKind identifies a polarization state category.
type StateKind int

const (
	StateNone StateKind = iota // no light
	StateLinear
	StateCircularLeft
	StateCircularRight
	StateElliptical
)

func (k StateKind) String() string {
	switch k {
	case StateLinear:
		return "linear"
	case StateCircularLeft:
		return "circular-l"
	case StateCircularRight:
		return "circular-r"
	case StateElliptical:
		return "elliptical"
	default:
		return "none"
	}
}

// State is the classified polarization of a Jones vector. AngleDeg is the
// polarization angle for linear states and the major-axis angle for
// elliptical ones, normalized to [0,180). It is meaningless for circular
// states and absent light.
type State struct {
	Kind     StateKind
	AngleDeg float64
}

// classifyTolerance bounds how far amplitude ratios and phase differences may
// deviate from the ideal linear/circular values before a state counts as
// elliptical.
const classifyTolerance = 0.05

// Classify determines the polarization state of v. Handedness follows the
// receiver convention: a phase lead of +90° in the y component is left
// circular. A vector with no energy classifies as StateNone.
func Classify(v Vec) State {
	norm := math.Sqrt(Intensity(v))
	if norm < 1e-10 {
		return State{Kind: StateNone}
	}
	ex := v[0] / complex(norm, 0)
	ey := v[1] / complex(norm, 0)

	phaseDiff := cmplx.Phase(ey) - cmplx.Phase(ex)
	phaseDiff = math.Mod(phaseDiff+math.Pi, 2*math.Pi)
	if phaseDiff < 0 {
		phaseDiff += 2 * math.Pi
	}
	phaseDiff -= math.Pi

	// Linear: components in phase or anti-phase.
	if math.Abs(phaseDiff) < classifyTolerance || math.Abs(math.Abs(phaseDiff)-math.Pi) < classifyTolerance {
		// Strip the global phase so the real parts carry the orientation.
		ref := ex
		if cmplx.Abs(ey) > cmplx.Abs(ex) {
			ref = ey
		}
		ph := cmplx.Exp(complex(0, -cmplx.Phase(ref)))
		angle := math.Atan2(real(ey*ph), real(ex*ph)) * 180 / math.Pi
		return State{Kind: StateLinear, AngleDeg: NormalizeAxis(angle)}
	}

	// Circular: equal amplitudes with a ±90° phase difference.
	ratio := cmplx.Abs(ey) / (cmplx.Abs(ex) + 1e-10)
	if math.Abs(ratio-1) < classifyTolerance && math.Abs(math.Abs(phaseDiff)-math.Pi/2) < classifyTolerance {
		if phaseDiff > 0 {
			return State{Kind: StateCircularLeft}
		}
		return State{Kind: StateCircularRight}
	}

	// Elliptical: the major axis satisfies tan(2psi) = 2ab*cos(delta)/(a^2-b^2).
	angle := 0.5 * math.Atan2(2*real(ex*cmplx.Conj(ey)), abs2(ex)-abs2(ey)) * 180 / math.Pi
	return State{Kind: StateElliptical, AngleDeg: NormalizeAxis(angle)}
}

// NormalizeAxis maps an angle in degrees onto [0,180), the natural domain of
// polarizer and wave-plate axes.
func NormalizeAxis(deg float64) float64 {
	a := math.Mod(deg, 180)
	if a < 0 {
		a += 180
	}
	return a
}

// NormalizeDirection maps an angle in degrees onto [0,360).
func NormalizeDirection(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// PhaseDifferenceDeg returns the relative phase between two Jones vectors in
// degrees, normalized to [-180,180). The comparison uses the dominant
// component of a, so co-polarized beams report their interferometric phase.
// Returns false when either vector carries no energy.
func PhaseDifferenceDeg(a, b Vec) (float64, bool) {
	if Intensity(a) < 1e-12 || Intensity(b) < 1e-12 {
		return 0, false
	}
	k := 0
	if abs2(a[1]) > abs2(a[0]) {
		k = 1
	}
	if abs2(b[k]) < 1e-12 {
		return 0, false
	}
	d := (cmplx.Phase(b[k]) - cmplx.Phase(a[k])) * 180 / math.Pi
	d = math.Mod(d+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180, true
}
