package optics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVecEqual(t *testing.T, want, got Vec, delta float64) {
	t.Helper()
	for i := 0; i < 2; i++ {
		assert.InDelta(t, real(want[i]), real(got[i]), delta, "component %d real", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), delta, "component %d imag", i)
	}
}

func assertMatEqual(t *testing.T, want, got Mat, delta float64) {
	t.Helper()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, real(want[i][j]), real(got[i][j]), delta, "entry %d,%d real", i, j)
			assert.InDelta(t, imag(want[i][j]), imag(got[i][j]), delta, "entry %d,%d imag", i, j)
		}
	}
}

func TestMalusLaw_AngleSweep(t *testing.T) {
	tests := []struct {
		name     string
		angle    float64
		expected float64
	}{
		{"parallel", 0, 1.0},
		{"30 degrees", 30, 0.75},
		{"45 degrees", 45, 0.5},
		{"60 degrees", 60, 0.25},
		{"crossed", 90, 0.0},
		{"120 degrees", 120, 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Closed form.
			assert.InDelta(t, tc.expected, MalusIntensity(1.0, tc.angle), 1e-9)

			// Same result through the full Jones pipeline.
			out := Apply(PolarizerMatrix(tc.angle), Horizontal)
			assert.InDelta(t, tc.expected, Intensity(out), 1e-9)
		})
	}
}

func TestPolarizerMatrix_CrossedAndParallel(t *testing.T) {
	parallel := Apply(PolarizerMatrix(0), Horizontal)
	assert.InDelta(t, 1.0, Intensity(parallel), 1e-12)

	crossed := Apply(PolarizerMatrix(90), Horizontal)
	assert.InDelta(t, 0.0, Intensity(crossed), 1e-12)
}

func TestPolarizerMatrix_ThreePolarizerParadox(t *testing.T) {
	// Crossed polarizers block everything.
	blocked := Train(PolarizerMatrix(0), PolarizerMatrix(90))
	assert.InDelta(t, 0.0, Intensity(Apply(blocked, Horizontal)), 1e-12)

	// Inserting a 45 degree polarizer between them leaks a quarter of the light.
	leaky := Train(PolarizerMatrix(0), PolarizerMatrix(45), PolarizerMatrix(90))
	assert.InDelta(t, 0.25, Intensity(Apply(leaky, Horizontal)), 1e-9)
}

func TestMul_Associative(t *testing.T) {
	a := PolarizerMatrix(30)
	b := RetarderMatrix(20, 90)
	c := RotationMatrix(50)

	left := Mul(Mul(a, b), c)
	right := Mul(a, Mul(b, c))
	assertMatEqual(t, left, right, 1e-12)
}

func TestRetarderMatrix_ZeroRetardationIsIdentity(t *testing.T) {
	m := RetarderMatrix(37, 0)
	for _, v := range []Vec{Horizontal, Vertical, DiagonalPlus, LeftCircular} {
		assertVecEqual(t, v, Apply(m, v), 1e-12)
	}
}

func TestQuarterWaveMatrix_CircularConversion(t *testing.T) {
	// Fast axis at +45: horizontal light splits evenly with a +90 degree
	// relative phase between components.
	out := Apply(QuarterWaveMatrix(45), Horizontal)
	assert.InDelta(t, 0.5, abs2(out[0]), 1e-9)
	assert.InDelta(t, 0.5, abs2(out[1]), 1e-9)
	assert.Equal(t, StateCircularLeft, Classify(out).Kind)

	// Fast axis at -45 produces the opposite sense.
	out = Apply(QuarterWaveMatrix(-45), Horizontal)
	assert.InDelta(t, 0.5, abs2(out[0]), 1e-9)
	assert.InDelta(t, 0.5, abs2(out[1]), 1e-9)
	assert.Equal(t, StateCircularRight, Classify(out).Kind)
}

func TestHalfWaveMatrix_MirrorsLinearAxis(t *testing.T) {
	tests := []struct {
		name     string
		fastAxis float64
		input    float64
		expected float64
	}{
		{"axis 10 input 30", 10, 30, 170},
		{"axis 45 flips horizontal to vertical", 45, 0, 90},
		{"axis 0 negates", 0, 30, 150},
		{"axis equals input", 25, 25, 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Apply(HalfWaveMatrix(tc.fastAxis), LinearVec(tc.input))
			state := Classify(out)
			assert.Equal(t, StateLinear, state.Kind)
			assert.InDelta(t, tc.expected, state.AngleDeg, 1e-6)
			assert.InDelta(t, 1.0, Intensity(out), 1e-9)
		})
	}
}

func TestRotatorMatrix_RotatesPolarizationPlane(t *testing.T) {
	out := Apply(RotatorMatrix(45), Horizontal)
	state := Classify(out)
	assert.Equal(t, StateLinear, state.Kind)
	assert.InDelta(t, 45, state.AngleDeg, 1e-9)
	assert.InDelta(t, 1.0, Intensity(out), 1e-12)
}

func TestCircularProjector_SelectsHandedness(t *testing.T) {
	left := CircularProjector(LeftHanded)
	assert.InDelta(t, 1.0, Intensity(Apply(left, LeftCircular)), 1e-9)
	assert.InDelta(t, 0.0, Intensity(Apply(left, RightCircular)), 1e-9)

	right := CircularProjector(RightHanded)
	assert.InDelta(t, 1.0, Intensity(Apply(right, RightCircular)), 1e-9)
	assert.InDelta(t, 0.0, Intensity(Apply(right, LeftCircular)), 1e-9)

	// Linear light loses half its intensity through either projector.
	assert.InDelta(t, 0.5, Intensity(Apply(left, Horizontal)), 1e-9)
	assert.InDelta(t, 0.5, Intensity(Apply(right, DiagonalPlus)), 1e-9)
}

func TestPhaseMatrix_ShiftsPhaseOnly(t *testing.T) {
	out := Apply(PhaseMatrix(137), DiagonalPlus)
	assert.InDelta(t, 1.0, Intensity(out), 1e-12)

	d, ok := PhaseDifferenceDeg(DiagonalPlus, out)
	assert.True(t, ok)
	assert.InDelta(t, 137, d, 1e-9)
}

func TestPhaseMatrix_DestructiveSum(t *testing.T) {
	a := DiagonalPlus
	b := Apply(PhaseMatrix(180), DiagonalPlus)
	sum := Add(a, b)
	assert.InDelta(t, 0.0, Intensity(sum), 1e-12)

	constructive := Add(a, Apply(PhaseMatrix(0), DiagonalPlus))
	assert.InDelta(t, 4.0, Intensity(constructive), 1e-12)
}

func TestIntensity_ZeroVector(t *testing.T) {
	assert.Equal(t, 0.0, Intensity(Vec{}))
}

func TestLinearVec_UnitIntensity(t *testing.T) {
	for deg := 0.0; deg < 360; deg += 15 {
		assert.InDelta(t, 1.0, Intensity(LinearVec(deg)), 1e-12)
	}
}

func TestScale_AdjustsIntensityQuadratically(t *testing.T) {
	v := Scale(Horizontal, 0.5)
	assert.InDelta(t, 0.25, Intensity(v), 1e-12)
}

func TestTrain_EmptyIsIdentity(t *testing.T) {
	assertMatEqual(t, Identity, Train(), 0)
}

func TestRotationMatrix_FullTurn(t *testing.T) {
	assertMatEqual(t, Identity, RotationMatrix(360), 1e-12)
	assertMatEqual(t, Identity, Mul(RotationMatrix(73), RotationMatrix(-73)), 1e-12)
}

func TestMalusIntensity_ScalesWithInput(t *testing.T) {
	assert.InDelta(t, 0.375, MalusIntensity(0.75, 45), 1e-9)
	assert.InDelta(t, 0.0, MalusIntensity(0, 30), 1e-12)
	assert.InDelta(t, math.Cos(math.Pi/6)*math.Cos(math.Pi/6), MalusIntensity(1, 30), 1e-9)
}
