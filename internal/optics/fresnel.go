package optics

import "math"

// Refractive indices of the media used in the interface demos.
const (
	IndexAir     = 1.0
	IndexWater   = 1.333
	IndexGlass   = 1.5
	IndexDiamond = 2.417
)

// FresnelResult holds the amplitude coefficients and power fractions for a
// planar interface at one angle of incidence. Amplitudes are signed; power
// fractions satisfy ReflectanceS+TransmittanceS = 1 (same for P) outside
// total internal reflection.
type FresnelResult struct {
	IncidenceDeg   float64 `json:"incidenceDeg"`
	RefractionDeg  float64 `json:"refractionDeg"`
	AmplitudeRs    float64 `json:"rs"`
	AmplitudeRp    float64 `json:"rp"`
	AmplitudeTs    float64 `json:"ts"`
	AmplitudeTp    float64 `json:"tp"`
	ReflectanceS   float64 `json:"Rs"`
	ReflectanceP   float64 `json:"Rp"`
	TransmittanceS float64 `json:"Ts"`
	TransmittanceP float64 `json:"Tp"`
	TotalInternal  bool    `json:"totalInternal"`
}

// Fresnel computes the reflection and transmission coefficients for light
// crossing from index n1 into n2 at the given angle of incidence. Beyond the
// critical angle the result reports total internal reflection: unit
// reflectance, zero transmittance, refraction angle pinned at 90°.
func Fresnel(n1, n2, incidenceDeg float64) FresnelResult {
	r := FresnelResult{IncidenceDeg: incidenceDeg}
	t1 := radians(incidenceDeg)
	sin2 := n1 * math.Sin(t1) / n2
	if sin2 > 1 || sin2 < -1 {
		r.RefractionDeg = 90
		r.AmplitudeRs = 1
		r.AmplitudeRp = 1
		r.ReflectanceS = 1
		r.ReflectanceP = 1
		r.TotalInternal = true
		return r
	}
	t2 := math.Asin(sin2)
	r.RefractionDeg = t2 * 180 / math.Pi

	c1 := math.Cos(t1)
	c2 := math.Cos(t2)
	r.AmplitudeRs = (n1*c1 - n2*c2) / (n1*c1 + n2*c2)
	r.AmplitudeRp = (n2*c1 - n1*c2) / (n2*c1 + n1*c2)
	r.AmplitudeTs = 2 * n1 * c1 / (n1*c1 + n2*c2)
	r.AmplitudeTp = 2 * n1 * c1 / (n2*c1 + n1*c2)

	r.ReflectanceS = r.AmplitudeRs * r.AmplitudeRs
	r.ReflectanceP = r.AmplitudeRp * r.AmplitudeRp
	factor := (n2 * c2) / (n1 * c1)
	r.TransmittanceS = factor * r.AmplitudeTs * r.AmplitudeTs
	r.TransmittanceP = factor * r.AmplitudeTp * r.AmplitudeTp
	return r
}

// Reflectance returns the power reflectance for unpolarized light.
func (r FresnelResult) Reflectance() float64 {
	return (r.ReflectanceS + r.ReflectanceP) / 2
}

// Transmittance returns the power transmittance for unpolarized light.
func (r FresnelResult) Transmittance() float64 {
	return (r.TransmittanceS + r.TransmittanceP) / 2
}

// BrewsterAngle returns the incidence angle, in degrees, at which p-polarized
// reflection vanishes for light crossing from n1 into n2.
func BrewsterAngle(n1, n2 float64) float64 {
	return math.Atan2(n2, n1) * 180 / math.Pi
}

// CriticalAngle returns the total-internal-reflection threshold in degrees.
// ok is false when n1 <= n2 and no critical angle exists.
func CriticalAngle(n1, n2 float64) (deg float64, ok bool) {
	if n1 <= n2 {
		return 0, false
	}
	return math.Asin(n2/n1) * 180 / math.Pi, true
}
