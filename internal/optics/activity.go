package optics

// Substance is an optically active solute with its specific rotation at the
// sodium D line, in deg·mL/(g·dm). Negative values rotate levorotatory.
type Substance struct {
	Name             string  `json:"name"`
	SpecificRotation float64 `json:"specificRotation"`
}

// Substances lists the solutions available in the optical-rotation demo.
var Substances = []Substance{
	{Name: "Sucrose", SpecificRotation: 66.5},
	{Name: "Glucose", SpecificRotation: 52.7},
	{Name: "Fructose", SpecificRotation: -92.4},
	{Name: "Lactose", SpecificRotation: 52.3},
}

// GetSubstance returns a substance by name, or sucrose if not found.
func GetSubstance(name string) Substance {
	for _, s := range Substances {
		if s.Name == name {
			return s
		}
	}
	return Substances[0]
}

// RotationAngle returns the polarization-plane rotation α = [α]·L·c produced
// by a chiral solution: path length in dm, concentration in g/mL.
func RotationAngle(specificRotation, pathLengthDm, concentration float64) float64 {
	return specificRotation * pathLengthDm * concentration
}

// RotatedAxis returns the analyzer axis that passes maximum intensity after
// the plane of polarization has been rotated by rotationDeg.
func RotatedAxis(inputAxisDeg, rotationDeg float64) float64 {
	return NormalizeAxis(inputAxisDeg + rotationDeg)
}
