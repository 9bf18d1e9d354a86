package spectral

import "strings"

// Material is a birefringent sample material with its principal refractive
// indices.
type Material struct {
	Name               string  `json:"name"`
	IndexOrdinary      float64 `json:"indexOrdinary"`
	IndexExtraordinary float64 `json:"indexExtraordinary"`
}

// Birefringence returns ne-no. Negative uniaxial materials such as calcite
// yield a negative value; retardation helpers use the magnitude.
func (m Material) Birefringence() float64 {
	return m.IndexExtraordinary - m.IndexOrdinary
}

// Materials lists the built-in sample materials. Calcite's huge birefringence
// makes fringes visible at a few µm; quartz and mica need much thicker cuts.
var Materials = []Material{
	{Name: "Calcite", IndexOrdinary: 1.658, IndexExtraordinary: 1.486},
	{Name: "Quartz", IndexOrdinary: 1.5443, IndexExtraordinary: 1.5534},
	{Name: "Mica", IndexOrdinary: 1.563, IndexExtraordinary: 1.558},
}

// GetMaterial returns the named built-in material, falling back to the first
// entry when the name is unknown.
func GetMaterial(name string) Material {
	for _, m := range Materials {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return Materials[0]
}
