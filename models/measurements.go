package models

// FieldNames is the canonical order of the nine composition measurements.
// The scaler and classifier were fitted on vectors in exactly this order.
var FieldNames = [9]string{"RI", "Na", "Mg", "Al", "Si", "K", "Ca", "Ba", "Fe"}

var FieldLabels = map[string]string{
	"RI": "Refractive index (RI)",
	"Na": "Sodium (Na)",
	"Mg": "Magnesium (Mg)",
	"Al": "Aluminium (Al)",
	"Si": "Silicon (Si)",
	"K":  "Potassium (K)",
	"Ca": "Calcium (Ca)",
	"Ba": "Barium (Ba)",
	"Fe": "Iron (Fe)",
}

type Measurements struct {
	RI float64 `json:"RI"`
	Na float64 `json:"Na"`
	Mg float64 `json:"Mg"`
	Al float64 `json:"Al"`
	Si float64 `json:"Si"`
	K  float64 `json:"K"`
	Ca float64 `json:"Ca"`
	Ba float64 `json:"Ba"`
	Fe float64 `json:"Fe"`
}

func (m Measurements) Vector() []float64 {
	return []float64{m.RI, m.Na, m.Mg, m.Al, m.Si, m.K, m.Ca, m.Ba, m.Fe}
}

// Set assigns the value for a field name from FieldNames. Unknown names are ignored.
func (m *Measurements) Set(field string, v float64) {
	switch field {
	case "RI":
		m.RI = v
	case "Na":
		m.Na = v
	case "Mg":
		m.Mg = v
	case "Al":
		m.Al = v
	case "Si":
		m.Si = v
	case "K":
		m.K = v
	case "Ca":
		m.Ca = v
	case "Ba":
		m.Ba = v
	case "Fe":
		m.Fe = v
	}
}
