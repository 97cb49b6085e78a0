package chart

import "encoding/json"

// Discrete colors used by the dashboard.
const (
	Pink   = "#ED9ED6"
	Violet = "#7071E8"
)

// ColorStop is one point of a continuous colorscale.
type ColorStop struct {
	At    float64
	Color string
}

// MarshalJSON encodes the stop as Plotly's [position, color] pair.
func (c ColorStop) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.At, c.Color})
}

// Colorscale maps the [0, 1] range to colors.
type Colorscale []ColorStop

// evenly spreads colors over [0, 1].
func evenly(colors ...string) Colorscale {
	if len(colors) == 1 {
		return Colorscale{{0, colors[0]}, {1, colors[0]}}
	}
	cs := make(Colorscale, len(colors))
	for i, c := range colors {
		cs[i] = ColorStop{At: float64(i) / float64(len(colors)-1), Color: c}
	}
	return cs
}

var (
	// Portland is the diverging scale used for the sex/cholesterol view.
	Portland = evenly(
		"rgb(12,51,131)", "rgb(10,136,186)", "rgb(242,211,56)", "rgb(242,143,56)", "rgb(217,30,30)",
	)
	// Viridis is the sequential scale used for the smoking/cholesterol view.
	Viridis = evenly(
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	)
	// Plasma is the sequential scale used for the scatter matrix.
	Plasma = evenly(
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
	)
)
