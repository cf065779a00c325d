package viz

// vegaLiteSchema is the Vega-Lite schema chart specs declare.
const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// Vega-Lite field types.
const (
	FieldTemporal     = "temporal"
	FieldQuantitative = "quantitative"
	FieldNominal      = "nominal"
)

// ChartSpec is a Vega-Lite chart with inline data.
type ChartSpec struct {
	Schema   string    `json:"$schema"`
	Title    string    `json:"title,omitempty"`
	Mark     string    `json:"mark"`
	Data     ChartData `json:"data"`
	Encoding Encoding  `json:"encoding"`
}

// ChartData holds inline rows keyed by field name.
type ChartData struct {
	Values []map[string]any `json:"values"`
}

// Encoding maps data fields onto chart channels.
type Encoding struct {
	X       Channel   `json:"x"`
	Y       Channel   `json:"y"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Channel binds one field to a visual channel.
type Channel struct {
	Field string `json:"field"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}
