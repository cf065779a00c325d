package viz

import "github.com/couchcryptid/thor-dashboard/internal/domain"

// Fixed map view and layer styling.
const (
	mapCenterLat = 39
	mapCenterLon = 126
	mapZoom      = 6
	pointRadius  = 2000
)

var pointFillColor = [4]int{0, 0, 200, 160}

// MapSpec is a deck.gl JSON description of the bombing map.
type MapSpec struct {
	InitialViewState ViewState `json:"initialViewState"`
	Layers           []Layer   `json:"layers"`
	Tooltip          Tooltip   `json:"tooltip"`
	MapStyle         string    `json:"mapStyle,omitempty"`
}

// ViewState is the camera the map opens on.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Bearing   float64 `json:"bearing"`
	Pitch     float64 `json:"pitch"`
}

// Layer is a ScatterplotLayer over coordinates.
type Layer struct {
	Type          string         `json:"@@type"`
	ID            string         `json:"id"`
	Data          []domain.Coord `json:"data"`
	Pickable      bool           `json:"pickable"`
	AutoHighlight bool           `json:"autoHighlight"`
	GetPosition   string         `json:"getPosition"`
	GetRadius     float64        `json:"getRadius"`
	GetFillColor  [4]int         `json:"getFillColor"`
}

// Tooltip is the hover template; {lat} and {lon} are replaced per point.
type Tooltip struct {
	Text string `json:"text"`
}

// BuildMap renders coords as fixed-radius translucent blue circles over the
// Korean peninsula. mapStyle is passed through to the base map.
func BuildMap(coords []domain.Coord, mapStyle string) MapSpec {
	if coords == nil {
		coords = []domain.Coord{}
	}
	return MapSpec{
		InitialViewState: ViewState{
			Latitude:  mapCenterLat,
			Longitude: mapCenterLon,
			Zoom:      mapZoom,
		},
		Layers: []Layer{{
			Type:          "ScatterplotLayer",
			ID:            "bombings",
			Data:          coords,
			Pickable:      true,
			AutoHighlight: true,
			GetPosition:   "@@=[lon, lat]",
			GetRadius:     pointRadius,
			GetFillColor:  pointFillColor,
		}},
		Tooltip:  Tooltip{Text: "Coords: {lat} {lon}"},
		MapStyle: mapStyle,
	}
}
