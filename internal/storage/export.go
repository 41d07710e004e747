package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/spheresim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Times  []float64     `json:"times"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame []ExportBody

type ExportBody struct {
	Position [3]float32 `json:"position"`
	Velocity [3]float32 `json:"velocity"`
	Mass     float32    `json:"mass"`
	Radius   float32    `json:"radius"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame, times []float64) error {
	data := ExportData{
		Run:    *meta,
		Times:  times,
		Frames: make([]ExportFrame, len(frames)),
	}

	for i, f := range frames {
		ef := make(ExportFrame, len(f))
		for j, b := range f {
			ef[j] = ExportBody{
				Position: b.Position,
				Velocity: b.Velocity,
				Mass:     b.Mass,
				Radius:   b.Radius,
			}
		}
		data.Frames[i] = ef
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
