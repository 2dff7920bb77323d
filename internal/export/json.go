package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/reactsim/internal/sim"
)

// ExportData is the JSON form of a run. U and V entries are null where the
// trajectory is not finite.
type ExportData struct {
	A        float64            `json:"a"`
	B        float64            `json:"b"`
	Tf       float64            `json:"tf"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	U        []*float64         `json:"u"`
	V        []*float64         `json:"v"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

// JSON writes the trajectory and its run parameters as indented JSON.
// Non-finite values, which JSON cannot represent, are written as null.
func JSON(w io.Writer, tr *sim.Trajectory) error {
	data := ExportData{
		A:        tr.Params.A,
		B:        tr.Params.B,
		Tf:       tr.Tf,
		Dt:       tr.Dt,
		Duration: tr.Duration,
		Steps:    tr.Len(),
		Times:    tr.T,
		U:        nullable(tr.U),
		V:        nullable(tr.V),
		Metrics:  make(map[string]float64, len(tr.Metrics)),
	}
	for k, v := range tr.Metrics {
		if finite(v) {
			data.Metrics[k] = v
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func nullable(vals []float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		if finite(vals[i]) {
			out[i] = &vals[i]
		}
	}
	return out
}
