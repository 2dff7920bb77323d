package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/reactsim/internal/analysis"
	"github.com/san-kum/reactsim/internal/models"
	"github.com/san-kum/reactsim/internal/sim"
)

func shortRun(t *testing.T) *sim.Trajectory {
	t.Helper()
	tr, err := sim.Simulate(models.DefaultParams(), 0, 0, 1.0, 1.0, 0.1)
	require.NoError(t, err)
	return tr
}

func TestJSON(t *testing.T) {
	tr := shortRun(t)
	tr.Metrics = map[string]float64{"final_v": tr.FinalV()}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, tr))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 11, got.Steps)
	assert.Equal(t, tr.T, got.Times)
	assert.Equal(t, tr.U, values(got.U))
	assert.Equal(t, tr.V, values(got.V))
	assert.Equal(t, 2.0, got.A)
	assert.Equal(t, tr.FinalV(), got.Metrics["final_v"])
}

func TestJSONDivergedRun(t *testing.T) {
	tr, err := sim.Simulate(models.DefaultParams(), 0, 0, 30, 30, 1.5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, tr))
	assert.Contains(t, buf.String(), "null")

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.V, tr.Len())
	assert.NotNil(t, got.V[0])
	assert.Nil(t, got.V[len(got.V)-1])
}

func values(ptrs []*float64) []float64 {
	out := make([]float64, len(ptrs))
	for i, p := range ptrs {
		if p != nil {
			out[i] = *p
		}
	}
	return out
}

func TestPhaseSVG(t *testing.T) {
	tr := shortRun(t)
	path := analysis.PhasePath(tr)

	var buf bytes.Buffer
	require.NoError(t, PhaseSVG(&buf, 400, 300, path, path))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, `width="400"`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestPhaseSVGErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PhaseSVG(&buf, 400, 300))
	assert.Error(t, PhaseSVG(&buf, 0, 300, []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}))
}

func TestTable(t *testing.T) {
	tr := shortRun(t)

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, tr))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, tr.Len())
	assert.Equal(t, "0.00|  0.000000e+00  0.000000e+00", lines[0])
	assert.True(t, strings.HasPrefix(lines[10], "1.00|"))
}
