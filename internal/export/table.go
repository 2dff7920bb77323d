package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/reactsim/internal/sim"
)

// Table writes one "t|  u  v" line per sample, u and v in scientific
// notation.
func Table(w io.Writer, tr *sim.Trajectory) error {
	bw := bufio.NewWriter(w)
	for i := range tr.T {
		if _, err := fmt.Fprintf(bw, "%2.2f|  %e  %e\n", tr.T[i], tr.U[i], tr.V[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
