package simulation

import (
	"fmt"
	"time"
)

// Result is the outcome of one run.
type Result struct {
	Config Config
	// Attempts counts transmissions, the accepted one included.
	Attempts int
	// Efficiency is 1/Attempts, or 0 when the run did not converge.
	Efficiency float64
	// FinalP is the flip probability of the last transmission.
	FinalP    float64
	Converged bool
	// Corrected is the number of frames repaired in the accepted transmission.
	Corrected int
	// Rejected sums the rejected frames over every failed transmission.
	Rejected    int
	FlippedBits int
	// ResidualErrors counts data bits that differ from the sent message
	// after the receiver accepted it: error patterns the code cannot see.
	ResidualErrors int
	Duration       time.Duration
}

func (r *Result) String() string {
	return fmt.Sprintf("d=%d method=%s p=%v attempts=%d efficiency=%v",
		r.Config.D, r.Config.Method, r.Config.P, r.Attempts, r.Efficiency)
}
