package player

// Mode governs what happens when a track reaches its natural end.
type Mode int

const (
	// LoopAll advances to the next memo, wrapping to the first after the
	// last. This is the startup default.
	LoopAll Mode = iota
	// LoopOne restarts the same memo from the beginning.
	LoopOne
	// Sequential advances to the next memo and stops after the last.
	Sequential
)

func (m Mode) String() string {
	switch m {
	case LoopAll:
		return "loop all"
	case LoopOne:
		return "loop one"
	case Sequential:
		return "sequential"
	default:
		return "loop all"
	}
}

// Next returns the following mode in the cycle loop-all -> loop-one ->
// sequential, wrapping.
func (m Mode) Next() Mode {
	switch m {
	case LoopAll:
		return LoopOne
	case LoopOne:
		return Sequential
	default:
		return LoopAll
	}
}

// Rates is the fixed ordered set of playback speed multipliers.
var Rates = []float64{0.5, 1.0, 1.25, 1.5, 2.0}
