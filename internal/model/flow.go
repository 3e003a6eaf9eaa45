package model

// Flow is a human-friendly label for a month's cash position.
// Keep these values stable; they are intended for CSV output.
type Flow string

const (
	FlowSaving    Flow = "SAVING"
	FlowBreakeven Flow = "BREAKEVEN"
	FlowInvesting Flow = "INVESTING"
)

// FlowFromDelta labels baseline minus post-solar cost for one month.
func FlowFromDelta(delta float64) Flow {
	switch {
	case delta > 0:
		return FlowSaving
	case delta < 0:
		return FlowInvesting
	default:
		return FlowBreakeven
	}
}
