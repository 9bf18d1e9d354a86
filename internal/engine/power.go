package engine

import "github.com/piwi3910/PolarBench/internal/model"

// PowerBudget summarizes where the light of one pass ended up, in percent of
// one emitter unit. Blocked is the remainder after detection, board exits and
// guard losses, so it covers absorption inside polarizers, filters, isolators
// and opaque hits.
type PowerBudget struct {
	EmittedPct  float64 `json:"emittedPct"`
	DetectedPct float64 `json:"detectedPct"`
	ExitedPct   float64 `json:"exitedPct"`
	GuardPct    float64 `json:"guardPct"`
	BlockedPct  float64 `json:"blockedPct"`
}

const conservationSlackPct = 1e-6

// ComputePowerBudget tallies a trace against the board that produced it.
func ComputePowerBudget(board *model.Board, res *TraceResult) PowerBudget {
	var b PowerBudget
	if board == nil || res == nil {
		return b
	}
	for _, e := range board.Emitters() {
		b.EmittedPct += e.Intensity * 100
	}
	for _, s := range res.Sensors {
		// A forwarding counter re-emits what it received; that energy is
		// tallied wherever the merged beam terminates.
		if s.Forwarded {
			continue
		}
		b.DetectedPct += s.IntensityPct
	}
	for _, beam := range res.Beams {
		switch beam.Terminal {
		case model.TermExited:
			b.ExitedPct += beam.IntensityPct()
		case model.TermGuard:
			b.GuardPct += beam.IntensityPct()
		}
	}
	b.BlockedPct = b.EmittedPct - b.DetectedPct - b.ExitedPct - b.GuardPct
	return b
}

// Conserved reports whether the accounted power stays within the emitted
// power. Boards that merge beams from independent emitters can interfere
// constructively past this bound; a single source split and recombined
// cannot.
func (p PowerBudget) Conserved() bool {
	return p.BlockedPct >= -conservationSlackPct
}
