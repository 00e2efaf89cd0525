// Package scoring turns page features into a score and a decision.
//
// # Gating
//
// Most features only mean something once at least two distinct option
// markers were found, the core signal. A [Calculator] multiplies those
// contributions by a gate: 1.0 with the core signal, 0.5 when the option
// layout alone is strong, 0 otherwise. Marker count and global alignment
// count at full weight as soon as any marker exists.
//
// # Decisions
//
// The decision regime depends on the raw marker count:
//
//   - two or more markers: [Weights.AutoThreshold] and [Weights.ConfirmThreshold]
//   - exactly one marker: both thresholds raised by [Gates.SingleMarkerRaise]
//   - no marker: [Gates.NoMarkerAuto] and [Gates.NoMarkerConfirm], lowered to
//     the strong-layout bar when the layout is strong
//
// Weights and gates are plain values. [DefaultWeights] and [DefaultGates]
// return the tuned defaults:
//
//	calc := scoring.NewCalculator()
//	res := calc.Score(features.Extract(page))
//	fmt.Println(res.Score, res.Decision)
package scoring
