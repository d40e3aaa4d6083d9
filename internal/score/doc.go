// Package score turns the partial lookup results of a scan into a single
// 0-100 exposure verdict.
//
// The scorer accumulates a (score, maxWeight) pair over whichever results
// are present. Signals that found something add to both; signals that
// checked and found nothing add only to maxWeight, so a clean check
// dilutes the percentage instead of granting a bonus. The final score is
// the accumulated score as a percentage of the accumulated weight.
//
// Design decision: the dilution model is intentional. Reasons:
//  1. A clean breach lookup from a working provider is real evidence and
//     should lower the estimate relative to not having checked at all.
//  2. Granting negative points for clean checks would let a clean image
//     probe cancel out a confirmed breach, which misstates the risk.
//  3. Keeping every fired branch as a labeled factor makes the arithmetic
//     auditable from the verdict alone.
//
// A confirmed breach additionally floors the final score at 20: breach
// membership is a hard minimum-risk signal that percentage dilution must
// not erase.
package score
