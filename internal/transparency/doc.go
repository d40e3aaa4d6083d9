// Package transparency builds the disclosure attached to every scan.
//
// The report states what was checked, what was not, and where every signal
// came from. It is the channel through which degraded lookups reach the
// user: a breach check that could not run appears in the not-checked list
// with its reason instead of vanishing. The categorical exclusions and the
// legal-scope text are fixed and appear on every report so a reader never
// has to guess whether an omission was deliberate.
package transparency
