// Package pipeline orchestrates the stages of one exposure scan.
//
// A scan walks a fixed state machine: the input is classified, the lookup
// stages that apply to the input type run in order, and the verdict,
// guidance, and transparency assessments are computed from whatever the
// lookups produced. Every transition is published to the scan's event sink
// before the composite result is returned.
//
// Design decision: stages implement an interface rather than function
// types because:
//  1. It allows stages to carry their configured lookup components
//  2. It provides Name/State methods for events and logging
//  3. It keeps the orchestrator generic over which lookups exist
//
// Stages never return errors. Lookup failures degrade into result fields
// with limitation notes, so from the orchestrator's view every stage is a
// total function. The only terminal failure is an input that cannot be
// classified, which aborts the scan before any stage runs.
package pipeline
