// Package evaluate implements the guideline compliance decision.
//
// Evaluation is a pure, synchronous computation: given an indexed guideline
// document, a target name, and the set of test identifiers a vendor claims to
// have passed, it decides per capability whether the listed evidence is
// satisfied and per target whether every required capability passed.
//
// Nothing here mutates shared state. An Index may be shared read-only across
// arbitrarily many concurrent Evaluate calls. Evaluation over a structurally
// valid document never fails on submission content: absence of evidence is a
// failed capability, not an error. The only error is an unknown target.
package evaluate
