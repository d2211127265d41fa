// Package filter defines the immutable filter artifacts exchanged between
// the designer, the optimizer and the evaluator: the designed [Model], the
// transformed [Optimized] model with its provenance, and the closed tag
// sets ([Family], [Structure], [Technique]) the pipeline dispatches on.
//
// Every stage returns new values and never mutates its inputs; models are
// safe to share across goroutines once constructed.
package filter
