// Package design turns a target filter specification into coefficients.
//
// The entry points are [Parse], which validates a [Request] into a canonical
// [Spec], and [Design], which produces a [filter.Model] meeting the spec or
// fails with a typed error. FIR designs use the windowed-sinc or Remez
// exchange method; IIR designs map a classical analog prototype through the
// bilinear transform and are always expressed as cascaded second-order
// sections.
//
// All design routines are deterministic: the same spec yields bit-identical
// coefficients.
package design
