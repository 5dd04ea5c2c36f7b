// Package ir provides the plain data representation used by projdiff.
//
// # Overview
//
// A Node is a recursive tagged union: null, boolean, number, string, array
// or object. Scalar and reference property values of a document are held
// as nodes, and documents are constructed from and converted back to nodes
// (see the doc package).
//
// Each node maintains parent links (Parent, ParentIndex, ParentField) so a
// node can be related to its container.
//
// # Objects
//
// For ObjectType nodes, Fields[i] is the string key for the value at
// Values[i]. Key order is preserved: two objects with the same entries in a
// different order are different values.
//
// # Numbers
//
// Number values are placed under:
//   - Int64: if it is an integer (64-bit signed)
//   - Float64: if it is a floating point number (64-bit IEEE float)
//   - Number: as a string fallback if neither can represent it
//
// An Int64 and a Float64 holding the same number compare equal.
//
// # Comparison
//
//	equal := ir.Equal(a, b)
//	order := ir.Compare(a, b)
//
// # Encoding
//
// FromYAML and FromJSON decode documents keeping key order, ToJSON and
// ToYAML encode them.
//
// # Thread Safety
//
// Node structures are not thread-safe. Clone nodes before sharing them
// across goroutines that mutate them.
package ir
