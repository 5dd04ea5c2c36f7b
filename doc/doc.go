// Package doc holds typed project documents.
//
// A document is a tree of Objects, each an instance of a schema.Class.
// Scalar and reference properties hold plain ir.Node values, object
// properties hold a nested Object and array properties hold an Array of
// Objects which carry an identity (objID) used to match elements across
// documents.
//
// Every attached object knows its parent, so its location in the document
// can be written as a kinded path (see package kpath):
//
//	pages[2].widgets[0]
//
// and resolved again in another document of the same shape with Resolve.
//
// Documents are built from plain data by a Factory and converted back with
// ToIR. They are not safe for concurrent mutation.
package doc
