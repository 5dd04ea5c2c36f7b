// Package kpath implements kinded paths, the addresses used to relocate a
// node of one document tree inside another tree of the same shape.
//
// A kinded path is a sequence of property names and array indices:
//
//	pages[2].widgets[0].style
//
// Property names containing '.', '[', quotes or whitespace are written as
// Go double quoted strings.
package kpath
