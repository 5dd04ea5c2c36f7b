// Package schema describes the classes of objects that make up a project
// document.
//
// A Class lists its properties in declaration order; that order is the
// order in which documents are compared and changes are reported. Each
// property has a Kind:
//
//   - Scalar and Reference properties hold plain data (ir.Node values)
//   - Object properties hold one nested object of the property's class
//   - Array properties hold a list of objects of the property's class, each
//     carrying a stable object id
//
// Classes are registered in a Registry, which resolves class names used by
// nested properties and rejects classes that can only be instantiated with
// an infinite tree. Class definitions can be loaded from YAML or JSON with
// Load.
package schema
