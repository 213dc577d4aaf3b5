// Package witlayout converts WebAssembly Interface Types into layouts.
//
// Records become objects, variants, options and results become variants,
// enums keep their case names, flags become objects of bool fields and
// lists become arrays:
//
//	c := witlayout.NewConverter(layout.NewBuilder(in))
//	defer c.Release()
//	l, err := c.Convert(typeDef)
//
// Layouts are computed once per *wit.TypeDef and owned by the converter.
// Retain a result to keep it past Release.
package witlayout
