// Package stream walks values as structured streams.
//
// Encode drives a Writer from a value.View and Decode fills a value.ViewMut
// from a Reader. The walk follows the layout:
//
//	object          {field: ..., ...}
//	tuple, array    [...]
//	unit            {}
//	enum            WriteEnum(name)
//	variant         {name: payload}
//	tagged variant  {discriminant: WriteVariant(name), "value": payload}
//
// Tree is an in-memory Writer and Reader pair over Node values. The package
// defines no byte format.
package stream
