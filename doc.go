// Package valuestore is a runtime layout engine and value store for
// dynamically described data.
//
// Shapes are described at runtime, laid out byte-exactly, and values of
// those shapes live in reference counted blocks that are read and written
// through generation-checked references and lock-holding views.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	valuestore/
//	├── rc/          Shared ownership: Rc[T] and fixed-length Array[T]
//	├── intern/      String interner with reference counted handles
//	├── layout/      Closed layout sum type, builders, size/align/default-init
//	├── value/       Value blocks, handles, references, views, array growth
//	├── stream/      Structured stream contract, walkers, in-memory tree
//	├── witlayout/   WIT type definitions to layouts
//	├── errors/      Structured error types for debugging
//	└── cmd/layout/  Layout inspector and interactive explorer
//
// # Quick Start
//
// Build a layout and allocate a value:
//
//	b := layout.NewBuilder(intern.Default())
//	point, err := b.Object(
//	    layout.Named("x", layout.Float64),
//	    layout.Named("y", layout.Float64),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer layout.Release(point)
//
//	h := value.New(point)
//	defer h.Release()
//
//	m := h.Root().ViewMut()
//	x, _ := m.Field("x")
//	x.SetFloat64(1.5)
//	m.Close()
//
// # References and Views
//
// A Reference is a location in a value plus the generation it was captured
// at. Pushing into an array or switching a variant alternative bumps the
// generation and every older Reference reports IsValid false. A View holds
// the value's read lock and a ViewMut its write lock until Close.
package valuestore
