package value

import "github.com/wippyai/valuestore/intern"

// Options configures value allocation.
type Options struct {
	// Interner holds the content of string fields. Defaults to
	// intern.Default().
	Interner *intern.Interner
	// InitialArrayCapacity is the element capacity allocated by the first
	// push into an empty array. Later growth doubles.
	InitialArrayCapacity int
}

// DefaultOptions returns default value configuration.
func DefaultOptions() Options {
	return Options{
		Interner:             intern.Default(),
		InitialArrayCapacity: 4,
	}
}

func (o Options) normalized() Options {
	if o.Interner == nil {
		o.Interner = intern.Default()
	}
	if o.InitialArrayCapacity < 1 {
		o.InitialArrayCapacity = 1
	}
	return o
}
