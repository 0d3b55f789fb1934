package contracts

// Primitives is the table of memory operations the engine depends on,
// supplied once at engine construction. Targets that route buffer work
// through DMA-safe or instrumented routines inject their own; everyone
// else uses Builtin.
type Primitives struct {
	// Clear zeroes b.
	Clear func(b []byte)
	// Copy copies src into dst and returns the number of bytes copied.
	Copy func(dst, src []byte) int
}

// Builtin returns a primitive table backed by the language builtins.
func Builtin() *Primitives {
	return &Primitives{
		Clear: func(b []byte) { clear(b) },
		Copy:  func(dst, src []byte) int { return copy(dst, src) },
	}
}

// Complete reports whether both operations are present.
func (p *Primitives) Complete() bool {
	return p != nil && p.Clear != nil && p.Copy != nil
}
