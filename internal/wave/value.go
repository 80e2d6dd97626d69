// Package wave models recorded signal timelines and samples them into fixed
// width display cells.
package wave

import (
	"fmt"
	"math/big"
	"strings"
)

// Logic is the state of a single bit.
type Logic uint8

const (
	L0 Logic = iota
	L1
	X
	Z
)

func (l Logic) String() string {
	switch l {
	case L0:
		return "0"
	case L1:
		return "1"
	case X:
		return "x"
	case Z:
		return "z"
	}
	return "?"
}

// ParseLogic reads one of 0 1 x X z Z.
func ParseLogic(c byte) (Logic, bool) {
	switch c {
	case '0':
		return L0, true
	case '1':
		return L1, true
	case 'x', 'X':
		return X, true
	case 'z', 'Z':
		return Z, true
	}
	return 0, false
}

// Kind separates single bit signals from bit vectors. It is fixed when a
// signal is declared.
type Kind uint8

const (
	Bit Kind = iota
	Vector
)

func (k Kind) String() string {
	if k == Vector {
		return "vector"
	}
	return "bit"
}

// Value is a single bit or a bit vector. Vector bits are stored most
// significant first, the order they appear in a dump.
type Value struct {
	kind Kind
	bit  Logic
	bits []Logic
}

func BitValue(l Logic) Value {
	return Value{kind: Bit, bit: l}
}

func VectorValue(bits ...Logic) Value {
	return Value{kind: Vector, bits: append([]Logic(nil), bits...)}
}

// ParseVector reads the digits of a binary vector such as "10xz".
func ParseVector(s string) (Value, error) {
	if s == "" {
		return Value{}, fmt.Errorf("empty vector")
	}
	bits := make([]Logic, len(s))
	for i := 0; i < len(s); i++ {
		l, ok := ParseLogic(s[i])
		if !ok {
			return Value{}, fmt.Errorf("invalid vector digit %q in %q", s[i], s)
		}
		bits[i] = l
	}
	return Value{kind: Vector, bits: bits}, nil
}

// Unknown is the value of a signal with no recorded history: x for bits,
// all x for vectors of the given width.
func Unknown(kind Kind, width int) Value {
	if kind == Bit {
		return BitValue(X)
	}
	bits := make([]Logic, width)
	for i := range bits {
		bits[i] = X
	}
	return Value{kind: Vector, bits: bits}
}

func (v Value) Kind() Kind { return v.kind }

// Bit is the logic state of a single bit value.
func (v Value) Bit() Logic { return v.bit }

// Bits returns the vector bits, most significant first. The slice must not be
// modified.
func (v Value) Bits() []Logic { return v.bits }

func (v Value) Width() int {
	if v.kind == Bit {
		return 1
	}
	return len(v.bits)
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == Bit {
		return v.bit == o.bit
	}
	if len(v.bits) != len(o.bits) {
		return false
	}
	for i := range v.bits {
		if v.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

// HasUnknown reports whether any bit is x or z.
func (v Value) HasUnknown() bool {
	if v.kind == Bit {
		return v.bit == X || v.bit == Z
	}
	for _, b := range v.bits {
		if b == X || b == Z {
			return true
		}
	}
	return false
}

// String is the bit state for bits, and the unsigned decimal value for
// vectors, or "x" when a vector holds an x or z bit.
func (v Value) String() string {
	if v.kind == Bit {
		return v.bit.String()
	}
	if len(v.bits) == 0 || v.HasUnknown() {
		return "x"
	}
	n := new(big.Int)
	for i, b := range v.bits {
		if b == L1 {
			n.SetBit(n, len(v.bits)-1-i, 1)
		}
	}
	return n.String()
}

// Binary renders the value the way a dump writes it, e.g. "1" or "b10x0".
func (v Value) Binary() string {
	if v.kind == Bit {
		return v.bit.String()
	}
	var sb strings.Builder
	sb.WriteByte('b')
	for _, b := range v.bits {
		sb.WriteString(b.String())
	}
	return sb.String()
}

// Coerce fits v to a signal of the given kind and width. Short vectors are
// extended on the left with 0, or with x or z when the leftmost bit is x or
// z. Long vectors keep their rightmost bits.
func (v Value) Coerce(kind Kind, width int) Value {
	if kind == Bit {
		if v.kind == Bit {
			return v
		}
		if len(v.bits) == 0 {
			return BitValue(X)
		}
		return BitValue(v.bits[len(v.bits)-1])
	}

	bits := v.bits
	if v.kind == Bit {
		bits = []Logic{v.bit}
	}
	switch {
	case len(bits) == width:
		if v.kind == Vector {
			return v
		}
		return VectorValue(bits...)
	case len(bits) > width:
		return VectorValue(bits[len(bits)-width:]...)
	}

	fill := L0
	if len(bits) > 0 && (bits[0] == X || bits[0] == Z) {
		fill = bits[0]
	}
	out := make([]Logic, width)
	pad := width - len(bits)
	for i := 0; i < pad; i++ {
		out[i] = fill
	}
	copy(out[pad:], bits)
	return Value{kind: Vector, bits: out}
}
