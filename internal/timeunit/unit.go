// Package timeunit holds the fixed-point time value used to address signal
// timelines, its human readable form and the zoom step ladder.
package timeunit

import "fmt"

// Unit is one of the time units a value change dump may declare.
type Unit uint8

const (
	FS Unit = iota
	PS
	NS
	US
	MS
	S
)

// Base is the unit every Time is counted in. FS is finer than Base and can
// not be represented.
const Base = PS

var unitNames = [...]string{
	FS: "fs",
	PS: "ps",
	NS: "ns",
	US: "us",
	MS: "ms",
	S:  "s",
}

// perUnit is the number of base units in one unit. FS has no entry.
var perUnit = [...]uint64{
	PS: 1,
	NS: 1_000,
	US: 1_000_000,
	MS: 1_000_000_000,
	S:  1_000_000_000_000,
}

// displayUnits are the units Time.String may pick, smallest first.
var displayUnits = []Unit{PS, NS, US, MS, S}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// Representable reports whether whole counts of u can be expressed in Base.
func (u Unit) Representable() bool {
	return u >= PS && u <= S
}

// ParseUnit maps a unit suffix such as "ns" to its Unit.
func ParseUnit(s string) (Unit, bool) {
	for u, name := range unitNames {
		if name == s {
			return Unit(u), true
		}
	}
	return 0, false
}
