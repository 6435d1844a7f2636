// Package bank tracks which of the three knob banks is active.
package bank

import "fmt"

// Count is the number of knob banks on the surface
const Count = 3

// Index identifies a knob bank
type Index int

const (
	Bank0 Index = iota
	Bank1
	Bank2
)

func (i Index) String() string {
	return fmt.Sprintf("bank%d", int(i))
}

// Wrap folds any integer onto the bank ring
func Wrap(i int) Index {
	return Index(((i % Count) + Count) % Count)
}

// Machine is the cyclic bank ring. The zero value starts on Bank0.
type Machine struct {
	current Index
}

// NewMachine creates a machine starting on the given bank
func NewMachine(start Index) *Machine {
	return &Machine{current: Wrap(int(start))}
}

// Current returns the active bank
func (m *Machine) Current() Index {
	return m.current
}

// Next moves one bank up, wrapping from Bank2 to Bank0
func (m *Machine) Next() Index {
	m.current = Wrap(int(m.current) + 1)
	return m.current
}

// Previous moves one bank down, wrapping from Bank0 to Bank2
func (m *Machine) Previous() Index {
	m.current = Wrap(int(m.current) - 1)
	return m.current
}

// Indicators returns the state of the two bank lights: the first is lit
// only on Bank0, the second only on Bank1, both are dark on Bank2.
func Indicators(i Index) (first, second bool) {
	return i == Bank0, i == Bank1
}
