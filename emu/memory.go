package emu

import (
	"fmt"

	"github.com/sarchlab/pipesim/asmerr"
)

// Memory is a flat word-addressed store. The simulator keeps two
// disjoint instances, one for instruction fetch and one for
// load/store, both seeded from the same machine image at startup.
type Memory struct {
	words []uint32
}

// NewMemory allocates a memory of the given word capacity.
func NewMemory(numWords int) *Memory {
	return &Memory{words: make([]uint32, numWords)}
}

// Len returns the number of addressable words.
func (m *Memory) Len() int {
	return len(m.words)
}

// LoadWords replaces the memory contents with image, sized to len(image).
func (m *Memory) LoadWords(image []uint32) {
	m.words = make([]uint32, len(image))
	copy(m.words, image)
}

// ReadWord returns the word at addr, interpreted as a word index (the
// instruction set has no byte addressing).
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	if int(addr) >= len(m.words) {
		return 0, &asmerr.BoundsError{Msg: addressOutOfRange(addr, len(m.words))}
	}
	return m.words[addr], nil
}

// WriteWord stores value at addr.
func (m *Memory) WriteWord(addr uint32, value uint32) error {
	if int(addr) >= len(m.words) {
		return &asmerr.BoundsError{Msg: addressOutOfRange(addr, len(m.words))}
	}
	m.words[addr] = value
	return nil
}

// Snapshot returns a copy of the full memory contents, used by trace
// dumps that print every data word each cycle.
func (m *Memory) Snapshot() []uint32 {
	out := make([]uint32, len(m.words))
	copy(out, m.words)
	return out
}

func addressOutOfRange(addr uint32, size int) string {
	return fmt.Sprintf("address %d out of range for memory of size %d", addr, size)
}
