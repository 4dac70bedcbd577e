/*
Copyright (c) 2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package validator

import (
	"errors"
	"fmt"
	"io"
)

type Mismatch int

const (
	MatchAll Mismatch = iota
	MatchOpcodeAndLocation
	MatchMemory
)

// Divergence describes the first pair of events that did not match.
type Divergence struct {
	Index int
	A, B  Event
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("traces diverge at event %d: %04X@%03X vs %04X@%03X",
		d.Index, d.A.Opcode, d.A.Regs[0].PC, d.B.Opcode, d.B.Regs[0].PC)
}

func equalOpcodeAndLocation(a, b *Event) bool {
	return a.Opcode == b.Opcode && a.Regs[0].PC == b.Regs[0].PC
}

func equalMemory(a, b *Event) bool {
	return equalOpcodeAndLocation(a, b) && a.Reads == b.Reads && a.Writes == b.Writes
}

func equalAll(a, b *Event) bool {
	return *a == *b
}

func (m Mismatch) equal(a, b *Event) bool {
	switch m {
	case MatchOpcodeAndLocation:
		return equalOpcodeAndLocation(a, b)
	case MatchMemory:
		return equalMemory(a, b)
	default:
		return equalAll(a, b)
	}
}

// Compare walks two traces in lockstep for at most limit events, or until one
// ends if limit is zero. It returns the number of matching events and a
// *Divergence for the first mismatch.
func Compare(a, b *Decoder, mode Mismatch, limit int) (int, error) {
	for i := 0; limit <= 0 || i < limit; i++ {
		var ea, eb Event
		errA, errB := a.Decode(&ea), b.Decode(&eb)

		if errors.Is(errA, io.EOF) || errors.Is(errB, io.EOF) {
			return i, nil
		}
		if errA != nil {
			return i, errA
		}
		if errB != nil {
			return i, errB
		}

		if !mode.equal(&ea, &eb) {
			return i, &Divergence{Index: i, A: ea, B: eb}
		}
	}
	return limit, nil
}
