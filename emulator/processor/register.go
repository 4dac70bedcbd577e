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

package processor

import (
	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
)

const (
	NumRegisters = 16
	StackDepth   = 16

	// VF is the flag register written by arithmetic, shift and draw instructions.
	VF = 0xF
)

type Registers struct {
	V  [NumRegisters]byte
	I  uint16
	PC uint16

	SP    byte
	Stack [StackDepth]uint16

	DelayTimer,
	SoundTimer byte
}

func (r *Registers) Reset() {
	*r = Registers{PC: memory.ProgramOrigin}
}

func (r *Registers) Push(addr uint16) error {
	if int(r.SP) >= StackDepth {
		return ErrStackOverflow
	}
	r.Stack[r.SP] = addr
	r.SP++
	return nil
}

func (r *Registers) Pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}

// DecrementTimers performs one 60Hz timer tick.
func (r *Registers) DecrementTimers() {
	if r.DelayTimer > 0 {
		r.DelayTimer--
	}
	if r.SoundTimer > 0 {
		r.SoundTimer--
	}
}
