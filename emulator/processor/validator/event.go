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

// Package validator records an execution trace of the interpreter. Each
// executed instruction becomes one Event with the registers before and after
// it and the memory it touched. Traces from two runs, or from another
// interpreter, can then be compared with Compare.
//
// Recording is only compiled in with the validator build tag.
package validator

import (
	"math"

	"github.com/andreas-jonsson/virtualchip8/emulator/processor"
)

const (
	DefaultQueueSize  = 1024
	DefaultBufferSize = 0x100000 // 1MB

	// FX55 and FX65 touch up to 16 bytes, which is the most of any instruction.
	MaxMemOps = 16
)

type Event struct {
	Opcode        uint16
	Regs          [2]processor.Registers
	Reads, Writes [MaxMemOps]MemOp
}

type MemOp struct {
	Addr uint32
	Data byte
}

func (op MemOp) Empty() bool {
	return op.Addr == math.MaxUint32
}

var EmptyEvent Event

func init() {
	for i := range EmptyEvent.Reads {
		EmptyEvent.Reads[i].Addr = math.MaxUint32
		EmptyEvent.Writes[i].Addr = math.MaxUint32
	}
}
