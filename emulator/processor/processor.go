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
	"errors"
	"fmt"

	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
)

type Stats struct {
	NumInstructions uint64
	NumDraws        uint64
	NumUnknown      uint64
}

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrUnknownOpcode  = errors.New("unknown opcode")
)

// OpcodeError reports an opcode that did not decode to any instruction.
type OpcodeError struct {
	Opcode uint16
	PC     memory.Address
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at %v", e.Opcode, e.PC)
}

func (e *OpcodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrUnknownOpcode)
}

type Debug interface {
	GetStats() Stats
}

type Processor interface {
	Debug

	ReadByte(addr memory.Address) byte
	WriteByte(addr memory.Address, data byte)

	GetRegisters() *Registers
	GetMemory() *memory.Memory

	Reset()
	Step() error
}
