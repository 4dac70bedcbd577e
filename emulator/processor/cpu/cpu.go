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

package cpu

import (
	"log"
	"math/rand"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor/validator"
)

type CPU struct {
	processor.Registers

	mem   memory.Memory
	stats processor.Stats

	// Gfx is the display buffer. Lit pixels hold device.PixelOn.
	Gfx      [device.DisplaySize]uint32
	DrawFlag bool

	input device.Input

	// KeepWaiting is polled by FX0A while it waits for a key.
	// A nil function gives up after a single poll.
	KeepWaiting func() bool

	// Rand is the byte source for CXNN.
	Rand func() byte
}

var _ processor.Processor = (*CPU)(nil)

func NewCPU() *CPU {
	p := &CPU{
		Rand: func() byte { return byte(rand.Intn(0x100)) },
	}
	p.Reset()
	return p
}

// SetInput binds the keypad used by EX9E, EXA1 and FX0A. Nil is allowed.
func (p *CPU) SetInput(in device.Input) {
	p.input = in
}

func (p *CPU) GetStats() processor.Stats {
	s := p.stats
	p.stats = processor.Stats{}
	return s
}

// Reset clears registers, timers and the display. Memory is left untouched.
func (p *CPU) Reset() {
	log.Print("CPU reset!")

	p.Registers.Reset()
	p.ClearScreen()
}

func (p *CPU) ClearScreen() {
	p.Gfx = [device.DisplaySize]uint32{}
	p.DrawFlag = true
}

func (p *CPU) GetRegisters() *processor.Registers {
	return &p.Registers
}

func (p *CPU) GetMemory() *memory.Memory {
	return &p.mem
}

func (p *CPU) ReadByte(addr memory.Address) byte {
	data := p.mem.ReadByte(addr)
	validator.ReadByte(uint16(addr.Masked()), data)
	return data
}

func (p *CPU) WriteByte(addr memory.Address, data byte) {
	validator.WriteByte(uint16(addr.Masked()), data)
	p.mem.WriteByte(addr, data)
}

// jump sets PC to addr. The low bit is dropped so PC stays on an opcode boundary.
func (p *CPU) jump(addr uint16) {
	p.PC = addr & 0xFFE
}

// Fetch returns the opcode at PC without executing it.
func (p *CPU) Fetch() uint16 {
	return p.mem.ReadWord(memory.Address(p.PC))
}

func (p *CPU) keyPressed(k byte) bool {
	if p.input == nil {
		return false
	}
	return p.input.IsKeyPressed(device.Key(k & 0xF))
}
