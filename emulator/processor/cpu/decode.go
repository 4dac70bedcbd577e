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
	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor/validator"
)

type opcode uint16

func (op opcode) x() byte {
	return byte(op>>8) & 0xF
}

func (op opcode) y() byte {
	return byte(op>>4) & 0xF
}

func (op opcode) n() byte {
	return byte(op) & 0xF
}

func (op opcode) nn() byte {
	return byte(op)
}

func (op opcode) nnn() uint16 {
	return uint16(op) & 0xFFF
}

// Step executes one instruction. PC is advanced past the opcode before the
// handler runs, so jumps, calls and returns simply overwrite it.
// Unknown opcodes return an *processor.OpcodeError and leave PC advanced.
func (p *CPU) Step() error {
	pc := p.PC
	op := p.Fetch()
	validator.Begin(op, p.Registers)

	p.PC = (p.PC + 2) & 0xFFF
	p.stats.NumInstructions++

	inst, ok := decode(op)
	if !ok {
		validator.Discard()
		p.stats.NumUnknown++
		return &processor.OpcodeError{Opcode: op, PC: memory.Address(pc)}
	}

	err := inst.exec(p, opcode(op))
	validator.End(p.Registers)
	return err
}

func (p *CPU) skipIf(b bool) {
	if b {
		p.PC = (p.PC + 2) & 0xFFF
	}
}

func b2ui8(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func opCLS(p *CPU, _ opcode) error {
	p.ClearScreen()
	return nil
}

func opRET(p *CPU, _ opcode) error {
	addr, err := p.Pop()
	if err != nil {
		return err
	}
	p.PC = addr
	return nil
}

// SYS calls machine code on the original hardware. It is ignored.
func opSYS(_ *CPU, _ opcode) error {
	return nil
}

func opJP(p *CPU, op opcode) error {
	p.jump(op.nnn())
	return nil
}

func opCALL(p *CPU, op opcode) error {
	if err := p.Push(p.PC); err != nil {
		return err
	}
	p.jump(op.nnn())
	return nil
}

func opSEImm(p *CPU, op opcode) error {
	p.skipIf(p.V[op.x()] == op.nn())
	return nil
}

func opSNEImm(p *CPU, op opcode) error {
	p.skipIf(p.V[op.x()] != op.nn())
	return nil
}

func opSEReg(p *CPU, op opcode) error {
	p.skipIf(p.V[op.x()] == p.V[op.y()])
	return nil
}

func opLDImm(p *CPU, op opcode) error {
	p.V[op.x()] = op.nn()
	return nil
}

// Wraps without touching VF.
func opADDImm(p *CPU, op opcode) error {
	p.V[op.x()] += op.nn()
	return nil
}

func opLDReg(p *CPU, op opcode) error {
	p.V[op.x()] = p.V[op.y()]
	return nil
}

func opOR(p *CPU, op opcode) error {
	p.V[op.x()] |= p.V[op.y()]
	return nil
}

func opAND(p *CPU, op opcode) error {
	p.V[op.x()] &= p.V[op.y()]
	return nil
}

func opXOR(p *CPU, op opcode) error {
	p.V[op.x()] ^= p.V[op.y()]
	return nil
}

// The flag is written last so VF as a destination ends up holding the flag.

func opADDReg(p *CPU, op opcode) error {
	sum := uint16(p.V[op.x()]) + uint16(p.V[op.y()])
	p.V[op.x()] = byte(sum)
	p.V[processor.VF] = b2ui8(sum > 0xFF)
	return nil
}

// VF is 1 when there was no borrow.
func opSUB(p *CPU, op opcode) error {
	vx, vy := p.V[op.x()], p.V[op.y()]
	p.V[op.x()] = vx - vy
	p.V[processor.VF] = b2ui8(vx >= vy)
	return nil
}

func opSUBN(p *CPU, op opcode) error {
	vx, vy := p.V[op.x()], p.V[op.y()]
	p.V[op.x()] = vy - vx
	p.V[processor.VF] = b2ui8(vy >= vx)
	return nil
}

func opSHR(p *CPU, op opcode) error {
	vx := p.V[op.x()]
	p.V[op.x()] = vx >> 1
	p.V[processor.VF] = vx & 1
	return nil
}

func opSHL(p *CPU, op opcode) error {
	vx := p.V[op.x()]
	p.V[op.x()] = vx << 1
	p.V[processor.VF] = vx >> 7
	return nil
}

func opSNEReg(p *CPU, op opcode) error {
	p.skipIf(p.V[op.x()] != p.V[op.y()])
	return nil
}

func opLDI(p *CPU, op opcode) error {
	p.I = op.nnn()
	return nil
}

func opJPV0(p *CPU, op opcode) error {
	p.jump(op.nnn() + uint16(p.V[0]))
	return nil
}

func opRND(p *CPU, op opcode) error {
	p.V[op.x()] = p.Rand() & op.nn()
	return nil
}

// DRW XORs an 8xN sprite from memory at I onto the display. Coordinates wrap.
func opDRW(p *CPU, op opcode) error {
	x0, y0 := int(p.V[op.x()]), int(p.V[op.y()])
	p.V[processor.VF] = 0

	for row := 0; row < int(op.n()); row++ {
		line := p.ReadByte(memory.Address(p.I) + memory.Address(row))
		y := (y0 + row) % device.DisplayHeight

		for col := 0; col < 8; col++ {
			if line&(0x80>>uint(col)) == 0 {
				continue
			}
			x := (x0 + col) % device.DisplayWidth
			px := &p.Gfx[y*device.DisplayWidth+x]
			if *px != device.PixelOff {
				p.V[processor.VF] = 1
			}
			*px ^= device.PixelOn
		}
	}

	p.DrawFlag = true
	p.stats.NumDraws++
	return nil
}

func opSKP(p *CPU, op opcode) error {
	p.skipIf(p.keyPressed(p.V[op.x()]))
	return nil
}

func opSKNP(p *CPU, op opcode) error {
	p.skipIf(!p.keyPressed(p.V[op.x()]))
	return nil
}

func opLDVxDT(p *CPU, op opcode) error {
	p.V[op.x()] = p.DelayTimer
	return nil
}

// LD Vx, K re-executes on the next step until a key is delivered.
func opLDKey(p *CPU, op opcode) error {
	key := device.KeyNone
	if p.input != nil {
		wait := p.KeepWaiting
		if wait == nil {
			wait = func() bool { return false }
		}
		key = p.input.WaitKeyPress(wait)
	}

	if !key.Valid() {
		p.PC = (p.PC - 2) & 0xFFF
		return nil
	}
	p.V[op.x()] = byte(key)
	return nil
}

func opLDDTVx(p *CPU, op opcode) error {
	p.DelayTimer = p.V[op.x()]
	return nil
}

func opLDSTVx(p *CPU, op opcode) error {
	p.SoundTimer = p.V[op.x()]
	return nil
}

func opADDI(p *CPU, op opcode) error {
	p.I = (p.I + uint16(p.V[op.x()])) & 0xFFF
	return nil
}

func opLDF(p *CPU, op opcode) error {
	p.I = uint16(memory.GlyphAddress(p.V[op.x()]))
	return nil
}

func opLDB(p *CPU, op opcode) error {
	v := p.V[op.x()]
	addr := memory.Address(p.I)
	p.WriteByte(addr, v/100)
	p.WriteByte(addr+1, (v/10)%10)
	p.WriteByte(addr+2, v%10)
	return nil
}

// I is left unchanged by the register dump and load.

func opSTORE(p *CPU, op opcode) error {
	for i := byte(0); i <= op.x(); i++ {
		p.WriteByte(memory.Address(p.I)+memory.Address(i), p.V[i])
	}
	return nil
}

func opLOAD(p *CPU, op opcode) error {
	for i := byte(0); i <= op.x(); i++ {
		p.V[i] = p.ReadByte(memory.Address(p.I) + memory.Address(i))
	}
	return nil
}
