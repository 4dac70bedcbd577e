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
	"fmt"
	"strings"
)

type handler func(p *CPU, op opcode) error

type instruction struct {
	mask, pattern uint16
	name          string
	exec          handler
}

const unknownInstruction = 0xFF

// Entries are matched in order. The first match wins, so
// 00E0 and 00EE must come before the 0NNN catch-all.
var instructions = [...]instruction{
	{0xFFFF, 0x00E0, "CLS", opCLS},
	{0xFFFF, 0x00EE, "RET", opRET},
	{0xF000, 0x0000, "SYS %03[3]X", opSYS},
	{0xF000, 0x1000, "JP %03[3]X", opJP},
	{0xF000, 0x2000, "CALL %03[3]X", opCALL},
	{0xF000, 0x3000, "SE V%[1]X, %02[4]X", opSEImm},
	{0xF000, 0x4000, "SNE V%[1]X, %02[4]X", opSNEImm},
	{0xF00F, 0x5000, "SE V%[1]X, V%[2]X", opSEReg},
	{0xF000, 0x6000, "LD V%[1]X, %02[4]X", opLDImm},
	{0xF000, 0x7000, "ADD V%[1]X, %02[4]X", opADDImm},
	{0xF00F, 0x8000, "LD V%[1]X, V%[2]X", opLDReg},
	{0xF00F, 0x8001, "OR V%[1]X, V%[2]X", opOR},
	{0xF00F, 0x8002, "AND V%[1]X, V%[2]X", opAND},
	{0xF00F, 0x8003, "XOR V%[1]X, V%[2]X", opXOR},
	{0xF00F, 0x8004, "ADD V%[1]X, V%[2]X", opADDReg},
	{0xF00F, 0x8005, "SUB V%[1]X, V%[2]X", opSUB},
	{0xF00F, 0x8006, "SHR V%[1]X", opSHR},
	{0xF00F, 0x8007, "SUBN V%[1]X, V%[2]X", opSUBN},
	{0xF00F, 0x800E, "SHL V%[1]X", opSHL},
	{0xF00F, 0x9000, "SNE V%[1]X, V%[2]X", opSNEReg},
	{0xF000, 0xA000, "LD I, %03[3]X", opLDI},
	{0xF000, 0xB000, "JP V0, %03[3]X", opJPV0},
	{0xF000, 0xC000, "RND V%[1]X, %02[4]X", opRND},
	{0xF000, 0xD000, "DRW V%[1]X, V%[2]X, %[5]X", opDRW},
	{0xF0FF, 0xE09E, "SKP V%[1]X", opSKP},
	{0xF0FF, 0xE0A1, "SKNP V%[1]X", opSKNP},
	{0xF0FF, 0xF007, "LD V%[1]X, DT", opLDVxDT},
	{0xF0FF, 0xF00A, "LD V%[1]X, K", opLDKey},
	{0xF0FF, 0xF015, "LD DT, V%[1]X", opLDDTVx},
	{0xF0FF, 0xF018, "LD ST, V%[1]X", opLDSTVx},
	{0xF0FF, 0xF01E, "ADD I, V%[1]X", opADDI},
	{0xF0FF, 0xF029, "LD F, V%[1]X", opLDF},
	{0xF0FF, 0xF033, "LD B, V%[1]X", opLDB},
	{0xF0FF, 0xF055, "LD [I], V%[1]X", opSTORE},
	{0xF0FF, 0xF065, "LD V%[1]X, [I]", opLOAD},
}

// decodeLookup maps every 16-bit value to an index in instructions.
var decodeLookup [0x10000]byte

func init() {
	for op := range decodeLookup {
		decodeLookup[op] = unknownInstruction
		for i, inst := range instructions {
			if uint16(op)&inst.mask == inst.pattern {
				decodeLookup[op] = byte(i)
				break
			}
		}
	}
}

func decode(op uint16) (*instruction, bool) {
	idx := decodeLookup[op]
	if idx == unknownInstruction {
		return nil, false
	}
	return &instructions[idx], true
}

// Disassemble returns the mnemonic form of op.
func Disassemble(op uint16) string {
	inst, ok := decode(op)
	if !ok {
		return fmt.Sprintf("DW %04X", op)
	}
	if !strings.ContainsRune(inst.name, '%') {
		return inst.name
	}
	o := opcode(op)
	return fmt.Sprintf(inst.name, o.x(), o.y(), o.nnn(), o.nn(), o.n())
}

// NumInstructions returns the size of the instruction table.
func NumInstructions() int {
	return len(instructions)
}
