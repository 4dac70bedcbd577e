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

package memory

import (
	"fmt"
)

const (
	Size          = 0x1000
	ProgramOrigin = 0x200
	FontBase      = 0x000

	// MaxProgramSize is the largest ROM image that fits above the program origin.
	MaxProgramSize = Size - ProgramOrigin
)

// Address is a location in the 4KB address space.
// Every access through Memory masks it to 12 bits.
type Address uint16

func (a Address) Masked() Address {
	return a & (Size - 1)
}

func (a Address) String() string {
	return fmt.Sprintf("0x%03X", uint16(a.Masked()))
}

type Memory [Size]byte

func (m *Memory) ReadByte(addr Address) byte {
	return m[addr.Masked()]
}

func (m *Memory) WriteByte(addr Address, data byte) {
	m[addr.Masked()] = data
}

// ReadWord reads a big-endian word. The second byte wraps at the end of memory.
func (m *Memory) ReadWord(addr Address) uint16 {
	return uint16(m.ReadByte(addr))<<8 | uint16(m.ReadByte(addr+1))
}

func (m *Memory) Clear() {
	*m = Memory{}
}

// SeedFont copies the glyph table into the reserved low memory region.
func (m *Memory) SeedFont() {
	copy(m[FontBase:], Font[:])
}

// GlyphAddress returns the address of the 4x5 glyph for hex digit d.
func GlyphAddress(d byte) Address {
	return FontBase + Address(d&0xF)*GlyphHeight
}
