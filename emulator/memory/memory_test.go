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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemory(t *testing.T) {
	t.Run("Masking", func(t *testing.T) {
		var m Memory
		m.WriteByte(0x1234, 0xAB)
		if v := m[0x234]; v != 0xAB {
			t.Errorf("m[0x234] = 0x%X, expected 0xAB", v)
		}
		if v := m.ReadByte(0xF234); v != 0xAB {
			t.Errorf("ReadByte(0xF234) = 0x%X, expected 0xAB", v)
		}
	})

	t.Run("WordWrap", func(t *testing.T) {
		var m Memory
		m[Size-1] = 0x12
		m[0] = 0x34
		if v := m.ReadWord(Size - 1); v != 0x1234 {
			t.Errorf("ReadWord = 0x%X, expected 0x1234", v)
		}
	})

	t.Run("Font", func(t *testing.T) {
		var m Memory
		m.SeedFont()
		if diff := cmp.Diff(Font[:], m[FontBase:FontBase+len(Font)]); diff != "" {
			t.Errorf("font: (-want, +got)\n%s", diff)
		}
		if a := GlyphAddress(0xA); a != FontBase+50 {
			t.Errorf("GlyphAddress(0xA) = %v", a)
		}
		if a := GlyphAddress(0x1F); a != GlyphAddress(0xF) {
			t.Errorf("GlyphAddress should only use the low nibble, got %v", a)
		}
	})
}
