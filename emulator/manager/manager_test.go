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

package manager

import (
	"bytes"
	"errors"
	"testing"

	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor/cpu"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestLoadRom(t *testing.T) {
	p := cpu.NewCPU()
	m := NewManager(p)

	rom := []byte{0x00, 0xE0, 0x12, 0x00}
	if err := m.LoadRom("test", rom); err != nil {
		t.Fatal(err)
	}

	mem := p.GetMemory()
	if diff := cmp.Diff(rom, mem[memory.ProgramOrigin:memory.ProgramOrigin+4]); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff(memory.Font[:], mem[:len(memory.Font)]); diff != "" {
		t.Error(diff)
	}
	if p.PC != memory.ProgramOrigin {
		t.Errorf("PC 0x%03X", p.PC)
	}

	t.Run("Too large", func(t *testing.T) {
		p.V[3] = 0x42
		before := *mem

		err := m.LoadRom("big", make([]byte, memory.MaxProgramSize+1))
		if !errors.Is(err, ErrRomTooLarge) {
			t.Fatalf("expected ErrRomTooLarge, got %v", err)
		}
		if *mem != before || p.V[3] != 0x42 {
			t.Error("rejected ROM modified machine state")
		}
		if m.RomName() != "test" {
			t.Errorf("ROM name changed to %s", m.RomName())
		}
	})

	t.Run("Max size", func(t *testing.T) {
		big := bytes.Repeat([]byte{0xAB}, memory.MaxProgramSize)
		if err := m.LoadRom("max", big); err != nil {
			t.Fatal(err)
		}
		if mem.ReadByte(memory.Size-1) != 0xAB {
			t.Error("last byte not loaded")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if err := m.LoadRom("empty", nil); !errors.Is(err, ErrRomEmpty) {
			t.Errorf("expected ErrRomEmpty, got %v", err)
		}
	})
}

func TestReset(t *testing.T) {
	m := NewManager(cpu.NewCPU())
	if err := m.LoadRom("test", []byte{0x60, 0x42, 0x12, 0x02}); err != nil {
		t.Fatal(err)
	}
	clean := *m.CPU().GetMemory()
	regs := *m.CPU().GetRegisters()

	for i := 0; i < 10; i++ {
		if err := m.CPU().Step(); err != nil {
			t.Fatal(err)
		}
	}
	m.CPU().WriteByte(0x300, 0xFF)

	m.Reset()
	m.Reset()

	if *m.CPU().GetMemory() != clean {
		t.Error("memory not restored")
	}
	if diff := cmp.Diff(regs, *m.CPU().GetRegisters()); diff != "" {
		t.Error(diff)
	}

	t.Run("After rejected load", func(t *testing.T) {
		m.LoadRom("big", make([]byte, memory.Size))
		m.Reset()
		if *m.CPU().GetMemory() != clean {
			t.Error("reset after rejected load differs from clean state")
		}
	})
}

func TestLoadRomFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/roms/PONG", []byte{0x12, 0x00}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/roms/HUGE", make([]byte, memory.Size), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(cpu.NewCPU())
	if err := m.LoadRomFile(fs, "/roms/PONG"); err != nil {
		t.Fatal(err)
	}
	if m.RomName() != "PONG" || len(m.Rom()) != 2 {
		t.Errorf("unexpected ROM %s (%d bytes)", m.RomName(), len(m.Rom()))
	}

	if err := m.LoadRomFile(fs, "/roms/HUGE"); !errors.Is(err, ErrRomTooLarge) {
		t.Errorf("expected ErrRomTooLarge, got %v", err)
	}
	if err := m.LoadRomFile(fs, "/roms/MISSING"); err == nil {
		t.Error("expected error for missing file")
	}
}
