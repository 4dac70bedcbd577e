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

// Package manager owns program loading and machine reset for a CPU.
package manager

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"path/filepath"

	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor"
	"github.com/spf13/afero"
)

var (
	ErrRomTooLarge = errors.New("rom too large")
	ErrRomEmpty    = errors.New("rom is empty")
)

type Manager struct {
	cpu     processor.Processor
	rom     []byte
	romName string
}

func NewManager(p processor.Processor) *Manager {
	m := &Manager{cpu: p}
	m.Reset()
	return m
}

func (m *Manager) CPU() processor.Processor {
	return m.cpu
}

func (m *Manager) RomName() string {
	return m.romName
}

func (m *Manager) Rom() []byte {
	return m.rom
}

// LoadRom validates the image and then resets the machine with it.
// A rejected image leaves the previous machine state untouched.
func (m *Manager) LoadRom(name string, rom []byte) error {
	if len(rom) == 0 {
		return fmt.Errorf("%s: %w", name, ErrRomEmpty)
	}
	if len(rom) > memory.MaxProgramSize {
		return fmt.Errorf("%s: %d bytes, limit is %d: %w", name, len(rom), memory.MaxProgramSize, ErrRomTooLarge)
	}

	m.rom = append(m.rom[:0], rom...)
	m.romName = name
	m.Reset()

	log.Printf("Loaded ROM: %s (%d bytes)", name, len(rom))
	return nil
}

// LoadRomReader reads at most one byte past the size limit before rejecting.
func (m *Manager) LoadRomReader(name string, r io.Reader) error {
	rom, err := ioutil.ReadAll(io.LimitReader(r, memory.MaxProgramSize+1))
	if err != nil {
		return err
	}
	return m.LoadRom(name, rom)
}

func (m *Manager) LoadRomFile(fs afero.Fs, path string) error {
	fp, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	return m.LoadRomReader(filepath.Base(path), fp)
}

// Reset restores power-on state with the current ROM in place.
func (m *Manager) Reset() {
	mem := m.cpu.GetMemory()
	mem.Clear()
	mem.SeedFont()
	copy(mem[memory.ProgramOrigin:], m.rom)

	m.cpu.Reset()
}
