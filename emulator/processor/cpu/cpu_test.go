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
	"errors"
	"testing"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor"
	"github.com/google/go-cmp/cmp"
)

type testInput struct {
	pressed device.Key
	polls   int
}

func (*testInput) Name() string { return "test" }
func (*testInput) Version() string { return "0" }
func (*testInput) Capability() device.Capability { return device.CapabilityInput }
func (*testInput) Deleter() device.Deleter { return nil }
func (*testInput) IsInitialized() bool { return true }
func (*testInput) Dispose() {}
func (*testInput) Initialize() error { return nil }
func (*testInput) UpdateKeys() device.InputEvent { return device.InputEventNone }
func (in *testInput) IsKeyPressed(k device.Key) bool { return k == in.pressed }

func (in *testInput) WaitKeyPress(keepWaiting func() bool) device.Key {
	for {
		in.polls++
		if in.pressed.Valid() {
			return in.pressed
		}
		if !keepWaiting() {
			return device.KeyNone
		}
	}
}

func newTestCPU(prog ...uint16) *CPU {
	p := NewCPU()
	p.Rand = func() byte { return 0xA5 }

	mem := p.GetMemory()
	mem.SeedFont()
	for i, op := range prog {
		addr := memory.Address(memory.ProgramOrigin + i*2)
		mem.WriteByte(addr, byte(op>>8))
		mem.WriteByte(addr+1, byte(op))
	}
	return p
}

func step(t *testing.T, p *CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := p.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDecode(t *testing.T) {
	if n := NumInstructions(); n != 35 {
		t.Fatalf("expected 35 instructions, got %d", n)
	}

	for _, op := range []uint16{0x5001, 0x800F, 0x9001, 0xE000, 0xF000, 0xF0FF} {
		if _, ok := decode(op); ok {
			t.Errorf("opcode 0x%04X should not decode", op)
		}
	}

	t.Run("Disassemble", func(t *testing.T) {
		cases := map[uint16]string{
			0x00E0: "CLS",
			0x00EE: "RET",
			0x0123: "SYS 123",
			0x1200: "JP 200",
			0x6A0F: "LD VA, 0F",
			0x8126: "SHR V1",
			0xD125: "DRW V1, V2, 5",
			0xF355: "LD [I], V3",
			0xFFFF: "DW FFFF",
		}
		for op, s := range cases {
			if d := Disassemble(op); d != s {
				t.Errorf("Disassemble(0x%04X) = %q, expected %q", op, d, s)
			}
		}
	})
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		name   string
		op     uint16
		vx, vy byte
		res    byte
		vf     byte
	}{
		{"ADD no carry", 0x8014, 0x10, 0x20, 0x30, 0},
		{"ADD carry", 0x8014, 0xFF, 0x02, 0x01, 1},
		{"SUB no borrow", 0x8015, 0x05, 0x03, 0x02, 1},
		{"SUB equal", 0x8015, 0x05, 0x05, 0x00, 1},
		{"SUB borrow", 0x8015, 0x03, 0x05, 0xFE, 0},
		{"SUBN no borrow", 0x8017, 0x03, 0x05, 0x02, 1},
		{"SUBN borrow", 0x8017, 0x05, 0x03, 0xFE, 0},
		{"SHR odd", 0x8016, 0x03, 0, 0x01, 1},
		{"SHR even", 0x8016, 0x04, 0, 0x02, 0},
		{"SHL high", 0x801E, 0x81, 0, 0x02, 1},
		{"SHL low", 0x801E, 0x41, 0, 0x82, 0},
		{"OR", 0x8011, 0xF0, 0x0F, 0xFF, 0x77},
		{"AND", 0x8012, 0xF0, 0x3C, 0x30, 0x77},
		{"XOR", 0x8013, 0xFF, 0x0F, 0xF0, 0x77},
		{"LD", 0x8010, 0x00, 0x42, 0x42, 0x77},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := newTestCPU(c.op)
			p.V[0], p.V[1], p.V[processor.VF] = c.vx, c.vy, 0x77
			step(t, p, 1)

			if p.V[0] != c.res {
				t.Errorf("result 0x%02X, expected 0x%02X", p.V[0], c.res)
			}
			if p.V[processor.VF] != c.vf {
				t.Errorf("VF %d, expected %d", p.V[processor.VF], c.vf)
			}
		})
	}

	t.Run("ADD immediate wraps without flag", func(t *testing.T) {
		p := newTestCPU(0x7002)
		p.V[0], p.V[processor.VF] = 0xFF, 0x77
		step(t, p, 1)
		if p.V[0] != 0x01 || p.V[processor.VF] != 0x77 {
			t.Errorf("V0=0x%02X VF=0x%02X", p.V[0], p.V[processor.VF])
		}
	})

	t.Run("Flag register as destination", func(t *testing.T) {
		p := newTestCPU(0x8F14)
		p.V[processor.VF], p.V[1] = 0xFF, 0x01
		step(t, p, 1)
		if p.V[processor.VF] != 1 {
			t.Errorf("VF should hold the carry, got 0x%02X", p.V[processor.VF])
		}
	})
}

func TestControlFlow(t *testing.T) {
	t.Run("Skips", func(t *testing.T) {
		cases := []struct {
			op   uint16
			skip bool
		}{
			{0x3005, true},
			{0x3006, false},
			{0x4005, false},
			{0x4006, true},
			{0x5010, true},
			{0x9010, false},
		}
		for _, c := range cases {
			p := newTestCPU(c.op)
			p.V[0], p.V[1] = 5, 5
			step(t, p, 1)

			expected := uint16(0x202)
			if c.skip {
				expected = 0x204
			}
			if p.PC != expected {
				t.Errorf("0x%04X: PC 0x%03X, expected 0x%03X", c.op, p.PC, expected)
			}
		}
	})

	t.Run("Jumps", func(t *testing.T) {
		p := newTestCPU(0x1ABC)
		step(t, p, 1)
		if p.PC != 0xABC {
			t.Errorf("JP: PC 0x%03X", p.PC)
		}

		p = newTestCPU(0xBFFF)
		p.V[0] = 0x02
		step(t, p, 1)
		if p.PC != 0x000 {
			t.Errorf("JP V0 should wrap: PC 0x%03X", p.PC)
		}
	})

	t.Run("Odd targets", func(t *testing.T) {
		cases := []struct {
			op       uint16
			v0       byte
			expected uint16
		}{
			{0x1201, 0, 0x200},
			{0x2203, 0, 0x202},
			{0xB201, 0, 0x200},
			{0xB200, 1, 0x200},
			{0xB2FF, 0x10, 0x30E},
		}
		for _, c := range cases {
			p := newTestCPU(c.op)
			p.V[0] = c.v0
			step(t, p, 1)
			if p.PC != c.expected {
				t.Errorf("0x%04X with V0=%d: PC 0x%03X, expected 0x%03X", c.op, c.v0, p.PC, c.expected)
			}
			if p.PC&1 != 0 {
				t.Errorf("0x%04X: PC 0x%03X is not aligned", c.op, p.PC)
			}
		}
	})

	t.Run("Nested calls", func(t *testing.T) {
		// Each subroutine at 0x200+2n calls the next one.
		prog := make([]uint16, processor.StackDepth+1)
		for i := 0; i < processor.StackDepth; i++ {
			prog[i] = 0x2000 | uint16(0x202+i*2)
		}
		prog[processor.StackDepth] = 0x00EE

		p := newTestCPU(prog...)
		step(t, p, processor.StackDepth)
		if int(p.SP) != processor.StackDepth {
			t.Fatalf("SP %d after %d calls", p.SP, processor.StackDepth)
		}

		for i := processor.StackDepth; i > 0; i-- {
			p.PC = 0x200 + processor.StackDepth*2
			step(t, p, 1)
			if expected := uint16(0x200 + i*2); p.PC != expected {
				t.Fatalf("RET returned to 0x%03X, expected 0x%03X", p.PC, expected)
			}
		}
		if p.SP != 0 {
			t.Errorf("stack not empty: SP %d", p.SP)
		}
	})

	t.Run("Stack overflow", func(t *testing.T) {
		p := newTestCPU(0x2200)
		step(t, p, processor.StackDepth)

		err := p.Step()
		if !errors.Is(err, processor.ErrStackOverflow) {
			t.Fatalf("expected stack overflow, got %v", err)
		}
		if !processor.IsFatal(err) {
			t.Error("stack overflow must be fatal")
		}
	})

	t.Run("Stack underflow", func(t *testing.T) {
		p := newTestCPU(0x00EE)
		if err := p.Step(); !errors.Is(err, processor.ErrStackUnderflow) {
			t.Fatalf("expected stack underflow, got %v", err)
		}
	})

	t.Run("Unknown opcode", func(t *testing.T) {
		p := newTestCPU(0xFFFF, 0x6042)
		err := p.Step()

		var opErr *processor.OpcodeError
		if !errors.As(err, &opErr) {
			t.Fatalf("expected OpcodeError, got %v", err)
		}
		if opErr.Opcode != 0xFFFF || opErr.PC != 0x200 {
			t.Errorf("unexpected error: %v", opErr)
		}
		if processor.IsFatal(err) {
			t.Error("unknown opcode must not be fatal")
		}

		step(t, p, 1)
		if p.V[0] != 0x42 {
			t.Error("execution should continue after an unknown opcode")
		}
		if s := p.GetStats(); s.NumUnknown != 1 || s.NumInstructions != 2 {
			t.Errorf("unexpected stats: %+v", s)
		}
	})
}

func TestDraw(t *testing.T) {
	// LD I, font 0; DRW V0, V1, 5 twice.
	p := newTestCPU(0xA000, 0xD015, 0xD015)
	step(t, p, 2)

	if p.V[processor.VF] != 0 {
		t.Error("first draw should not collide")
	}
	if !p.DrawFlag {
		t.Error("draw flag not set")
	}
	// Top row of glyph 0 is 0xF0.
	for x := 0; x < 8; x++ {
		expected := device.PixelOff
		if x < 4 {
			expected = device.PixelOn
		}
		if p.Gfx[x] != expected {
			t.Errorf("pixel %d: 0x%08X", x, p.Gfx[x])
		}
	}

	p.DrawFlag = false
	step(t, p, 1)
	if p.V[processor.VF] != 1 {
		t.Error("second draw should collide")
	}
	if diff := cmp.Diff([device.DisplaySize]uint32{}, p.Gfx); diff != "" {
		t.Errorf("display not cleared by XOR: %s", diff)
	}

	t.Run("Wrap", func(t *testing.T) {
		p := newTestCPU(0xA000, 0xD011)
		p.V[0], p.V[1] = 62, 31
		step(t, p, 2)

		row := 31 * device.DisplayWidth
		for _, x := range []int{62, 63, 0, 1} {
			if p.Gfx[row+x] != device.PixelOn {
				t.Errorf("pixel %d not set", x)
			}
		}
	})
}

func TestKeys(t *testing.T) {
	t.Run("No input", func(t *testing.T) {
		p := newTestCPU(0xE09E, 0xE0A1)
		step(t, p, 1)
		if p.PC != 0x202 {
			t.Error("SKP must not skip without input")
		}
		step(t, p, 1)
		if p.PC != 0x206 {
			t.Error("SKNP must skip without input")
		}

		p = newTestCPU(0xF00A)
		step(t, p, 3)
		if p.PC != 0x200 {
			t.Errorf("LD K must not advance without input, PC 0x%03X", p.PC)
		}
	})

	t.Run("Pressed", func(t *testing.T) {
		in := &testInput{pressed: device.KeyB}
		p := newTestCPU(0xE09E, 0xE09E, 0xF30A)
		p.SetInput(in)
		p.V[0] = 0xB

		step(t, p, 1)
		if p.PC != 0x204 {
			t.Fatalf("SKP should skip, PC 0x%03X", p.PC)
		}
		p.V[0] = 0xC
		step(t, p, 2)
		if p.PC != 0x208 || p.V[3] != 0xB {
			t.Errorf("LD K: PC 0x%03X V3 0x%02X", p.PC, p.V[3])
		}
	})

	t.Run("Wait cancelled", func(t *testing.T) {
		in := &testInput{pressed: device.KeyNone}
		p := newTestCPU(0xF00A)
		p.SetInput(in)

		budget := 3
		p.KeepWaiting = func() bool {
			budget--
			return budget > 0
		}
		step(t, p, 1)

		if p.PC != 0x200 {
			t.Errorf("PC advanced on cancelled wait: 0x%03X", p.PC)
		}
		if in.polls != 3 {
			t.Errorf("expected 3 polls, got %d", in.polls)
		}
	})
}

func TestMemoryOps(t *testing.T) {
	p := newTestCPU(0xA300, 0xF033, 0xF265, 0xF129)
	p.V[0] = 254
	step(t, p, 2)

	mem := p.GetMemory()
	for i, d := range []byte{2, 5, 4} {
		if v := mem.ReadByte(0x300 + memory.Address(i)); v != d {
			t.Errorf("BCD digit %d: %d", i, v)
		}
	}

	step(t, p, 1)
	if p.V[0] != 2 || p.V[1] != 5 || p.V[2] != 4 {
		t.Errorf("LD Vx, [I]: %v", p.V[:3])
	}
	if p.I != 0x300 {
		t.Errorf("I modified: 0x%03X", p.I)
	}

	step(t, p, 1)
	if p.I != uint16(memory.GlyphAddress(5)) {
		t.Errorf("LD F: I 0x%03X", p.I)
	}

	t.Run("Store", func(t *testing.T) {
		p := newTestCPU(0xA400, 0xF355, 0xF01E)
		copy(p.V[:], []byte{1, 2, 3, 4, 5})
		step(t, p, 2)

		var got [5]byte
		for i := range got {
			got[i] = p.ReadByte(0x400 + memory.Address(i))
		}
		if diff := cmp.Diff([5]byte{1, 2, 3, 4, 0}, got); diff != "" {
			t.Error(diff)
		}

		step(t, p, 1)
		if p.I != 0x401 {
			t.Errorf("ADD I: 0x%03X", p.I)
		}
	})

	t.Run("Timers and random", func(t *testing.T) {
		p := newTestCPU(0xF015, 0xF118, 0xF207, 0xC30F)
		p.V[0], p.V[1] = 10, 20
		step(t, p, 4)
		if p.DelayTimer != 10 || p.SoundTimer != 20 || p.V[2] != 10 {
			t.Errorf("DT=%d ST=%d V2=%d", p.DelayTimer, p.SoundTimer, p.V[2])
		}
		if p.V[3] != 0x05 {
			t.Errorf("RND not masked: 0x%02X", p.V[3])
		}
	})
}

func TestClearAndLoop(t *testing.T) {
	p := newTestCPU(0xA000, 0xD015, 0x00E0, 0x1206)
	step(t, p, 100)

	if diff := cmp.Diff([device.DisplaySize]uint32{}, p.Gfx); diff != "" {
		t.Error(diff)
	}
	if p.PC != 0x206 {
		t.Errorf("PC 0x%03X", p.PC)
	}

	p = newTestCPU(0x00E0, 0x1200)
	step(t, p, 1000)
	if p.PC != 0x200 {
		t.Errorf("PC 0x%03X", p.PC)
	}
}

func TestDeterminism(t *testing.T) {
	prog := []uint16{0x6A12, 0x6B34, 0x8AB4, 0x8AB5, 0xCAFF, 0xA000, 0xDAB5, 0xF033, 0x1200}
	a, b := newTestCPU(prog...), newTestCPU(prog...)
	step(t, a, 500)
	step(t, b, 500)

	if diff := cmp.Diff(a.Registers, b.Registers); diff != "" {
		t.Error(diff)
	}
	if a.Gfx != b.Gfx || *a.GetMemory() != *b.GetMemory() {
		t.Error("machine state diverged")
	}
}

func BenchmarkStep(b *testing.B) {
	p := newTestCPU(0x6A12, 0x7A01, 0x8AB4, 0xA000, 0xD015, 0x1200)
	for i := 0; i < b.N; i++ {
		if err := p.Step(); err != nil {
			b.Fatal(err)
		}
	}
}
