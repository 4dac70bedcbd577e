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

package tcell

import (
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/plugin"
	"github.com/gdamore/tcell"
)

func init() {
	NewScreen = func() (tcell.Screen, error) {
		s := tcell.NewSimulationScreen("UTF-8")
		return s, nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	for deadline := time.Now().Add(time.Second); time.Now().Before(deadline); time.Sleep(time.Millisecond) {
		if cond() {
			return
		}
	}
	t.Fatal("timeout")
}

func TestSharedScreen(t *testing.T) {
	r, in := &Renderer{}, &Input{}
	if err := r.Initialize(device.Vec2i{X: 640, Y: 320}, device.Vec2i{X: 64, Y: 32}); err != nil {
		t.Fatal(err)
	}
	if err := in.Initialize(); err != nil {
		t.Fatal(err)
	}
	if term.refs != 2 {
		t.Errorf("expected 2 references, got %d", term.refs)
	}

	r.Dispose()
	in.Dispose()
	in.Dispose()
	if term.refs != 0 || term.screen != nil {
		t.Error("screen not released")
	}
}

func TestRenderer(t *testing.T) {
	r := &Renderer{}
	if err := r.Initialize(device.Vec2i{X: 640, Y: 320}, device.Vec2i{X: 64, Y: 32}); err != nil {
		t.Fatal(err)
	}
	defer r.Dispose()

	sim := r.screen.(tcell.SimulationScreen)
	sim.SetSize(80, 25)

	buf := make([]uint32, device.DisplaySize)
	buf[0] = device.PixelOn
	r.SetBuffer(buf)
	r.SetWindowTitle("TEST")
	r.DrawBuffer()

	cells, width, _ := sim.GetContents()
	if cells[0].Runes[0] != upperHalfBlock {
		t.Errorf("unexpected rune %q", cells[0].Runes[0])
	}
	fg, bg, _ := cells[0].Style.Decompose()
	if fg == bg {
		t.Error("lit pixel drawn with background color")
	}
	if fg, bg, _ = cells[1].Style.Decompose(); fg != bg {
		t.Error("dark pixel drawn with draw color")
	}
	if title := cells[16*width].Runes[0]; title != 'T' {
		t.Errorf("title not drawn: %q", title)
	}

	t.Run("Resize", func(t *testing.T) {
		sim.SetSize(100, 40)
		sim.PostEvent(tcell.NewEventResize(100, 40))
		waitFor(t, func() bool { return r.UpdateEvents() == device.RenderEventResized })
	})
}

func TestInput(t *testing.T) {
	r, in := &Renderer{}, &Input{}
	if err := r.Initialize(device.Vec2i{X: 640, Y: 320}, device.Vec2i{X: 64, Y: 32}); err != nil {
		t.Fatal(err)
	}
	defer r.Dispose()
	if err := in.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer in.Dispose()

	sim := r.screen.(tcell.SimulationScreen)

	sim.InjectKey(tcell.KeyRune, 'W', tcell.ModNone)
	waitFor(t, func() bool { return in.IsKeyPressed(device.Key5) })
	if k := in.WaitKeyPress(func() bool { return false }); k != device.Key5 {
		t.Errorf("got key %v", k)
	}

	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	waitFor(t, func() bool {
		term.Lock()
		defer term.Unlock()
		return len(term.inputEvents) == 2
	})
	if in.UpdateKeys() != device.InputEventReset || in.UpdateKeys() != device.InputEventEscape {
		t.Error("unexpected event order")
	}

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	waitFor(t, func() bool { return r.UpdateEvents() == device.RenderEventClosed })
}

func TestKeyMap(t *testing.T) {
	if len(keyMap) != device.NumKeys {
		t.Fatalf("expected %d mapped keys, got %d", device.NumKeys, len(keyMap))
	}
	seen := make(map[device.Key]bool)
	for _, k := range keyMap {
		seen[k] = true
	}
	if len(seen) != device.NumKeys {
		t.Error("keys mapped more than once")
	}
	if keyFromRune('V') != device.KeyF || keyFromRune('p') != device.KeyNone {
		t.Error("unexpected mapping")
	}
}

func TestModules(t *testing.T) {
	h := plugin.NewRendererHandle(nil)
	if err := h.Load(RendererModule); err != nil {
		t.Fatal(err)
	}
	h.Free()

	in := plugin.NewInputHandle(nil)
	if err := in.Load(InputModule); err != nil {
		t.Fatal(err)
	}
	in.Free()
}
