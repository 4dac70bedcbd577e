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

package headless

import (
	"testing"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/plugin"
)

func TestModules(t *testing.T) {
	r := plugin.NewRendererHandle(nil)
	if err := r.Load(RendererModule); err != nil {
		t.Fatal(err)
	}
	defer r.Free()

	in := plugin.NewInputHandle(nil)
	if err := in.Load(InputModule); err != nil {
		t.Fatal(err)
	}
	defer in.Free()

	s := plugin.NewSoundHandle(nil)
	if err := s.Load(SoundModule); err != nil {
		t.Fatal(err)
	}
	defer s.Free()

	if r.Get().Name() != Name || s.Get().Capability() != device.CapabilitySound {
		t.Error("unexpected plugin identity")
	}
}

func TestRenderer(t *testing.T) {
	r := NewRenderer()
	if err := r.Initialize(device.Vec2i{X: 640, Y: 320}, device.Vec2i{X: 64, Y: 32}); err != nil {
		t.Fatal(err)
	}

	buf := make([]uint32, device.DisplaySize)
	r.SetBuffer(buf)
	buf[5] = device.PixelOn
	r.DrawBuffer()
	buf[5] = device.PixelOff

	if r.Frame()[5] != device.PixelOn || r.NumFrames != 1 {
		t.Error("frame not captured")
	}

	r.PushEvent(device.RenderEventResized)
	r.PushEvent(device.RenderEventClosed)
	for _, expected := range []device.RenderEvent{device.RenderEventResized, device.RenderEventClosed, device.RenderEventNone} {
		if ev := r.UpdateEvents(); ev != expected {
			t.Errorf("got event %d, expected %d", ev, expected)
		}
	}

	Free(r)
	if r.IsInitialized() {
		t.Error("renderer still initialized after free")
	}
}

func TestInput(t *testing.T) {
	in := NewInput()
	in.Initialize()

	polls := 0
	if k := in.WaitKeyPress(func() bool { polls++; return polls < 5 }); k != device.KeyNone || polls != 5 {
		t.Errorf("key %v after %d polls", k, polls)
	}

	in.Press(device.Key7)
	if !in.IsKeyPressed(device.Key7) || in.IsKeyPressed(device.Key8) {
		t.Error("unexpected key state")
	}
	if k := in.WaitKeyPress(func() bool { return true }); k != device.Key7 {
		t.Errorf("got key %v", k)
	}
	in.Release(device.Key7)

	in.PushEvent(device.InputEventEscape)
	if k := in.WaitKeyPress(func() bool { return true }); k != device.KeyNone {
		t.Error("pending escape should end the wait")
	}
	if in.UpdateKeys() != device.InputEventEscape {
		t.Error("escape not reported")
	}
}
