// +build sdl

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

package sdl

import (
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/version"
	sdl2 "github.com/veandco/go-sdl2/sdl"
)

type Input struct {
	initialized bool
}

func NewInput() *Input {
	return &Input{}
}

func (*Input) Name() string {
	return "SDL Input"
}

func (*Input) Version() string {
	return version.Current.String()
}

func (*Input) Capability() device.Capability {
	return device.CapabilityInput
}

func (*Input) Deleter() device.Deleter {
	return Free
}

func (in *Input) IsInitialized() bool {
	return in.initialized
}

func (in *Input) Initialize() error {
	if in.initialized {
		return nil
	}
	if err := acquire(sdl2.INIT_EVENTS); err != nil {
		return err
	}
	sdl2.Do(func() {
		ctx.keys = [device.NumKeys]bool{}
		ctx.newest = device.KeyNone
		ctx.inputEvents = nil
	})
	in.initialized = true
	return nil
}

func (in *Input) Dispose() {
	if in.initialized {
		in.initialized = false
		release(sdl2.INIT_EVENTS)
	}
}

func (in *Input) IsKeyPressed(k device.Key) bool {
	if !k.Valid() {
		return false
	}
	var pressed bool
	sdl2.Do(func() {
		pressed = ctx.keys[k]
	})
	return pressed
}

func (in *Input) UpdateKeys() device.InputEvent {
	ev := device.InputEventNone
	sdl2.Do(func() {
		pumpEvents()
		if len(ctx.inputEvents) > 0 {
			ev = ctx.inputEvents[0]
			ctx.inputEvents = ctx.inputEvents[1:]
		}
	})
	return ev
}

func (in *Input) WaitKeyPress(keepWaiting func() bool) device.Key {
	for {
		key := device.KeyNone
		var pending bool

		sdl2.Do(func() {
			pumpEvents()
			pending = len(ctx.inputEvents) > 0 || ctx.closed
			if ctx.newest != device.KeyNone && ctx.keys[ctx.newest] {
				key = ctx.newest
				return
			}
			for k, down := range ctx.keys {
				if down {
					key = device.Key(k)
					return
				}
			}
		})

		if key != device.KeyNone {
			return key
		}
		if pending || !keepWaiting() {
			return device.KeyNone
		}
		time.Sleep(time.Millisecond)
	}
}
