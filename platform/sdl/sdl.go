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

// Package sdl implements renderer, input and sound backends on top of SDL2.
// All SDL calls are serialized on the main thread, so the emulator must be
// started through Run.
package sdl

import (
	"log"
	"sync"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/dialog"
	sdl2 "github.com/veandco/go-sdl2/sdl"
)

// Run executes main with the SDL main thread available and shuts SDL down
// when main returns.
func Run(main func()) {
	sdl2.Main(func() {
		var err error
		sdl2.Do(func() {
			err = sdl2.Init(0)
		})
		if err != nil {
			log.Print("Could not initialize SDL: ", err)
			return
		}
		defer sdl2.Do(sdl2.Quit)

		main()
	})
}

// Shared state between the backends. Only touched from inside sdl2.Do.
type context struct {
	subsystems map[uint32]int

	window *sdl2.Window

	keys        [device.NumKeys]bool
	newest      device.Key
	inputEvents []device.InputEvent

	resized, closed bool
}

var (
	ctxLock sync.Mutex
	ctx     = context{subsystems: make(map[uint32]int), newest: device.KeyNone}
)

// acquire initializes an SDL subsystem on first use.
func acquire(subsystem uint32) error {
	ctxLock.Lock()
	defer ctxLock.Unlock()

	if ctx.subsystems[subsystem] == 0 {
		var err error
		sdl2.Do(func() {
			err = sdl2.InitSubSystem(subsystem)
		})
		if err != nil {
			return err
		}
	}
	ctx.subsystems[subsystem]++
	return nil
}

func release(subsystem uint32) {
	ctxLock.Lock()
	defer ctxLock.Unlock()

	if ctx.subsystems[subsystem] == 0 {
		return
	}
	if ctx.subsystems[subsystem]--; ctx.subsystems[subsystem] == 0 {
		sdl2.Do(func() {
			sdl2.QuitSubSystem(subsystem)
		})
	}
}

// pumpEvents drains the SDL event queue into the shared state.
// Must be called from inside sdl2.Do.
func pumpEvents() {
	for event := sdl2.PollEvent(); event != nil; event = sdl2.PollEvent() {
		switch ev := event.(type) {
		case *sdl2.QuitEvent:
			if dialog.AskToQuit() {
				ctx.closed = true
			}
		case *sdl2.WindowEvent:
			if ev.Event == sdl2.WINDOWEVENT_SIZE_CHANGED {
				ctx.resized = true
			}
		case *sdl2.KeyboardEvent:
			processKey(ev)
		}
	}
}

func processKey(ev *sdl2.KeyboardEvent) {
	keyUp := ev.Type == sdl2.KEYUP

	switch ev.Keysym.Scancode {
	case sdl2.SCANCODE_F11:
		if keyUp && ctx.window != nil {
			if ctx.window.GetFlags()&sdl2.WINDOW_FULLSCREEN != 0 {
				ctx.window.SetFullscreen(0)
			} else {
				ctx.window.SetFullscreen(sdl2.WINDOW_FULLSCREEN_DESKTOP)
			}
		}
	case sdl2.SCANCODE_F12:
		if keyUp {
			if ctx.window != nil {
				ctx.window.SetFullscreen(0)
			}
			dialog.MainMenu()
		}
	case sdl2.SCANCODE_RETURN:
		if !keyUp && ev.Repeat == 0 {
			ctx.inputEvents = append(ctx.inputEvents, device.InputEventReset)
		}
	case sdl2.SCANCODE_ESCAPE:
		if !keyUp && ev.Repeat == 0 {
			ctx.inputEvents = append(ctx.inputEvents, device.InputEventEscape)
		}
	default:
		k, ok := keyMap[ev.Keysym.Scancode]
		if !ok {
			if !keyUp {
				log.Printf("Unmapped key \"%s\"", sdl2.GetKeyName(ev.Keysym.Sym))
			}
			return
		}
		ctx.keys[k] = !keyUp
		if !keyUp {
			ctx.newest = k
		}
	}
}

// The numeric keypad carries the hex keypad, with the QWERTY block as an
// alternative for keyboards without one.
var keyMap = map[sdl2.Scancode]device.Key{
	sdl2.SCANCODE_KP_0:        device.Key0,
	sdl2.SCANCODE_KP_7:        device.Key1,
	sdl2.SCANCODE_KP_8:        device.Key2,
	sdl2.SCANCODE_KP_9:        device.Key3,
	sdl2.SCANCODE_KP_4:        device.Key4,
	sdl2.SCANCODE_KP_5:        device.Key5,
	sdl2.SCANCODE_KP_6:        device.Key6,
	sdl2.SCANCODE_KP_1:        device.Key7,
	sdl2.SCANCODE_KP_2:        device.Key8,
	sdl2.SCANCODE_KP_3:        device.Key9,
	sdl2.SCANCODE_KP_DIVIDE:   device.KeyA,
	sdl2.SCANCODE_KP_MULTIPLY: device.KeyB,
	sdl2.SCANCODE_KP_MINUS:    device.KeyC,
	sdl2.SCANCODE_KP_PLUS:     device.KeyD,
	sdl2.SCANCODE_KP_PERIOD:   device.KeyE,
	sdl2.SCANCODE_KP_ENTER:    device.KeyF,

	sdl2.SCANCODE_1: device.Key1, sdl2.SCANCODE_2: device.Key2, sdl2.SCANCODE_3: device.Key3, sdl2.SCANCODE_4: device.KeyC,
	sdl2.SCANCODE_Q: device.Key4, sdl2.SCANCODE_W: device.Key5, sdl2.SCANCODE_E: device.Key6, sdl2.SCANCODE_R: device.KeyD,
	sdl2.SCANCODE_A: device.Key7, sdl2.SCANCODE_S: device.Key8, sdl2.SCANCODE_D: device.Key9, sdl2.SCANCODE_F: device.KeyE,
	sdl2.SCANCODE_Z: device.KeyA, sdl2.SCANCODE_X: device.Key0, sdl2.SCANCODE_C: device.KeyB, sdl2.SCANCODE_V: device.KeyF,
}

func Free(p device.Plugin) {
	if p.IsInitialized() {
		p.Dispose()
	}
}
