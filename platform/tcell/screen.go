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

// Package tcell implements terminal renderer and input backends. Both share
// one screen which is opened by the first backend and closed by the last.
package tcell

import (
	"log"
	"sync"
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/gdamore/tcell"
)

// Terminals only report key presses, so a key counts as held for this long.
const keyHoldTime = 150 * time.Millisecond

// NewScreen creates the shared screen. Tests replace it with a simulation screen.
var NewScreen = tcell.NewScreen

type terminal struct {
	sync.Mutex

	refs   int
	screen tcell.Screen
	done   chan struct{}

	keys        [device.NumKeys]time.Time
	inputEvents []device.InputEvent

	resized, closed bool
}

var term terminal

func acquireScreen() (tcell.Screen, error) {
	term.Lock()
	defer term.Unlock()

	if term.refs > 0 {
		term.refs++
		return term.screen, nil
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	s, err := NewScreen()
	if err != nil {
		return nil, err
	}
	if err = s.Init(); err != nil {
		return nil, err
	}
	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	term.screen = s
	term.refs = 1
	term.done = make(chan struct{})
	term.keys = [device.NumKeys]time.Time{}
	term.inputEvents = nil
	term.resized, term.closed = false, false

	go pumpEvents(s, term.done)
	return s, nil
}

func releaseScreen() {
	term.Lock()
	if term.refs == 0 {
		term.Unlock()
		return
	}
	if term.refs--; term.refs > 0 {
		term.Unlock()
		return
	}

	s, done := term.screen, term.done
	term.screen = nil
	term.Unlock()

	s.Fini()
	<-done
}

func pumpEvents(s tcell.Screen, done chan struct{}) {
	defer close(done)

	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			processKey(ev)
		case *tcell.EventResize:
			s.Sync()
			term.Lock()
			term.resized = true
			term.Unlock()
		}
	}
}

func processKey(ev *tcell.EventKey) {
	term.Lock()
	defer term.Unlock()

	switch ev.Key() {
	case tcell.KeyEscape:
		term.inputEvents = append(term.inputEvents, device.InputEventEscape)
	case tcell.KeyEnter:
		term.inputEvents = append(term.inputEvents, device.InputEventReset)
	case tcell.KeyCtrlC:
		term.closed = true
	case tcell.KeyRune:
		if k := keyFromRune(ev.Rune()); k != device.KeyNone {
			term.keys[k] = time.Now()
		}
	default:
		log.Printf("Unmapped key: %s", ev.Name())
	}
}

// Hex keypad on the left side of a QWERTY keyboard:
//	1 2 3 C    1 2 3 4
//	4 5 6 D    q w e r
//	7 8 9 E    a s d f
//	A 0 B F    z x c v
var keyMap = map[rune]device.Key{
	'1': device.Key1, '2': device.Key2, '3': device.Key3, '4': device.KeyC,
	'q': device.Key4, 'w': device.Key5, 'e': device.Key6, 'r': device.KeyD,
	'a': device.Key7, 's': device.Key8, 'd': device.Key9, 'f': device.KeyE,
	'z': device.KeyA, 'x': device.Key0, 'c': device.KeyB, 'v': device.KeyF,
}

func keyFromRune(r rune) device.Key {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if k, ok := keyMap[r]; ok {
		return k
	}
	return device.KeyNone
}
