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

package device

import (
	"fmt"
)

// Key is a logical hex keypad key.
type Key int

const KeyNone Key = -1

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	NumKeys = 16
)

func (k Key) Valid() bool {
	return k >= Key0 && k <= KeyF
}

func (k Key) String() string {
	if !k.Valid() {
		return "none"
	}
	return fmt.Sprintf("%X", int(k))
}

type InputEvent int

const (
	InputEventNone InputEvent = iota
	InputEventReset
	InputEventEscape
)

type Input interface {
	Plugin

	Initialize() error

	IsKeyPressed(k Key) bool

	// UpdateKeys refreshes the key state and reports a reset or escape request.
	UpdateKeys() InputEvent

	// WaitKeyPress polls until a key is pressed or keepWaiting returns false.
	// It returns KeyNone when it gave up. A reset or escape seen while waiting
	// ends the wait and is reported by the next UpdateKeys call.
	WaitKeyPress(keepWaiting func() bool) Key
}
