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

// Package device declares the capability contracts the emulator drives.
// Backends implementing them are loaded at runtime by the plugin package.
package device

import (
	"fmt"
)

type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityRenderer
	CapabilityInput
	CapabilitySound
)

func (c Capability) String() string {
	switch c {
	case CapabilityRenderer:
		return "renderer"
	case CapabilityInput:
		return "input"
	case CapabilitySound:
		return "sound"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Deleter destroys a plugin object on behalf of the module that created it.
type Deleter func(Plugin)

// Plugin is the base every loadable backend implements. Capability is the
// tag the loader checks before it uses any capability specific method.
type Plugin interface {
	Name() string
	Version() string
	Capability() Capability
	Deleter() Deleter

	IsInitialized() bool
	Dispose()
}

type Vec2i struct {
	X, Y int
}

func (v Vec2i) String() string {
	return fmt.Sprintf("%dx%d", v.X, v.Y)
}

func ParseVec2i(s string) (Vec2i, error) {
	var v Vec2i
	if _, err := fmt.Sscanf(s, "%dx%d", &v.X, &v.Y); err != nil {
		return v, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if v.X <= 0 || v.Y <= 0 {
		return v, fmt.Errorf("invalid size %q", s)
	}
	return v, nil
}

type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func ParseColor(s string) (Color, error) {
	var c Color
	if len(s) != 6 {
		return c, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
