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

package emulator

import (
	"fmt"
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
)

const (
	DefaultCPUFrequency = 600
	DefaultFrameRate    = 60
	TimerFrequency      = 60
)

var (
	DefaultWindowSize      = device.Vec2i{X: 640, Y: 320}
	DefaultResolution      = device.Vec2i{X: device.DisplayWidth, Y: device.DisplayHeight}
	DefaultDrawColor       = device.Color{R: 0xFF, G: 0xFF, B: 0xFF}
	DefaultBackgroundColor = device.Color{}
)

type Option func(*Emulator) error

// Clock abstracts wall time for the main loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func WithCPUFrequency(hz float64) Option {
	return func(e *Emulator) error {
		return e.SetCPUFrequency(hz)
	}
}

func WithFrameRate(hz float64) Option {
	return func(e *Emulator) error {
		return e.SetFrameRate(hz)
	}
}

func WithWindowSize(size device.Vec2i) Option {
	return func(e *Emulator) error {
		if size.X <= 0 || size.Y <= 0 {
			return fmt.Errorf("invalid window size: %v", size)
		}
		e.windowSize = size
		return nil
	}
}

func WithResolution(res device.Vec2i) Option {
	return func(e *Emulator) error {
		if res.X <= 0 || res.Y <= 0 {
			return fmt.Errorf("invalid resolution: %v", res)
		}
		e.resolution = res
		return nil
	}
}

func WithDrawColor(c device.Color) Option {
	return func(e *Emulator) error {
		e.drawColor = c
		return nil
	}
}

func WithBackgroundColor(c device.Color) Option {
	return func(e *Emulator) error {
		e.bgColor = c
		return nil
	}
}

func WithFullscreen(b bool) Option {
	return func(e *Emulator) error {
		e.fullscreen = b
		return nil
	}
}

func WithClock(c Clock) Option {
	return func(e *Emulator) error {
		e.clock = c
		return nil
	}
}

// WithCycleLimit stops the emulator after n instructions. Zero means no limit.
func WithCycleLimit(n uint64) Option {
	return func(e *Emulator) error {
		e.cycleLimit = n
		return nil
	}
}
