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
	"log"
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/plugin"
	"github.com/andreas-jonsson/virtualchip8/version"
	"github.com/gdamore/tcell"
)

const (
	RendererModule = "tcell-render"
	InputModule    = "tcell-input"
)

// Each cell shows two pixels stacked vertically.
const upperHalfBlock = '▀'

func init() {
	plugin.Register(RendererModule, plugin.Symbols{
		plugin.LoaderSymbol:  func() device.Plugin { return &Renderer{} },
		plugin.DeleterSymbol: Free,
	})
	plugin.Register(InputModule, plugin.Symbols{
		plugin.LoaderSymbol:  func() device.Plugin { return &Input{} },
		plugin.DeleterSymbol: Free,
	})
}

func Free(p device.Plugin) {
	if p.IsInitialized() {
		p.Dispose()
	}
}

type Renderer struct {
	screen tcell.Screen

	title      string
	windowSize device.Vec2i
	resolution device.Vec2i
	drawColor  device.Color
	bgColor    device.Color
	buffer     []uint32
}

func (*Renderer) Name() string {
	return "Terminal Renderer"
}

func (*Renderer) Version() string {
	return version.Current.String()
}

func (*Renderer) Capability() device.Capability {
	return device.CapabilityRenderer
}

func (*Renderer) Deleter() device.Deleter {
	return Free
}

func (r *Renderer) IsInitialized() bool {
	return r.screen != nil
}

func (r *Renderer) Initialize(windowSize, resolution device.Vec2i) error {
	if r.IsInitialized() {
		r.Dispose()
	}

	s, err := acquireScreen()
	if err != nil {
		return err
	}
	r.screen = s
	r.windowSize, r.resolution = windowSize, resolution
	r.drawColor = device.Color{R: 0xFF, G: 0xFF, B: 0xFF}
	return nil
}

func (r *Renderer) Dispose() {
	if r.screen != nil {
		r.screen = nil
		releaseScreen()
	}
}

func (r *Renderer) SetWindowTitle(title string) {
	r.title = title
}

func (r *Renderer) WindowTitle() string {
	return r.title
}

// SetWindowSize is recorded only. The terminal decides its own size.
func (r *Renderer) SetWindowSize(size device.Vec2i) {
	r.windowSize = size
}

func (r *Renderer) WindowSize() device.Vec2i {
	if r.screen == nil {
		return r.windowSize
	}
	w, h := r.screen.Size()
	return device.Vec2i{X: w, Y: h}
}

func (r *Renderer) SetResolution(res device.Vec2i) error {
	r.resolution = res
	if r.screen != nil {
		r.screen.Clear()
	}
	return nil
}

func (r *Renderer) Resolution() device.Vec2i {
	return r.resolution
}

func (r *Renderer) SetDrawColor(c device.Color) error {
	r.drawColor = c
	return nil
}

func (r *Renderer) DrawColor() device.Color {
	return r.drawColor
}

func (r *Renderer) SetBackgroundColor(c device.Color) error {
	r.bgColor = c
	return nil
}

func (r *Renderer) BackgroundColor() device.Color {
	return r.bgColor
}

func (r *Renderer) SetFullscreen(bool) error {
	return nil
}

func (r *Renderer) SetBuffer(buffer []uint32) {
	if len(buffer) != device.DisplaySize {
		log.Panic("invalid display buffer size")
	}
	r.buffer = buffer
}

func (r *Renderer) Buffer() []uint32 {
	return r.buffer
}

func toTcellColor(c device.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (r *Renderer) DrawBuffer() {
	if r.screen == nil || r.buffer == nil {
		return
	}

	on, off := toTcellColor(r.drawColor), toTcellColor(r.bgColor)
	color := func(px uint32) tcell.Color {
		if px != device.PixelOff {
			return on
		}
		return off
	}

	const rows = device.DisplayHeight / 2
	for y := 0; y < rows; y++ {
		top := r.buffer[y*2*device.DisplayWidth:]
		bottom := r.buffer[(y*2+1)*device.DisplayWidth:]
		for x := 0; x < device.DisplayWidth; x++ {
			style := tcell.StyleDefault.Foreground(color(top[x])).Background(color(bottom[x]))
			r.screen.SetContent(x, y, upperHalfBlock, nil, style)
		}
	}

	for x, c := range []rune(r.title) {
		if x >= device.DisplayWidth {
			break
		}
		r.screen.SetContent(x, rows, c, nil, tcell.StyleDefault)
	}
	r.screen.Show()
}

func (r *Renderer) UpdateEvents() device.RenderEvent {
	term.Lock()
	defer term.Unlock()

	switch {
	case term.closed:
		term.closed = false
		return device.RenderEventClosed
	case term.resized:
		term.resized = false
		return device.RenderEventResized
	}
	return device.RenderEventNone
}

type Input struct {
	initialized bool
}

func (*Input) Name() string {
	return "Terminal Input"
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
	if _, err := acquireScreen(); err != nil {
		return err
	}
	in.initialized = true
	return nil
}

func (in *Input) Dispose() {
	if in.initialized {
		in.initialized = false
		releaseScreen()
	}
}

func (in *Input) IsKeyPressed(k device.Key) bool {
	if !k.Valid() {
		return false
	}
	term.Lock()
	defer term.Unlock()
	return time.Since(term.keys[k]) < keyHoldTime
}

func (in *Input) UpdateKeys() device.InputEvent {
	term.Lock()
	defer term.Unlock()

	if len(term.inputEvents) == 0 {
		return device.InputEventNone
	}
	ev := term.inputEvents[0]
	term.inputEvents = term.inputEvents[1:]
	return ev
}

func (in *Input) WaitKeyPress(keepWaiting func() bool) device.Key {
	for {
		term.Lock()
		pending := len(term.inputEvents) > 0 || term.closed
		newest := device.KeyNone
		var at time.Time
		for k, t := range term.keys {
			if time.Since(t) < keyHoldTime && t.After(at) {
				newest, at = device.Key(k), t
			}
		}
		term.Unlock()

		if newest != device.KeyNone {
			return newest
		}
		if pending || !keepWaiting() {
			return device.KeyNone
		}
		time.Sleep(time.Millisecond)
	}
}
