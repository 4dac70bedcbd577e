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
	"encoding/binary"
	"errors"
	"log"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/version"
	sdl2 "github.com/veandco/go-sdl2/sdl"
)

var errNotInitialized = errors.New("renderer is not initialized")

type Renderer struct {
	window   *sdl2.Window
	renderer *sdl2.Renderer
	texture  *sdl2.Texture

	title      string
	resolution device.Vec2i
	drawColor  device.Color
	bgColor    device.Color

	buffer []uint32
	pixels []byte
}

func NewRenderer() *Renderer {
	return &Renderer{
		title:     "VirtualCHIP8",
		drawColor: device.Color{R: 0xFF, G: 0xFF, B: 0xFF},
	}
}

func (*Renderer) Name() string {
	return "SDL Renderer"
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
	return r.window != nil
}

func (r *Renderer) Initialize(windowSize, resolution device.Vec2i) error {
	if r.IsInitialized() {
		r.Dispose()
	}
	if err := acquire(sdl2.INIT_VIDEO); err != nil {
		return err
	}

	var err error
	sdl2.Do(func() {
		sdl2.SetHint(sdl2.HINT_RENDER_SCALE_QUALITY, "0")
		sdl2.SetHint(sdl2.HINT_WINDOWS_NO_CLOSE_ON_ALT_F4, "1")
		if r.window, r.renderer, err = sdl2.CreateWindowAndRenderer(int32(windowSize.X), int32(windowSize.Y), sdl2.WINDOW_RESIZABLE); err != nil {
			return
		}
		r.window.SetTitle(r.title)

		if r.texture, err = r.renderer.CreateTexture(sdl2.PIXELFORMAT_ARGB8888, sdl2.TEXTUREACCESS_STREAMING, device.DisplayWidth, device.DisplayHeight); err != nil {
			return
		}
		if err = r.texture.SetBlendMode(sdl2.BLENDMODE_BLEND); err != nil {
			return
		}
		if err = r.renderer.SetLogicalSize(int32(resolution.X), int32(resolution.Y)); err != nil {
			return
		}
		ctx.window = r.window
	})
	if err != nil {
		r.destroy()
		release(sdl2.INIT_VIDEO)
		return err
	}

	r.resolution = resolution
	r.pixels = make([]byte, device.DisplaySize*4)
	return r.SetDrawColor(r.drawColor)
}

func (r *Renderer) destroy() {
	sdl2.Do(func() {
		if r.texture != nil {
			r.texture.Destroy()
			r.texture = nil
		}
		if r.renderer != nil {
			r.renderer.Destroy()
			r.renderer = nil
		}
		if r.window != nil {
			if ctx.window == r.window {
				ctx.window = nil
			}
			r.window.Destroy()
			r.window = nil
		}
	})
}

func (r *Renderer) Dispose() {
	if !r.IsInitialized() {
		return
	}
	r.destroy()
	release(sdl2.INIT_VIDEO)
}

func (r *Renderer) SetWindowTitle(title string) {
	r.title = title
	if r.window != nil {
		sdl2.Do(func() {
			r.window.SetTitle(title)
		})
	}
}

func (r *Renderer) WindowTitle() string {
	return r.title
}

func (r *Renderer) SetWindowSize(size device.Vec2i) {
	if r.window != nil {
		sdl2.Do(func() {
			r.window.SetSize(int32(size.X), int32(size.Y))
		})
	}
}

func (r *Renderer) WindowSize() device.Vec2i {
	var w, h int32
	if r.window != nil {
		sdl2.Do(func() {
			w, h = r.window.GetSize()
		})
	}
	return device.Vec2i{X: int(w), Y: int(h)}
}

func (r *Renderer) SetResolution(res device.Vec2i) error {
	if r.renderer == nil {
		return errNotInitialized
	}
	var err error
	sdl2.Do(func() {
		err = r.renderer.SetLogicalSize(int32(res.X), int32(res.Y))
	})
	if err == nil {
		r.resolution = res
	}
	return err
}

func (r *Renderer) Resolution() device.Vec2i {
	return r.resolution
}

// SetDrawColor tints the lit pixels through the texture color modulation.
func (r *Renderer) SetDrawColor(c device.Color) error {
	r.drawColor = c
	if r.texture == nil {
		return nil
	}
	var err error
	sdl2.Do(func() {
		err = r.texture.SetColorMod(c.R, c.G, c.B)
	})
	return err
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

func (r *Renderer) SetFullscreen(b bool) error {
	if r.window == nil {
		return errNotInitialized
	}
	var flags uint32
	if b {
		flags = sdl2.WINDOW_FULLSCREEN_DESKTOP
	}
	var err error
	sdl2.Do(func() {
		err = r.window.SetFullscreen(flags)
	})
	return err
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

func (r *Renderer) DrawBuffer() {
	if r.renderer == nil || r.buffer == nil {
		return
	}

	for i, px := range r.buffer {
		binary.LittleEndian.PutUint32(r.pixels[i*4:], px)
	}

	bg := r.bgColor
	sdl2.Do(func() {
		r.renderer.SetDrawColor(bg.R, bg.G, bg.B, 0xFF)
		r.renderer.Clear()

		r.texture.Update(nil, r.pixels, device.DisplayWidth*4)
		r.renderer.Copy(r.texture, nil, nil)

		r.renderer.Present()
	})
}

func (r *Renderer) UpdateEvents() device.RenderEvent {
	ev := device.RenderEventNone
	sdl2.Do(func() {
		pumpEvents()
		switch {
		case ctx.closed:
			ctx.closed = false
			ev = device.RenderEventClosed
		case ctx.resized:
			ctx.resized = false
			ev = device.RenderEventResized
		}
	})
	return ev
}
