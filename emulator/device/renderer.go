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

const (
	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight
)

// Display buffer pixel values. Backends tint lit pixels with the draw color.
const (
	PixelOff uint32 = 0x00000000
	PixelOn  uint32 = 0xFFFFFFFF
)

type RenderEvent int

const (
	RenderEventNone RenderEvent = iota
	RenderEventResized
	RenderEventClosed
)

type Renderer interface {
	Plugin

	Initialize(windowSize, resolution Vec2i) error

	SetWindowTitle(title string)
	WindowTitle() string
	SetWindowSize(size Vec2i)
	WindowSize() Vec2i

	SetResolution(res Vec2i) error
	Resolution() Vec2i

	SetDrawColor(c Color) error
	DrawColor() Color
	SetBackgroundColor(c Color) error
	BackgroundColor() Color

	SetFullscreen(b bool) error

	// SetBuffer binds the display buffer. The renderer keeps the slice and
	// reads it on every DrawBuffer call.
	SetBuffer(buffer []uint32)
	Buffer() []uint32
	DrawBuffer()

	// UpdateEvents drains pending window events and reports the most
	// significant one. It never blocks.
	UpdateEvents() RenderEvent
}
