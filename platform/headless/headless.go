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

// Package headless provides device backends without any host output. Events
// and key presses are injected by the caller, which makes the backends usable
// for unattended runs and tests.
package headless

import (
	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/version"
)

const Name = "headless"

type base struct {
	capability  device.Capability
	initialized bool
}

func (*base) Name() string {
	return Name
}

func (*base) Version() string {
	return version.Current.String()
}

func (b *base) Capability() device.Capability {
	return b.capability
}

func (*base) Deleter() device.Deleter {
	return Free
}

func (b *base) IsInitialized() bool {
	return b.initialized
}

func (b *base) Dispose() {
	b.initialized = false
}

// Free is the module deleter for all headless plugins.
func Free(p device.Plugin) {
	if p.IsInitialized() {
		p.Dispose()
	}
}

type Renderer struct {
	base

	title      string
	windowSize device.Vec2i
	resolution device.Vec2i
	drawColor  device.Color
	bgColor    device.Color
	fullscreen bool

	buffer []uint32
	frame  [device.DisplaySize]uint32
	events []device.RenderEvent

	NumFrames int
}

func NewRenderer() *Renderer {
	return &Renderer{base: base{capability: device.CapabilityRenderer}}
}

func (r *Renderer) Initialize(windowSize, resolution device.Vec2i) error {
	r.windowSize, r.resolution = windowSize, resolution
	r.initialized = true
	return nil
}

func (r *Renderer) SetWindowTitle(title string) {
	r.title = title
}

func (r *Renderer) WindowTitle() string {
	return r.title
}

func (r *Renderer) SetWindowSize(size device.Vec2i) {
	r.windowSize = size
}

func (r *Renderer) WindowSize() device.Vec2i {
	return r.windowSize
}

func (r *Renderer) SetResolution(res device.Vec2i) error {
	r.resolution = res
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

func (r *Renderer) SetFullscreen(b bool) error {
	r.fullscreen = b
	return nil
}

func (r *Renderer) Fullscreen() bool {
	return r.fullscreen
}

func (r *Renderer) SetBuffer(buffer []uint32) {
	r.buffer = buffer
}

func (r *Renderer) Buffer() []uint32 {
	return r.buffer
}

// DrawBuffer copies the bound buffer into the last frame.
func (r *Renderer) DrawBuffer() {
	copy(r.frame[:], r.buffer)
	r.NumFrames++
}

// Frame returns the most recently presented frame.
func (r *Renderer) Frame() []uint32 {
	return r.frame[:]
}

// PushEvent queues an event for UpdateEvents.
func (r *Renderer) PushEvent(ev device.RenderEvent) {
	r.events = append(r.events, ev)
}

func (r *Renderer) UpdateEvents() device.RenderEvent {
	if len(r.events) == 0 {
		return device.RenderEventNone
	}
	ev := r.events[0]
	r.events = r.events[1:]
	return ev
}

type Input struct {
	base

	keys   [device.NumKeys]bool
	events []device.InputEvent
}

func NewInput() *Input {
	return &Input{base: base{capability: device.CapabilityInput}}
}

func (in *Input) Initialize() error {
	in.initialized = true
	return nil
}

func (in *Input) Press(k device.Key) {
	if k.Valid() {
		in.keys[k] = true
	}
}

func (in *Input) Release(k device.Key) {
	if k.Valid() {
		in.keys[k] = false
	}
}

func (in *Input) PushEvent(ev device.InputEvent) {
	in.events = append(in.events, ev)
}

func (in *Input) IsKeyPressed(k device.Key) bool {
	return k.Valid() && in.keys[k]
}

func (in *Input) UpdateKeys() device.InputEvent {
	if len(in.events) == 0 {
		return device.InputEventNone
	}
	ev := in.events[0]
	in.events = in.events[1:]
	return ev
}

func (in *Input) WaitKeyPress(keepWaiting func() bool) device.Key {
	for {
		for k, pressed := range in.keys {
			if pressed {
				return device.Key(k)
			}
		}
		if len(in.events) > 0 || !keepWaiting() {
			return device.KeyNone
		}
	}
}

type Sound struct {
	base

	playing       bool
	soundFreq     float64
	countdownFreq float64

	// LastTimer is the timer value of the latest Play call.
	LastTimer byte
	NumPlays  int
}

func NewSound() *Sound {
	return &Sound{
		base:          base{capability: device.CapabilitySound},
		soundFreq:     device.DefaultSoundFreq,
		countdownFreq: device.DefaultCountdownFreq,
	}
}

func (s *Sound) Initialize() error {
	s.initialized = true
	return nil
}

func (s *Sound) Play(soundTimer byte) {
	s.playing = true
	s.LastTimer = soundTimer
	s.NumPlays++
}

func (s *Sound) Stop() {
	s.playing = false
}

func (s *Sound) IsPlaying() bool {
	return s.playing
}

func (s *Sound) SetSoundFreq(hz float64) {
	s.soundFreq = hz
}

func (s *Sound) SoundFreq() float64 {
	return s.soundFreq
}

func (s *Sound) SetCountdownFreq(hz float64) {
	s.countdownFreq = hz
}

func (s *Sound) CountdownFreq() float64 {
	return s.countdownFreq
}
