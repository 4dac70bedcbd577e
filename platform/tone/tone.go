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

// Package tone generates the sine beep driven by the sound timer. A Generator
// is shared between the emulator thread and an audio thread.
package tone

import (
	"math"
	"sync"
)

const (
	DefaultSampleRate = 44100
	DefaultAmplitude  = 16000

	// Ramp applied to the tail buffer after the tone ends to avoid a pop.
	declipStep  = 60
	declipFloor = 100
)

type Generator struct {
	mu sync.Mutex

	sampleRate float64
	amplitude  float64

	soundFreq float64
	playFreq  float64

	// samples per countdown tick and samples left to play
	cycleTime float64
	length    float64

	pos     uint64
	playing bool
}

func NewGenerator(sampleRate int) *Generator {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	g := &Generator{
		sampleRate: float64(sampleRate),
		amplitude:  DefaultAmplitude,
		soundFreq:  350,
	}
	g.cycleTime = g.sampleRate / 60
	return g
}

func (g *Generator) SampleRate() int {
	return int(g.sampleRate)
}

// Play starts the tone or retunes it if it is already playing. The pitch
// rises with the remaining timer value.
func (g *Generator) Play(soundTimer byte) {
	g.mu.Lock()
	g.playFreq = g.soundFreq + 2*float64(soundTimer)
	g.length = g.cycleTime * float64(soundTimer)
	g.playing = true
	g.mu.Unlock()
}

// Stop lets the current buffer finish with a fade out.
func (g *Generator) Stop() {
	g.mu.Lock()
	g.length = 0
	g.mu.Unlock()
}

func (g *Generator) IsPlaying() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playing
}

func (g *Generator) SetSoundFreq(hz float64) {
	g.mu.Lock()
	g.soundFreq = hz
	g.mu.Unlock()
}

func (g *Generator) SoundFreq() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.soundFreq
}

func (g *Generator) SetCountdownFreq(hz float64) {
	if hz <= 0 {
		return
	}
	g.mu.Lock()
	g.cycleTime = g.sampleRate / hz
	g.mu.Unlock()
}

func (g *Generator) CountdownFreq() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sampleRate / g.cycleTime
}

// Fill writes the next len(buf) samples and reports whether the generator is
// still playing afterwards. A stopped generator writes silence.
func (g *Generator) Fill(buf []int16) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.playing {
		for i := range buf {
			buf[i] = 0
		}
		return false
	}

	step := 2 * math.Pi * g.playFreq / g.sampleRate
	ampl := g.amplitude

	if g.length > 0 {
		for i := range buf {
			buf[i] = int16(ampl * math.Sin(step*float64(g.pos)))
			g.pos++
		}
		g.length -= float64(len(buf))
		return true
	}

	for i := range buf {
		buf[i] = int16(ampl * math.Sin(step*float64(g.pos)))
		g.pos++
		if ampl > declipFloor {
			ampl -= declipStep
		}
	}
	g.pos = 0
	g.playing = false
	return false
}
