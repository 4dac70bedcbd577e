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

// Package wav is a Sound backend that records the beeper into a WAV file
// instead of playing it. Samples are rendered against the wall clock so the
// file has the same timing as a live run.
package wav

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/plugin"
	"github.com/andreas-jonsson/virtualchip8/platform/tone"
	"github.com/andreas-jonsson/virtualchip8/version"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	Name        = "wav"
	SoundModule = "wav-sound"

	DefaultPath = "virtualchip8.wav"

	bitDepth  = 16
	pcmFormat = 1
)

var (
	outputLock sync.Mutex
	outputFs   afero.Fs = afero.NewOsFs()
	outputPath          = DefaultPath
)

// SetOutput selects where sound devices created afterwards write their file.
func SetOutput(fs afero.Fs, path string) {
	outputLock.Lock()
	outputFs, outputPath = fs, path
	outputLock.Unlock()
}

func output() (afero.Fs, string) {
	outputLock.Lock()
	defer outputLock.Unlock()
	return outputFs, outputPath
}

func init() {
	plugin.Register(SoundModule, plugin.Symbols{
		plugin.LoaderSymbol:  func() device.Plugin { return NewSound() },
		plugin.DeleterSymbol: Free,
	})
}

func Free(p device.Plugin) {
	if p.IsInitialized() {
		p.Dispose()
	}
}

type Sound struct {
	lock sync.Mutex

	fs   afero.Fs
	path string
	file afero.File
	enc  *wav.Encoder

	gen  *tone.Generator
	buf  []int16
	data *audio.IntBuffer

	now        func() time.Time
	last       time.Time
	remainder  float64
	numSamples int
}

func NewSound() *Sound {
	fs, path := output()
	return &Sound{
		fs:   fs,
		path: path,
		gen:  tone.NewGenerator(tone.DefaultSampleRate),
		now:  time.Now,
	}
}

func (*Sound) Name() string {
	return Name
}

func (*Sound) Version() string {
	return version.Current.String()
}

func (*Sound) Capability() device.Capability {
	return device.CapabilitySound
}

func (*Sound) Deleter() device.Deleter {
	return Free
}

func (s *Sound) Path() string {
	return s.path
}

func (s *Sound) Initialize() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.enc != nil {
		return nil
	}

	f, err := s.fs.Create(s.path)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	s.file = f

	rate := s.gen.SampleRate()
	s.enc = wav.NewEncoder(f, rate, bitDepth, 1, pcmFormat)
	s.data = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		SourceBitDepth: bitDepth,
	}
	s.last = s.now()

	log.Printf("Recording sound to: %s", s.path)
	return nil
}

func (s *Sound) IsInitialized() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.enc != nil
}

// advance renders the samples that elapsed since the last call.
// Must be called with the lock held.
func (s *Sound) advance() {
	if s.enc == nil {
		return
	}

	now := s.now()
	elapsed := now.Sub(s.last)
	s.last = now
	if elapsed <= 0 {
		return
	}

	exact := elapsed.Seconds()*float64(s.gen.SampleRate()) + s.remainder
	n := int(exact)
	s.remainder = exact - float64(n)
	if n == 0 {
		return
	}

	if cap(s.buf) < n {
		s.buf = make([]int16, n)
	}
	s.buf = s.buf[:n]
	s.gen.Fill(s.buf)

	if cap(s.data.Data) < n {
		s.data.Data = make([]int, n)
	}
	s.data.Data = s.data.Data[:n]
	for i, v := range s.buf {
		s.data.Data[i] = int(v)
	}

	if err := s.enc.Write(s.data); err != nil {
		log.Print("wav: ", err)
		return
	}
	s.numSamples += n
}

func (s *Sound) Play(soundTimer byte) {
	s.lock.Lock()
	s.advance()
	s.gen.Play(soundTimer)
	s.lock.Unlock()
}

func (s *Sound) Stop() {
	s.lock.Lock()
	s.advance()
	s.gen.Stop()
	s.lock.Unlock()
}

func (s *Sound) IsPlaying() bool {
	return s.gen.IsPlaying()
}

func (s *Sound) SetSoundFreq(hz float64) {
	s.gen.SetSoundFreq(hz)
}

func (s *Sound) SoundFreq() float64 {
	return s.gen.SoundFreq()
}

func (s *Sound) SetCountdownFreq(hz float64) {
	s.gen.SetCountdownFreq(hz)
}

func (s *Sound) CountdownFreq() float64 {
	return s.gen.CountdownFreq()
}

// NumSamples returns the number of samples written so far.
func (s *Sound) NumSamples() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.numSamples
}

// Dispose flushes the remaining samples and finalizes the file header.
func (s *Sound) Dispose() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.enc == nil {
		return
	}
	s.advance()

	if err := s.enc.Close(); err != nil {
		log.Print("wav: ", err)
	}
	if err := s.file.Close(); err != nil {
		log.Print("wav: ", err)
	}
	log.Printf("Wrote %d samples to: %s", s.numSamples, s.path)

	s.enc = nil
	s.file = nil
}
