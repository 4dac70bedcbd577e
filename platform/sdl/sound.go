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
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/platform/tone"
	"github.com/andreas-jonsson/virtualchip8/version"
	sdl2 "github.com/veandco/go-sdl2/sdl"
)

const (
	frequency = tone.DefaultSampleRate
	latency   = 10

	// Keep at most this many buffers queued in the device.
	maxQueued = 3
)

func nextPow(v uint16) uint16 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v++
	return v
}

type Sound struct {
	gen *tone.Generator

	deviceID sdl2.AudioDeviceID
	spec     *sdl2.AudioSpec
	quitChan chan struct{}
}

func NewSound() *Sound {
	return &Sound{gen: tone.NewGenerator(frequency)}
}

func (*Sound) Name() string {
	return "SDL Sound"
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

func (s *Sound) IsInitialized() bool {
	return s.spec != nil
}

func (s *Sound) Initialize() error {
	if s.IsInitialized() {
		return nil
	}
	if err := acquire(sdl2.INIT_AUDIO); err != nil {
		return err
	}

	want := &sdl2.AudioSpec{
		Freq:     frequency,
		Format:   sdl2.AUDIO_S16SYS,
		Channels: 1,
		Samples:  nextPow(uint16((frequency / 1000) * latency)),
	}

	var (
		have sdl2.AudioSpec
		err  error
	)
	sdl2.Do(func() {
		if s.deviceID, err = sdl2.OpenAudioDevice("", false, want, &have, 0); err == nil {
			sdl2.PauseAudioDevice(s.deviceID, false)
		}
	})
	if err != nil {
		release(sdl2.INIT_AUDIO)
		return err
	}

	s.spec = &have
	s.startUpdateLoop()
	return nil
}

// startUpdateLoop feeds the audio device from the tone generator.
func (s *Sound) startUpdateLoop() {
	s.quitChan = make(chan struct{})

	numSamples := int(s.spec.Samples)
	samples := make([]int16, numSamples)
	soundBuffer := make([]byte, numSamples*2)
	maxBytes := uint32(len(soundBuffer) * maxQueued)

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(int(s.spec.Freq)/numSamples))
		defer ticker.Stop()

		for {
			select {
			case <-s.quitChan:
				close(s.quitChan)
				return
			case <-ticker.C:
				if !s.gen.IsPlaying() {
					continue
				}
				s.gen.Fill(samples)
				for i, v := range samples {
					binary.LittleEndian.PutUint16(soundBuffer[i*2:], uint16(v))
				}

				sdl2.Do(func() {
					if sdl2.GetQueuedAudioSize(s.deviceID) < maxBytes {
						sdl2.QueueAudio(s.deviceID, soundBuffer)
					}
				})
			}
		}
	}()
}

func (s *Sound) Dispose() {
	if !s.IsInitialized() {
		return
	}

	s.quitChan <- struct{}{}
	<-s.quitChan

	sdl2.Do(func() {
		sdl2.CloseAudioDevice(s.deviceID)
	})
	release(sdl2.INIT_AUDIO)
	s.spec = nil
}

func (s *Sound) Play(soundTimer byte) {
	s.gen.Play(soundTimer)
}

func (s *Sound) Stop() {
	s.gen.Stop()
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
