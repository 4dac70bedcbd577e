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

package wav

import (
	"testing"
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/plugin"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestRecording(t *testing.T) {
	fs := afero.NewMemMapFs()
	SetOutput(fs, "beep.wav")
	defer SetOutput(afero.NewOsFs(), DefaultPath)

	clk := &fakeClock{t: time.Unix(0, 0)}
	s := NewSound()
	s.now = clk.now

	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}

	s.Play(60)
	if !s.IsPlaying() {
		t.Fatal("sound is not playing")
	}

	clk.t = clk.t.Add(time.Second)
	s.Stop()
	if n := s.NumSamples(); n != 44100 {
		t.Errorf("got %d samples, expected 44100", n)
	}

	// Fade out buffer, then silence.
	clk.t = clk.t.Add(time.Second / 2)
	s.Stop()
	if s.IsPlaying() {
		t.Error("sound still playing after fade out")
	}
	clk.t = clk.t.Add(time.Second / 2)
	s.Dispose()

	if s.IsInitialized() {
		t.Error("sound still initialized after dispose")
	}

	f, err := fs.Open("beep.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("invalid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}

	if buf.Format.SampleRate != 44100 || buf.Format.NumChannels != 1 {
		t.Errorf("unexpected format %+v", *buf.Format)
	}
	if len(buf.Data) != 2*44100 {
		t.Fatalf("got %d samples, expected %d", len(buf.Data), 2*44100)
	}

	var loud bool
	for _, v := range buf.Data[:44100] {
		if v > 10000 || v < -10000 {
			loud = true
			break
		}
	}
	if !loud {
		t.Error("tone not recorded")
	}
	for i, v := range buf.Data[44100+22050:] {
		if v != 0 {
			t.Fatalf("sample %d is %d, expected silence", i, v)
		}
	}
}

func TestFrequencies(t *testing.T) {
	s := NewSound()
	s.SetSoundFreq(440)
	s.SetCountdownFreq(30)
	if s.SoundFreq() != 440 || s.CountdownFreq() != 30 {
		t.Error("frequencies not applied")
	}
}

func TestModule(t *testing.T) {
	SetOutput(afero.NewMemMapFs(), "module.wav")
	defer SetOutput(afero.NewOsFs(), DefaultPath)

	h := plugin.NewSoundHandle(nil)
	if err := h.Load(SoundModule); err != nil {
		t.Fatal(err)
	}
	if err := h.Get().Initialize(); err != nil {
		t.Fatal(err)
	}
	if h.Get().Name() != Name {
		t.Error("unexpected plugin name")
	}
	h.Free()

	if h.IsLoaded() {
		t.Error("handle still loaded")
	}
}
