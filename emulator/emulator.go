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

// Package emulator drives a CHIP-8 machine against wall time and the loaded
// device backends.
package emulator

import (
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/dialog"
	"github.com/andreas-jonsson/virtualchip8/emulator/manager"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor/cpu"
	"github.com/spf13/afero"
)

var (
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrNoRenderer       = errors.New("no renderer attached")
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	timerPeriod = time.Second / TimerFrequency

	// Upper bound on wall time replayed by a single update.
	maxCatchUp = time.Second / 4
)

type Emulator struct {
	cpu     *cpu.CPU
	manager *manager.Manager

	renderer device.Renderer
	input    device.Input
	sound    device.Sound

	cpuFreq, frameRate     float64
	cpuPeriod, framePeriod time.Duration

	cpuAcc, timerAcc,
	frameAcc, titleAcc time.Duration

	windowSize, resolution device.Vec2i
	drawColor, bgColor     device.Color
	fullscreen             bool

	clock Clock
	state State

	cycleLimit, cycleCount uint64
	numInstructions        uint64
	lastUnknown            uint16
}

func New(opts ...Option) (*Emulator, error) {
	p := cpu.NewCPU()
	e := &Emulator{
		cpu:        p,
		manager:    manager.NewManager(p),
		windowSize: DefaultWindowSize,
		resolution: DefaultResolution,
		drawColor:  DefaultDrawColor,
		bgColor:    DefaultBackgroundColor,
		clock:      systemClock{},
	}
	e.SetCPUFrequency(DefaultCPUFrequency)
	e.SetFrameRate(DefaultFrameRate)

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

func (e *Emulator) Manager() *manager.Manager {
	return e.manager
}

func (e *Emulator) State() State {
	return e.state
}

// validFrequency accepts finite rates with a period of at least one nanosecond.
func validFrequency(hz float64) bool {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return false
	}
	return time.Duration(float64(time.Second)/hz) > 0
}

// SetCPUFrequency changes the instruction rate. Timer behaviour is unaffected.
func (e *Emulator) SetCPUFrequency(hz float64) error {
	if !validFrequency(hz) {
		return fmt.Errorf("cpu %v Hz: %w", hz, ErrInvalidFrequency)
	}
	e.cpuFreq = hz
	e.cpuPeriod = time.Duration(float64(time.Second) / hz)
	e.cpuAcc = 0
	return nil
}

func (e *Emulator) CPUFrequency() float64 {
	return e.cpuFreq
}

// CyclesPerTimerTick returns the number of instructions per 60Hz tick.
func (e *Emulator) CyclesPerTimerTick() float64 {
	return e.cpuFreq / TimerFrequency
}

func (e *Emulator) SetFrameRate(hz float64) error {
	if !validFrequency(hz) {
		return fmt.Errorf("display %v Hz: %w", hz, ErrInvalidFrequency)
	}
	e.frameRate = hz
	e.framePeriod = time.Duration(float64(time.Second) / hz)
	return nil
}

func (e *Emulator) FrameRate() float64 {
	return e.frameRate
}

// SetRenderer binds a renderer. Devices must only be swapped while Run is not executing.
func (e *Emulator) SetRenderer(r device.Renderer) {
	e.renderer = r
}

func (e *Emulator) SetInput(in device.Input) {
	e.input = in
	e.cpu.SetInput(in)
}

// SetSound binds a sound device. Nil disables audio.
func (e *Emulator) SetSound(s device.Sound) {
	if e.sound != nil && e.sound != s {
		e.sound.Stop()
	}
	e.sound = s
}

// InitDevices initializes the attached devices and applies the display options.
func (e *Emulator) InitDevices() error {
	if e.renderer == nil {
		return ErrNoRenderer
	}

	r := e.renderer
	if !r.IsInitialized() {
		if err := r.Initialize(e.windowSize, e.resolution); err != nil {
			return fmt.Errorf("%s: %w", r.Name(), err)
		}
	}
	if err := r.SetDrawColor(e.drawColor); err != nil {
		return err
	}
	if err := r.SetBackgroundColor(e.bgColor); err != nil {
		return err
	}
	if err := r.SetFullscreen(e.fullscreen); err != nil {
		return err
	}
	r.SetBuffer(e.cpu.Gfx[:])
	r.SetWindowTitle(e.title(0))

	if e.input != nil && !e.input.IsInitialized() {
		if err := e.input.Initialize(); err != nil {
			return fmt.Errorf("%s: %w", e.input.Name(), err)
		}
	}

	if e.sound != nil && !e.sound.IsInitialized() {
		if err := e.sound.Initialize(); err != nil {
			return fmt.Errorf("%s: %w", e.sound.Name(), err)
		}
		e.sound.SetCountdownFreq(TimerFrequency)
	}
	return nil
}

func (e *Emulator) LoadRom(name string, rom []byte) error {
	if err := e.manager.LoadRom(name, rom); err != nil {
		return err
	}
	e.restart()
	return nil
}

func (e *Emulator) LoadRomFile(fs afero.Fs, path string) error {
	if err := e.manager.LoadRomFile(fs, path); err != nil {
		return err
	}
	e.restart()
	return nil
}

// Reset restores the machine with the current ROM. A stopped emulator
// becomes idle again.
func (e *Emulator) Reset() {
	e.manager.Reset()
	e.restart()
	if e.state == StateStopped {
		e.state = StateIdle
	}
}

func (e *Emulator) restart() {
	e.cpuAcc, e.timerAcc, e.frameAcc = 0, 0, 0
	e.cycleCount = 0
	if e.sound != nil {
		e.sound.Stop()
	}
}

func (e *Emulator) Pause() {
	if e.state == StateRunning {
		e.state = StatePaused
		if e.sound != nil {
			e.sound.Stop()
		}
	}
}

func (e *Emulator) Resume() {
	if e.state == StatePaused {
		e.state = StateRunning
	}
}

// Stop ends Run after the current update.
func (e *Emulator) Stop() {
	e.state = StateStopped
}

// Run executes until the emulator is stopped. It returns nil on a regular
// stop and the fatal error otherwise.
func (e *Emulator) Run() error {
	if e.renderer == nil {
		return ErrNoRenderer
	}
	if e.state == StateStopped {
		return nil
	}
	if e.state == StateIdle {
		e.state = StateRunning
	}

	// FX0A polls once and is retried on the next step.
	e.cpu.KeepWaiting = nil

	last := e.clock.Now()
	for e.state != StateStopped {
		// The menu blocks the loop. Time spent in it is not emulated.
		if dialog.MainMenuWasOpen() {
			last = e.clock.Now()
		}
		if dialog.ShutdownRequested() {
			e.Stop()
			break
		}
		if dialog.RestartRequested() {
			e.Reset()
			e.state = StateRunning
		}

		now := e.clock.Now()
		if err := e.Update(now.Sub(last)); err != nil {
			return err
		}
		last = now

		if d := e.nextDeadline(); d > 0 {
			e.clock.Sleep(d)
		} else {
			runtime.Gosched()
		}
	}
	return nil
}

func (e *Emulator) nextDeadline() time.Duration {
	d := e.framePeriod - e.frameAcc
	if e.state == StateRunning {
		if c := e.cpuPeriod - e.cpuAcc; c < d {
			d = c
		}
		if t := timerPeriod - e.timerAcc; t < d {
			d = t
		}
	}
	return d
}

// Update advances the machine by elapsed wall time: input, instructions,
// timers, sound and presentation, in that order.
func (e *Emulator) Update(elapsed time.Duration) error {
	if elapsed > maxCatchUp {
		elapsed = maxCatchUp
	} else if elapsed < 0 {
		elapsed = 0
	}

	if e.input != nil {
		switch e.input.UpdateKeys() {
		case device.InputEventReset:
			log.Print("Reset requested!")
			e.Reset()
			if e.state == StateIdle {
				e.state = StateRunning
			}
			return nil
		case device.InputEventEscape:
			log.Print("Escape requested!")
			e.Stop()
			return nil
		}
	}

	if e.state == StateRunning {
		if err := e.runCPU(elapsed); err != nil {
			e.Stop()
			return err
		}
		e.updateTimers(elapsed)
		e.updateSound()
	}

	e.present(elapsed)
	e.pollRenderer()
	return nil
}

func (e *Emulator) runCPU(elapsed time.Duration) error {
	e.cpuAcc += elapsed
	for e.cpuAcc >= e.cpuPeriod && e.state == StateRunning {
		e.cpuAcc -= e.cpuPeriod

		err := e.cpu.Step()
		e.cycleCount++
		e.numInstructions++

		if err != nil {
			if processor.IsFatal(err) {
				return err
			}
			var opErr *processor.OpcodeError
			if errors.As(err, &opErr) && opErr.Opcode != e.lastUnknown {
				log.Printf("%v: %s", err, cpu.Disassemble(opErr.Opcode))
				e.lastUnknown = opErr.Opcode
			}
		}

		if e.cycleLimit > 0 && e.cycleCount >= e.cycleLimit {
			log.Printf("Cycle limit reached: %d", e.cycleLimit)
			e.Stop()
		}
	}
	return nil
}

func (e *Emulator) updateTimers(elapsed time.Duration) {
	e.timerAcc += elapsed
	for e.timerAcc >= timerPeriod {
		e.timerAcc -= timerPeriod
		e.cpu.DecrementTimers()
	}
}

func (e *Emulator) updateSound() {
	if e.sound == nil {
		return
	}
	if st := e.cpu.SoundTimer; st > 0 {
		e.sound.Play(st)
	} else if e.sound.IsPlaying() {
		e.sound.Stop()
	}
}

func (e *Emulator) present(elapsed time.Duration) {
	e.titleAcc += elapsed
	e.frameAcc += elapsed
	if e.frameAcc < e.framePeriod {
		return
	}
	e.frameAcc %= e.framePeriod

	if e.cpu.DrawFlag {
		e.renderer.DrawBuffer()
		e.cpu.DrawFlag = false
	}

	if e.titleAcc >= time.Second {
		ips := float64(e.numInstructions) / e.titleAcc.Seconds()
		e.titleAcc, e.numInstructions = 0, 0
		e.renderer.SetWindowTitle(e.title(ips))
	}
}

func (e *Emulator) pollRenderer() {
	switch e.renderer.UpdateEvents() {
	case device.RenderEventClosed:
		log.Print("Window closed!")
		e.Stop()
	case device.RenderEventResized:
		if err := e.renderer.SetResolution(e.resolution); err != nil {
			log.Print("Could not restore resolution: ", err)
		}
		e.cpu.DrawFlag = true
	}
}

func (e *Emulator) title(ips float64) string {
	name := e.manager.RomName()
	if name == "" {
		name = "no rom"
	}
	if e.state == StatePaused {
		return fmt.Sprintf("VirtualCHIP8 - %s - paused", name)
	}
	return fmt.Sprintf("VirtualCHIP8 - %s - %.0f IPS", name, ips)
}
