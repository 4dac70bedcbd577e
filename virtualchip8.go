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

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/andreas-jonsson/virtualchip8/emulator"
	"github.com/andreas-jonsson/virtualchip8/emulator/device"
	"github.com/andreas-jonsson/virtualchip8/emulator/dialog"
	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
	"github.com/andreas-jonsson/virtualchip8/emulator/plugin"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor/cpu"
	"github.com/andreas-jonsson/virtualchip8/emulator/processor/validator"
	"github.com/andreas-jonsson/virtualchip8/platform/headless"
	"github.com/andreas-jonsson/virtualchip8/platform/tcell"
	"github.com/andreas-jonsson/virtualchip8/platform/wav"
	"github.com/andreas-jonsson/virtualchip8/statsview"
	"github.com/andreas-jonsson/virtualchip8/version"
	"github.com/spf13/afero"
)

const noModule = "none"

// startPlatform runs the emulator body. SDL builds replace it so SDL owns the
// main thread.
var startPlatform = func(main func()) { main() }

// Default modules for this build. The SDL build overrides them.
var (
	defaultRenderer = tcell.RendererModule
	defaultInput    = tcell.InputModule
	defaultSound    = noModule
)

var (
	romPath,
	windowSize,
	resolution,
	drawColor,
	bgColor,
	rendererModule,
	inputModule,
	soundModule,
	wavFile,
	traceFile string

	cpuFreq   = float64(emulator.DefaultCPUFrequency)
	frameRate = float64(emulator.DefaultFrameRate)
	cycles    uint64

	fullscreen,
	noAudio,
	textMode,
	headlessMode,
	stats,
	quiet,
	disasm,
	ver bool
)

func init() {
	flag.StringVar(&romPath, "rom", "", "ROM image to run")
	flag.Float64Var(&cpuFreq, "cpu-freq", cpuFreq, "Instructions per second")
	flag.Float64Var(&frameRate, "fps", frameRate, "Display refresh rate")
	flag.StringVar(&windowSize, "window", emulator.DefaultWindowSize.String(), "Window size (WxH)")
	flag.StringVar(&resolution, "res", emulator.DefaultResolution.String(), "Render resolution (WxH)")
	flag.StringVar(&drawColor, "color", emulator.DefaultDrawColor.String(), "Pixel color (RRGGBB)")
	flag.StringVar(&bgColor, "bg", emulator.DefaultBackgroundColor.String(), "Background color (RRGGBB)")
	flag.BoolVar(&fullscreen, "fullscreen", false, "Start in fullscreen mode")

	flag.StringVar(&rendererModule, "renderer", "", "Renderer plugin (module name or path)")
	flag.StringVar(&inputModule, "input", "", "Input plugin (module name or path)")
	flag.StringVar(&soundModule, "sound", "", "Sound plugin (module name or path)")

	flag.BoolVar(&noAudio, "no-audio", false, "Disable audio")
	flag.BoolVar(&textMode, "text", false, "Run in the terminal")
	flag.BoolVar(&headlessMode, "headless", false, "Run without any output")
	flag.Uint64Var(&cycles, "cycles", 0, "Stop after this many instructions")
	flag.StringVar(&wavFile, "wav", "", "Record sound to a WAV file")
	flag.StringVar(&traceFile, "trace", "", "Record an instruction trace (validator builds)")

	flag.BoolVar(&stats, "statsview", false, "Serve runtime statistics on "+statsview.DefaultAddress)
	flag.BoolVar(&quiet, "quiet", false, "Disable logging")
	flag.BoolVar(&disasm, "disasm", false, "Print a listing of the ROM and exit")
	flag.BoolVar(&ver, "v", false, "Print version information")
}

// selectModule picks the flag value, then the environment override, then the default.
func selectModule(flagValue, env, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		return v
	}
	return def
}

func selectModules() (r, in, s string) {
	r, in, s = defaultRenderer, defaultInput, defaultSound
	if textMode {
		r, in, s = tcell.RendererModule, tcell.InputModule, noModule
	}
	if headlessMode {
		r, in, s = headless.RendererModule, headless.InputModule, headless.SoundModule
	}
	if wavFile != "" {
		wav.SetOutput(afero.NewOsFs(), wavFile)
		s = wav.SoundModule
	}

	r = selectModule(rendererModule, "VCHIP8_RENDERER", r)
	in = selectModule(inputModule, "VCHIP8_INPUT", in)
	s = selectModule(soundModule, "VCHIP8_SOUND", s)
	if noAudio {
		s = noModule
	}
	return
}

func options() ([]emulator.Option, error) {
	ws, err := device.ParseVec2i(windowSize)
	if err != nil {
		return nil, err
	}
	res, err := device.ParseVec2i(resolution)
	if err != nil {
		return nil, err
	}
	fg, err := device.ParseColor(drawColor)
	if err != nil {
		return nil, err
	}
	bg, err := device.ParseColor(bgColor)
	if err != nil {
		return nil, err
	}

	opts := []emulator.Option{
		emulator.WithCPUFrequency(cpuFreq),
		emulator.WithFrameRate(frameRate),
		emulator.WithWindowSize(ws),
		emulator.WithResolution(res),
		emulator.WithDrawColor(fg),
		emulator.WithBackgroundColor(bg),
		emulator.WithFullscreen(fullscreen),
	}
	if cycles > 0 {
		opts = append(opts, emulator.WithCycleLimit(cycles))
	}
	return opts, nil
}

func main() {
	flag.Parse()

	if ver {
		fmt.Printf("%s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	if quiet {
		log.SetOutput(io.Discard)
	}

	if romPath == "" {
		fmt.Fprintln(os.Stderr, "No ROM specified!")
		flag.Usage()
		os.Exit(2)
	}

	if disasm {
		if err := disassemble(os.Stdout, afero.NewOsFs(), romPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	if stats {
		statsview.Launch(os.Stdout, statsview.DefaultAddress)
	}

	if traceFile != "" {
		if !validator.Enabled {
			log.Print("Tracing requires a build with the validator tag!")
		} else if err := validator.Initialize(afero.NewOsFs(), traceFile, validator.DefaultQueueSize, validator.DefaultBufferSize); err != nil {
			log.Fatal(err)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		for range sig {
			log.Print("Interrupted!")
			dialog.Quit()
		}
	}()

	if !headlessMode && !quiet {
		printLogo()
	}

	exitCode := 0
	startPlatform(func() {
		if err := run(); err != nil {
			log.Print(err)
			dialog.ShowErrorMessage(err.Error())
			exitCode = 1
		}
	})

	if err := validator.Shutdown(); err != nil {
		log.Print(err)
	}
	os.Exit(exitCode)
}

func run() error {
	opts, err := options()
	if err != nil {
		return err
	}
	emu, err := emulator.New(opts...)
	if err != nil {
		return err
	}

	r, in, s := selectModules()

	renderer := plugin.NewRendererHandle(nil)
	if err := renderer.Load(r); err != nil {
		return err
	}
	defer renderer.Free()
	emu.SetRenderer(renderer.Get())

	input := plugin.NewInputHandle(nil)
	if in != noModule {
		if err := input.Load(in); err != nil {
			return err
		}
		defer input.Free()
		emu.SetInput(input.Get())
	}

	sound := plugin.NewSoundHandle(nil)
	if s != noModule {
		if err := sound.Load(s); err != nil {
			log.Print("Audio disabled: ", err)
		} else {
			defer sound.Free()
			emu.SetSound(sound.Get())
		}
	}

	if err := emu.LoadRomFile(afero.NewOsFs(), romPath); err != nil {
		return err
	}
	if err := emu.InitDevices(); err != nil {
		return err
	}

	err = emu.Run()

	st := emu.CPU().GetStats()
	log.Printf("Executed %d instructions (%d unknown, %d draws)", st.NumInstructions, st.NumUnknown, st.NumDraws)
	return err
}

func disassemble(w io.Writer, fs afero.Fs, path string) error {
	rom, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	if len(rom) > memory.MaxProgramSize {
		rom = rom[:memory.MaxProgramSize]
	}

	for i := 0; i+1 < len(rom); i += 2 {
		op := uint16(rom[i])<<8 | uint16(rom[i+1])
		fmt.Fprintf(w, "%03X: %04X  %s\n", memory.ProgramOrigin+i, op, cpu.Disassemble(op))
	}
	if len(rom)%2 != 0 {
		fmt.Fprintf(w, "%03X: %02X    DB %02X\n", memory.ProgramOrigin+len(rom)-1, rom[len(rom)-1], rom[len(rom)-1])
	}
	return nil
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Println(" ───────═════ " + version.Copyright + " ══════───────\n")
}

var logo = `
██╗   ██╗██╗██████╗ ████████╗██╗   ██╗ █████╗ ██╗      ██████╗██╗  ██╗██╗██████╗  █████╗ 
██║   ██║██║██╔══██╗╚══██╔══╝██║   ██║██╔══██╗██║     ██╔════╝██║  ██║██║██╔══██╗██╔══██╗
██║   ██║██║██████╔╝   ██║   ██║   ██║███████║██║     ██║     ███████║██║██████╔╝╚█████╔╝
╚██╗ ██╔╝██║██╔══██╗   ██║   ██║   ██║██╔══██║██║     ██║     ██╔══██║██║██╔═══╝ ██╔══██╗
 ╚████╔╝ ██║██║  ██║   ██║   ╚██████╔╝██║  ██║███████╗╚██████╗██║  ██║██║██║     ╚█████╔╝
  ╚═══╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝╚═╝      ╚════╝ `
