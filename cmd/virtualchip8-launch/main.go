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

// Command virtualchip8-launch lists the ROM images in a directory and runs the
// selected one in a separate emulator process.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/andreas-jonsson/virtualchip8/launcher"
	"github.com/spf13/afero"
)

var (
	romDir    = flag.String("dir", ".", "Directory with ROM images")
	emulator  = flag.String("emulator", defaultEmulator(), "Path to the emulator executable")
	selection = flag.String("run", "", "ROM to run, by index or file name")
)

func defaultEmulator() string {
	name := "virtualchip8"
	if exe, err := os.Executable(); err == nil {
		name = filepath.Join(filepath.Dir(exe), name)
	}
	return name
}

func selectRom(roms []string, sel string) (string, error) {
	if i, err := strconv.Atoi(sel); err == nil {
		if i < 0 || i >= len(roms) {
			return "", fmt.Errorf("no ROM with index %d", i)
		}
		return roms[i], nil
	}
	for _, r := range roms {
		if filepath.Base(r) == sel {
			return r, nil
		}
	}
	return "", fmt.Errorf("no ROM named %q", sel)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [-- emulator flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	roms, err := launcher.ListRoms(afero.NewOsFs(), *romDir)
	if err != nil {
		log.Fatal(err)
	}

	if *selection == "" {
		for i, r := range roms {
			fmt.Printf("%3d  %s\n", i, filepath.Base(r))
		}
		return
	}

	rom, err := selectRom(roms, *selection)
	if err != nil {
		log.Fatal(err)
	}

	p := launcher.Process{Stdout: os.Stdout, Stderr: os.Stderr}
	if err := p.Run(*emulator, append([]string{"-rom", rom}, flag.Args()...)...); err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		for range sig {
			p.Terminate()
		}
	}()

	os.Exit(p.Join())
}
