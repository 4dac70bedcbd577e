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

// Command validator compares two instruction traces and reports where they
// first diverge. Traces are recorded by an emulator built with the validator
// tag and started with -trace.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/andreas-jonsson/virtualchip8/emulator/processor/validator"
	"github.com/spf13/afero"
)

var (
	chip8Input = "virtualchip8.json"
	refInput   = "validator.json"
	limit      = 1000000
	mode       = "all"
)

func init() {
	flag.StringVar(&chip8Input, "virtualchip8", chip8Input, "VirtualCHIP8 trace")
	flag.StringVar(&refInput, "validation", refInput, "Reference trace")
	flag.IntVar(&limit, "limit", limit, "Maximum number of events to compare")
	flag.StringVar(&mode, "mode", mode, "What to compare: all, location or memory")
}

func openTrace(fs afero.Fs, name string) *validator.Decoder {
	fp, err := fs.Open(name)
	if err != nil {
		log.Fatal(err)
	}
	dec, err := validator.NewDecoder(fp, name)
	if err != nil {
		log.Fatal(err)
	}
	return dec
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	var m validator.Mismatch
	switch mode {
	case "all":
		m = validator.MatchAll
	case "location":
		m = validator.MatchOpcodeAndLocation
	case "memory":
		m = validator.MatchMemory
	default:
		log.Fatalf("Invalid mode: %s", mode)
	}

	fs := afero.NewOsFs()
	a, b := openTrace(fs, chip8Input), openTrace(fs, refInput)
	defer a.Close()
	defer b.Close()

	n, err := validator.Compare(a, b, m, limit)
	log.Print("Equal: ", n)

	var div *validator.Divergence
	if errors.As(err, &div) {
		log.Print(div)
		log.Printf("  %+v", div.A)
		log.Printf("  %+v", div.B)
		os.Exit(1)
	} else if err != nil {
		log.Fatal(err)
	}
}
