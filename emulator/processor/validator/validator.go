// +build validator

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

package validator

import (
	"log"
	"math"

	"github.com/andreas-jonsson/virtualchip8/emulator/processor"
	"github.com/spf13/afero"
)

const Enabled = true

var (
	inScope      bool
	currentEvent Event
	outputChan   chan Event
	quitChan     chan error
)

// Initialize starts recording to output on fs. An empty name disables recording.
func Initialize(fs afero.Fs, output string, queueSize, bufferSize int) error {
	if output == "" {
		return nil
	}

	fp, err := fs.Create(output)
	if err != nil {
		return err
	}

	w := newWriter(fp, output, bufferSize)
	outputChan = make(chan Event, queueSize)
	quitChan = make(chan error, 1)

	go func() {
		var err error
		for ev := range outputChan {
			if err == nil {
				err = w.write(ev)
			}
		}
		if cerr := w.close(); err == nil {
			err = cerr
		}
		quitChan <- err
	}()
	return nil
}

func Begin(opcode uint16, regs processor.Registers) {
	if outputChan == nil {
		return
	}

	inScope = true
	currentEvent = EmptyEvent
	currentEvent.Opcode = opcode
	currentEvent.Regs[0] = regs
}

func End(regs processor.Registers) {
	if !inScope {
		return
	}

	inScope = false
	currentEvent.Regs[1] = regs
	outputChan <- currentEvent
}

func Discard() {
	inScope = false
}

func push(ops *[MaxMemOps]MemOp, addr uint16, data byte) {
	for i, op := range ops {
		if op.Addr == math.MaxUint32 {
			ops[i] = MemOp{uint32(addr), data}
			return
		}
	}
	log.Panic("Memory operation limit!")
}

func ReadByte(addr uint16, data byte) {
	if inScope {
		push(&currentEvent.Reads, addr, data)
	}
}

func WriteByte(addr uint16, data byte) {
	if inScope {
		push(&currentEvent.Writes, addr, data)
	}
}

// Shutdown flushes all pending events and closes the output.
func Shutdown() error {
	if outputChan == nil {
		return nil
	}
	close(outputChan)
	err := <-quitChan
	outputChan = nil
	return err
}
