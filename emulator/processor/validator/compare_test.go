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
	"bytes"
	"errors"
	"testing"
)

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error {
	return nil
}

func event(opcode, pc uint16, v0 byte) Event {
	ev := EmptyEvent
	ev.Opcode = opcode
	ev.Regs[0].PC = pc
	ev.Regs[1].PC = pc + 2
	ev.Regs[1].V[0] = v0
	return ev
}

func encode(t *testing.T, name string, events ...Event) *Decoder {
	var buf bytes.Buffer
	w := newWriter(nopCloser{&buf}, name, 64)
	for _, ev := range events {
		if err := w.write(ev); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.close(); err != nil {
		t.Fatal(err)
	}

	d, err := NewDecoder(&buf, name)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestCompare(t *testing.T) {
	base := []Event{
		event(0x6001, 0x200, 1),
		event(0x7001, 0x202, 2),
		event(0x1200, 0x204, 2),
	}

	t.Run("Equal", func(t *testing.T) {
		n, err := Compare(encode(t, "a.json", base...), encode(t, "b.json.gz", base...), MatchAll, 0)
		if err != nil || n != len(base) {
			t.Errorf("got %d, %v", n, err)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		n, err := Compare(encode(t, "a.json", base...), encode(t, "b.json", base...), MatchAll, 2)
		if err != nil || n != 2 {
			t.Errorf("got %d, %v", n, err)
		}
	})

	t.Run("Shorter", func(t *testing.T) {
		n, err := Compare(encode(t, "a.json", base...), encode(t, "b.json", base[:1]...), MatchAll, 0)
		if err != nil || n != 1 {
			t.Errorf("got %d, %v", n, err)
		}
	})

	other := append([]Event{}, base...)
	other[1] = event(0x7001, 0x202, 3)

	t.Run("Diverge", func(t *testing.T) {
		n, err := Compare(encode(t, "a.json", base...), encode(t, "b.json", other...), MatchAll, 0)
		var div *Divergence
		if !errors.As(err, &div) || n != 1 || div.Index != 1 {
			t.Fatalf("got %d, %v", n, err)
		}
		if div.A.Regs[1].V[0] != 2 || div.B.Regs[1].V[0] != 3 {
			t.Error("wrong events reported")
		}
	})

	t.Run("Location only", func(t *testing.T) {
		n, err := Compare(encode(t, "a.json", base...), encode(t, "b.json", other...), MatchOpcodeAndLocation, 0)
		if err != nil || n != len(base) {
			t.Errorf("got %d, %v", n, err)
		}
	})
}

func TestEmptyEvent(t *testing.T) {
	for i := range EmptyEvent.Reads {
		if !EmptyEvent.Reads[i].Empty() || !EmptyEvent.Writes[i].Empty() {
			t.Fatal("empty event has memory operations")
		}
	}
}
