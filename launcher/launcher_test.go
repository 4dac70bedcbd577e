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

package launcher

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"testing"
	"time"
)

func helperProcess(p *Process, args ...string) error {
	p.Env = append(os.Environ(), "VCHIP8_WANT_HELPER_PROCESS=1")
	return p.Run(os.Args[0], append([]string{"-test.run=TestHelperProcess", "--"}, args...)...)
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("VCHIP8_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}

	switch args[1] {
	case "exit":
		code, _ := strconv.Atoi(args[2])
		os.Exit(code)
	case "wait":
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		fmt.Println("ready")
		select {
		case <-c:
			os.Exit(7)
		case <-time.After(10 * time.Second):
			os.Exit(1)
		}
	}
	os.Exit(2)
}

func TestExitCode(t *testing.T) {
	var p Process
	if p.IsRunning() || p.Join() != -1 {
		t.Fatal("unstarted process reports as started")
	}
	if err := p.Terminate(); err != ErrNotRunning {
		t.Errorf("got %v, expected %v", err, ErrNotRunning)
	}

	if err := helperProcess(&p, "exit", "3"); err != nil {
		t.Fatal(err)
	}
	if code := p.Join(); code != 3 {
		t.Errorf("got exit code %d, expected 3", code)
	}
	if p.IsRunning() {
		t.Error("process still running after join")
	}
	if err := p.Terminate(); err != ErrNotRunning {
		t.Errorf("got %v, expected %v", err, ErrNotRunning)
	}

	// The process can be reused.
	if err := helperProcess(&p, "exit", "0"); err != nil {
		t.Fatal(err)
	}
	if code := p.Join(); code != 0 {
		t.Errorf("got exit code %d, expected 0", code)
	}
}

func TestTerminate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("interrupt is not supported on windows")
	}

	pr, pw := io.Pipe()
	defer pr.Close()

	p := Process{Stdout: pw}
	if err := helperProcess(&p, "wait"); err != nil {
		t.Fatal(err)
	}

	line, err := bufio.NewReader(pr).ReadString('\n')
	if err != nil || line != "ready\n" {
		t.Fatalf("helper did not start: %q %v", line, err)
	}
	if !p.IsRunning() {
		t.Fatal("process is not running")
	}

	if err := p.Terminate(); err != nil {
		t.Fatal(err)
	}
	if code := p.Join(); code != 7 {
		t.Errorf("got exit code %d, expected 7", code)
	}
}

func TestStartError(t *testing.T) {
	var p Process
	if err := p.Run("/nonexistent/virtualchip8"); err == nil {
		t.Error("expected an error")
	}
	if p.IsRunning() {
		t.Error("failed process reports as running")
	}
}
