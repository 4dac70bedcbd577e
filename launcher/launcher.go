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

// Package launcher runs the emulator as a separate process so a front end
// survives crashes in the emulator or in its plugins.
package launcher

import (
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

var ErrNotRunning = errors.New("process is not running")

type Process struct {
	// Settings applied to the next Run.
	Env            []string
	Stdout, Stderr io.Writer

	lock     sync.Mutex
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
}

// Run starts name with args. A process that is still running is terminated
// and joined first.
func (p *Process) Run(name string, args ...string) error {
	if p.IsRunning() {
		p.Terminate()
		p.Join()
	}

	cmd := exec.Command(name, args...)
	cmd.Env = p.Env
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	log.Printf("Started process %d: %s", cmd.Process.Pid, name)

	done := make(chan struct{})
	p.lock.Lock()
	p.cmd, p.done, p.exitCode = cmd, done, -1
	p.lock.Unlock()

	go func() {
		err := cmd.Wait()
		code := cmd.ProcessState.ExitCode()
		if err != nil && code == 0 {
			code = -1
		}

		p.lock.Lock()
		if p.done == done {
			p.exitCode = code
		}
		p.lock.Unlock()
		close(done)
	}()
	return nil
}

// Join waits for the process to exit and returns its exit code. A process
// killed by a signal reports -1.
func (p *Process) Join() int {
	p.lock.Lock()
	done := p.done
	p.lock.Unlock()

	if done == nil {
		return -1
	}
	<-done

	p.lock.Lock()
	defer p.lock.Unlock()
	return p.exitCode
}

// Terminate asks the process to shut down. It is safe to call on a process
// that has already exited.
func (p *Process) Terminate() error {
	p.lock.Lock()
	cmd, done := p.cmd, p.done
	p.lock.Unlock()

	if cmd == nil {
		return ErrNotRunning
	}
	select {
	case <-done:
		return ErrNotRunning
	default:
	}

	var err error
	if runtime.GOOS == "windows" {
		err = cmd.Process.Kill()
	} else {
		err = cmd.Process.Signal(os.Interrupt)
	}
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Print("Could not terminate process: ", err)
		return err
	}
	log.Printf("Sent interrupt to process %d", cmd.Process.Pid)
	return nil
}

func (p *Process) IsRunning() bool {
	p.lock.Lock()
	done := p.done
	p.lock.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
