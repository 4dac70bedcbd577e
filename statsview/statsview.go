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

// Package statsview serves live runtime statistics of the emulator process
// (heap, goroutines, GC pauses) in a browser.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const (
	DefaultAddress = "localhost:12680"
	path           = "/debug/statsview"
)

// URL returns where the viewer for addr is served.
func URL(addr string) string {
	return fmt.Sprintf("http://%s%s", addr, path)
}

// Launch starts the viewer in the background and reports its URL to output.
// The returned function stops the server.
func Launch(output io.Writer, addr string) (stop func()) {
	if addr == "" {
		addr = DefaultAddress
	}

	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "Stats server available at %s\n", URL(addr))
	return mgr.Stop
}
