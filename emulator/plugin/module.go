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

// Package plugin loads device backends from code modules and owns their
// lifetime. A module is either a native Go plugin or a builtin symbol table
// compiled into the binary.
package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
)

// Exported symbol names every module must provide.
const (
	LoaderSymbol  = "LoadPlugin"
	DeleterSymbol = "FreePlugin"
)

const DefaultPluginPathEnv = "VCHIP8_PLUGIN_PATH"

var (
	ErrModuleLoad    = errors.New("could not load module")
	ErrMissingSymbol = errors.New("missing symbol")
	ErrNullPlugin    = errors.New("module returned no plugin")
	ErrTypeMismatch  = errors.New("plugin type mismatch")
	ErrNotLoaded     = errors.New("no plugin loaded")
)

type (
	LoaderFunc  func() device.Plugin
	DeleterFunc func(device.Plugin)
)

// Module is an opened code module.
type Module interface {
	Name() string
	Lookup(symbol string) (interface{}, error)
	Close() error
}

type Opener interface {
	Open(path string) (Module, error)
}

type OpenerFunc func(path string) (Module, error)

func (f OpenerFunc) Open(path string) (Module, error) {
	return f(path)
}

// DefaultOpener resolves builtin modules first and falls back to native plugins.
var DefaultOpener Opener = OpenerFunc(func(path string) (Module, error) {
	if mod, ok := openBuiltin(path); ok {
		return mod, nil
	}
	return openNative(Resolve(path, SearchPath()))
})

// SearchPath returns the plugin directories from the environment followed by
// the executable directory.
func SearchPath() []string {
	var dirs []string
	if p, ok := os.LookupEnv(DefaultPluginPathEnv); ok {
		dirs = append(dirs, filepath.SplitList(p)...)
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		dirs = append(dirs, filepath.Join(dir, "plugins"), dir)
	}
	return dirs
}

// Resolve maps a bare module name to a file in dirs. Paths containing a
// separator are returned unchanged.
func Resolve(name string, dirs []string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return name
	}

	file := name
	if filepath.Ext(file) != ".so" {
		file += ".so"
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, file)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return file
}

func lookupLoader(mod Module) (LoaderFunc, error) {
	sym, err := mod.Lookup(LoaderSymbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", mod.Name(), LoaderSymbol, ErrMissingSymbol)
	}

	switch f := sym.(type) {
	case func() device.Plugin:
		return f, nil
	case *func() device.Plugin:
		return *f, nil
	case LoaderFunc:
		return f, nil
	}
	return nil, fmt.Errorf("%s: %s has type %T: %w", mod.Name(), LoaderSymbol, sym, ErrMissingSymbol)
}

// lookupDeleter returns nil when the module does not export a usable deleter.
func lookupDeleter(mod Module) DeleterFunc {
	sym, err := mod.Lookup(DeleterSymbol)
	if err != nil {
		return nil
	}

	switch f := sym.(type) {
	case func(device.Plugin):
		return f
	case *func(device.Plugin):
		return *f
	case DeleterFunc:
		return f
	}
	return nil
}
