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

package plugin

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Symbols is the export table of a builtin module.
type Symbols map[string]interface{}

var builtins = struct {
	sync.Mutex
	modules map[string]Symbols
}{modules: make(map[string]Symbols)}

// Register makes a module available to DefaultOpener under name.
// Registering the same name twice is a programmer error.
func Register(name string, symbols Symbols) {
	builtins.Lock()
	defer builtins.Unlock()

	if _, ok := builtins.modules[name]; ok {
		log.Panicf("module already registered: %s", name)
	}
	builtins.modules[name] = symbols
}

// Builtins lists the registered module names in sorted order.
func Builtins() []string {
	builtins.Lock()
	defer builtins.Unlock()

	var names []string
	for name := range builtins.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func openBuiltin(name string) (Module, bool) {
	builtins.Lock()
	defer builtins.Unlock()

	symbols, ok := builtins.modules[name]
	if !ok {
		return nil, false
	}
	return &symbolModule{name: name, symbols: symbols}, true
}

// NewSymbolModule wraps an export table as an opened module.
func NewSymbolModule(name string, symbols Symbols) Module {
	return &symbolModule{name: name, symbols: symbols}
}

type symbolModule struct {
	name    string
	symbols Symbols
}

func (m *symbolModule) Name() string {
	return m.name
}

func (m *symbolModule) Lookup(symbol string) (interface{}, error) {
	if sym, ok := m.symbols[symbol]; ok && sym != nil {
		return sym, nil
	}
	return nil, fmt.Errorf("symbol %s not found in module %s", symbol, m.name)
}

func (m *symbolModule) Close() error {
	return nil
}
