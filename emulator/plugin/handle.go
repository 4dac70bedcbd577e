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

	"github.com/andreas-jonsson/virtualchip8/emulator/device"
)

// State is the lifecycle position of a Handle.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateObjectDestroyed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateObjectDestroyed:
		return "object destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Handle is the capability independent part of the typed handles.
type Handle interface {
	Load(path string) error
	Free()
	State() State
	IsLoaded() bool
	ModuleName() string
}

// handle owns one module and the single plugin object it created. Either both
// are held or neither is, except transiently between object destruction and
// module close inside Free.
type handle struct {
	opener     Opener
	capability device.Capability
	implements func(device.Plugin) bool

	state   State
	module  Module
	object  device.Plugin
	deleter DeleterFunc
}

func newHandle(opener Opener, c device.Capability, implements func(device.Plugin) bool) handle {
	if opener == nil {
		opener = DefaultOpener
	}
	return handle{opener: opener, capability: c, implements: implements}
}

// Load creates a plugin from the module at path. The previous plugin, if any,
// is torn down only after the new one has been created and validated. On
// failure the handle keeps what it held before.
func (h *handle) Load(path string) error {
	mod, err := h.opener.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", path, err, ErrModuleLoad)
	}

	loader, err := lookupLoader(mod)
	if err != nil {
		closeModule(mod)
		return err
	}
	deleter := lookupDeleter(mod)

	obj := loader()
	if obj == nil {
		closeModule(mod)
		return fmt.Errorf("%s: %w", mod.Name(), ErrNullPlugin)
	}

	if obj.Capability() != h.capability || !h.implements(obj) {
		err := fmt.Errorf("%s: %s is a %v plugin, expected %v: %w", mod.Name(), obj.Name(), obj.Capability(), h.capability, ErrTypeMismatch)
		destroy(mod.Name(), obj, deleter)
		closeModule(mod)
		return err
	}

	h.Free()

	h.module, h.object, h.deleter = mod, obj, deleter
	h.state = StateLoaded

	log.Printf("Loaded %v plugin: %s %s (%s)", h.capability, obj.Name(), obj.Version(), mod.Name())
	return nil
}

// Free destroys the plugin and then closes its module. It is a no-op on an
// empty handle.
func (h *handle) Free() {
	if h.state == StateLoaded {
		destroy(h.module.Name(), h.object, h.deleter)
		h.object, h.deleter = nil, nil
		h.state = StateObjectDestroyed
	}

	if h.state == StateObjectDestroyed {
		closeModule(h.module)
		h.module = nil
		h.state = StateEmpty
	}
}

func (h *handle) State() State {
	return h.state
}

func (h *handle) IsLoaded() bool {
	return h.state == StateLoaded
}

func (h *handle) ModuleName() string {
	if h.module == nil {
		return ""
	}
	return h.module.Name()
}

func (h *handle) plugin() device.Plugin {
	if h.state != StateLoaded {
		log.Panicf("%v handle is %v", h.capability, h.state)
	}
	return h.object
}

// destroy tries the module deleter, then the deleter carried by the object and
// finally disposes the object in-process.
func destroy(module string, obj device.Plugin, deleter DeleterFunc) {
	if deleter != nil {
		deleter(obj)
		return
	}
	log.Printf("%s: no %s symbol, using the deleter from %s", module, DeleterSymbol, obj.Name())

	if d := obj.Deleter(); d != nil {
		d(obj)
		return
	}
	log.Printf("WARNING: %s: %s has no deleter, disposing in-process! This is unsafe.", module, obj.Name())

	obj.Dispose()
}

func closeModule(mod Module) {
	if err := mod.Close(); err != nil {
		log.Printf("Could not close module %s: %v", mod.Name(), err)
	}
}

type RendererHandle struct {
	handle
}

func NewRendererHandle(opener Opener) *RendererHandle {
	return &RendererHandle{newHandle(opener, device.CapabilityRenderer, func(p device.Plugin) bool {
		_, ok := p.(device.Renderer)
		return ok
	})}
}

// Get returns the renderer. It panics if the handle is empty.
func (h *RendererHandle) Get() device.Renderer {
	return h.plugin().(device.Renderer)
}

func (h *RendererHandle) TryGet() (device.Renderer, error) {
	if !h.IsLoaded() {
		return nil, ErrNotLoaded
	}
	return h.Get(), nil
}

type InputHandle struct {
	handle
}

func NewInputHandle(opener Opener) *InputHandle {
	return &InputHandle{newHandle(opener, device.CapabilityInput, func(p device.Plugin) bool {
		_, ok := p.(device.Input)
		return ok
	})}
}

// Get returns the input device. It panics if the handle is empty.
func (h *InputHandle) Get() device.Input {
	return h.plugin().(device.Input)
}

func (h *InputHandle) TryGet() (device.Input, error) {
	if !h.IsLoaded() {
		return nil, ErrNotLoaded
	}
	return h.Get(), nil
}

type SoundHandle struct {
	handle
}

func NewSoundHandle(opener Opener) *SoundHandle {
	return &SoundHandle{newHandle(opener, device.CapabilitySound, func(p device.Plugin) bool {
		_, ok := p.(device.Sound)
		return ok
	})}
}

// Get returns the sound device. It panics if the handle is empty.
func (h *SoundHandle) Get() device.Sound {
	return h.plugin().(device.Sound)
}

func (h *SoundHandle) TryGet() (device.Sound, error) {
	if !h.IsLoaded() {
		return nil, ErrNotLoaded
	}
	return h.Get(), nil
}
