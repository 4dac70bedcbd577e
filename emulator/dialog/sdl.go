// +build sdl

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

package dialog

import (
	"errors"
	"runtime"
	"sort"

	"github.com/veandco/go-sdl2/sdl"
)

type buttonList []sdl.MessageBoxButtonData

func (b buttonList) Len() int {
	return len(b)
}

func (b buttonList) Less(i, j int) bool {
	return b[i].ButtonID < b[j].ButtonID
}

func (b buttonList) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

func sortButtons(buttons []sdl.MessageBoxButtonData) []sdl.MessageBoxButtonData {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		sort.Sort(sort.Reverse(buttonList(buttons)))
	}
	return buttons
}

func MainMenu() error {
	MainMenuOpened()

	mbd := sdl.MessageBoxData{
		Flags:   sdl.MESSAGEBOX_INFORMATION,
		Title:   "Menu Options",
		Message: "Keypad 0-9, /, *, -, +, . and Enter map to the CHIP-8 keys.",
		Buttons: sortButtons([]sdl.MessageBoxButtonData{
			{
				Flags:    sdl.MESSAGEBOX_BUTTON_ESCAPEKEY_DEFAULT,
				ButtonID: 0,
				Text:     "Cancel",
			},
			{
				ButtonID: 1,
				Text:     "Reset",
			},
			{
				ButtonID: 2,
				Text:     "Quit",
			},
		}),
	}

	id, err := sdl.ShowMessageBox(&mbd)
	if err != nil {
		return err
	}

	switch id {
	case 2:
		Quit()
		return nil
	case 1:
		RequestRestart()
		return nil
	default:
		return errors.New("operation canceled")
	}
}

func ShowErrorMessage(msg string) error {
	return sdl.ShowSimpleMessageBox(sdl.MESSAGEBOX_ERROR, "Error", msg, nil)
}

func AskToQuit() bool {
	mbd := sdl.MessageBoxData{
		Flags:   sdl.MESSAGEBOX_INFORMATION,
		Title:   "Shutdown",
		Message: "Do you want to shutdown the emulator?",
		Buttons: sortButtons([]sdl.MessageBoxButtonData{
			{
				Flags:    sdl.MESSAGEBOX_BUTTON_ESCAPEKEY_DEFAULT,
				ButtonID: 0,
				Text:     "No",
			},
			{
				Flags:    sdl.MESSAGEBOX_BUTTON_RETURNKEY_DEFAULT,
				ButtonID: 1,
				Text:     "Yes",
			},
		}),
	}

	id, err := sdl.ShowMessageBox(&mbd)
	quit := err != nil || id == 1
	if quit {
		Quit()
	}
	return quit
}
