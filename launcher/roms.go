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
	"path/filepath"
	"sort"
	"strings"

	"github.com/andreas-jonsson/virtualchip8/emulator/memory"
	"github.com/spf13/afero"
)

// RomExtensions lists the file extensions recognised as ROM images.
var RomExtensions = []string{".ch8", ".c8", ".rom"}

func isRomName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range RomExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListRoms returns the paths of all loadable ROM images in dir, sorted by name.
// Files that are empty or too large for program memory are skipped.
func ListRoms(fs afero.Fs, dir string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	var roms []string
	for _, fi := range infos {
		if !fi.Mode().IsRegular() || !isRomName(fi.Name()) {
			continue
		}
		if fi.Size() == 0 || fi.Size() > memory.MaxProgramSize {
			continue
		}
		roms = append(roms, filepath.Join(dir, fi.Name()))
	}
	sort.Strings(roms)
	return roms, nil
}
