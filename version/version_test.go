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

package version

import (
	"testing"
)

func TestVersion(t *testing.T) {
	v := New(1, 2, 3)
	if v.String() != "1.2.3" || v.FullString() != "1.2.3" {
		t.Errorf("unexpected version string: %s", v.FullString())
	}

	v.Build = "rc1"
	if v.FullString() != "1.2.3-rc1" {
		t.Errorf("unexpected full string: %s", v.FullString())
	}

	if !NewFromSlice(v.Slice()).Compatible(New(1, 2, 9)) || New(1, 2, 3).Compatible(New(1, 3, 3)) {
		t.Error("compatibility check failed")
	}
	if !New(1, 2, 3).Equal(NewFromSlice([]byte{1, 2, 3})) {
		t.Error("versions should be equal")
	}
}
