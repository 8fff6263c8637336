//go:build windows

package sockapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func unsafePointerInt32(v *int32) unsafe.Pointer { return unsafe.Pointer(v) }
func unsafePointerLinger(v *windows.Linger) unsafe.Pointer { return unsafe.Pointer(v) }

// fdSetSingle places h as the sole member of an fd_set, the shape
// windows.Select expects.
func fdSetSingle(set *windows.FdSet, h Handle) {
	set.Count = 1
	set.Array[0] = windows.Handle(h)
}

// fdIsSet reports whether h is present in set after a Select call.
func fdIsSet(set *windows.FdSet, h Handle) bool {
	for i := uint32(0); i < set.Count; i++ {
		if set.Array[i] == windows.Handle(h) {
			return true
		}
	}
	return false
}
