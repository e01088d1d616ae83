package helpers

import (
	"bytes"
	"slices"
	"unsafe"
)

func IndexOfAny(in []rune, find []rune) int {
	// special case
	if len(find) == 0 {
		return -1
	}
	// naive version
	for i, c := range in {
		if slices.Contains(find, c) {
			return i
		}
	}
	return -1
}

func IndexOfAny1(in []rune, find rune) int {
	return slices.Index(in, find)
}

func IndexFunc(in []rune, f func(ch rune) bool) int {
	for i := range in {
		if f(in[i]) {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the first instance of find in in, or -1.
// An empty find matches at 0.
func IndexOf(in []rune, find []rune) int {
	if len(find) == 0 {
		return 0
	}
	if len(find) == 1 {
		return IndexOfAny1(in, find[0])
	}
	end := len(in) - len(find)
	first := find[0]
	lastOffset := len(find) - 1
	last := find[lastOffset]
	for i := 0; i <= end; i++ {
		// match start and end...check the middle
		if in[i] == first && in[i+lastOffset] == last {
			// found our first char
			// check if the rest are equal
			if bytesEqual(in[i:i+len(find)], find) {
				return i
			}
		}
	}

	//not found
	return -1
}

func StartsWith(in []rune, find []rune) bool {
	// if text is less than our "begin" then can't find it
	if len(in) < len(find) {
		return false
	}
	if len(find) == 0 {
		return true
	}

	return bytesEqual(in[:len(find)], find)
}

// internal function, assumes the bounds are already set right on the slices for equality
// casts the rune slices to bytes to use framework fast []byte comparison
func bytesEqual(a, b []rune) bool {
	bytesA := unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), len(a)*4)
	bytesB := unsafe.Slice((*byte)(unsafe.Pointer(&b[0])), len(b)*4)
	return bytes.Equal(bytesA, bytesB)
}

func Equals(in []rune, start int, length int, find []rune) bool {
	if length != len(find) || start+length > len(in) {
		return false
	}
	if length == 0 {
		return true
	}
	return bytesEqual(in[start:start+length], find)
}
