package engine

import (
	"reflect"
	"unsafe"

	"github.com/zeebo/xxh3"
)

// typeHash hashes the two words of a reflect.Type interface value. The
// runtime canonicalizes type descriptors, so equal keys always carry
// identical words and hash identically.
func typeHash(key reflect.Type) uint64 {
	strKey := *(*string)(unsafe.Pointer(&struct {
		data unsafe.Pointer
		len  int
	}{unsafe.Pointer(&key), int(unsafe.Sizeof(key))}))

	return xxh3.HashString(strKey)
}
