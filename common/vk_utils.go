package common

import (
	"bytes"
	"encoding/binary"
	"log"
	"unsafe"
)

// Provides general helper functions for comparisons and conversions

// AllOfAinB comparison function to ensure a given list is fully contained in another. This is
// mainly used to check for extension and layer support during the initialization process.
func AllOfAinB(a []string, b []string) bool {
	return len(MissingInB(a, b)) == 0
}

// MissingInB returns every entry of a that is not part of b, keeping the order of a.
func MissingInB(a []string, b []string) []string {
	var missing []string
	for _, _a := range a {
		isIn := false
		for _, _b := range b {
			if _a == _b {
				isIn = true
				break
			}
		}
		if !isIn {
			missing = append(missing, _a)
		}
	}
	return missing
}

// RawBytes writes a given object as its byte representation voiding all type information in the process
// this is mainly used to be able to put data into vk.Memcopy
func RawBytes(p interface{}) []byte {
	buf := new(bytes.Buffer)
	err := binary.Write(buf, binary.LittleEndian, p)
	if err != nil {
		log.Printf("binary.Write failed: %v", err)
	}
	return buf.Bytes()
}

// TerminatedStr ensures the given string is \x00 terminated as vulkan expects this in certain structs
func TerminatedStr(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

// TerminatedStrs returns a terminated copy of strs, the input is left untouched.
func TerminatedStrs(strs []string) []string {
	out := make([]string, len(strs))
	for i := range strs {
		out[i] = TerminatedStr(strs[i])
	}
	return out
}

// AsUint32Arr reinterprets a []byte as []uint32 without copying. It is only used to construct
// shader modules, where SPIR-V words are handed to the driver as is. Trailing bytes that do not
// fill a whole word are dropped.
func AsUint32Arr(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
