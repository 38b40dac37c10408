package utils

import (
	"math/rand"
	"strconv"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// ContainsUint returns true iff hay contains needle.
func ContainsUint(hay []uint, needle uint) bool {
	for _, id := range hay {
		if id == needle {
			return true
		}
	}
	return false
}

// RandomAlphabetString returns n random lower case letters.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// UintToString formats an entity id, e.g. for redis keys.
func UintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
