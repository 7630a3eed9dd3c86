package utils

import (
	"math/rand"
	"strconv"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

var seeded = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandomAlphabetString returns a lower case string of length n. Not suitable
// for secrets.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[seeded.Intn(len(alphabet))]
	}
	return string(b)
}

// DedupStrings keeps the first occurrence of every element, preserving order.
func DedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	res := []string{}
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		res = append(res, s)
	}
	return res
}

// ParseIntOrDefault parses s as a non-negative int, falling back to def.
func ParseIntOrDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return def
	}
	return v
}
