package utils

import (
	"strconv"
	"strings"
)

// JoinKeys encodes a list of key components into one signature string. Every
// component is length-prefixed, so component content can never forge a
// component boundary; the encoding is injective over component lists.
func JoinKeys(keys []string) string {
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(strconv.Itoa(len(k)))
		sb.WriteByte(':')
		sb.WriteString(k)
	}
	return sb.String()
}

// DuplicateIndices scans keys in order and returns the positions of entries
// whose key was already seen. The first occurrence of every key is kept.
func DuplicateIndices(keys []string) []int {
	seen := make(map[string]struct{}, len(keys))
	var dup []int
	for i, k := range keys {
		if _, ok := seen[k]; ok {
			dup = append(dup, i)
			continue
		}
		seen[k] = struct{}{}
	}
	return dup
}

// CountDistinct returns the number of distinct keys.
func CountDistinct(keys []string) int {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	return len(seen)
}
