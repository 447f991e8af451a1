package utils

import (
	"fmt"
)

// FormatSequenceCode renders a human-readable code like EMP0007 or P-0007.
// Width 4 matches the codes issued since launch; existing longer codes
// still round-trip because Sprintf does not truncate.
func FormatSequenceCode(prefix string, number int) string {
	return fmt.Sprintf("%s%04d", prefix, number)
}

func DereferencePtr[T any](ptr *T, def T) T {
	if ptr == nil {
		return def
	}
	return *ptr
}

func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
