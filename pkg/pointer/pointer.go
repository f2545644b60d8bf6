// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with optional fields: admin list filters are built
// with [To] and partial profile updates are merged with [Fallback].
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Fallback returns *p, or current when the field was omitted (p is nil).
func Fallback[T any](p *T, current T) T {
	if p != nil {
		return *p
	}
	return current
}
