// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds generic slice helpers missing from [slices].
package slice

// Map applies fn to every element of in. A nil input stays nil.
func Map[T, U any](in []T, fn func(T) U) []U {
	if in == nil {
		return nil
	}

	out := make([]U, 0, len(in))
	for _, item := range in {
		out = append(out, fn(item))
	}
	return out
}
