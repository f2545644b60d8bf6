// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued settings and query parameters.
package query

import "strings"

// List splits a comma-separated value into trimmed, non-empty entries.
// It returns nil for a blank input.
func List(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		if clean := strings.TrimSpace(v); clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
