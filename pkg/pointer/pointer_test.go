// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinema/pkg/pointer"
)

func TestPointer(t *testing.T) {
	p := pointer.To("walker")
	assert.Equal(t, "walker", *p)

	assert.Equal(t, "walker", pointer.Fallback(p, "smith"))
	assert.Equal(t, "smith", pointer.Fallback[string](nil, "smith"))
}
