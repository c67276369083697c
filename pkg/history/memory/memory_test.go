// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"testing"

	"github.com/leseb/doctext/pkg/history"
	"github.com/leseb/doctext/pkg/history/historytest"
	"github.com/leseb/doctext/pkg/history/memory"
)

func TestMemoryConformance(t *testing.T) {
	historytest.RunConformanceTests(t, func(t *testing.T) history.Store {
		return memory.New()
	})
}
