// pkg/sync/sync_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skiselkov/libradio/pkg/log"
)

func TestLockUnlockBasic(t *testing.T) {
	lg := log.Disabled()
	m := New("test")
	m.Lock(lg)
	m.Unlock(lg)
}

func TestLockExcludesConcurrentAccess(t *testing.T) {
	lg := log.Disabled()
	m := New("test")
	var counter int
	var wg sync.WaitGroup
	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.Lock(lg)
			counter++
			m.Unlock(lg)
		}()
	}
	wg.Wait()
	require.Equal(t, n, counter)
}
