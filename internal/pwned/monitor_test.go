package pwned

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorDebouncesRapidInput(t *testing.T) {
	var checks atomic.Int32
	check := func(_ context.Context, password string) (Result, error) {
		checks.Add(1)
		return Result{Checked: true, Count: int64(len(password))}, nil
	}
	m := NewMonitor(check, 30*time.Millisecond)
	defer m.Close()

	// One keystroke at a time, faster than the quiet period.
	for _, pw := range []string{"s", "se", "sec", "secr", "secret"} {
		m.Update(pw)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case v := <-m.Verdicts():
		require.NoError(t, v.Err)
		assert.Equal(t, "secret", v.Password, "only the final input is checked")
	case <-time.After(time.Second):
		t.Fatal("no verdict delivered")
	}
	assert.Equal(t, int32(1), checks.Load(), "intermediate inputs must not trigger checks")
}

func TestMonitorDiscardsSupersededResults(t *testing.T) {
	// The first check is slow, the second fast: the first completes after
	// the second and must be dropped.
	check := func(_ context.Context, password string) (Result, error) {
		if password == "abc" {
			time.Sleep(150 * time.Millisecond)
			return Result{Checked: true, Count: 111}, nil
		}
		return Result{Checked: true, Count: 222}, nil
	}
	m := NewMonitor(check, 10*time.Millisecond)
	defer m.Close()

	m.Update("abc")
	time.Sleep(30 * time.Millisecond) // let the slow check launch
	m.Update("abcd")

	deadline := time.After(time.Second)
	var got Verdict
	select {
	case got = <-m.Verdicts():
	case <-deadline:
		t.Fatal("no verdict delivered")
	}
	assert.Equal(t, "abcd", got.Password)
	assert.Equal(t, int64(222), got.Result.Count)

	// Give the slow check time to finish; nothing further may arrive.
	time.Sleep(200 * time.Millisecond)
	select {
	case v := <-m.Verdicts():
		t.Fatalf("stale verdict for %q delivered", v.Password)
	default:
	}
}

func TestMonitorSurfacesErrors(t *testing.T) {
	check := func(_ context.Context, _ string) (Result, error) {
		return Result{}, context.DeadlineExceeded
	}
	m := NewMonitor(check, 10*time.Millisecond)
	defer m.Close()

	m.Update("secret")
	select {
	case v := <-m.Verdicts():
		assert.Error(t, v.Err, "failures must present as could-not-verify")
	case <-time.After(time.Second):
		t.Fatal("no verdict delivered")
	}
}
