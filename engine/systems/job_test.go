package systems

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidates(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestRunAllCollectsErrorsInOrder(t *testing.T) {
	js, err := NewJobSystem(3, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	boom := errors.New("boom")
	var ran atomic.Int32
	fns := make([]func() error, 8)
	for i := range fns {
		fns[i] = func() error {
			ran.Add(1)
			if i == 5 {
				return boom
			}
			return nil
		}
	}

	errs := js.RunAll("test", fns...)
	assert.Equal(t, int32(8), ran.Load())
	require.Len(t, errs, 8)
	for i, err := range errs {
		if i == 5 {
			assert.ErrorIs(t, err, boom)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestShutdownDrainsQueue(t *testing.T) {
	js, err := NewJobSystem(1, 4)
	require.NoError(t, err)

	var done atomic.Int32
	for i := 0; i < 4; i++ {
		js.Submit(Job{Name: "count", Run: func() error { return nil }, OnComplete: func() { done.Add(1) }})
	}
	require.NoError(t, js.Shutdown())
	assert.Equal(t, int32(4), done.Load())
}
