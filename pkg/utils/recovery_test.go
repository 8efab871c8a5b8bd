package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverAsError(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		fn := func() (err error) {
			defer RecoverAsError(&err)
			panic("fixture loader exploded")
		}

		err := fn()
		require.Error(t, err)

		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "fixture loader exploded", panicErr.Value)
		assert.NotEmpty(t, panicErr.StackTrace)
		assert.Equal(t, "panic: fixture loader exploded", err.Error())
	})

	t.Run("no error when no panic", func(t *testing.T) {
		fn := func() (err error) {
			defer RecoverAsError(&err)
			return nil
		}
		assert.NoError(t, fn())
	})

	t.Run("keeps the returned error", func(t *testing.T) {
		original := errors.New("network request failed")
		fn := func() (err error) {
			defer RecoverAsError(&err)
			return original
		}
		assert.Same(t, original, fn())
	})

	t.Run("unwraps error panics", func(t *testing.T) {
		sentinel := errors.New("bad snapshot")
		fn := func() (err error) {
			defer RecoverAsError(&err)
			panic(sentinel)
		}
		assert.ErrorIs(t, fn(), sentinel)
	})
}

func TestRecoverWithCallback(t *testing.T) {
	var got error
	func() {
		defer RecoverWithCallback(func(err error) { got = err })
		panic(42)
	}()
	require.Error(t, got)
	assert.Equal(t, "panic: 42", got.Error())

	assert.NotPanics(t, func() {
		defer RecoverWithCallback(nil)
		panic("ignored")
	})
}

func TestSafeGo(t *testing.T) {
	errCh := make(chan error, 1)
	SafeGo(func() {
		panic("watcher loop")
	}, func(err error) {
		errCh <- err
	})

	select {
	case err := <-errCh:
		var panicErr *PanicError
		assert.ErrorAs(t, err, &panicErr)
	case <-time.After(time.Second):
		t.Fatal("panic was not reported")
	}

	done := make(chan struct{})
	SafeGo(func() { close(done) }, func(error) { t.Error("unexpected panic") })
	<-done
}
