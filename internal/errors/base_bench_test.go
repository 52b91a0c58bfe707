package errors

import (
	"errors"
	"testing"
)

var errWrapped = errors.New("wrapped error")

func BenchmarkWrap(b *testing.B) {
	b.Run("wrap nil", func(b *testing.B) {
		for b.Loop() {
			err := Wrap(nil, "apply nil")
			_ = err
		}
	})

	b.Run("wrap error", func(b *testing.B) {
		for b.Loop() {
			err := Wrap(errWrapped, "apply fill")
			_ = err.Error()
		}
	})

	b.Run("wrapf error", func(b *testing.B) {
		for b.Loop() {
			err := Wrapf(errWrapped, "apply fill %s", "T-1")
			_ = err.Error()
		}
	})

	b.Run("is wrapped", func(b *testing.B) {
		err := Wrap(Wrap(errWrapped, "position"), "engine")
		for b.Loop() {
			_ = Is(err, errWrapped)
		}
	})
}
