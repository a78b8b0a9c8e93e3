package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnCode(t *testing.T) {
	specific := ErrInsufficientFunds.WithMessage("need %s more", "10.00")

	assert.True(t, stderrors.Is(specific, ErrInsufficientFunds))
	assert.Equal(t, "need 10.00 more", specific.Error())
	assert.False(t, stderrors.Is(specific, ErrInsufficientLocked))
}

func TestWrapAndKind(t *testing.T) {
	raw := stderrors.New("connection reset")
	wrapped := Wrap(raw)

	assert.Equal(t, KindPersistence, KindOf(wrapped))
	assert.True(t, stderrors.Is(wrapped, raw))

	domain := fmt.Errorf("withdrawal: %w", ErrRequestNotPending)
	assert.Same(t, domain, Wrap(domain))
	assert.Equal(t, KindConflict, KindOf(domain))
	assert.Nil(t, Wrap(nil))
}
