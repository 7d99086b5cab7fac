package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, Is(e3, e2))
}

func TestWrapLeavesSentinelUntouched(t *testing.T) {
	sentinel := New("not found")
	wrapped := sentinel.Wrap(fmt.Errorf("underlying"))
	assert.True(t, Is(wrapped, sentinel))
	assert.Nil(t, sentinel.Unwrap())
	assert.Equal(t, "not found", wrapped.Error())
}

func TestWrapMessage(t *testing.T) {
	sentinel := New("storage failure")
	wrapped := sentinel.WrapMessage("put %q: %v", "some/key", "boom")
	assert.True(t, Is(wrapped, sentinel))
	assert.Contains(t, wrapped.Unwrap().Error(), "some/key")
}
