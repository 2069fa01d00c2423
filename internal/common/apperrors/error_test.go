package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHierarchy(t *testing.T) {
	base := New("claim error").SetStatusCode(http.StatusInternalServerError)
	child := base.New("already claimed").SetStatusCode(http.StatusConflict)
	grandchild := child.New("strip already claimed")

	assert.True(t, errors.Is(child, base))
	assert.True(t, errors.Is(grandchild, child))
	assert.True(t, errors.Is(grandchild, base))
	assert.False(t, errors.Is(base, child))

	assert.Equal(t, http.StatusConflict, child.StatusCode())
	assert.Equal(t, http.StatusConflict, grandchild.StatusCode())
}

func TestMsgDoesNotMutateSentinel(t *testing.T) {
	sentinel := New("not found").SetStatusCode(http.StatusNotFound)
	annotated := sentinel.Msg("strip-7 not found")

	assert.Equal(t, "not found", sentinel.Error())
	assert.Equal(t, "strip-7 not found", annotated.Error())
	assert.True(t, errors.Is(annotated, sentinel))
}

func TestErrAndUnwrap(t *testing.T) {
	sentinel := New("store error")
	cause := fmt.Errorf("connection refused")
	wrapped := sentinel.Err(cause)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Contains(t, wrapped.Unwrap(), cause)
}

func TestErrorAllExpansion(t *testing.T) {
	sentinel := New("store error").SetExpandError(true)
	wrapped := sentinel.MsgErr("claim failed", errors.New("timeout"), errors.New("retry exhausted"))

	assert.Equal(t, "claim failed", wrapped.Error())
	assert.Equal(t, "claim failed: timeout;retry exhausted", wrapped.ErrorAll())
}
