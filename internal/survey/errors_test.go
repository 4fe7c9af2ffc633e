package survey

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestLoadError_Kinds(t *testing.T) {
	src := NewSourceError(errors.New("connection refused"))
	assert.True(t, IsSourceUnavailable(src))
	assert.False(t, IsDataFormat(src))
	assert.Equal(t, "connection refused", src.Error())

	format := NewFormatError(eris.New("bad cast"))
	assert.True(t, IsDataFormat(format))
	assert.False(t, IsSourceUnavailable(format))
}

func TestLoadError_WrappedChain(t *testing.T) {
	base := errors.New("disk gone")
	err := fmt.Errorf("session: %w", NewSourceError(base))
	assert.True(t, IsSourceUnavailable(err))
	assert.ErrorIs(t, err, base)
}

func TestLoadError_PlainError(t *testing.T) {
	assert.False(t, IsSourceUnavailable(errors.New("x")))
	assert.False(t, IsDataFormat(nil))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "source unavailable", SourceUnavailable.String())
	assert.Equal(t, "data format", DataFormat.String())
	assert.Equal(t, "unknown(9)", ErrorKind(9).String())
}
