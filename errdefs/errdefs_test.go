package errdefs

import (
	"io"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCode(t *testing.T) {
	err := FromCode(-9)
	assert.Equal(t, ErrTimedOut, err)

	err = FromCode(1234)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
}

func TestCodesRoundTrip(t *testing.T) {
	for code, sentinel := range registry {
		assert.Equal(t, code, sentinel.Code())
		assert.Equal(t, sentinel, FromCode(code))
	}
}

func TestMapIO(t *testing.T) {
	assert.NoError(t, MapIO(nil))

	tests := []struct {
		in   error
		want *Error
	}{
		{in: io.EOF, want: ErrBadMessage},
		{in: io.ErrUnexpectedEOF, want: ErrBadMessage},
		{in: os.ErrNotExist, want: ErrFileNotFound},
		{in: os.ErrDeadlineExceeded, want: ErrTimedOut},
		{in: os.ErrClosed, want: ErrBrokenPipe},
		{in: errors.New("some transport issue"), want: ErrIO},
	}
	for _, tt := range tests {
		err := MapIO(tt.in)
		assert.True(t, errors.Is(err, tt.want), "%v should map to %s", tt.in, tt.want.Name())
	}
}

func TestWrappedComparisons(t *testing.T) {
	err := errors.Wrap(ErrTimedOut, "waiting for response")
	assert.True(t, errors.Is(err, ErrTimedOut))
	assert.EqualError(t, err, "waiting for response: request timed out")
}
