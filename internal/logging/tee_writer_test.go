package logging

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestTeeWriter_Write(t *testing.T) {
	first := &strings.Builder{}
	first.WriteString("rotated|")
	second := &strings.Builder{}

	tw := newTeeWriter(first, second)
	n, err := tw.Write([]byte("level=info msg=one\n"))
	require.NoError(t, err)
	assert.Equal(t, len("level=info msg=one\n"), n)

	_, err = tw.Write([]byte("level=info msg=two\n"))
	require.NoError(t, err)

	assert.Equal(t, "rotated|level=info msg=one\nlevel=info msg=two\n", first.String())
	assert.Equal(t, "level=info msg=one\nlevel=info msg=two\n", second.String())
}

func TestTeeWriter_Write_OneOutputFails(t *testing.T) {
	sb := &strings.Builder{}
	tw := newTeeWriter(brokenWriter{}, sb)

	n, err := tw.Write([]byte("msg"))
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 3, n)
	assert.Equal(t, "msg", sb.String())
}
