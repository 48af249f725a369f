package logio_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/jcorbin/gobf/internal/logio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var lines []string
	lw := &logio.Writer{Logf: func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}}

	_, err := io.WriteString(lw, "hel")
	require.NoError(t, err)
	assert.Empty(t, lines, "expected no complete line yet")

	_, err = io.WriteString(lw, "lo\n\x03tail")
	require.NoError(t, err)
	assert.Equal(t, []string{`"hello"`}, lines)

	require.NoError(t, lw.Close())
	assert.Equal(t, []string{`"hello"`, `"\x03tail"`}, lines)
}
