package sessions

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpacahq/marketcal/exchanges"
	"github.com/alpacahq/marketcal/utils/date"
)

func TestPrint(t *testing.T) {
	t.Parallel()

	// --- given ---
	reg, err := exchanges.Registry()
	require.NoError(t, err)
	c, err := reg.Get("BVMF")
	require.NoError(t, err)
	ss, err := c.SessionsBetween(date.New(2016, 2, 10), date.New(2016, 2, 11))
	require.NoError(t, err)

	// --- when ---
	var buf bytes.Buffer
	Print(&buf, ss, time.UTC)

	// --- then ---
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "DATE"))
	assert.Contains(t, lines[1], "2016-02-10 15:00 UTC")
	assert.Contains(t, lines[1], "Quarta-feira de Cinzas")
	assert.Contains(t, lines[1], "4h0m0s")
	assert.Contains(t, lines[2], "2016-02-11 12:00 UTC")
	assert.Contains(t, lines[2], "7h0m0s")
	assert.False(t, strings.HasSuffix(lines[2], "Cinzas"))
}
