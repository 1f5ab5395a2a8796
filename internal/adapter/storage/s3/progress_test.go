package s3

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_ReportsCumulativeBytes(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 10)

	var reports [][2]int64
	r := newProgressReader(bytes.NewReader(payload), int64(len(payload)), func(transferred, total int64) {
		reports = append(reports, [2]int64{transferred, total})
	})

	buf := make([]byte, 4)
	var read int
	for {
		n, err := r.Read(buf)
		read += n
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Equal(t, len(payload), read)
	require.NotEmpty(t, reports)
	last := reports[len(reports)-1]
	assert.Equal(t, int64(10), last[0])
	assert.Equal(t, int64(10), last[1])

	// transferred must be monotonically increasing
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i][0], reports[i-1][0])
	}
}

func TestProgressReader_NilCallbackPassesThrough(t *testing.T) {
	payload := []byte("hello")
	r := newProgressReader(bytes.NewReader(payload), int64(len(payload)), nil)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}
