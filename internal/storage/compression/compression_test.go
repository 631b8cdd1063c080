package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"lz4", "none"}, Available())

	c, err := Get("lz4")
	require.NoError(t, err)
	assert.Equal(t, "lz4", c.Name())

	_, err = Get("zstd")
	assert.Error(t, err)
}

func TestLZ4RoundTrip(t *testing.T) {
	c := &LZ4Compressor{}
	cases := map[string][]byte{
		"empty":        {},
		"tiny":         []byte("ab"),
		"compressible": bytes.Repeat([]byte("ticket"), 200),
		"mixed":        append(bytes.Repeat([]byte{0}, 64), []byte("community-event-attendee")...),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			enc, err := c.Compress(in)
			require.NoError(t, err)
			out, err := c.Decompress(enc)
			require.NoError(t, err)
			assert.Equal(t, len(in), len(out))
			assert.True(t, bytes.Equal(in, out))
		})
	}
}

func TestLZ4Shrinks(t *testing.T) {
	c := &LZ4Compressor{}
	in := bytes.Repeat([]byte("A"), 4096)
	enc, err := c.Compress(in)
	require.NoError(t, err)
	assert.Equal(t, blockLZ4, enc[0])
	assert.Less(t, len(enc), len(in)/4)
}

func TestLZ4Corrupt(t *testing.T) {
	c := &LZ4Compressor{}
	_, err := c.Decompress([]byte{9})
	assert.ErrorIs(t, err, ErrCorrupt)
	_, err = c.Decompress([]byte{7, 1, 0})
	assert.ErrorIs(t, err, ErrCorrupt)
	_, err = c.Decompress([]byte{blockRaw, 5, 'a'})
	assert.ErrorIs(t, err, ErrCorrupt)
}
