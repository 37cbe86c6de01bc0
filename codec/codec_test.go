package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ID    uint64            `json:"id"`
	Title string            `json:"title"`
	Tags  []string          `json:"tags"`
	Attrs map[string]string `json:"attrs"`
}

func TestCodec_RoundTrip(t *testing.T) {
	in := samplePayload{
		ID:    42,
		Title: "hello",
		Tags:  []string{"a", "b"},
		Attrs: map[string]string{"lang": "en"},
	}

	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)

		b, err := c.Marshal(in)
		require.NoError(t, err)

		var out samplePayload
		require.NoError(t, c.Unmarshal(b, &out))
		assert.Equal(t, in, out)
	}
}

func TestCodec_DeterministicMapOutput(t *testing.T) {
	// Cache keys depend on map serialization being order independent.
	v := map[string]any{"b": 2, "a": 1, "c": "x"}

	for _, name := range []string{"json", "go-json"} {
		c, _ := ByName(name)
		first := MustMarshal(c, v)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, MustMarshal(c, v), name)
		}
	}
}

func TestCodec_ByNameUnknown(t *testing.T) {
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}
