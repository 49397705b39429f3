package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard-cache/internal/common/errors"
)

func TestCodec_RoundTripRaw(t *testing.T) {
	codec, err := NewCodec(1024)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value interface{}
		want  interface{}
	}{
		{"string", "hello", "hello"},
		{"number", 42.5, 42.5},
		{"bool", true, true},
		{"map", map[string]interface{}{"a": "b"}, map[string]interface{}{"a": "b"}},
		{"slice", []interface{}{"x", "y"}, []interface{}{"x", "y"}},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapper, err := codec.Encode(tt.value)
			require.NoError(t, err)
			assert.False(t, wrapper.Compressed)
			assert.Equal(t, len(wrapper.Data), wrapper.OriginalSize)

			got, err := codec.Decode(wrapper)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_RoundTripCompressed(t *testing.T) {
	codec, err := NewCodec(64)
	require.NoError(t, err)

	value := strings.Repeat("dashboard payload ", 100)

	wrapper, err := codec.Encode(value)
	require.NoError(t, err)
	assert.True(t, wrapper.Compressed)
	assert.Greater(t, wrapper.OriginalSize, 64)
	assert.Less(t, len(wrapper.Data), wrapper.OriginalSize, "repetitive payload should shrink")

	got, err := codec.Decode(wrapper)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestCodec_EncodeUnserializable(t *testing.T) {
	codec, err := NewCodec(1024)
	require.NoError(t, err)

	_, err = codec.Encode(make(chan int))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSerialization))
}

func TestCodec_DecodeCorrupt(t *testing.T) {
	codec, err := NewCodec(1024)
	require.NoError(t, err)

	t.Run("bad compressed bytes", func(t *testing.T) {
		_, err := codec.Decode(&Wrapper{Data: []byte("not zstd"), Compressed: true})
		assert.Error(t, err)
	})

	t.Run("bad json bytes", func(t *testing.T) {
		_, err := codec.Decode(&Wrapper{Data: []byte("{truncated")})
		assert.Error(t, err)
	})
}

func TestCodec_ZeroThresholdCompressesEverything(t *testing.T) {
	codec, err := NewCodec(0)
	require.NoError(t, err)

	wrapper, err := codec.Encode("x")
	require.NoError(t, err)
	assert.True(t, wrapper.Compressed)

	got, err := codec.Decode(wrapper)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}
