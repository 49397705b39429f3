package cache

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"dashboard-cache/internal/common/errors"
)

// Wrapper carries a serialized value between tiers. The tiers only move
// bytes; whether those bytes are compressed is recorded here so the codec
// can reverse the transformation on read.
type Wrapper struct {
	Data         []byte `json:"data"`
	Compressed   bool   `json:"compressed"`
	OriginalSize int    `json:"original_size"`
}

// Codec serializes values to JSON and compresses the result with zstd once
// the serialized size exceeds the configured threshold. A threshold of zero
// compresses everything.
type Codec struct {
	threshold int
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewCodec creates a codec with the given compression threshold in bytes
func NewCodec(threshold int) (*Codec, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Codec{
		threshold: threshold,
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

// Encode serializes a value, compressing it when the serialized form exceeds
// the threshold. OriginalSize always records the pre-compression size.
func (c *Codec) Encode(value interface{}) (*Wrapper, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.SerializationError("failed to serialize value", err)
	}

	wrapper := &Wrapper{
		Data:         data,
		OriginalSize: len(data),
	}

	if len(data) >= c.threshold {
		wrapper.Data = c.encoder.EncodeAll(data, nil)
		wrapper.Compressed = true
	}

	return wrapper, nil
}

// Decode reverses compression if flagged and deserializes the value
func (c *Codec) Decode(wrapper *Wrapper) (interface{}, error) {
	data := wrapper.Data

	if wrapper.Compressed {
		decompressed, err := c.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress payload: %w", err)
		}
		data = decompressed
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to deserialize payload: %w", err)
	}

	return value, nil
}
