package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
)

var (
	ConfigValue        collcodec.ValueCodec[Config]        = jsonValueCodec[Config]{}
	ParamsValue        collcodec.ValueCodec[Params]        = jsonValueCodec[Params]{}
	StateValue         collcodec.ValueCodec[State]         = jsonValueCodec[State]{}
	BatchValue         collcodec.ValueCodec[Batch]         = jsonValueCodec[Batch]{}
	UnbondHistoryValue collcodec.ValueCodec[UnbondHistory] = jsonValueCodec[UnbondHistory]{}
)

// jsonValueCodec stores vault records as canonical JSON. math.Int and
// math.LegacyDec both marshal to decimal strings, so encoding is lossless.
type jsonValueCodec[T any] struct{}

func (jsonValueCodec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonValueCodec[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, err
	}

	return value, nil
}

func (c jsonValueCodec[T]) EncodeJSON(value T) ([]byte, error) {
	return c.Encode(value)
}

func (c jsonValueCodec[T]) DecodeJSON(b []byte) (T, error) {
	return c.Decode(b)
}

func (c jsonValueCodec[T]) Stringify(value T) string {
	bz, err := c.Encode(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(bz)
}

func (jsonValueCodec[T]) ValueType() string {
	var value T
	return fmt.Sprintf("vault/json/%T", value)
}
