package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

var ErrTrailingData = errors.New("trailing data after JSON value")

type Codec interface {
	Unmarshal(data []byte, v any) error
}

// JSONCodec decodes numbers as json.Number so integers stay integral when
// they are turned into terms. The input must hold exactly one JSON value.
type JSONCodec struct{}

func (JSONCodec) Unmarshal(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}
