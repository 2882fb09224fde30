package entry

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"
)

// ErrTypeMismatch is returned when stored bytes carry another entry type.
var ErrTypeMismatch = errors.New("entry type mismatch")

var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.Canonical = true
	return h
}()

// Marshal validates e and encodes it as a 2-byte big-endian type tag
// followed by its msgpack body.
func Marshal(e Entry) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Type(), err)
	}
	var body []byte
	if err := codec.NewEncoderBytes(&body, msgpackHandle).Encode(e); err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	out := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(e.Type()))
	return append(out, body...), nil
}

// Unmarshal decodes data into e, rejecting bytes tagged with another type.
func Unmarshal(data []byte, e Entry) error {
	t, err := PeekType(data)
	if err != nil {
		return err
	}
	if t != e.Type() {
		return fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, t, e.Type())
	}
	if err := codec.NewDecoderBytes(data[2:], msgpackHandle).Decode(e); err != nil {
		return fmt.Errorf("decode %s: %w", e.Type(), err)
	}
	return nil
}

// PeekType returns the type tag of an encoded entry.
func PeekType(data []byte) (Type, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("entry too short: %d bytes", len(data))
	}
	return Type(binary.BigEndian.Uint16(data[:2])), nil
}
