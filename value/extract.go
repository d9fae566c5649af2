package value

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zurutech/dicey-go/errdefs"
)

func mismatch(want Type, got Value) error {
	return errors.Wrapf(errdefs.ErrValueTypeMismatch, "want %s, got %s", want, got.Kind())
}

// AsUnit succeeds only on the unit value.
func AsUnit(v Value) error {
	if _, ok := v.(Unit); !ok {
		return mismatch(TypeUnit, v)
	}
	return nil
}

func AsBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, mismatch(TypeBool, v)
	}
	return bool(b), nil
}

func AsByte(v Value) (uint8, error) {
	b, ok := v.(Byte)
	if !ok {
		return 0, mismatch(TypeByte, v)
	}
	return uint8(b), nil
}

func AsFloat(v Value) (float64, error) {
	f, ok := v.(Float)
	if !ok {
		return 0, mismatch(TypeFloat, v)
	}
	return float64(f), nil
}

func AsInt16(v Value) (int16, error) {
	i, ok := v.(Int16)
	if !ok {
		return 0, mismatch(TypeInt16, v)
	}
	return int16(i), nil
}

func AsInt32(v Value) (int32, error) {
	i, ok := v.(Int32)
	if !ok {
		return 0, mismatch(TypeInt32, v)
	}
	return int32(i), nil
}

func AsInt64(v Value) (int64, error) {
	i, ok := v.(Int64)
	if !ok {
		return 0, mismatch(TypeInt64, v)
	}
	return int64(i), nil
}

func AsUInt16(v Value) (uint16, error) {
	u, ok := v.(UInt16)
	if !ok {
		return 0, mismatch(TypeUInt16, v)
	}
	return uint16(u), nil
}

func AsUInt32(v Value) (uint32, error) {
	u, ok := v.(UInt32)
	if !ok {
		return 0, mismatch(TypeUInt32, v)
	}
	return uint32(u), nil
}

func AsUInt64(v Value) (uint64, error) {
	u, ok := v.(UInt64)
	if !ok {
		return 0, mismatch(TypeUInt64, v)
	}
	return uint64(u), nil
}

func AsArray(v Value) (Array, error) {
	a, ok := v.(Array)
	if !ok {
		return Array{}, mismatch(TypeArray, v)
	}
	return a, nil
}

func AsTuple(v Value) (Tuple, error) {
	t, ok := v.(Tuple)
	if !ok {
		return nil, mismatch(TypeTuple, v)
	}
	return t, nil
}

func AsPair(v Value) (Pair, error) {
	p, ok := v.(Pair)
	if !ok {
		return Pair{}, mismatch(TypePair, v)
	}
	return p, nil
}

func AsBytes(v Value) ([]byte, error) {
	b, ok := v.(Bytes)
	if !ok {
		return nil, mismatch(TypeBytes, v)
	}
	return []byte(b), nil
}

func AsString(v Value) (string, error) {
	s, ok := v.(Str)
	if !ok {
		return "", mismatch(TypeStr, v)
	}
	return string(s), nil
}

func AsUUID(v Value) (uuid.UUID, error) {
	u, ok := v.(UUID)
	if !ok {
		return uuid.UUID{}, mismatch(TypeUUID, v)
	}
	return uuid.UUID(u), nil
}

func AsPath(v Value) (string, error) {
	p, ok := v.(Path)
	if !ok {
		return "", mismatch(TypePath, v)
	}
	return string(p), nil
}

func AsSelector(v Value) (Selector, error) {
	s, ok := v.(Selector)
	if !ok {
		return Selector{}, mismatch(TypeSelector, v)
	}
	return s, nil
}

// AsError extracts a wire error payload. Note that a successful extraction
// still represents a remote failure; see ErrorMessage.Unwrap.
func AsError(v Value) (ErrorMessage, error) {
	e, ok := v.(ErrorMessage)
	if !ok {
		return ErrorMessage{}, mismatch(TypeError, v)
	}
	return e, nil
}

// Remote turns an ErrorMessage into a Go error rooted in the errdefs table.
func (e ErrorMessage) Remote() error {
	err := errdefs.FromCode(e.Code)
	if e.Message != "" {
		return errors.Wrap(err, e.Message)
	}
	return err
}
