package value

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zurutech/dicey-go/errdefs"
	"github.com/zurutech/dicey-go/strutil"
)

// Wire limits. Strings and paths are NUL-terminated on the wire, so the
// decoder scans for the terminator with a hard bound instead of trusting
// the peer to have included one.
const (
	// MaxStrLen bounds the content bytes of any string, path or selector
	// component, terminator excluded.
	MaxStrLen = 64 << 10

	// MaxItems bounds array and tuple arity.
	MaxItems = math.MaxUint16
)

// Marshal serializes v into its tagged binary form.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes exactly one value out of b, requiring the whole input
// to be consumed.
func Unmarshal(b []byte) (Value, error) {
	r := &Reader{buf: b}

	v, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.Wrapf(errdefs.ErrBadMessage, "%d trailing bytes after value", r.Len())
	}
	return v, nil
}

func encode(buf *bytes.Buffer, v Value) error {
	if v == nil {
		return errors.Wrap(errdefs.ErrInvalidData, "nil value")
	}

	buf.WriteByte(byte(v.Kind()))

	switch v := v.(type) {
	case Unit:

	case Bool:
		if v {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}

	case Byte:
		buf.WriteByte(uint8(v))

	case Float:
		putU64(buf, math.Float64bits(float64(v)))

	case Int16:
		putU16(buf, uint16(v))
	case Int32:
		putU32(buf, uint32(v))
	case Int64:
		putU64(buf, uint64(v))
	case UInt16:
		putU16(buf, uint16(v))
	case UInt32:
		putU32(buf, uint32(v))
	case UInt64:
		putU64(buf, uint64(v))

	case Array:
		if !v.Elem.valid() {
			return errors.Wrapf(errdefs.ErrInvalidData, "array of %s", v.Elem)
		}
		if len(v.Items) > MaxItems {
			return errors.Wrapf(errdefs.ErrOverflow, "array of %d items", len(v.Items))
		}
		buf.WriteByte(byte(v.Elem))
		putU16(buf, uint16(len(v.Items)))
		for _, item := range v.Items {
			if item == nil || item.Kind() != v.Elem {
				return errors.Wrapf(errdefs.ErrValueTypeMismatch, "array of %s holds %s", v.Elem, kindOf(item))
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}

	case Tuple:
		if len(v) > MaxItems {
			return errors.Wrapf(errdefs.ErrOverflow, "tuple of %d items", len(v))
		}
		putU16(buf, uint16(len(v)))
		for _, item := range v {
			if err := encode(buf, item); err != nil {
				return err
			}
		}

	case Pair:
		if err := encode(buf, v.First); err != nil {
			return err
		}
		if err := encode(buf, v.Second); err != nil {
			return err
		}

	case Bytes:
		if uint64(len(v)) > math.MaxUint32 {
			return errors.Wrapf(errdefs.ErrOverflow, "%d byte payload", len(v))
		}
		putU32(buf, uint32(len(v)))
		buf.Write(v)

	case Str:
		return putCStr(buf, string(v), errdefs.ErrInvalidData)

	case UUID:
		buf.Write(v[:])

	case Path:
		return putCStr(buf, string(v), errdefs.ErrMalformedPath)

	case Selector:
		if err := putCStr(buf, v.Trait, errdefs.ErrInvalidData); err != nil {
			return err
		}
		return putCStr(buf, v.Elem, errdefs.ErrInvalidData)

	case ErrorMessage:
		putU16(buf, uint16(v.Code))
		if v.Message == "" {
			buf.WriteByte(0)
			return nil
		}
		buf.WriteByte(1)
		return putCStr(buf, v.Message, errdefs.ErrInvalidData)

	default:
		return errors.Wrapf(errdefs.ErrInvalidData, "unknown value type %T", v)
	}

	return nil
}

// Decode reads one tagged value from r.
func Decode(r *Reader) (Value, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}

	switch Type(tag) {
	case TypeUnit:
		return Unit{}, nil

	case TypeBool:
		b, err := r.U8()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return Bool(false), nil
		case 1:
			return Bool(true), nil
		}
		return nil, errors.Wrapf(errdefs.ErrBadMessage, "bool byte 0x%02x", b)

	case TypeByte:
		b, err := r.U8()
		return Byte(b), err

	case TypeFloat:
		u, err := r.U64()
		return Float(math.Float64frombits(u)), err

	case TypeInt16:
		u, err := r.U16()
		return Int16(u), err
	case TypeInt32:
		u, err := r.U32()
		return Int32(u), err
	case TypeInt64:
		u, err := r.U64()
		return Int64(u), err
	case TypeUInt16:
		u, err := r.U16()
		return UInt16(u), err
	case TypeUInt32:
		u, err := r.U32()
		return UInt32(u), err
	case TypeUInt64:
		u, err := r.U64()
		return UInt64(u), err

	case TypeArray:
		elem, err := r.U8()
		if err != nil {
			return nil, err
		}
		if !Type(elem).valid() {
			return nil, errors.Wrapf(errdefs.ErrBadMessage, "array of invalid type 0x%02x", elem)
		}
		count, err := r.U16()
		if err != nil {
			return nil, err
		}
		items := make([]Value, 0, count)
		for i := 0; i < int(count); i++ {
			item, err := Decode(r)
			if err != nil {
				return nil, err
			}
			if item.Kind() != Type(elem) {
				return nil, errors.Wrapf(errdefs.ErrBadMessage, "array of %s holds %s", Type(elem), item.Kind())
			}
			items = append(items, item)
		}
		return Array{Elem: Type(elem), Items: items}, nil

	case TypeTuple:
		count, err := r.U16()
		if err != nil {
			return nil, err
		}
		items := make(Tuple, 0, count)
		for i := 0; i < int(count); i++ {
			item, err := Decode(r)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case TypePair:
		first, err := Decode(r)
		if err != nil {
			return nil, err
		}
		second, err := Decode(r)
		if err != nil {
			return nil, err
		}
		return Pair{First: first, Second: second}, nil

	case TypeBytes:
		n, err := r.U32()
		if err != nil {
			return nil, err
		}
		raw, err := r.Take(int(n))
		if err != nil {
			return nil, err
		}
		return Bytes(strutil.Clone(raw)), nil

	case TypeStr:
		s, err := r.CStr(MaxStrLen)
		return Str(s), err

	case TypeUUID:
		raw, err := r.Take(16)
		if err != nil {
			return nil, err
		}
		var u uuid.UUID
		copy(u[:], raw)
		return UUID(u), nil

	case TypePath:
		s, err := r.CStr(MaxStrLen)
		return Path(s), err

	case TypeSelector:
		trait, err := r.CStr(MaxStrLen)
		if err != nil {
			return nil, err
		}
		elem, err := r.CStr(MaxStrLen)
		if err != nil {
			return nil, err
		}
		return Selector{Trait: trait, Elem: elem}, nil

	case TypeError:
		code, err := r.U16()
		if err != nil {
			return nil, err
		}
		present, err := r.U8()
		if err != nil {
			return nil, err
		}
		msg := ""
		switch present {
		case 0:
		case 1:
			if msg, err = r.CStr(MaxStrLen); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Wrapf(errdefs.ErrBadMessage, "error message flag 0x%02x", present)
		}
		return ErrorMessage{Code: int16(code), Message: msg}, nil
	}

	return nil, errors.Wrapf(errdefs.ErrBadMessage, "unknown value tag 0x%02x", tag)
}

func kindOf(v Value) Type {
	if v == nil {
		return TypeInvalid
	}
	return v.Kind()
}

func putU16(buf *bytes.Buffer, u uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], u)
	buf.Write(tmp[:])
}

func putU32(buf *bytes.Buffer, u uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], u)
	buf.Write(tmp[:])
}

func putU64(buf *bytes.Buffer, u uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], u)
	buf.Write(tmp[:])
}

func putCStr(buf *bytes.Buffer, s string, kind error) error {
	if strings.IndexByte(s, 0) >= 0 {
		return errors.Wrapf(kind, "embedded NUL in %q", s)
	}
	if len(s) > MaxStrLen {
		return errors.Wrapf(errdefs.ErrOverflow, "string of %d bytes", len(s))
	}
	buf.Write(strutil.CString(s))
	return nil
}

// Reader is a bounds-checked cursor over a packet body. The message
// package shares it to parse headers before handing the tail to Decode.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps b without copying it.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Len reports the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Take consumes the next n bytes. The returned slice aliases the input.
func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, errors.Wrapf(errdefs.ErrBadMessage, "need %d bytes, have %d", n, r.Len())
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.Take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// CStr consumes a NUL-terminated string of at most max content bytes. The
// scan never inspects more than max+1 bytes, terminator or not.
func (r *Reader) CStr(max int) (string, error) {
	rem := r.buf[r.off:]

	bound := max + 1
	if bound > len(rem) {
		bound = len(rem)
	}

	n := strutil.LenN(rem, bound)
	if n == bound {
		return "", errors.Wrap(errdefs.ErrBadMessage, "missing string terminator")
	}

	s := strutil.GoString(strutil.DupN(rem, bound))
	r.off += n + 1
	return s, nil
}
