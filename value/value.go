// Package value implements the dicey typed value model: the nineteen wire
// types a message payload can carry, plus their binary codec.
package value

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type tags a value on the wire. The tag bytes are part of the protocol
// and must not be reordered.
type Type byte

const (
	TypeInvalid Type = 0x00

	TypeUnit     Type = 0x01
	TypeBool     Type = 0x02
	TypeByte     Type = 0x03
	TypeFloat    Type = 0x04
	TypeInt16    Type = 0x05
	TypeInt32    Type = 0x06
	TypeInt64    Type = 0x07
	TypeUInt16   Type = 0x08
	TypeUInt32   Type = 0x09
	TypeUInt64   Type = 0x0a
	TypeArray    Type = 0x0b
	TypeTuple    Type = 0x0c
	TypePair     Type = 0x0d
	TypeBytes    Type = 0x0e
	TypeStr      Type = 0x0f
	TypeUUID     Type = 0x10
	TypePath     Type = 0x11
	TypeSelector Type = 0x12
	TypeError    Type = 0x13
)

var typeNames = map[Type]string{
	TypeUnit:     "unit",
	TypeBool:     "bool",
	TypeByte:     "byte",
	TypeFloat:    "float",
	TypeInt16:    "i16",
	TypeInt32:    "i32",
	TypeInt64:    "i64",
	TypeUInt16:   "u16",
	TypeUInt32:   "u32",
	TypeUInt64:   "u64",
	TypeArray:    "array",
	TypeTuple:    "tuple",
	TypePair:     "pair",
	TypeBytes:    "bytes",
	TypeStr:      "str",
	TypeUUID:     "uuid",
	TypePath:     "path",
	TypeSelector: "selector",
	TypeError:    "error",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("invalid(0x%02x)", byte(t))
}

func (t Type) valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Value is one decoded wire value. The concrete types below are the only
// implementations.
type Value interface {
	Kind() Type
	fmt.Stringer
}

// Unit is the empty value; Set responses and successful subscriptions
// carry it.
type Unit struct{}

func (Unit) Kind() Type     { return TypeUnit }
func (Unit) String() string { return "()" }

type Bool bool

func (Bool) Kind() Type       { return TypeBool }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

type Byte uint8

func (Byte) Kind() Type       { return TypeByte }
func (b Byte) String() string { return fmt.Sprintf("0x%02x", uint8(b)) }

type Float float64

func (Float) Kind() Type       { return TypeFloat }
func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }

type Int16 int16

func (Int16) Kind() Type       { return TypeInt16 }
func (i Int16) String() string { return fmt.Sprintf("%d", int16(i)) }

type Int32 int32

func (Int32) Kind() Type       { return TypeInt32 }
func (i Int32) String() string { return fmt.Sprintf("%d", int32(i)) }

type Int64 int64

func (Int64) Kind() Type       { return TypeInt64 }
func (i Int64) String() string { return fmt.Sprintf("%d", int64(i)) }

type UInt16 uint16

func (UInt16) Kind() Type       { return TypeUInt16 }
func (u UInt16) String() string { return fmt.Sprintf("%d", uint16(u)) }

type UInt32 uint32

func (UInt32) Kind() Type       { return TypeUInt32 }
func (u UInt32) String() string { return fmt.Sprintf("%d", uint32(u)) }

type UInt64 uint64

func (UInt64) Kind() Type       { return TypeUInt64 }
func (u UInt64) String() string { return fmt.Sprintf("%d", uint64(u)) }

// Array is a homogeneous list. Elem is the kind every item must have;
// empty arrays still carry it so the element type survives the wire.
type Array struct {
	Elem  Type
	Items []Value
}

func (Array) Kind() Type { return TypeArray }

func (a Array) String() string {
	return fmt.Sprintf("[%s]{%s}", a.Elem, joinValues(a.Items))
}

// Tuple is a heterogeneous, fixed-arity sequence.
type Tuple []Value

func (Tuple) Kind() Type { return TypeTuple }

func (t Tuple) String() string {
	return "(" + joinValues(t) + ")"
}

// Pair is a two-element value, used for map-like payloads.
type Pair struct {
	First  Value
	Second Value
}

func (Pair) Kind() Type { return TypePair }

func (p Pair) String() string {
	return fmt.Sprintf("{%s: %s}", p.First, p.Second)
}

type Bytes []byte

func (Bytes) Kind() Type       { return TypeBytes }
func (b Bytes) String() string { return fmt.Sprintf("bytes(%d)", len(b)) }

type Str string

func (Str) Kind() Type       { return TypeStr }
func (s Str) String() string { return fmt.Sprintf("%q", string(s)) }

type UUID uuid.UUID

func (UUID) Kind() Type       { return TypeUUID }
func (u UUID) String() string { return uuid.UUID(u).String() }

// Path names an object in the server's object tree. Paths are absolute,
// '/'-separated and NUL-free.
type Path string

func (Path) Kind() Type       { return TypePath }
func (p Path) String() string { return string(p) }

// Selector addresses an element of a trait, e.g. dicey.Introspection#Data.
type Selector struct {
	Trait string
	Elem  string
}

func (Selector) Kind() Type { return TypeSelector }

func (s Selector) String() string {
	return s.Trait + "#" + s.Elem
}

// ErrorMessage is the coded error payload a server returns in place of a
// result. An empty Message means the server sent none.
type ErrorMessage struct {
	Code    int16
	Message string
}

func (ErrorMessage) Kind() Type { return TypeError }

func (e ErrorMessage) String() string {
	if e.Message == "" {
		return fmt.Sprintf("error(%d)", e.Code)
	}
	return fmt.Sprintf("error(%d: %s)", e.Code, e.Message)
}

func joinValues(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}
