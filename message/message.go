// Package message implements dicey packets: the Hello handshake, the Bye
// farewell and the five operation messages, together with their binary
// codec and a validating builder.
package message

import (
	"fmt"

	"github.com/zurutech/dicey-go/value"
)

// Kind discriminates the three packet categories on the wire.
type Kind byte

const (
	KindHello   Kind = 0x01
	KindBye     Kind = 0x02
	KindMessage Kind = 0x03
)

func (k Kind) String() string {
	switch k {
	case KindHello:
		return "hello"
	case KindBye:
		return "bye"
	case KindMessage:
		return "message"
	}
	return fmt.Sprintf("invalid(0x%02x)", byte(k))
}

// Op is the operation a message performs.
type Op byte

const (
	OpGet      Op = 0x01
	OpSet      Op = 0x02
	OpExec     Op = 0x03
	OpEvent    Op = 0x04
	OpResponse Op = 0x05
)

func (o Op) String() string {
	switch o {
	case OpGet:
		return "Get"
	case OpSet:
		return "Set"
	case OpExec:
		return "Exec"
	case OpEvent:
		return "Event"
	case OpResponse:
		return "Response"
	}
	return fmt.Sprintf("invalid(0x%02x)", byte(o))
}

func (o Op) valid() bool {
	return o >= OpGet && o <= OpResponse
}

// carriesValue reports whether messages with this op have a payload. Get
// is the only op without one.
func (o Op) carriesValue() bool {
	return o != OpGet
}

// ByeReason explains why a peer is going away.
type ByeReason byte

const (
	ReasonShutdown ByeReason = 0x01
	ReasonError    ByeReason = 0x02
)

func (r ByeReason) String() string {
	switch r {
	case ReasonShutdown:
		return "shutdown"
	case ReasonError:
		return "error"
	}
	return fmt.Sprintf("invalid(0x%02x)", byte(r))
}

// Version is the protocol revision exchanged during the Hello handshake.
type Version struct {
	Major    uint16
	Revision uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Revision)
}

// ProtocolVersion is the revision this library speaks.
var ProtocolVersion = Version{Major: 1, Revision: 0}

// Packet is one unit of the dicey wire protocol: *Hello, *Bye or *Message.
type Packet interface {
	GetSeq() uint32
	Dump() ([]byte, error)
	fmt.Stringer
}

// Hello opens a session; both peers send one carrying the protocol
// version they speak.
type Hello struct {
	Seq     uint32
	Version Version
}

func (h *Hello) GetSeq() uint32 { return h.Seq }

func (h *Hello) String() string {
	return fmt.Sprintf("Hello{seq: %d, version: %s}", h.Seq, h.Version)
}

// Bye closes a session.
type Bye struct {
	Seq    uint32
	Reason ByeReason
}

func (b *Bye) GetSeq() uint32 { return b.Seq }

func (b *Bye) String() string {
	return fmt.Sprintf("Bye{seq: %d, reason: %s}", b.Seq, b.Reason)
}

// Message targets an element of a trait on an object. Value is nil for
// Get and non-nil for every other op.
type Message struct {
	Op       Op
	Seq      uint32
	Path     string
	Selector value.Selector
	Value    value.Value
}

func (m *Message) GetSeq() uint32 { return m.Seq }

func (m *Message) String() string {
	if m.Value == nil {
		return fmt.Sprintf("%s{seq: %d, path: %s, selector: %s}", m.Op, m.Seq, m.Path, m.Selector)
	}
	return fmt.Sprintf("%s{seq: %d, path: %s, selector: %s, value: %s}", m.Op, m.Seq, m.Path, m.Selector, m.Value)
}
