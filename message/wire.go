package message

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/zurutech/dicey-go/errdefs"
	"github.com/zurutech/dicey-go/strutil"
	"github.com/zurutech/dicey-go/value"
)

// MaxPathLen bounds object path content bytes, terminator excluded.
const MaxPathLen = 4096

// Dump serializes the packet: kind byte, little-endian seq, then the
// kind-specific body.
func (h *Hello) Dump() ([]byte, error) {
	var buf bytes.Buffer

	putHeader(&buf, KindHello, h.Seq)
	putU16(&buf, h.Version.Major)
	putU16(&buf, h.Version.Revision)
	return buf.Bytes(), nil
}

func (b *Bye) Dump() ([]byte, error) {
	switch b.Reason {
	case ReasonShutdown, ReasonError:
	default:
		return nil, errors.Wrapf(errdefs.ErrInvalidData, "bye reason %s", b.Reason)
	}

	var buf bytes.Buffer

	putHeader(&buf, KindBye, b.Seq)
	buf.WriteByte(byte(b.Reason))
	return buf.Bytes(), nil
}

func (m *Message) Dump() ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	putHeader(&buf, KindMessage, m.Seq)
	buf.WriteByte(byte(m.Op))

	buf.Write(strutil.CString(m.Path))
	buf.Write(strutil.CString(m.Selector.Trait))
	buf.Write(strutil.CString(m.Selector.Elem))

	if m.Op.carriesValue() {
		raw, err := value.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

func (m *Message) validate() error {
	if !m.Op.valid() {
		return errors.Wrapf(errdefs.ErrInvalidData, "op %s", m.Op)
	}
	if err := CheckPath(m.Path); err != nil {
		return err
	}
	if err := checkSelector(m.Selector); err != nil {
		return err
	}
	if m.Op.carriesValue() != (m.Value != nil) {
		if m.Op == OpGet {
			return errors.Wrap(errdefs.ErrInvalidData, "get messages carry no value")
		}
		return errors.Wrapf(errdefs.ErrInvalidData, "%s messages require a value", m.Op)
	}
	return nil
}

// CheckPath validates an object path: absolute, NUL-free and within the
// wire bound.
func CheckPath(path string) error {
	switch {
	case path == "" || path[0] != '/':
		return errors.Wrapf(errdefs.ErrMalformedPath, "path %q is not absolute", path)
	case strings.IndexByte(path, 0) >= 0:
		return errors.Wrapf(errdefs.ErrMalformedPath, "embedded NUL in path %q", path)
	case len(path) > MaxPathLen:
		return errors.Wrapf(errdefs.ErrMalformedPath, "path of %d bytes", len(path))
	}
	return nil
}

func checkSelector(sel value.Selector) error {
	if sel.Trait == "" || sel.Elem == "" {
		return errors.Wrap(errdefs.ErrInvalidData, "empty selector component")
	}
	if strings.IndexByte(sel.Trait, 0) >= 0 || strings.IndexByte(sel.Elem, 0) >= 0 {
		return errors.Wrapf(errdefs.ErrInvalidData, "embedded NUL in selector %s", sel)
	}
	return nil
}

// Load parses and validates one packet out of b, requiring the whole
// input to be consumed.
func Load(b []byte) (Packet, error) {
	r := value.NewReader(b)

	kind, err := r.U8()
	if err != nil {
		return nil, err
	}
	seq, err := r.U32()
	if err != nil {
		return nil, err
	}

	var pkt Packet
	switch Kind(kind) {
	case KindHello:
		major, err := r.U16()
		if err != nil {
			return nil, err
		}
		revision, err := r.U16()
		if err != nil {
			return nil, err
		}
		pkt = &Hello{Seq: seq, Version: Version{Major: major, Revision: revision}}

	case KindBye:
		reason, err := r.U8()
		if err != nil {
			return nil, err
		}
		switch ByeReason(reason) {
		case ReasonShutdown, ReasonError:
		default:
			return nil, errors.Wrapf(errdefs.ErrInvalidData, "bye reason 0x%02x", reason)
		}
		pkt = &Bye{Seq: seq, Reason: ByeReason(reason)}

	case KindMessage:
		msg, err := loadMessage(r, seq)
		if err != nil {
			return nil, err
		}
		pkt = msg

	default:
		return nil, errors.Wrapf(errdefs.ErrInvalidData, "packet kind 0x%02x", kind)
	}

	if r.Len() != 0 {
		return nil, errors.Wrapf(errdefs.ErrBadMessage, "%d trailing bytes after packet", r.Len())
	}
	return pkt, nil
}

func loadMessage(r *value.Reader, seq uint32) (*Message, error) {
	op, err := r.U8()
	if err != nil {
		return nil, err
	}

	path, err := r.CStr(MaxPathLen)
	if err != nil {
		return nil, err
	}
	trait, err := r.CStr(value.MaxStrLen)
	if err != nil {
		return nil, err
	}
	elem, err := r.CStr(value.MaxStrLen)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		Op:       Op(op),
		Seq:      seq,
		Path:     path,
		Selector: value.Selector{Trait: trait, Elem: elem},
	}

	if Op(op).carriesValue() && Op(op).valid() {
		if msg.Value, err = value.Decode(r); err != nil {
			return nil, err
		}
	}

	if err := msg.validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// LoadFrom parses a packet from a stream, reading it to the end.
func LoadFrom(rd io.Reader) (Packet, error) {
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, errdefs.MapIO(err)
	}
	return Load(b)
}

// LoadFile parses a packet dump from disk.
func LoadFile(path string) (Packet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.MapIO(err)
	}
	return Load(b)
}

func putHeader(buf *bytes.Buffer, kind Kind, seq uint32) {
	buf.WriteByte(byte(kind))

	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], seq)
	buf.Write(tmp[:])
}

func putU16(buf *bytes.Buffer, u uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], u)
	buf.Write(tmp[:])
}
