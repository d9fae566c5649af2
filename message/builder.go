package message

import (
	"github.com/zurutech/dicey-go/value"
)

// Builder assembles a Message field by field. Setters always chain;
// validation happens once at Build, mirroring Dump's rules.
type Builder struct {
	msg Message
}

// NewBuilder starts a message of the given op.
func NewBuilder(op Op) *Builder {
	return &Builder{msg: Message{Op: op}}
}

func (b *Builder) Seq(seq uint32) *Builder {
	b.msg.Seq = seq
	return b
}

func (b *Builder) Path(path string) *Builder {
	b.msg.Path = path
	return b
}

func (b *Builder) Selector(trait, elem string) *Builder {
	b.msg.Selector = value.Selector{Trait: trait, Elem: elem}
	return b
}

func (b *Builder) Value(v value.Value) *Builder {
	b.msg.Value = v
	return b
}

// Build validates the assembled message and returns it. The builder can
// be reused afterwards; the returned message is a copy.
func (b *Builder) Build() (*Message, error) {
	msg := b.msg
	if err := msg.validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
