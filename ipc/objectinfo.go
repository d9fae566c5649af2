package ipc

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/zurutech/dicey-go/errdefs"
	"github.com/zurutech/dicey-go/value"
)

// ElementKind discriminates trait members.
type ElementKind byte

const (
	ElementOperation ElementKind = 0x01
	ElementProperty  ElementKind = 0x02
	ElementSignal    ElementKind = 0x03
)

func (k ElementKind) String() string {
	switch k {
	case ElementOperation:
		return "operation"
	case ElementProperty:
		return "property"
	case ElementSignal:
		return "signal"
	}
	return "invalid"
}

// Element is one member of a trait. ReadOnly is meaningful for
// properties only.
type Element struct {
	Kind      ElementKind
	Signature string
	ReadOnly  bool
}

// Elements maps member names to their descriptions.
type Elements map[string]Element

func (e Elements) filter(kind ElementKind) []string {
	var names []string
	for name, el := range e {
		if el.Kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Operations lists the operation members, sorted by name.
func (e Elements) Operations() []string { return e.filter(ElementOperation) }

// Properties lists the property members, sorted by name.
func (e Elements) Properties() []string { return e.filter(ElementProperty) }

// Signals lists the signal members, sorted by name.
func (e Elements) Signals() []string { return e.filter(ElementSignal) }

// ObjectInfo describes the traits an object implements.
type ObjectInfo struct {
	Path   string
	Traits map[string]Elements
}

// DecodeObjectInfo parses the introspection Data property: an array of
// (trait name, array of (member name, (kind, signature[, readonly])))
// pairs.
func DecodeObjectInfo(path string, v value.Value) (*ObjectInfo, error) {
	traitList, err := value.AsArray(v)
	if err != nil {
		return nil, err
	}

	traits := make(map[string]Elements, len(traitList.Items))
	for _, item := range traitList.Items {
		pair, err := value.AsPair(item)
		if err != nil {
			return nil, err
		}

		name, err := value.AsString(pair.First)
		if err != nil {
			return nil, err
		}

		memberList, err := value.AsArray(pair.Second)
		if err != nil {
			return nil, err
		}

		elements := make(Elements, len(memberList.Items))
		for _, member := range memberList.Items {
			mpair, err := value.AsPair(member)
			if err != nil {
				return nil, err
			}

			mname, err := value.AsString(mpair.First)
			if err != nil {
				return nil, err
			}

			element, err := decodeElement(mpair.Second)
			if err != nil {
				return nil, errors.Wrapf(err, "member %s of trait %s", mname, name)
			}
			elements[mname] = element
		}

		traits[name] = elements
	}

	return &ObjectInfo{Path: path, Traits: traits}, nil
}

// decodeElement parses a (kind byte, signature[, readonly]) tuple.
func decodeElement(v value.Value) (Element, error) {
	tuple, err := value.AsTuple(v)
	if err != nil {
		return Element{}, err
	}
	if len(tuple) != 2 && len(tuple) != 3 {
		return Element{}, errors.Wrapf(errdefs.ErrValueTypeMismatch, "element tuple of arity %d", len(tuple))
	}

	kind, err := value.AsByte(tuple[0])
	if err != nil {
		return Element{}, err
	}
	sig, err := value.AsString(tuple[1])
	if err != nil {
		return Element{}, err
	}

	readonly := false
	if len(tuple) == 3 {
		if readonly, err = value.AsBool(tuple[2]); err != nil {
			return Element{}, err
		}
	}

	switch ElementKind(kind) {
	case ElementOperation, ElementProperty, ElementSignal:
	default:
		return Element{}, errors.Wrapf(errdefs.ErrBadMessage, "element kind 0x%02x", kind)
	}

	return Element{Kind: ElementKind(kind), Signature: sig, ReadOnly: readonly}, nil
}
