package binary

import (
	"crypto/ed25519"
	"fmt"
)

const (
	// DiscriminatorSize is the size of the tag prefixed to every Anchor account
	DiscriminatorSize = 8

	optionFlagSize = 1
	lengthSize     = 4
	uint64Size     = 8
)

// Kind is the primitive kind of a schema field
type Kind uint8

const (
	KindUnknown Kind = iota
	KindU64
	KindKey32
	KindString
	KindOption
	KindVec
)

func (k Kind) String() string {
	switch k {
	case KindU64:
		return "u64"
	case KindKey32:
		return "key32"
	case KindString:
		return "string"
	case KindOption:
		return "option"
	case KindVec:
		return "vec"
	}
	return "unknown"
}

// Type describes how a single value is laid out. Option and Vec types carry
// the type of the wrapped element.
type Type struct {
	Kind Kind
	Elem *Type
}

var (
	// U64 is an 8 byte little-endian unsigned integer
	U64 = Type{Kind: KindU64}

	// Key32 is a 32 byte public key
	Key32 = Type{Kind: KindKey32}

	// String is a u32 little-endian length followed by that many UTF-8 bytes
	String = Type{Kind: KindString}
)

// Option is a 1 byte flag followed by the element only when the flag is set
func Option(elem Type) Type {
	return Type{Kind: KindOption, Elem: &elem}
}

// Vec is a u32 little-endian count followed by that many elements
func Vec(elem Type) Type {
	return Type{Kind: KindVec, Elem: &elem}
}

func (t Type) String() string {
	switch t.Kind {
	case KindOption, KindVec:
		if t.Elem == nil {
			return fmt.Sprintf("%s<?>", t.Kind)
		}
		return fmt.Sprintf("%s<%s>", t.Kind, t.Elem.String())
	}
	return t.Kind.String()
}

// minSize is the smallest number of bytes a value of this type can occupy
func (t Type) minSize() int {
	switch t.Kind {
	case KindU64:
		return uint64Size
	case KindKey32:
		return ed25519.PublicKeySize
	case KindString, KindVec:
		return lengthSize
	case KindOption:
		return optionFlagSize
	}
	return 0
}

// Field is a named entry in a Schema
type Field struct {
	Name string
	Type Type
}

// Schema is an ordered list of fields
type Schema []Field

// MinSize returns the number of bytes required by the schema when every
// option is absent and every string and vector is empty.
func (s Schema) MinSize() int {
	var size int
	for _, f := range s {
		size += f.Type.minSize()
	}
	return size
}
