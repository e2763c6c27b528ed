package binary

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrFieldType     = errors.New("unexpected field type")
)

// Record is the result of decoding a buffer against a Schema. Fields retain
// schema order.
type Record struct {
	names  []string
	values map[string]interface{}
	size   int
}

// Names returns the field names in schema order
func (r Record) Names() []string {
	return r.names
}

// Size returns the number of bytes consumed while decoding
func (r Record) Size() int {
	return r.size
}

// Value returns the raw decoded value for a field
func (r Record) Value(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r Record) Uint64(name string) (uint64, error) {
	v, err := r.get(name)
	if err != nil {
		return 0, err
	}

	typed, ok := v.(uint64)
	if !ok {
		return 0, errors.Wrapf(ErrFieldType, "%s is %T", name, v)
	}
	return typed, nil
}

// OptionalUint64 returns nil when the option flag was unset
func (r Record) OptionalUint64(name string) (*uint64, error) {
	v, err := r.get(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	typed, ok := v.(uint64)
	if !ok {
		return nil, errors.Wrapf(ErrFieldType, "%s is %T", name, v)
	}
	return &typed, nil
}

func (r Record) Key(name string) (ed25519.PublicKey, error) {
	v, err := r.get(name)
	if err != nil {
		return nil, err
	}

	typed, ok := v.(ed25519.PublicKey)
	if !ok {
		return nil, errors.Wrapf(ErrFieldType, "%s is %T", name, v)
	}
	return typed, nil
}

// OptionalKey returns nil when the option flag was unset
func (r Record) OptionalKey(name string) (ed25519.PublicKey, error) {
	v, err := r.get(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return r.Key(name)
}

func (r Record) String(name string) (string, error) {
	v, err := r.get(name)
	if err != nil {
		return "", err
	}

	typed, ok := v.(string)
	if !ok {
		return "", errors.Wrapf(ErrFieldType, "%s is %T", name, v)
	}
	return typed, nil
}

// Strings returns a decoded Vec<String>. An empty vector yields an empty,
// non-nil slice.
func (r Record) Strings(name string) ([]string, error) {
	v, err := r.get(name)
	if err != nil {
		return nil, err
	}

	elems, ok := v.([]interface{})
	if !ok {
		return nil, errors.Wrapf(ErrFieldType, "%s is %T", name, v)
	}

	res := make([]string, len(elems))
	for i, elem := range elems {
		s, ok := elem.(string)
		if !ok {
			return nil, errors.Wrapf(ErrFieldType, "%s[%d] is %T", name, i, elem)
		}
		res[i] = s
	}
	return res, nil
}

func (r Record) get(name string) (interface{}, error) {
	v, ok := r.values[name]
	if !ok {
		return nil, errors.Wrap(ErrFieldNotFound, name)
	}
	return v, nil
}
