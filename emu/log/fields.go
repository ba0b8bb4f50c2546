package log

import (
	"fmt"
	"strconv"
	"strings"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeStringer
)

// ZField is a typed log field. Only the value member matching Type is
// populated, so that building an entry doesn't allocate.
type ZField struct {
	Type FieldType
	Key  string

	String    string
	Integer   uint64
	Error     error
	Interface fmt.Stringer
	Boolean   bool
}

// hexWidth is the number of digits of bus-sized hex fields.
func (t FieldType) hexWidth() int {
	switch t {
	case FieldTypeHex8:
		return 2
	case FieldTypeHex16:
		return 4
	}
	return 0
}

// Value formats the field the way it appears in the log output. Bytes and
// addresses are zero-padded lowercase hex, as in CPU traces.
func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Boolean)
	case FieldTypeString:
		return f.String
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeHex8, FieldTypeHex16:
		s := strconv.FormatUint(f.Integer, 16)
		if pad := f.Type.hexWidth() - len(s); pad > 0 {
			s = strings.Repeat("0", pad) + s
		}
		return s
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeStringer:
		if f.Interface == nil {
			return "<nil>"
		}
		return f.Interface.String()
	}
	return ""
}
