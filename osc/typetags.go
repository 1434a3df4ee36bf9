package osc

import "fmt"

// TypeTag is a single OSC type tag character.
type TypeTag byte

const (
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeString  TypeTag = 's'
	TypeBlob    TypeTag = 'b'
	TypeInvalid TypeTag = 0
)

// Valid reports whether t is one of the supported tags.
func (t TypeTag) Valid() bool {
	switch t {
	case TypeInt32, TypeFloat32, TypeString, TypeBlob:
		return true
	default:
		return false
	}
}

// Argument is an OSC message argument. It is implemented only by Int32,
// Float32, String and Blob.
type Argument interface {
	TypeTag() TypeTag
	argument()
}

// Int32 is an 'i' argument.
type Int32 int32

// Float32 is an 'f' argument.
type Float32 float32

// String is an 's' argument. It must not contain NUL bytes.
type String string

// Blob is a 'b' argument.
type Blob []byte

func (Int32) TypeTag() TypeTag   { return TypeInt32 }
func (Float32) TypeTag() TypeTag { return TypeFloat32 }
func (String) TypeTag() TypeTag  { return TypeString }
func (Blob) TypeTag() TypeTag    { return TypeBlob }

func (Int32) argument()   {}
func (Float32) argument() {}
func (String) argument()  {}
func (Blob) argument()    {}

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument is nil.
func ToTypeTag(arg Argument) TypeTag {
	switch arg.(type) {
	case Int32:
		return TypeInt32
	case Float32:
		return TypeFloat32
	case String:
		return TypeString
	case Blob:
		return TypeBlob
	default:
		return TypeInvalid
	}
}

// GetTypeTag returns the OSC type tag string for the given arguments,
// including the leading ','.
func GetTypeTag(args []Argument) (string, error) {
	tt := make([]byte, 1, len(args)+1)
	tt[0] = ','
	for _, a := range args {
		t := ToTypeTag(a)
		if t == TypeInvalid {
			return "", paramsErrorf("GetTypeTag: unsupported argument: %T", a)
		}
		tt = append(tt, byte(t))
	}
	return string(tt), nil
}

// argString returns a readable form of an argument, used by Message.String.
func argString(a Argument) string {
	switch a := a.(type) {
	case Int32:
		return fmt.Sprintf("%d", int32(a))
	case Float32:
		return fmt.Sprintf("%g", float32(a))
	case String:
		return string(a)
	case Blob:
		return fmt.Sprintf("blob(%d)", len(a))
	default:
		return "<nil>"
	}
}
