package entities

import "strings"

// Frame is one entry of a guest call stack.
type Frame struct {
	File     string `json:"file"`
	Function string `json:"name"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Fault is a normalized guest exception: the error type name, its message
// and the stack frames it unwound through, most recent last.
type Fault struct {
	TypeName string  `json:"type"`
	Message  string  `json:"message"`
	Frames   []Frame `json:"frames,omitempty"`
}

// Summary renders the fault as "TypeName: message".
// A fault without a type name renders only its message.
func (f Fault) Summary() string {
	if f.TypeName == "" {
		return f.Message
	}
	return f.TypeName + ": " + f.Message
}

// IsZero reports whether the fault carries no information at all.
func (f Fault) IsZero() bool {
	return f.TypeName == "" && f.Message == "" && len(f.Frames) == 0
}

// Is reports whether the fault has the given type name.
func (f Fault) Is(typeName string) bool {
	return strings.EqualFold(f.TypeName, typeName)
}

// Well-known fault type names raised by the bridge itself.
const (
	FaultError     = "Error"
	FaultType      = "TypeError"
	FaultReference = "ReferenceError"
	FaultRange     = "RangeError"
	FaultKey       = "KeyError"
)
