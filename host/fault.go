package host

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"

	"github.com/reglet-dev/pate/domain/entities"
)

// moduleError is a failed import of a named module.
type moduleError struct {
	err     error
	name    string
	invalid bool
}

func (e *moduleError) Error() string {
	if e.invalid {
		return fmt.Sprintf("invalid module name %q", e.name)
	}
	return fmt.Sprintf("import %s: %v", e.name, e.err)
}

func (e *moduleError) Unwrap() error {
	return e.err
}

// FaultFromError normalizes an error returned by the VM into a Fault.
func FaultFromError(err error) entities.Fault {
	var (
		modErr *moduleError
		exc    *goja.Exception
		intr   *goja.InterruptedError
		syn    *goja.CompilerSyntaxError
	)

	switch {
	case err == nil:
		return entities.Fault{}
	case errors.As(err, &modErr) && modErr.invalid:
		return entities.Fault{TypeName: entities.FaultType, Message: fmt.Sprintf("Invalid module name '%s'", modErr.name)}
	case errors.Is(err, require.InvalidModuleError) && errors.As(err, &modErr):
		return entities.Fault{TypeName: entities.FaultError, Message: fmt.Sprintf("Cannot find module '%s'", modErr.name)}
	case errors.As(err, &exc):
		return faultFromException(exc)
	case errors.As(err, &intr):
		return entities.Fault{TypeName: "InterruptedError", Message: intr.Error()}
	case errors.As(err, &syn):
		return entities.Fault{TypeName: "SyntaxError", Message: syn.Error()}
	}
	return entities.Fault{TypeName: entities.FaultError, Message: err.Error()}
}

func faultFromException(exc *goja.Exception) entities.Fault {
	f := entities.Fault{Frames: framesOf(exc.Stack())}

	switch val := exc.Value().(type) {
	case nil:
		f.Message = exc.Error()
	case *goja.Object:
		f.TypeName = propString(val, "name")
		if msg := val.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			f.Message = msg.String()
		} else {
			f.Message = val.String()
		}
	default:
		f.Message = val.String()
	}
	return f
}

// framesOf converts a VM stack (most recent first) into frames ordered most
// recent last.
func framesOf(stack []goja.StackFrame) []entities.Frame {
	if len(stack) == 0 {
		return nil
	}
	frames := make([]entities.Frame, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		sf := stack[i]
		pos := sf.Position()
		frames = append(frames, entities.Frame{
			File:     sf.SrcName(),
			Function: sf.FuncName(),
			Line:     pos.Line,
			Column:   pos.Column,
		})
	}
	return frames
}

func propString(obj *goja.Object, name string) string {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// Raise sets the pending fault, replacing any fault already pending.
func (s *Scope) Raise(f entities.Fault) {
	s.it.fault = &f
}

// Raisef raises a fault of the given type with a formatted message.
func (s *Scope) Raisef(typeName, format string, args ...any) {
	s.Raise(entities.Fault{TypeName: typeName, Message: fmt.Sprintf(format, args...)})
}

// RaiseError normalizes err and makes it the pending fault.
func (s *Scope) RaiseError(err error) {
	s.Raise(FaultFromError(err))
}

// FetchFault returns and clears the pending fault.
func (s *Scope) FetchFault() (entities.Fault, bool) {
	f := s.it.fault
	s.it.fault = nil
	if f == nil {
		return entities.Fault{}, false
	}
	return *f, true
}

// FaultPending reports whether a fault is waiting to be fetched.
func (s *Scope) FaultPending() bool {
	return s.it.fault != nil
}
