package bridge

import (
	"reflect"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/reglet-dev/pate/host"
)

// textCodec reads guest strings as host UTF-8 text.
type textCodec interface {
	decode(s goja.Value) string
}

func newTextCodec(caps host.TextCaps) textCodec {
	if caps.CodeUnits {
		return unitCodec{}
	}
	return plainCodec{}
}

// plainCodec relies on the VM's own string conversion.
type plainCodec struct{}

func (plainCodec) decode(v goja.Value) string {
	return v.String()
}

// unitCodec classifies a string by its widest UTF-16 code unit and
// transcodes it accordingly: ASCII as is, Latin-1 through ISO 8859-1, the
// rest as UTF-16 including surrogate pairs.
type unitCodec struct{}

const (
	widthASCII = iota
	widthLatin1
	widthUTF16
)

func (unitCodec) decode(v goja.Value) string {
	s, ok := v.(goja.String)
	if !ok {
		return v.String()
	}
	n := s.Length()

	width := widthASCII
	for i := 0; i < n && width != widthUTF16; i++ {
		switch c := s.CharAt(i); {
		case c > 0xFF:
			width = widthUTF16
		case c > 0x7F:
			width = widthLatin1
		}
	}

	switch width {
	case widthASCII:
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(s.CharAt(i))
		}
		return string(buf)
	case widthLatin1:
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(s.CharAt(i))
		}
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(buf)
		if err != nil {
			return v.String()
		}
		return string(out)
	}

	buf := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		c := s.CharAt(i)
		buf[2*i] = byte(c)
		buf[2*i+1] = byte(c >> 8)
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(buf)
	if err != nil {
		return v.String()
	}
	return string(out)
}

var stringType = reflect.TypeOf("")

// isText reports whether v is a guest string or String object.
func isText(v goja.Value) bool {
	if v == nil {
		return false
	}
	if obj, ok := v.(*goja.Object); ok {
		return obj.ClassName() == "String"
	}
	return v.ExportType() == stringType
}

func (b *Bridge) fromText(v goja.Value) string {
	if !isText(v) {
		return ""
	}
	if obj, ok := v.(*goja.Object); ok {
		v = obj.ToString()
	}
	return b.codec.decode(v)
}

// ToText converts host text to an owned guest string.
func (b *Bridge) ToText(s string) *Value {
	return b.owned(b.vm.ToValue(s))
}

// FromText converts a guest string to host text. Non-text values yield "".
func (b *Bridge) FromText(v *Value) string {
	return b.fromText(v.Raw())
}

// IsText reports whether v holds a guest string.
func (b *Bridge) IsText(v *Value) bool {
	return isText(v.Raw())
}

// typeOf names the guest type of v for fault messages.
func typeOf(v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "null"
	}
	if obj, ok := v.(*goja.Object); ok {
		if _, ok := goja.AssertFunction(obj); ok {
			return "function"
		}
		return obj.ClassName()
	}
	if _, ok := v.(*goja.Symbol); ok {
		return "symbol"
	}
	t := v.ExportType()
	if t == nil {
		return "unknown"
	}
	return strings.ToLower(t.Kind().String())
}
