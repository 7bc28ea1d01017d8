package bridge

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

const tracebackHeader = "Traceback (most recent call last):\n"

// Traceback fetches and clears the pending fault and turns it into the
// record returned by LastTraceback:
//
//	Traceback (most recent call last):
//	  File "pate.js", line 3, column 9, in run
//	TypeError: x is not a function
//	No result from pate.run
//
// The header and frame lines appear only when the fault carries frames. The
// record is logged at ERROR level. Without a pending fault the record is
// cleared and nothing is logged.
func (b *Bridge) Traceback(description string) {
	b.capture(description)
}

func (b *Bridge) capture(description string) *errors.FaultError {
	b.traceback = ""

	f, ok := b.scope.FetchFault()
	if !ok {
		return &errors.FaultError{Description: description}
	}

	var sb strings.Builder
	if len(f.Frames) > 0 {
		sb.WriteString(tracebackHeader)
		for _, line := range b.formatFrames(f.Frames) {
			sb.WriteString(line)
		}
	}
	sb.WriteString(f.Summary())
	sb.WriteByte('\n')
	sb.WriteString(description)

	b.traceback = sb.String()
	b.logger.Error(b.traceback)

	return &errors.FaultError{Fault: f, Description: description, Traceback: b.traceback}
}

// formatFrames renders frames through the guest formatter. A failing
// formatter yields no lines and its own fault is discarded.
func (b *Bridge) formatFrames(frames []entities.Frame) []string {
	items := make([]interface{}, len(frames))
	for i, fr := range frames {
		obj := b.vm.NewObject()
		_ = obj.Set("file", fr.File)
		_ = obj.Set("line", fr.Line)
		_ = obj.Set("column", fr.Column)
		_ = obj.Set("name", fr.Function)
		items[i] = obj
	}

	res, failed := b.invoke("format_tb", b.names.Formatter, []goja.Value{b.vm.NewArray(items...)})
	if failed != 0 {
		b.scope.FetchFault()
		return nil
	}

	values, ok := b.arrayItems(res)
	if !ok {
		b.scope.FetchFault()
		return nil
	}
	lines := make([]string, 0, len(values))
	for _, v := range values {
		lines = append(lines, b.fromText(v))
	}
	return lines
}
