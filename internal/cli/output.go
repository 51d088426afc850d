package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/vvakame/gqlir/internal/diagnostics"
)

// ErrDiagnostics is returned by commands after the diagnostics of the input
// were written.
var ErrDiagnostics = errors.New("documents have errors")

type diagnosticOutput struct {
	Message  string             `json:"message" yaml:"message"`
	Code     string             `json:"code,omitempty" yaml:"code,omitempty"`
	Location string             `json:"location" yaml:"location"`
	Related  []annotationOutput `json:"related,omitempty" yaml:"related,omitempty"`
}

type annotationOutput struct {
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
	Location string `json:"location" yaml:"location"`
}

type outputFormatter struct {
	format string
	writer io.Writer
}

func (f *outputFormatter) write(v interface{}) error {
	var b []byte
	var err error
	switch f.format {
	case "json":
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	case "yaml":
		b, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported format %q", f.format)
	}
	if err != nil {
		return err
	}
	_, err = f.writer.Write(b)
	return err
}

// writeError writes the diagnostics carried by err and returns
// ErrDiagnostics, or returns err untouched when it carries none.
func (f *outputFormatter) writeError(err error) error {
	ds, ok := diagnostics.FromError(err)
	if !ok {
		return err
	}

	if f.format == "text" {
		for _, d := range ds {
			fmt.Fprintln(f.writer, d.Error())
		}
		return ErrDiagnostics
	}

	output := make([]diagnosticOutput, 0, len(ds))
	for _, d := range ds {
		o := diagnosticOutput{
			Message:  d.Message,
			Code:     d.Code,
			Location: d.Location.String(),
		}
		for _, related := range d.Related {
			o.Related = append(o.Related, annotationOutput{
				Message:  related.Message,
				Location: related.Location.String(),
			})
		}
		output = append(output, o)
	}
	if err := f.write(map[string]interface{}{"errors": output}); err != nil {
		return err
	}
	return ErrDiagnostics
}
