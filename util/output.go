package util

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// WriteYAML renders data as YAML to the writer.
func WriteYAML(w io.Writer, data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "problem rendering yaml")
	}

	_, err = w.Write(out)
	return errors.WithStack(err)
}

// Fprintln writes a line to w and discards the byte count; summary
// tables use it heavily.
func Fprintln(w io.Writer, a ...interface{}) error {
	_, err := fmt.Fprintln(w, a...)
	return errors.WithStack(err)
}
