// Package output renders command results as text, JSON or YAML on stdout.
// Logs never go through this package; they stay on stderr.
package output

import (
	"encoding/json"
	"io"

	cerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// JSONTo writes any data structure as indented JSON to w.
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return cerr.Wrap(encoder.Encode(data), "encode json")
}

// YAMLTo writes any data structure as YAML to w.
func YAMLTo(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return cerr.Wrap(err, "encode yaml")
	}
	return cerr.Wrap(encoder.Close(), "encode yaml")
}
