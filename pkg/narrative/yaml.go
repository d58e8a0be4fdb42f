package narrative

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"
)

func decodeYAML(data []byte, c *Catalog) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}
