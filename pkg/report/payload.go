package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/matzehuels/tallyprint/pkg/errors"
	"github.com/matzehuels/tallyprint/pkg/tally"
)

// MaxPayloadBytes bounds payload files.
const MaxPayloadBytes = 1 << 20

// Payload is one observation record.
type Payload struct {
	ID     string       `json:"id,omitempty"`
	Name   string       `json:"name"`
	Counts tally.Counts `json:"counts"`
	// Narratives are per-record copy fragments layered over the catalog.
	// Keys are shape keys, or section-qualified keys such as "dominant.R".
	Narratives map[string]string `json:"narratives,omitempty"`
}

// DefaultName stands in for the subject in narrative copy when a payload
// carries no name.
const DefaultName = "This person"

// DisplayName returns the trimmed name, or [DefaultName] when it is blank.
func (p Payload) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return DefaultName
}

// ParsePayload decodes a JSON payload. Counts are coerced leniently; unknown
// top-level fields are rejected.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if len(data) > MaxPayloadBytes {
		return p, errors.New(errors.ErrCodeInvalidPayload, "payload exceeds %d bytes", MaxPayloadBytes)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode payload")
	}
	if err := errors.ValidateName(p.Name); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// LoadPayload reads and parses a payload file.
func LoadPayload(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Payload{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload %s", path)
		}
		return Payload{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read payload %s", path)
	}
	return ParsePayload(data)
}
