package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PayloadSeparator splits the card id from its text in the wire form.
const PayloadSeparator = ";"

// Payload is the transient snapshot carried by a drag or a clipboard copy.
type Payload struct {
	ID   string
	Text string
}

// String encodes the payload as "<id>;<text>".
func (p Payload) String() string {
	return p.ID + PayloadSeparator + p.Text
}

// ParsePayload decodes "<id>;<text>". The text is everything after the first
// separator and may itself contain separators. The id must be a canonical
// 36-character UUID.
func ParsePayload(raw string) (Payload, error) {
	id, text, ok := strings.Cut(raw, PayloadSeparator)
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing %q separator", ErrMalformedPayload, PayloadSeparator)
	}
	id = strings.TrimSpace(id)
	if len(id) != 36 {
		return Payload{}, fmt.Errorf("%w: id %q is not a canonical uuid", ErrMalformedPayload, id)
	}
	if err := uuid.Validate(id); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return Payload{ID: strings.ToLower(id), Text: text}, nil
}
