// pkg/job/id.go
package job

import (
	"fmt"

	"github.com/google/uuid"
)

// ID identifies a job across all of its stages. It is a random (version 4)
// UUID assigned once in New and never changed by a transition.
type ID uuid.UUID

// Nil is the zero ID. Only zero-value and moved-from jobs report it.
var Nil ID

// newID is swapped in tests that need deterministic identities.
var newID = func() ID { return ID(uuid.New()) }

// ParseID parses the canonical textual form of an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("job: parse id %q: %w", s, err)
	}
	return ID(u), nil
}

// MustParseID is like ParseID but panics on error. Use for fixed test values.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero ID.
func (id ID) IsNil() bool {
	return id == Nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return fmt.Errorf("job: unmarshal id: %w", err)
	}
	*id = ID(u)
	return nil
}
