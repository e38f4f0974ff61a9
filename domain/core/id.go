package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// figureNamespace scopes name-based figure IDs
var figureNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("whrlab/figure"))

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// NewNameID derives a stable identifier from its parts. The same parts
// always give the same ID.
func NewNameID(parts ...string) ID {
	return ID(uuid.NewSHA1(figureNamespace, []byte(strings.Join(parts, "\x1f"))).String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// Domain-specific ID types
type (
	RunID    ID
	FigureID ID
)

// String conversions for domain IDs
func (id RunID) String() string    { return ID(id).String() }
func (id FigureID) String() string { return ID(id).String() }

// NewRunID creates a time-ordered run identifier
func NewRunID() RunID { return RunID(NewID()) }
