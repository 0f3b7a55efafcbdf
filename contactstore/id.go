package contactstore

import "github.com/google/uuid"

// IDGenerator generates ids for new contacts.
// Ids must be unique and must not contain Separator.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random (v4) uuids in canonical 36 char form
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// IDGeneratorFunc adapts a function to IDGenerator
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string {
	return f()
}
