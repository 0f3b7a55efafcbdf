package contactstore

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// Separator separates fields in a line of the backing file
	Separator = ";"

	DeletedYes = "Y"
	DeletedNo  = "N"

	// number of fields in a line
	numFields = 6
)

// DeletedOptions lists valid values of Contact.Deleted
var DeletedOptions = []string{DeletedYes, DeletedNo}

// Contact is a single record in the store
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Birthdate   string `json:"birthdate"`
	PhoneNumber string `json:"phone_number"`
	Deleted     string `json:"deleted"`

	// Errors is filled by Valid() and by a failed Update()
	Errors FieldErrors `json:"-"`
}

// Fields is the input for creating a contact.
// Deleted is optional, nil means DeletedNo.
type Fields struct {
	ID          string
	Name        string
	Email       string
	Birthdate   string
	PhoneNumber string
	Deleted     *string
}

// UnknownFieldError is returned by FieldsFromMap for keys that don't name a field
type UnknownFieldError struct {
	Keys []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown contact field(s): %s", strings.Join(e.Keys, ", "))
}

// FieldsFromMap builds Fields from a generic key/value mapping.
// Keys are field names as used in the file format description:
// id, name, email, birthdate, phone_number, deleted.
func FieldsFromMap(m map[string]string) (Fields, error) {
	var f Fields
	var unknown []string
	for k, v := range m {
		switch k {
		case "id":
			f.ID = v
		case "name":
			f.Name = v
		case "email":
			f.Email = v
		case "birthdate":
			f.Birthdate = v
		case "phone_number":
			f.PhoneNumber = v
		case "deleted":
			deleted := v
			f.Deleted = &deleted
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Fields{}, &UnknownFieldError{Keys: unknown}
	}
	return f, nil
}

// separator and line breaks can't be stored in a value
var valueStripper = strings.NewReplacer(Separator, "", "\r", "", "\n", "")

func stripValue(s string) string {
	return valueStripper.Replace(s)
}

// strip removes separator and line break characters from all values
func (c *Contact) strip() {
	c.ID = stripValue(c.ID)
	c.Name = stripValue(c.Name)
	c.Email = stripValue(c.Email)
	c.Birthdate = stripValue(c.Birthdate)
	c.PhoneNumber = stripValue(c.PhoneNumber)
	c.Deleted = stripValue(c.Deleted)
}

// NewContact creates an in-memory contact from f.
// Separator and line break characters are removed from all values.
func NewContact(f Fields) *Contact {
	deleted := DeletedNo
	if f.Deleted != nil {
		deleted = *f.Deleted
	}
	c := &Contact{
		ID:          f.ID,
		Name:        f.Name,
		Email:       f.Email,
		Birthdate:   f.Birthdate,
		PhoneNumber: f.PhoneNumber,
		Deleted:     deleted,
	}
	c.strip()
	return c
}

// IsDeleted returns true if the contact is soft-deleted
func (c *Contact) IsDeleted() bool {
	return c.Deleted == DeletedYes
}

// Valid validates the contact and stores the result in c.Errors
func (c *Contact) Valid() bool {
	c.Errors = Validate(c)
	return c.Errors.Empty()
}

// MarshalLine returns the line for c, including the trailing separator
// and the newline
func (c *Contact) MarshalLine() string {
	var sb strings.Builder
	for _, v := range []string{c.ID, c.Name, c.Email, c.Birthdate, c.PhoneNumber, c.Deleted} {
		sb.WriteString(v)
		sb.WriteString(Separator)
	}
	sb.WriteString("\n")
	return sb.String()
}

// splitLine splits a line into exactly numFields values.
// The piece after the trailing separator is dropped, missing fields are empty.
func splitLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, Separator)
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	for len(parts) < numFields {
		parts = append(parts, "")
	}
	return parts[:numFields]
}

// ParseLine decodes a line of the backing file.
// It's best-effort: it never fails, malformed lines produce partial contacts.
func ParseLine(line string) *Contact {
	parts := splitLine(line)
	return &Contact{
		ID:          parts[0],
		Name:        parts[1],
		Email:       parts[2],
		Birthdate:   parts[3],
		PhoneNumber: parts[4],
		Deleted:     parts[5],
	}
}
