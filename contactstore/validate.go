package contactstore

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLen        = 50
	MaxPhoneNumberLen = 30

	// KindInvalidBirthdate is the error kind of an unparseable birthdate
	KindInvalidBirthdate = "InvalidBirthdate"

	msgBlank            = "can't be blank"
	msgInvalid          = "is invalid"
	msgNotIncluded      = "is not included in the list"
	msgInvalidBirthdate = "invalid birthdate"
)

// optional display name, optional angle brackets, local@domain.tld
var emailRx = regexp.MustCompile(`(?i)^([a-z]*\s*)*<*([^@\s]+)@((?:[-a-z0-9]+\.)+[a-z]{2,})>*$`)

// FieldErrors maps a field name to validation messages, in the order
// the checks failed
type FieldErrors map[string][]string

// Add appends msg to the messages of field
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Merge appends all messages from other
func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Fields returns names of fields with errors, sorted
func (fe FieldErrors) Fields() []string {
	var res []string
	for field := range fe {
		res = append(res, field)
	}
	sort.Strings(res)
	return res
}

// Kinds returns error kinds, in the same order as Fields()
func (fe FieldErrors) Kinds() []string {
	fields := fe.Fields()
	for i, field := range fields {
		fields[i] = ErrorKind(field)
	}
	return fields
}

// FullMessages returns messages prefixed with field names e.g.
// "name can't be blank"
func (fe FieldErrors) FullMessages() []string {
	var res []string
	for _, field := range fe.Fields() {
		for _, msg := range fe[field] {
			res = append(res, field+" "+msg)
		}
	}
	return res
}

func (fe FieldErrors) String() string {
	return strings.Join(fe.FullMessages(), ", ")
}

// ErrorKind returns the kind of error for a field.
// Birthdate has its own kind, other fields use their name.
func ErrorKind(field string) string {
	if field == "birthdate" {
		return KindInvalidBirthdate
	}
	return field
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tooLong(max int) string {
	return fmt.Sprintf("is too long (maximum is %d characters)", max)
}

// Validate runs all checks on c. It doesn't stop on first failure.
// Returns empty FieldErrors if c is valid.
func Validate(c *Contact) FieldErrors {
	fe := FieldErrors{}

	if isBlank(c.Name) {
		fe.Add("name", msgBlank)
	}
	if utf8.RuneCountInString(c.Name) > MaxNameLen {
		fe.Add("name", tooLong(MaxNameLen))
	}

	if isBlank(c.Email) {
		fe.Add("email", msgBlank)
	}
	if !emailRx.MatchString(c.Email) {
		fe.Add("email", msgInvalid)
	}

	if utf8.RuneCountInString(c.PhoneNumber) > MaxPhoneNumberLen {
		fe.Add("phone_number", tooLong(MaxPhoneNumberLen))
	}

	if !slices.Contains(DeletedOptions, c.Deleted) {
		fe.Add("deleted", msgNotIncluded)
	}

	if _, err := time.Parse(time.DateOnly, c.Birthdate); err != nil {
		fe.Add("birthdate", msgInvalidBirthdate)
	}
	return fe
}
