package contactstore

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert"
)

func TestFieldsFromMap(t *testing.T) {
	f, err := FieldsFromMap(map[string]string{
		"name":         "John Smith",
		"email":        "john@x.com",
		"birthdate":    "2000-07-01",
		"phone_number": "1111-2222",
	})
	assert.NoError(t, err)
	assert.Equal(t, "John Smith", f.Name)
	assert.Equal(t, "1111-2222", f.PhoneNumber)
	assert.Nil(t, f.Deleted)
	assert.Equal(t, DeletedNo, NewContact(f).Deleted)

	f, err = FieldsFromMap(map[string]string{"deleted": "Y"})
	assert.NoError(t, err)
	assert.Equal(t, DeletedYes, NewContact(f).Deleted)

	_, err = FieldsFromMap(map[string]string{"name": "x", "phone": "1", "age": "3"})
	var uerr *UnknownFieldError
	assert.True(t, errors.As(err, &uerr))
	assert.Equal(t, []string{"age", "phone"}, uerr.Keys)
}

func TestMarshalLine(t *testing.T) {
	c := &Contact{ID: "1", Name: "n", Email: "e@x.io", Birthdate: "2000-01-01", Deleted: DeletedNo}
	assert.Equal(t, "1;n;e@x.io;2000-01-01;;N;\n", c.MarshalLine())
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		exp  Contact
	}{
		{
			line: "1;John;j@x.com;2000-07-01;1111;N;",
			exp:  Contact{ID: "1", Name: "John", Email: "j@x.com", Birthdate: "2000-07-01", PhoneNumber: "1111", Deleted: "N"},
		},
		{
			line: "1;John;j@x.com;2000-07-01;;Y;\n",
			exp:  Contact{ID: "1", Name: "John", Email: "j@x.com", Birthdate: "2000-07-01", Deleted: "Y"},
		},
		{
			// malformed lines are decoded best-effort
			line: "1;John",
			exp:  Contact{ID: "1", Name: "John"},
		},
		{
			line: "1;2;3;4;5;6;7;8;",
			exp:  Contact{ID: "1", Name: "2", Email: "3", Birthdate: "4", PhoneNumber: "5", Deleted: "6"},
		},
	}
	for _, test := range tests {
		got := ParseLine(test.line)
		assert.Equal(t, test.exp, *got, test.line)
	}
}

func TestNewContactStripsSeparator(t *testing.T) {
	c := NewContact(Fields{ID: "a;b", Name: ";;", Deleted: strPtr("N;")})
	assert.Equal(t, "ab", c.ID)
	assert.Equal(t, "", c.Name)
	assert.Equal(t, DeletedNo, c.Deleted)
}
