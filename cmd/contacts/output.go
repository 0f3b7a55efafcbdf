package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
	"github.com/toon-format/toon-go"

	"github.com/kjk/contacts/contactstore"
)

func contactToMap(c *contactstore.Contact) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"name":         c.Name,
		"email":        c.Email,
		"birthdate":    c.Birthdate,
		"phone_number": c.PhoneNumber,
		"deleted":      c.Deleted,
	}
}

func contactsToMaps(a []*contactstore.Contact) []map[string]any {
	res := make([]map[string]any, 0, len(a))
	for _, c := range a {
		res = append(res, contactToMap(c))
	}
	return res
}

// marshalContacts serializes contacts in one of the formats: json, toon, lines
func marshalContacts(format string, a []*contactstore.Contact) ([]byte, error) {
	switch format {
	case "json":
		d, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		return pretty.Pretty(d), nil
	case "toon":
		d, err := toon.Marshal(map[string]any{"contacts": contactsToMaps(a)})
		if err != nil {
			return nil, err
		}
		return append(d, '\n'), nil
	case "lines":
		var d []byte
		for _, c := range a {
			d = append(d, c.MarshalLine()...)
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown format '%s'", format)
}

func formatContactText(c *contactstore.Contact) string {
	s := fmt.Sprintf("%s  %s <%s>", c.ID, c.Name, c.Email)
	if c.Birthdate != "" {
		s += "  born " + c.Birthdate
	}
	if c.PhoneNumber != "" {
		s += "  phone " + c.PhoneNumber
	}
	return s
}

// printContacts writes contacts to w in app's output format
func (app *App) printContacts(a []*contactstore.Contact) error {
	if app.Output == "text" {
		for _, c := range a {
			fmt.Fprintln(app.Out, formatContactText(c))
		}
		return nil
	}
	d, err := marshalContacts(app.Output, a)
	if err != nil {
		return err
	}
	_, err = app.Out.Write(d)
	return err
}

func (app *App) printContact(c *contactstore.Contact) error {
	if app.Output == "text" {
		fmt.Fprintln(app.Out, formatContactText(c))
		return nil
	}
	var d []byte
	var err error
	if app.Output == "json" {
		d, err = json.Marshal(c)
		d = pretty.Pretty(d)
	} else {
		d, err = toon.Marshal(contactToMap(c))
		d = append(d, '\n')
	}
	if err != nil {
		return err
	}
	_, err = app.Out.Write(d)
	return err
}

// printValidationErrors writes one "Field message" line per error
func printValidationErrors(w io.Writer, fe contactstore.FieldErrors) {
	for _, msg := range fe.FullMessages() {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}
