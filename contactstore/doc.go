// Package contactstore provides a flat-file, append-only store of contacts
// with soft deletion.
//
// # File Format
//
// One contact per line, fields separated by ';', with a trailing ';':
//
//	id;name;email;birthdate;phone_number;deleted;
//
// deleted is "N" for a live contact and "Y" for a soft-deleted one.
// Values never contain ';' or line breaks (they are stripped on input and on Save).
//
// # Basic Usage
//
//	s := &contactstore.Store{Path: "db/development.txt"}
//	c, err := s.Create(contactstore.Fields{
//	    Name:      "John Smith",
//	    Email:     "john@x.com",
//	    Birthdate: "2000-07-01",
//	})
//	var verr *contactstore.ValidationError
//	if errors.As(err, &verr) {
//	    // verr.Errors maps field name to messages
//	}
//
//	all, err := s.FindAll()
//	err = s.SoftDelete(c)
//
// # Updates
//
// Update soft-deletes the old line and appends a new one. The new line
// gets a new id, so ids do not survive an update.
//
// # Thread Safety
//
// The Store does no locking. Every operation opens the file, does one
// pass over it and closes it. Callers must serialize writers.
package contactstore
