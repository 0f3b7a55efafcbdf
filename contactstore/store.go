package contactstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kjk/contacts/u"
)

// Store keeps contacts in a single flat file at Path.
// Each Store owns its path; there's no shared state between stores.
type Store struct {
	Path string
	// if nil, UUIDGenerator is used
	IDGen IDGenerator

	didEnsureFile bool
}

// Open validates s and makes s.Path absolute.
// It doesn't create the backing file, that happens on first Save().
func Open(s *Store) error {
	if s.Path == "" {
		return errors.New("contactstore: Path is not set")
	}
	path, err := filepath.Abs(s.Path)
	if err != nil {
		return fmt.Errorf("contactstore: failed to get absolute path for '%s': %w", s.Path, err)
	}
	s.Path = path
	if s.IDGen == nil {
		s.IDGen = UUIDGenerator{}
	}
	return nil
}

func (s *Store) newID() string {
	if s.IDGen == nil {
		return UUIDGenerator{}.NewID()
	}
	return s.IDGen.NewID()
}

// ensureFile creates an empty backing file if it doesn't exist.
// Only the first call per Store does anything.
func (s *Store) ensureFile() error {
	if s.didEnsureFile {
		return nil
	}
	if !u.FileExists(s.Path) {
		if dir := filepath.Dir(s.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		if err = f.Close(); err != nil {
			return err
		}
	}
	s.didEnsureFile = true
	return nil
}

func openErr(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return ErrStoreUnavailable
	}
	return err
}

// appendToFile appends d and syncs. Unlike os.WriteFile it
// doesn't create the file: a missing file is ErrStoreUnavailable.
func appendToFile(path string, d []byte) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return openErr(err)
	}
	_, err = file.Write(d)
	if err != nil {
		file.Close()
		return err
	}
	err = file.Sync()
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Lines returns all non-empty lines of the backing file, including
// soft-deleted contacts. Lines don't have the trailing newline.
func (s *Store) Lines() ([]string, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, openErr(err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("contactstore: error reading '%s': %w", s.Path, err)
	}
	return lines, nil
}

// scan returns live contacts for which match returns true, in file order
func (s *Store) scan(match func(c *Contact) bool) ([]*Contact, error) {
	lines, err := s.Lines()
	if err != nil {
		return nil, err
	}
	res := []*Contact{}
	for _, line := range lines {
		c := ParseLine(line)
		if c.IsDeleted() {
			continue
		}
		if match(c) {
			res = append(res, c)
		}
	}
	return res, nil
}

// Save validates c and appends it to the backing file.
// Separator and line break characters are removed from c's values first.
// If c.ID is empty, a new id is generated and set after successful write.
func (s *Store) Save(c *Contact) error {
	if err := s.ensureFile(); err != nil {
		return err
	}
	c.strip()
	if !c.Valid() {
		return &ValidationError{Errors: c.Errors}
	}
	saved := *c
	if saved.ID == "" {
		saved.ID = stripValue(s.newID())
		if saved.ID == "" {
			return errors.New("contactstore: id generator returned an empty id")
		}
	}
	if err := appendToFile(s.Path, []byte(saved.MarshalLine())); err != nil {
		return err
	}
	c.ID = saved.ID
	return nil
}

// Create builds a contact from f and saves it
func (s *Store) Create(f Fields) (*Contact, error) {
	c := NewContact(f)
	if err := s.Save(c); err != nil {
		return c, err
	}
	return c, nil
}

// FindAll returns all live contacts in insertion order
func (s *Store) FindAll() ([]*Contact, error) {
	return s.scan(func(*Contact) bool { return true })
}

// Find returns live contacts with a given id.
// An empty id matches every live contact.
// Returns ErrNotFound if nothing matches.
func (s *Store) Find(id string) ([]*Contact, error) {
	res, err := s.scan(func(c *Contact) bool {
		return id == "" || c.ID == id
	})
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}

// Get returns the live contact with a given id
func (s *Store) Get(id string) (*Contact, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	res, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// FindByName returns live contacts with a given name.
// An empty name or a missing backing file gives an empty result, not an error.
func (s *Store) FindByName(name string) ([]*Contact, error) {
	if name == "" {
		return []*Contact{}, nil
	}
	res, err := s.scan(func(c *Contact) bool {
		return c.Name == name
	})
	if errors.Is(err, ErrStoreUnavailable) {
		return []*Contact{}, nil
	}
	return res, err
}

// Count returns number of live contacts.
// A missing backing file is ErrStoreUnavailable, not 0.
func (s *Store) Count() (int, error) {
	lines, err := s.Lines()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, line := range lines {
		if splitLine(line)[5] != DeletedYes {
			n++
		}
	}
	return n, nil
}

// SoftDelete flips the deleted flag of the live line with c.ID from N to Y.
// Only those 2 bytes ("N;" => "Y;") of the file are written.
func (s *Store) SoftDelete(c *Contact) error {
	if !u.FileExists(s.Path) {
		return ErrStoreUnavailable
	}
	if !c.Valid() {
		return &ValidationError{Errors: c.Errors}
	}
	if c.ID == "" {
		return ErrNotFound
	}

	file, err := os.OpenFile(s.Path, os.O_RDWR, 0)
	if err != nil {
		return openErr(err)
	}
	off, err := findLiveLineFlag(file, c.ID)
	if err != nil {
		file.Close()
		return err
	}
	if off < 0 {
		file.Close()
		return ErrNotFound
	}
	_, err = file.WriteAt([]byte(DeletedYes+Separator), off)
	if err != nil {
		file.Close()
		return err
	}
	err = file.Sync()
	if err != nil {
		file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	c.Deleted = DeletedYes
	return nil
}

// findLiveLineFlag returns file offset of the deleted flag in the first
// live line with a given id, -1 if there's no such line
func findLiveLineFlag(r io.Reader, id string) (int64, error) {
	br := bufio.NewReader(r)
	var off int64
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			body := strings.TrimRight(line, "\r\n")
			parts := splitLine(body)
			suffix := DeletedNo + Separator
			if parts[0] == id && parts[5] == DeletedNo && strings.HasSuffix(body, suffix) {
				return off + int64(len(body)-len(suffix)), nil
			}
			off += int64(len(line))
		}
		if err == io.EOF {
			return -1, nil
		}
		if err != nil {
			return -1, err
		}
	}
}

// Delete soft-deletes the live contact with a given id
func (s *Store) Delete(id string) error {
	c, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.SoftDelete(c)
}

// Update replaces c with a contact built from f's name, email, birthdate
// and phone number. The old line is soft-deleted and a new line, with
// a new id, is appended.
//
// If the new values are invalid, their errors are merged into c.Errors and
// nothing is written. If either step fails, the other is still done and a
// *PartialUpdateError is returned.
func (s *Store) Update(c *Contact, f Fields) (*Contact, error) {
	if !u.FileExists(s.Path) {
		return nil, ErrStoreUnavailable
	}
	if !c.Valid() {
		return nil, &ValidationError{Errors: c.Errors}
	}
	candidate := NewContact(Fields{
		ID:          c.ID,
		Name:        f.Name,
		Email:       f.Email,
		Birthdate:   f.Birthdate,
		PhoneNumber: f.PhoneNumber,
	})
	if !candidate.Valid() {
		c.Errors.Merge(candidate.Errors)
		return nil, &ValidationError{Errors: c.Errors}
	}

	errDelete := s.SoftDelete(c)
	// ids don't survive an update
	candidate.ID = ""
	errCreate := s.Save(candidate)
	if errDelete == nil && errCreate == nil {
		return candidate, nil
	}
	err := &PartialUpdateError{
		Deleted: errDelete == nil,
		Created: errCreate == nil,
		Err:     errors.Join(errDelete, errCreate),
	}
	if err.Created {
		return candidate, err
	}
	return nil, err
}
