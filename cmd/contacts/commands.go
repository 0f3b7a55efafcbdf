package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/kjk/contacts/contactstore"
	"github.com/kjk/contacts/log"
	"github.com/kjk/contacts/snapshot"
	"github.com/kjk/contacts/u"
)

// reportValidation prints field errors of a failed save
func (app *App) reportValidation(err error) error {
	var verr *contactstore.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(app.Out, "contact is invalid:\n")
		printValidationErrors(app.Out, verr.Errors)
	}
	return err
}

// AddCmd creates a contact.
type AddCmd struct {
	Name        string `help:"Name." required:""`
	Email       string `help:"Email address." required:""`
	Birthdate   string `help:"Birth date as YYYY-MM-DD." required:""`
	PhoneNumber string `help:"Phone number." name:"phone"`
}

func (c *AddCmd) Run(app *App) error {
	rec, err := app.Store.Create(contactstore.Fields{
		Name:        c.Name,
		Email:       c.Email,
		Birthdate:   c.Birthdate,
		PhoneNumber: c.PhoneNumber,
	})
	if err != nil {
		return app.reportValidation(err)
	}
	log.Event("contact.create", "id", rec.ID)
	return app.printContact(rec)
}

// ListCmd prints all live contacts.
type ListCmd struct{}

func (c *ListCmd) Run(app *App) error {
	a, err := app.Store.FindAll()
	if err != nil {
		return err
	}
	return app.printContacts(a)
}

// ShowCmd prints one contact.
type ShowCmd struct {
	ID string `arg:"" help:"Contact id."`
}

func (c *ShowCmd) Run(app *App) error {
	rec, err := app.Store.Get(c.ID)
	if err != nil {
		return fmt.Errorf("show %s: %w", c.ID, err)
	}
	return app.printContact(rec)
}

// FindCmd prints contacts with a given name.
type FindCmd struct {
	Name string `arg:"" help:"Exact name."`
}

func (c *FindCmd) Run(app *App) error {
	a, err := app.Store.FindByName(c.Name)
	if err != nil {
		return err
	}
	return app.printContacts(a)
}

// CountCmd prints number of live contacts.
type CountCmd struct{}

func (c *CountCmd) Run(app *App) error {
	n, err := app.Store.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%d\n", n)
	return nil
}

// DeleteCmd soft-deletes a contact.
type DeleteCmd struct {
	ID string `arg:"" help:"Contact id."`
}

func (c *DeleteCmd) Run(app *App) error {
	if err := app.Store.Delete(c.ID); err != nil {
		return fmt.Errorf("delete %s: %w", c.ID, err)
	}
	log.Event("contact.delete", "id", c.ID)
	fmt.Fprintf(app.Out, "deleted %s\n", c.ID)
	return nil
}

// UpdateCmd replaces values of a contact.
type UpdateCmd struct {
	ID  string   `arg:"" help:"Contact id."`
	Set []string `help:"Field assignment as key=value, e.g. name=John. Fields: name, email, birthdate, phone_number." required:"" sep:"none"`
}

func (c *UpdateCmd) Run(app *App) error {
	m, err := u.ParseAssignments(c.Set)
	if err != nil {
		return err
	}
	for _, k := range u.SortedKeys(m) {
		if k == "id" || k == "deleted" {
			return fmt.Errorf("update: field '%s' can't be set", k)
		}
	}
	if _, err := contactstore.FieldsFromMap(m); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	rec, err := app.Store.Get(c.ID)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.ID, err)
	}
	// fields not being set keep their current values
	merged := map[string]string{
		"name":         rec.Name,
		"email":        rec.Email,
		"birthdate":    rec.Birthdate,
		"phone_number": rec.PhoneNumber,
	}
	for k, v := range m {
		merged[k] = v
	}
	f, err := contactstore.FieldsFromMap(merged)
	u.Must(err)

	updated, err := app.Store.Update(rec, f)
	if errors.Is(err, contactstore.ErrPartialUpdate) {
		log.Errorf("update of %s is partial: %s", c.ID, err)
	}
	if err != nil {
		return app.reportValidation(err)
	}
	log.Event("contact.update", "old_id", c.ID, "id", updated.ID)
	return app.printContact(updated)
}

// ExportCmd writes all live contacts in a given format.
type ExportCmd struct {
	Format string `help:"Export format." enum:"json,toon,lines" default:"json"`
	Out    string `help:"Output file. Prints to stdout if not given." type:"path"`
}

func (c *ExportCmd) Run(app *App) error {
	a, err := app.Store.FindAll()
	if err != nil {
		return err
	}
	d, err := marshalContacts(c.Format, a)
	if err != nil {
		return err
	}
	if c.Out == "" {
		_, err = app.Out.Write(d)
		return err
	}
	if err = snapshot.WriteFileAtomically(c.Out, d); err != nil {
		return err
	}
	log.Event("contacts.export", "path", c.Out, "format", c.Format, "count", len(a))
	fmt.Fprintf(app.Out, "exported %d contacts to %s\n", len(a), c.Out)
	return nil
}

// SnapshotCmd copies the contacts file into the snapshot directory.
type SnapshotCmd struct {
	Dir         string `help:"Snapshot directory, overrides config."`
	Compression string `help:"Compression: none, zstd or brotli. Overrides config."`
	Upload      bool   `help:"Upload the snapshot to configured s3-compatible storage."`
}

func (c *SnapshotCmd) Run(app *App) error {
	cfg := app.Cfg.Snapshot
	if c.Dir != "" {
		cfg.Dir = c.Dir
	}
	if c.Compression != "" {
		cfg.Compression = c.Compression
	}
	comp, err := snapshot.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	var up *snapshot.Uploader
	if c.Upload {
		if !cfg.Minio.IsSet() {
			return errors.New("snapshot: --upload requires snapshot.minio in config")
		}
		if up, err = snapshot.NewUploader(cfg.Minio); err != nil {
			return err
		}
	}

	dst := filepath.Join(u.ExpandTildeInPath(cfg.Dir), snapshot.Name(time.Now(), comp))
	info, err := snapshot.Write(dst, app.Store.Path, comp)
	if err != nil {
		if os.IsNotExist(err) {
			return contactstore.ErrStoreUnavailable
		}
		return err
	}
	log.Event("contacts.snapshot", "path", info.Path, "size", info.Size, "compressed_size", info.CompressedSize)
	fmt.Fprintf(app.Out, "snapshot %s: %d lines, %s => %s\n", info.Path, info.Lines,
		u.FormatSize(info.Size), u.FormatSize(info.CompressedSize))

	if up == nil {
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	remote, err := up.Upload(ctx, info.Path)
	if err != nil {
		return err
	}
	log.Event("contacts.snapshot.upload", "bucket", cfg.Minio.Bucket, "path", remote)
	fmt.Fprintf(app.Out, "uploaded to %s/%s\n", cfg.Minio.Bucket, remote)
	return nil
}
