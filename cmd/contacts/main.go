package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/kjk/contacts/config"
	"github.com/kjk/contacts/contactstore"
	"github.com/kjk/contacts/log"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Globals are flags shared by all commands.
type Globals struct {
	Config  string `help:"Config file." default:"contacts.yaml" short:"c"`
	File    string `help:"Contacts file, overrides config." short:"f"`
	Output  string `help:"Output format." enum:"text,json,toon" default:"text" short:"o"`
	Verbose bool   `help:"Verbose logging." short:"v"`
}

// CLI is the top-level command structure for contacts.
type CLI struct {
	Globals

	Version  kong.VersionFlag `help:"Show version." short:"V"`
	Add      AddCmd           `cmd:"" help:"Add a contact."`
	List     ListCmd          `cmd:"" help:"List live contacts."`
	Show     ShowCmd          `cmd:"" help:"Show a contact by id."`
	Find     FindCmd          `cmd:"" help:"Find contacts by exact name."`
	Count    CountCmd         `cmd:"" help:"Count live contacts."`
	Delete   DeleteCmd        `cmd:"" help:"Soft-delete a contact by id."`
	Update   UpdateCmd        `cmd:"" help:"Update a contact. The updated contact gets a new id."`
	Export   ExportCmd        `cmd:"" help:"Export live contacts."`
	Snapshot SnapshotCmd      `cmd:"" help:"Snapshot the contacts file."`
}

// App is what commands operate on.
type App struct {
	Cfg    *config.Config
	Store  *contactstore.Store
	Output string
	Out    io.Writer
}

// newApp loads config, applies flag overrides and opens the store
func newApp(g *Globals, out io.Writer) (*App, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if g.File != "" {
		cfg.File = g.File
	}
	if g.Verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Verbose = cfg.Verbose
	log.Init(&log.Config{Dir: cfg.LogDir})

	store := &contactstore.Store{Path: cfg.File}
	if err := contactstore.Open(store); err != nil {
		return nil, err
	}
	log.Verbosef("contacts file: %s\n", store.Path)
	return &App{
		Cfg:    cfg,
		Store:  store,
		Output: g.Output,
		Out:    out,
	}, nil
}

// exitCode maps errors to process exit codes
func exitCode(err error) int {
	switch {
	case errors.Is(err, contactstore.ErrNotFound):
		return 3
	case errors.As(err, new(*contactstore.ValidationError)):
		return 4
	case errors.Is(err, contactstore.ErrPartialUpdate):
		return 5
	}
	return 1
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Manage contacts stored in a flat file."),
		kong.Vars{"version": version + " " + commit},
	)
	app, err := newApp(&cli.Globals, os.Stdout)
	if err == nil {
		err = ctx.Run(app)
	}
	log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
