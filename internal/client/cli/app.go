// Package cli implements siteadmin, a command-line front end over the state
// synchronizer. It works offline: with no backend the commands act on the
// local fallback copy and report "local-only".
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fastygo/spicecms/domain"
	"github.com/fastygo/spicecms/internal/client/syncer"
)

// ErrUsage is returned for unknown commands or bad flags.
var ErrUsage = errors.New("usage error")

type command struct {
	summary string
	run     func(ctx context.Context, args []string) error
}

// App dispatches one command against a started synchronizer.
type App struct {
	sync     *syncer.Synchronizer
	out      io.Writer
	commands map[string]command
}

func NewApp(s *syncer.Synchronizer, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	a := &App{sync: s, out: out}
	a.commands = map[string]command{
		"state":    {"print the current state as JSON", a.printState},
		"enquire":  {"submit an enquiry", a.enquire},
		"status":   {"set an enquiry status", a.setStatus},
		"delete":   {"remove an enquiry from the local copy", a.deleteEnquiry},
		"products": {"replace products from a JSON file", a.pushProducts},
		"blogs":    {"replace blog posts from a JSON file", a.pushBlogs},
		"config":   {"replace the site config from a JSON file", a.pushConfig},
	}
	return a
}

// Run executes args[0] with the remaining args as its flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return ErrUsage
	}
	cmd, ok := a.commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(ctx, args[1:])
}

func (a *App) usage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.out, "usage: siteadmin <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %-9s %s\n", name, a.commands[name].summary)
	}
}

func (a *App) printState(_ context.Context, args []string) error {
	fs := a.flagSet("state")
	section := fs.String("only", "", "print one collection: products, blogs, enquiries or siteConfig")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	state := a.sync.State()
	var v any = state
	switch *section {
	case "":
	case domain.KeyProducts:
		v = state.Products
	case domain.KeyBlogs:
		v = state.Blogs
	case domain.KeyEnquiries:
		v = state.Enquiries
	case domain.KeySiteConfig:
		v = state.SiteConfig
	default:
		return fmt.Errorf("%w: unknown collection %q", ErrUsage, *section)
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) enquire(ctx context.Context, args []string) error {
	fs := a.flagSet("enquire")
	var draft domain.EnquiryDraft
	kind := fs.String("type", string(domain.EnquiryGeneral), "B2B, General or Product")
	fs.StringVar(&draft.Name, "name", "", "contact name")
	fs.StringVar(&draft.Email, "email", "", "contact email")
	fs.StringVar(&draft.Phone, "phone", "", "contact phone")
	fs.StringVar(&draft.Message, "message", "", "message text")
	fs.StringVar(&draft.ProductName, "product", "", "product the enquiry is about")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	draft.Type = domain.EnquiryType(*kind)
	if err := draft.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	res, err := a.sync.AddEnquiry(draft).Wait(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "enquiry %s %s\n", res.Enquiry.ID, res.Outcome)
	return nil
}

func (a *App) setStatus(ctx context.Context, args []string) error {
	fs := a.flagSet("status")
	id := fs.String("id", "", "enquiry id")
	status := fs.String("status", "", "New, Read or Contacted")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}

	res, err := a.sync.UpdateEnquiryStatus(*id, domain.EnquiryStatus(*status)).Wait(ctx)
	if err != nil {
		return err
	}
	if domain.IsDomainError(res.Cause, domain.ErrCodeInvalid) {
		return fmt.Errorf("%w: %v", ErrUsage, res.Cause)
	}
	fmt.Fprintf(a.out, "status %s\n", res.Outcome)
	return nil
}

func (a *App) deleteEnquiry(_ context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.String("id", "", "enquiry id")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if !a.sync.DeleteEnquiry(*id) {
		return fmt.Errorf("enquiry %q not found", *id)
	}
	fmt.Fprintf(a.out, "enquiry %s deleted locally\n", *id)
	return nil
}

func (a *App) pushProducts(ctx context.Context, args []string) error {
	var products []domain.Product
	if err := a.readFile("products", args, &products); err != nil {
		return err
	}
	for i := range products {
		products[i].EnsureID()
	}
	return a.report(ctx, "products", a.sync.UpdateProducts(products))
}

func (a *App) pushBlogs(ctx context.Context, args []string) error {
	var blogs []domain.BlogPost
	if err := a.readFile("blogs", args, &blogs); err != nil {
		return err
	}
	for i := range blogs {
		blogs[i].EnsureID()
	}
	return a.report(ctx, "blogs", a.sync.UpdateBlogs(blogs))
}

func (a *App) pushConfig(ctx context.Context, args []string) error {
	var cfg domain.SiteConfig
	if err := a.readFile("config", args, &cfg); err != nil {
		return err
	}
	return a.report(ctx, "config", a.sync.UpdateSiteConfig(cfg))
}

func (a *App) readFile(name string, args []string, dest any) error {
	fs := a.flagSet(name)
	path := fs.String("file", "", "JSON file to read")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if strings.TrimSpace(*path) == "" {
		return fmt.Errorf("%w: -file is required", ErrUsage)
	}
	raw, err := os.ReadFile(*path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", *path, err)
	}
	return nil
}

func (a *App) report(ctx context.Context, what string, op *syncer.Op) error {
	res, err := op.Wait(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", what, res.Outcome)
	return nil
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}
