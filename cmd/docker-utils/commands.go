package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/olegjo/docker-utils/internal/core/compose"
	"github.com/olegjo/docker-utils/internal/shell/composefile"
)

// UsageError reports bad command-line arguments.
type UsageError struct {
	Command string
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// App carries what the subcommands share.
type App struct {
	cfg    *Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *App) commands() map[string]func([]string) error {
	return map[string]func([]string) error{
		"example": a.runExample,
		"convert": a.runConvert,
		"inspect": a.runInspect,
	}
}

func (a *App) files() *composefile.Files {
	return composefile.New(a.cfg.Compose.Indent, a.logger)
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// runExample writes the nginx + mongodb sample file.
func (a *App) runExample(args []string) error {
	fs := a.flagSet("example")
	output := fs.String("o", "docker-compose.yml", "Output path")
	version := fs.String("compose-version", a.cfg.Compose.Version, "Compose format version")
	if err := fs.Parse(args); err != nil {
		return &UsageError{Command: "example", Message: err.Error()}
	}

	f, err := compose.ExampleFile(*version)
	if err != nil {
		return err
	}
	if err := a.files().Save(*output, f); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "wrote %s (version %s)\n", *output, f.Version())
	return nil
}

// runConvert rewrites a file with another version, switching the volume
// syntax where the version demands it.
func (a *App) runConvert(args []string) error {
	fs := a.flagSet("convert")
	output := fs.String("o", "", "Output path (defaults to the input path)")
	version := fs.String("compose-version", a.cfg.Compose.Version, "Target compose format version")
	if err := fs.Parse(args); err != nil {
		return &UsageError{Command: "convert", Message: err.Error()}
	}
	if fs.NArg() != 1 {
		return &UsageError{Command: "convert", Message: "expected exactly one input file"}
	}

	input := fs.Arg(0)
	target, err := compose.ParseVersion(*version)
	if err != nil {
		return err
	}

	files := a.files()
	f, err := files.Load(input)
	if err != nil {
		return err
	}

	from := f.Version()
	f.SetVersion(target)

	path := *output
	if path == "" {
		path = input
	}
	if err := files.Save(path, f); err != nil {
		return err
	}

	a.logger.Info("converted compose file",
		"input", input,
		"output", path,
		"from", from.String(),
		"to", target.String(),
	)
	return nil
}

// runInspect prints a summary of a file after resolving it into a
// compose-go project.
func (a *App) runInspect(args []string) error {
	fs := a.flagSet("inspect")
	project := fs.String("project", a.cfg.Compose.Project, "Project name")
	if err := fs.Parse(args); err != nil {
		return &UsageError{Command: "inspect", Message: err.Error()}
	}
	if fs.NArg() != 1 {
		return &UsageError{Command: "inspect", Message: "expected exactly one input file"}
	}

	f, err := a.files().Load(fs.Arg(0))
	if err != nil {
		return err
	}

	p, err := f.Project(*project)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "project %s (compose %s)\n", p.Name, f.Version())
	for _, name := range slices.Sorted(maps.Keys(p.Services)) {
		svc := p.Services[name]
		fmt.Fprintf(a.stdout, "service %s image=%s ports=%d volumes=%d\n",
			name, svc.Image, len(svc.Ports), len(svc.Volumes))
		for _, v := range svc.Volumes {
			mode := "rw"
			if v.ReadOnly {
				mode = "ro"
			}
			fmt.Fprintf(a.stdout, "  %s %s -> %s (%s)\n", v.Type, v.Source, v.Target, mode)
		}
	}
	order := make([]string, 0, len(p.Services))
	for _, svc := range f.StartOrder() {
		order = append(order, svc.Name())
	}
	fmt.Fprintf(a.stdout, "start order: %s\n", strings.Join(order, ", "))

	for _, name := range slices.Sorted(maps.Keys(p.Networks)) {
		fmt.Fprintf(a.stdout, "network %s internal=%t\n", name, p.Networks[name].Internal)
	}
	for _, name := range slices.Sorted(maps.Keys(p.Volumes)) {
		fmt.Fprintf(a.stdout, "volume %s\n", name)
	}
	return nil
}
