package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess      = 0
	ExitConfigError  = 1
	ExitUsageError   = 2
	ExitCommandError = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("docker-utils", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to config file")
	showVersion := flags.Bool("version", false, "Print version and exit")
	flags.Usage = func() { usage(flags) }
	if err := flags.Parse(args); err != nil {
		return ExitUsageError
	}

	// Handle version flag
	if *showVersion {
		fmt.Fprintf(stdout, "docker-utils %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	if flags.NArg() == 0 {
		usage(flags)
		return ExitUsageError
	}

	// Load configuration
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	logger := SetupLogger(cfg, stderr)
	app := &App{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}

	name, cmdArgs := flags.Arg(0), flags.Args()[1:]
	cmd, ok := app.commands()[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		usage(flags)
		return ExitUsageError
	}

	if err := cmd(cmdArgs); err != nil {
		var uErr *UsageError
		if errors.As(err, &uErr) {
			fmt.Fprintln(stderr, uErr.Error())
			return ExitUsageError
		}
		logger.Error("command failed", "command", name, "error", err)
		return ExitCommandError
	}
	return ExitSuccess
}

func usage(flags *flag.FlagSet) {
	out := flags.Output()
	fmt.Fprintln(out, "usage: docker-utils [-config FILE] <command> [flags]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  example  write a sample nginx + mongodb compose file")
	fmt.Fprintln(out, "  convert  rewrite a compose file for another format version")
	fmt.Fprintln(out, "  inspect  print the services, networks and volumes of a compose file")
	fmt.Fprintln(out, "")
	flags.PrintDefaults()
}
