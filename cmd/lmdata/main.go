// Package main provides the lmdata CLI.
//
// Usage:
//
//	lmdata version
//	lmdata load [-root dir] [-config file] <dataset>
//	lmdata selftest [-root dir] [-config file]
//	lmdata stats [-root dir] [-config file] <dataset>
//	lmdata export [-root dir] [-config file] <dataset> <out.safetensors>
//	lmdata bpe [-root dir] [-config file] [-encoding name] <dataset>
//	lmdata cache [-root dir] [-config file] ls|rm <dataset>
//
// The cache directory defaults to $LMDATA_CACHE, then to the system temp dir.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
)

const version = "v0.1.0-dev"

// errUsage marks errors that should be followed by the usage text.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one CLI command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "lmdata: ", log.LstdFlags)

	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	if err := cmd.run(ctx, args[1:], stdout, logger); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		logger.Print(err)
		if errors.Is(err, errUsage) {
			usage(stderr)
			return 2
		}
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "lmdata %s - language-modeling corpus loader\n\n", version)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
}
