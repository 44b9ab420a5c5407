package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/lmdata/corpus"
)

// envCache overrides the default cache root.
const envCache = "LMDATA_CACHE"

// Vocabulary sizes of the full public corpora.
var expectedVocab = map[string]int{
	corpus.Enwik8:    205,
	corpus.PTB:       10000,
	corpus.WikiText2: 33279,
}

type command struct {
	summary string
	run     func(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error
}

var commands = map[string]command{
	"version":  {"Show version", runVersion},
	"load":     {"Download and encode a dataset, print its sizes", runLoad},
	"selftest": {"Load enwik8, PTB and WikiText-2 and check vocabulary sizes", runSelftest},
	"stats":    {"Print per-split token statistics", runStats},
	"export":   {"Write encoded splits to a SafeTensors file", runExport},
	"bpe":      {"Encode a dataset with a tiktoken BPE encoding", runBPE},
	"cache":    {"List (ls [-sum]) or remove (rm) cached corpora", runCache},
}

var commandOrder = []string{"version", "load", "selftest", "stats", "export", "bpe", "cache"}

// loaderFlags are shared by every command that touches the cache.
type loaderFlags struct {
	root   string
	config string
}

func newFlagSet(name string, lf *loaderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&lf.root, "root", "", "cache directory (default $"+envCache+" or the system temp dir)")
	fs.StringVar(&lf.config, "config", "", "YAML configuration file")
	return fs
}

func (lf *loaderFlags) loader(logger *log.Logger) (*corpus.Loader, error) {
	cfg := corpus.DefaultConfig()
	if lf.config != "" {
		var err error
		if cfg, err = corpus.LoadConfig(lf.config); err != nil {
			return nil, err
		}
	}

	switch {
	case lf.root != "":
		cfg.Root = lf.root
	case os.Getenv(envCache) != "":
		cfg.Root = os.Getenv(envCache)
	}
	cfg.Logger = logger

	return corpus.NewLoader(cfg)
}

// parse parses args and checks the number of positional arguments.
func parse(fs *flag.FlagSet, args []string, want int, names string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != want {
		return fmt.Errorf("%w: lmdata %s %s", errUsage, fs.Name(), names)
	}
	return nil
}

func runVersion(_ context.Context, _ []string, stdout io.Writer, _ *log.Logger) error {
	fmt.Fprintf(stdout, "lmdata %s\n", version)
	return nil
}

func runLoad(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	var lf loaderFlags
	fs := newFlagSet("load", &lf)
	if err := parse(fs, args, 1, "<dataset>"); err != nil {
		return err
	}

	l, err := lf.loader(logger)
	if err != nil {
		return err
	}
	ds, err := l.Load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	printSizes(stdout, ds)
	return nil
}

func printSizes(w io.Writer, ds *corpus.Dataset) {
	fmt.Fprintf(w, "%s: vocab=%d train=%d valid=%d test=%d\n",
		ds.Name, ds.Vocab.Len(), len(ds.Train), len(ds.Valid), len(ds.Test))
}

func runSelftest(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	var lf loaderFlags
	fs := newFlagSet("selftest", &lf)
	if err := parse(fs, args, 0, ""); err != nil {
		return err
	}

	l, err := lf.loader(logger)
	if err != nil {
		return err
	}

	var failed []string
	for _, name := range []string{corpus.Enwik8, corpus.PTB, corpus.WikiText2} {
		ds, err := l.Load(ctx, name)
		if err != nil {
			return err
		}
		printSizes(stdout, ds)

		if got, want := ds.Vocab.Len(), expectedVocab[name]; got != want {
			failed = append(failed, fmt.Sprintf("%s vocabulary has %d entries, want %d", name, got, want))
		}
		if err := ds.Validate(); err != nil {
			failed = append(failed, err.Error())
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("selftest failed:\n  %s", strings.Join(failed, "\n  "))
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}

func runStats(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	var lf loaderFlags
	fs := newFlagSet("stats", &lf)
	if err := parse(fs, args, 1, "<dataset>"); err != nil {
		return err
	}

	l, err := lf.loader(logger)
	if err != nil {
		return err
	}
	ds, err := l.Load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s (vocabulary %d)\n", ds.Name, ds.Vocab.Len())
	tw := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "split\ttokens\tdistinct\tcoverage\tentropy (bits)")
	for _, s := range corpus.ComputeStats(ds) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%.4f\n", s.Split, s.Tokens, s.Distinct, s.Coverage, s.Entropy)
	}
	return tw.Flush()
}

func runExport(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	var lf loaderFlags
	fs := newFlagSet("export", &lf)
	if err := parse(fs, args, 2, "<dataset> <out.safetensors>"); err != nil {
		return err
	}

	l, err := lf.loader(logger)
	if err != nil {
		return err
	}
	ds, err := l.Load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := corpus.Export(ds, fs.Arg(1)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s\n", fs.Arg(1))
	return nil
}

func runBPE(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	var lf loaderFlags
	fs := newFlagSet("bpe", &lf)
	encoding := fs.String("encoding", "cl100k_base", "tiktoken encoding")
	if err := parse(fs, args, 1, "[-encoding name] <dataset>"); err != nil {
		return err
	}

	l, err := lf.loader(logger)
	if err != nil {
		return err
	}
	s, err := l.EncodeBPE(ctx, fs.Arg(0), *encoding)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s/%s: vocab=%d train=%d valid=%d test=%d\n",
		s.Dataset, s.Encoding, s.VocabSize, len(s.Train), len(s.Valid), len(s.Test))
	return nil
}

func runCache(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	var lf loaderFlags
	fs := newFlagSet("cache", &lf)
	sums := fs.Bool("sum", false, "print the SHA-256 of each file (ls)")
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, err := lf.loader(logger)
	if err != nil {
		return err
	}

	switch {
	case fs.NArg() == 1 && fs.Arg(0) == "ls":
		files, err := l.CacheFiles()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, f := range files {
			if !*sums {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", f.Dataset, f.Size, f.Path)
				continue
			}
			sum, err := f.SHA256()
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", f.Dataset, f.Size, f.Path, sum)
		}
		return tw.Flush()
	case fs.NArg() == 2 && fs.Arg(0) == "rm":
		return l.Evict(fs.Arg(1))
	default:
		return fmt.Errorf("%w: lmdata cache ls | lmdata cache rm <dataset>", errUsage)
	}
}
