// Command splitqry reads a single-node SELECT statement and prints the
// map/reduce query pair the splitter package rewrites it into.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/arborsql/splitqry/sql/fromvitess"
	"github.com/arborsql/splitqry/splitter"
)

func main() {
	verbose := flag.Bool("v", false, "log split events to stderr")
	reresolve := flag.Bool("reresolve-order-by", false, "resolve ORDER BY over an aggregate to its reduce-side reconstruction instead of the map alias")
	flag.Parse()

	sqlText, err := readQuery(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := splitter.Options{ReresolveSortToReduce: *reresolve}
	if *verbose {
		log := logrus.New()
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.DebugLevel)
		opts.Logger = logrus.NewEntry(log)
	}

	if err := run(sqlText, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(sqlText string, opts splitter.Options) error {
	parsed, err := fromvitess.Convert(sqlText)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	result, err := splitter.Split(context.Background(), parsed, nil, opts)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// readQuery takes the query from the first positional argument, or reads
// all of stdin when none is given.
func readQuery(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
