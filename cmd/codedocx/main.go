// Command codedocx collects the source files below a directory into a single
// DOCX document with one page per file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/codedocx/internal/config"
	"github.com/dgallion1/codedocx/internal/logging"
	"github.com/dgallion1/codedocx/internal/pipeline"
	"github.com/dgallion1/codedocx/internal/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(
		ctx,
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "codedocx -i <dir> [-o output.docx]",
		Short: "Print a source tree into one DOCX document",
		Long: `codedocx walks a directory, picks the files whose extension is in the
accepted set and writes them into a single DOCX document: a "Source Code"
title, a table of contents, then one page per file with the file's relative
path as the heading and its lines in a monospace table.`,
		Example: `codedocx -i ./src -o code.docx
codedocx -i . -e go,mod -x 'vendor/**' --overwrite
codedocx -i . --preface README.md --watch --overwrite`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}
	cfg.BindFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, flagCfg config.Config) error {
	cfg, err := config.Load(flagCfg, cmd.Flags())
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{
		Verbose: cfg.Verbose,
		Format:  format,
		Output:  cmd.ErrOrStderr(),
	})

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	res, err := pipeline.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	printSummary(out, res)

	if !cfg.Watch {
		return nil
	}
	// Later builds replace the document this run just wrote.
	cfg.Overwrite = true
	return watch.Run(ctx, watch.Options{
		Root:   cfg.Input,
		Output: cfg.Output,
		Logger: log,
	}, func(ctx context.Context) error {
		res, err := pipeline.Build(ctx, cfg, log)
		if err != nil {
			return err
		}
		printSummary(out, res)
		return nil
	})
}

func printSummary(w io.Writer, res pipeline.Result) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)

	green.Fprint(w, "wrote ")
	fmt.Fprintf(w, "%s: %d file(s)", res.Output, res.Files)
	if skipped := res.Skipped + res.Errors; skipped > 0 {
		yellow.Fprintf(w, ", %d skipped", skipped)
	}
	fmt.Fprintf(w, " in %s\n", res.Duration.Round(time.Millisecond))
}
