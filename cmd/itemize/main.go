// Command itemize turns OCR text files into name/price tables.
//
//	itemize [--boundary strict] [--json] [--jobs N] [file ...]
//
// With no files it reads stdin.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/zombor/receipt-table/internal/itemize"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout)
	switch {
	case errors.Is(err, ff.ErrHelp):
		os.Exit(0)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type result struct {
	Source string         `json:"source"`
	Table  *itemize.Table `json:"table"`
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := ff.NewFlagSet("itemize")
	var (
		boundaryFlag = fs.StringLong("boundary", "lenient", "Price boundary: 'lenient' or 'strict'")
		jobs         = fs.IntLong("jobs", runtime.NumCPU(), "Files to itemize concurrently")
		asJSON       = fs.BoolLong("json", "Print JSON instead of tables")
	)
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("ITEMIZE")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}

	boundary, err := itemize.ParseBoundary(*boundaryFlag)
	if err != nil {
		return err
	}

	files := fs.GetArgs()
	var results []result
	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		results = []result{{
			Source: "-",
			Table:  itemize.Itemize(string(data), itemize.WithBoundary(boundary)),
		}}
	} else {
		results, err = itemizeFiles(ctx, files, boundary, *jobs)
		if err != nil {
			return err
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding %s: %w", r.Source, err)
			}
		}
		return nil
	}

	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "==> %s <==\n", r.Source)
		}
		renderTable(stdout, r.Table)
	}
	return nil
}

// itemizeFiles reads and itemizes files concurrently. Results keep the
// order of files.
func itemizeFiles(ctx context.Context, files []string, boundary itemize.Boundary, jobs int) ([]result, error) {
	results := make([]result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			results[i] = result{
				Source: name,
				Table:  itemize.Itemize(string(data), itemize.WithBoundary(boundary)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderTable(w io.Writer, t *itemize.Table) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Name", "Price"})
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	tw.SetAutoWrapText(false)
	tw.SetAutoFormatHeaders(false)
	for _, row := range t.Rows {
		tw.Append([]string{row.Name.Content, itemize.FormatCents(row.Price.Cents)})
	}
	tw.SetFooter([]string{"Total", itemize.FormatCents(t.ComputedTotal)})
	tw.Render()

	switch d, ok := t.Discrepancy(); {
	case !ok:
		fmt.Fprintln(w, "No printed total detected.")
	case d == 0:
		fmt.Fprintf(w, "OCR total %s matches.\n", itemize.FormatCents(*t.DetectedTotal))
	default:
		fmt.Fprintf(w, "OCR total %s differs by %s.\n", itemize.FormatCents(*t.DetectedTotal), itemize.FormatCents(d))
	}
}
