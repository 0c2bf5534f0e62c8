package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/sheet"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Print every record of the feed as JSON",
		Long: `Fetch the feed and print its records as a JSON array, one object per
row with keys in header order.

Example: quizctl parse --feed questions.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.loadRecords(cmd.Context())
			if err != nil {
				return err
			}
			if records == nil {
				records = []sheet.Record{}
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
}

func newSubjectsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List subjects with their question counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.loadRecords(cmd.Context())
			if err != nil {
				return err
			}

			counts := quiz.CountBySubject(records)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SUBJECT\tQUESTIONS")
			for _, s := range quiz.Subjects(records) {
				fmt.Fprintf(tw, "%s\t%d\n", s, counts[s])
			}
			return tw.Flush()
		},
	}
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var subject, order string
	var limit int
	var seed uint64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Build the question list for a subject",
		Long: `Build the list a quiz session would present for a subject.

Example: quizctl list --subject 数学 --order random --limit 10 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ord, err := quiz.ParseOrder(order)
			if err != nil {
				return err
			}

			records, err := opts.loadRecords(cmd.Context())
			if err != nil {
				return err
			}

			var rng *rand.Rand
			if seed != 0 {
				rng = rand.New(rand.NewPCG(seed, seed))
			}
			list := quiz.BuildList(records, subject, ord, limit, rng)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			if len(list) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no questions for subject %q\n", subject)
				return nil
			}
			return printList(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject to build (exact match)")
	cmd.Flags().StringVar(&order, "order", "fixed", "Order: fixed|random")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum questions; 0 keeps all")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for --order random; 0 picks a fresh one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Re-encode the feed as CSV",
		Long: `Fetch the feed (CSV or XLSX) and write it back out as CSV using the
first record's header.

Example: quizctl export --feed book.xlsx --out questions.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.loadRecords(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return errors.New("feed has no records")
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := sheet.Encode(w, records[0].Keys(), records); err != nil {
				return fmt.Errorf("encode csv: %w", err)
			}
			if f, ok := w.(*os.File); ok && f != os.Stdout {
				return f.Sync()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file; - writes to stdout")
	return cmd
}

func printList(w io.Writer, list []quiz.Question) error {
	for i, q := range list {
		fmt.Fprintf(w, "Q%d. %s\n", i+1, q.Question)
		for _, c := range q.Choices() {
			mark := " "
			if c.Letter == q.Answer {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %s: %s\n", mark, c.Letter, c.Text)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
