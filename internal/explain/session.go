// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/problem-explorer/internal/format"
)

const namePrompt = "Enter problem name (e.g., 'two-sum' or 'valid sudoku'): "

// PromptName asks for a problem name on out and reads one line from in.
// An empty answer or end of input is an error.
func PromptName(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, namePrompt)
	line, ok := readLine(bufio.NewScanner(in))
	if !ok || line == "" {
		return "", fmt.Errorf("no problem name given")
	}
	return line, nil
}

// Session is the interactive menu loop: search for problems until the user
// exits, offering to save each explanation.
type Session struct {
	Explainer *Explainer

	In  io.Reader
	Out io.Writer

	// SaveDir is where accepted explanations are written ("" = current directory).
	SaveDir string
}

// Run loops until the user picks exit, input ends, or ctx is cancelled.
// Pipeline errors are reported and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	sc := bufio.NewScanner(s.In)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(s.Out, "\nLeetCode Problem Explorer")
		fmt.Fprintln(s.Out, "1. Search for a problem")
		fmt.Fprintln(s.Out, "2. Exit")
		fmt.Fprint(s.Out, "\nEnter your choice (1-2): ")

		choice, ok := readLine(sc)
		if !ok {
			fmt.Fprintln(s.Out)
			return nil
		}

		switch choice {
		case "2":
			return nil
		case "1":
			fmt.Fprint(s.Out, "\n"+namePrompt)
			name, ok := readLine(sc)
			if !ok {
				fmt.Fprintln(s.Out)
				return nil
			}
			if err := s.explainOne(ctx, sc, name); err != nil {
				return err
			}
		default:
			fmt.Fprintln(s.Out, "\nInvalid choice. Please try again.")
		}
	}
}

// explainOne runs the pipeline for name and offers to save the result. Only
// a cancelled context is returned as an error.
func (s *Session) explainOne(ctx context.Context, sc *bufio.Scanner, name string) error {
	fmt.Fprintln(s.Out, "\nFetching problem details...")

	res, err := s.Explainer.Explain(ctx, name)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(s.Out, "\nerror: %v\n", err)
		fmt.Fprintln(s.Out, "Failed to fetch problem details. Please check the problem name and try again.")
		return nil
	}

	fmt.Fprintln(s.Out, "\n"+res.Markdown)

	fmt.Fprint(s.Out, "\nWould you like to save this explanation to a file? (y/n): ")
	answer, ok := readLine(sc)
	if !ok || !strings.EqualFold(answer, "y") {
		return nil
	}
	if _, err := format.Save(s.SaveDir, res.Record.Slug, res.Markdown, s.Out); err != nil {
		fmt.Fprintf(s.Out, "error: %v\n", err)
	}
	return nil
}

func readLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}
