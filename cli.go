package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/evaluate"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/space"
)

var errNoMode = errors.New("choose one of --all, --once or --assist")

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	switch {
	case flagAll:
		return runAll(ctx, mustUniverse(cfg.Length), cfg.Workers, flagQuiet, out, cmd.ErrOrStderr())
	case flagOnce:
		u := mustUniverse(cfg.Length)
		return runOnce(ctx, solver.New(u, solver.Config{Workers: cfg.Workers}), out)
	case flagAssist:
		return runAssist()
	}
	_ = cmd.Help()
	return errNoMode
}

// runAll evaluates the solver against every secret of u and prints the
// average and worst-case number of guesses.
func runAll(ctx context.Context, u *space.Universe, workers int, quiet bool, out, errOut io.Writer) error {
	var progress evaluate.Progress
	if quiet {
		bar := progressbar.NewOptions(u.Len(),
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription("solving"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		progress = func(int, code.Candidate, int) { _ = bar.Add(1) }
	} else {
		lines := newInOrder(out, u.Len())
		progress = func(i int, secret code.Candidate, attempts int) {
			lines.put(i, fmt.Sprintf("Solving problem #%d %s: %d tries\n", i, secret, attempts))
		}
	}

	rep, err := evaluate.Run(ctx, u, evaluate.Options{Workers: workers, Progress: progress})
	if err != nil {
		return err
	}
	printReport(out, rep)
	return nil
}

func printReport(out io.Writer, rep *evaluate.Report) {
	fmt.Fprintf(out, "Average: %v\n", rep.Average)
	fmt.Fprintf(out, "Worst Case: %s | %d tries\n", rep.WorstSecret.Long(), rep.WorstAttempts)
	if len(rep.WorstTies) > 1 {
		fmt.Fprintf(out, "  %d secrets share the worst case\n", len(rep.WorstTies))
	}
	for _, k := range rep.Buckets() {
		fmt.Fprintf(out, "  %2d tries: %d\n", k, rep.Histogram[k])
	}
	fmt.Fprintf(out, "Solved %d secrets in %s\n", rep.Secrets, rep.Duration)
}

// inOrder writes lines indexed 0..n-1 in index order, holding back any line
// whose predecessors have not arrived yet. Safe for concurrent use.
type inOrder struct {
	mu    sync.Mutex
	out   io.Writer
	lines []string
	ready []bool
	next  int
}

func newInOrder(out io.Writer, n int) *inOrder {
	return &inOrder{out: out, lines: make([]string, n), ready: make([]bool, n)}
}

func (o *inOrder) put(i int, line string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines[i], o.ready[i] = line, true
	for o.next < len(o.ready) && o.ready[o.next] {
		_, _ = io.WriteString(o.out, o.lines[o.next])
		o.lines[o.next] = ""
		o.next++
	}
}

// runOnce solves a random secret and prints every round.
func runOnce(ctx context.Context, s *solver.Solver, out io.Writer) error {
	secret, err := code.Random(s.Universe().Length())
	if err != nil {
		return err
	}
	res, err := s.Solve(ctx, secret)
	if err != nil {
		return err
	}
	for i, rd := range res.Rounds {
		fmt.Fprintf(out, "Guess %2d: %s  matches %d  %.3f bits  %d left\n",
			i+1, rd.Guess.Colorized(), rd.Feedback, rd.Entropy, rd.Remaining)
	}
	fmt.Fprintf(out, "Solved: %s in %d tries\n", res.Secret.Long(), res.Attempts())
	return nil
}

func runAssist() error { return solver.ErrAssistUnavailable }
