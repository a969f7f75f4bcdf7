package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/KaramelBytes/examstat-cli/internal/analysis"
	"github.com/KaramelBytes/examstat-cli/internal/console"
	"github.com/KaramelBytes/examstat-cli/internal/dataset"
	"github.com/KaramelBytes/examstat-cli/internal/plot"
)

// ErrExit is returned by Handle when the user picks the exit action.
var ErrExit = errors.New("exit requested")

// InvalidChoiceError indicates menu input outside the numbered actions.
type InvalidChoiceError struct{ Input string }

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid choice %q: enter a number from 1 to %d", e.Input, len(actions))
}

// State of the controller. Terminated is final.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// Options tunes the analyses the menu runs.
type Options struct {
	SampleRows int
	Bins       int
	PlotWidth  int
	// PlotDir, when set, also saves each plot as a PNG in that directory.
	PlotDir string
	Color   bool
}

var actions = []string{
	"Show basic dataset info",
	"Show score statistics",
	"Show subject correlation",
	"Test preparation effect analysis",
	"Compare scores by group",
	"Plot score distribution",
	"Exit",
}

// Controller is the interactive request/response loop over one loaded table.
type Controller struct {
	table *dataset.Table
	in    *bufio.Scanner
	p     *console.Printer
	opt   Options
	state State

	// Lines are read on a separate goroutine so a pending read never blocks cancellation.
	readOnce sync.Once
	lines    chan string
	done     chan struct{}
	readErr  error
}

// New builds a controller that reads choices from in and writes to out.
func New(t *dataset.Table, in io.Reader, out io.Writer, opt Options) *Controller {
	if opt.SampleRows <= 0 {
		opt.SampleRows = 5
	}
	if opt.Bins <= 0 {
		opt.Bins = plot.DefaultBins
	}
	return &Controller{
		table: t,
		in:    bufio.NewScanner(in),
		p:     console.New(out, opt.Color),
		opt:   opt,
		state: Running,
		lines: make(chan string),
		done:  make(chan struct{}),
	}
}

// State reports whether the loop is still running.
func (c *Controller) State() State { return c.state }

// Run shows the menu and processes one choice at a time until the user exits,
// input ends, or ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer func() {
		c.state = Terminated
		close(c.done)
	}()
	for {
		if ctx.Err() != nil {
			c.p.Warnf("Interrupted. Exiting program.")
			return nil
		}
		c.showMenu()
		line, err := c.prompt(ctx, "Enter choice: ")
		if errors.Is(err, io.EOF) {
			c.p.Println()
			c.p.Successf("End of input. Exiting program.")
			return c.readErr
		}
		if err == nil {
			err = c.Handle(ctx, line)
		}
		switch {
		case errors.Is(err, ErrExit):
			c.p.Successf("Exiting program.")
			return nil
		case ctx.Err() != nil:
			c.p.Println()
			c.p.Warnf("Interrupted. Exiting program.")
			return nil
		case err != nil:
			c.p.Errorf("%v", err)
		}
	}
}

func (c *Controller) showMenu() {
	c.p.Heading("=== Student Exam Performance Analyzer ===")
	for i, a := range actions {
		c.p.Printf("%d. %s\n", i+1, a)
	}
}

// prompt prints label and waits for the next line. It returns io.EOF when
// input is closed and ctx.Err() when ctx ends first.
func (c *Controller) prompt(ctx context.Context, label string) (string, error) {
	c.p.Printf("%s", label)
	c.readOnce.Do(func() { go c.readLines() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Controller) readLines() {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- c.in.Text():
		case <-c.done:
			return
		}
	}
	c.readErr = c.in.Err()
}

// Handle runs the action for one menu choice. Analysis errors are returned
// to the caller; ErrExit signals the exit action or closed input mid-prompt.
func (c *Controller) Handle(ctx context.Context, choice string) error {
	switch strings.TrimSpace(choice) {
	case "1":
		c.p.Info(analysis.Inspect(c.table, c.opt.SampleRows))
	case "2":
		c.p.Stats(analysis.Describe(c.table))
	case "3":
		c.p.Corr(analysis.Correlate(c.table))
	case "4":
		eff, err := analysis.TestPrepEffect(c.table)
		if err != nil {
			return err
		}
		c.p.PrepEffect(eff)
	case "5":
		return c.compare(ctx)
	case "6":
		return c.plot(ctx)
	case "7":
		return ErrExit
	default:
		return &InvalidChoiceError{Input: choice}
	}
	return nil
}

func (c *Controller) compare(ctx context.Context) error {
	c.p.Println("\nChoose grouping factor:")
	c.p.Printf("Options: %s\n", strings.Join(c.table.CategoryNames(), ", "))
	label, err := c.prompt(ctx, "Enter column name: ")
	if err != nil {
		return promptErr(err)
	}
	cmp, err := analysis.CompareGroups(c.table, label)
	if err != nil {
		return err
	}
	c.p.Comparison(cmp)
	return nil
}

func (c *Controller) plot(ctx context.Context) error {
	names := make([]string, 0, 3)
	for _, s := range c.table.Subjects() {
		names = append(names, strings.TrimSuffix(s.Key(), "_score"))
	}
	label, err := c.prompt(ctx, fmt.Sprintf("Enter subject (%s): ", strings.Join(names, ", ")))
	if err != nil {
		return promptErr(err)
	}
	h, err := plot.NewHistogram(c.table, label, c.opt.Bins)
	if err != nil {
		return err
	}
	c.p.Println()
	if err := h.Render(c.p.Writer(), c.opt.PlotWidth); err != nil {
		return err
	}
	if c.opt.PlotDir != "" {
		path, err := h.SavePNG(c.opt.PlotDir)
		if err != nil {
			return fmt.Errorf("save plot: %w", err)
		}
		c.p.Successf("Saved plot to %s", path)
	}
	return nil
}

// promptErr maps closed input during a sub-prompt to the exit action.
func promptErr(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrExit
	}
	return err
}
