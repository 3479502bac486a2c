// Package console is the interactive terminal front end. It talks to the
// use cases only, never to repositories.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
	"google.golang.org/grpc/status"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/customer"
	"github.com/fekuna/omnipos-kiosk-service/internal/employee"
	"github.com/fekuna/omnipos-kiosk-service/internal/product"
)

// LineReader is the part of *readline.Instance the console needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// errQuit ends Run without an error.
var errQuit = errors.New("quit")

type Console struct {
	in        LineReader
	out       io.Writer
	customers customer.UseCase
	products  product.UseCase
	employees employee.UseCase
	logger    *zap.Logger
}

func New(in LineReader, out io.Writer, customers customer.UseCase, products product.UseCase, employees employee.UseCase, log *zap.Logger) *Console {
	return &Console{
		in:        in,
		out:       out,
		customers: customers,
		products:  products,
		employees: employees,
		logger:    log,
	}
}

// NewReadline opens the terminal. historyFile may be empty.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

type menuItem struct {
	key    string
	label  string
	action func(ctx context.Context) error
}

// Run shows the main menu until the user exits, input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.printf("Kiosk Management System\n")
	err := c.menu(ctx, "Main menu", []menuItem{
		{"1", "Customers", c.customerMenu},
		{"2", "Products", c.productMenu},
		{"3", "Employees", c.employeeMenu},
	}, "Exit")
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// menu loops over items until the user picks 0. Action failures are shown and
// the menu continues; input failures end it.
func (c *Console) menu(ctx context.Context, title string, items []menuItem, back string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("\n== %s ==\n", title)
		for _, it := range items {
			c.printf("  %s) %s\n", it.key, it.label)
		}
		c.printf("  0) %s\n", back)

		choice, err := c.ask("Choice")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		var picked *menuItem
		for i := range items {
			if items[i].key == choice {
				picked = &items[i]
				break
			}
		}
		if picked == nil {
			c.printf("Unknown option %q\n", choice)
			continue
		}
		if err := picked.action(ctx); err != nil {
			if isInputEnd(err) {
				return err
			}
			c.report(picked.label, err)
		}
	}
}

func (c *Console) ask(label string) (string, error) {
	c.in.SetPrompt(label + ": ")
	line, err := c.in.Readline()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askDefault keeps current when the answer is blank.
func (c *Console) askDefault(label, current string) (string, error) {
	answer, err := c.ask(fmt.Sprintf("%s [%s]", label, current))
	if err != nil || answer == "" {
		return current, err
	}
	return answer, nil
}

func (c *Console) report(action string, err error) {
	kind := apperror.KindOf(err)
	c.printf("Error (%s): %v\n", kind, err)
	c.logger.Warn("Console action failed",
		zap.String("action", action),
		zap.String("kind", kind.String()),
		zap.Stringer("code", status.Code(err)),
		zap.Error(err))
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) table(header string, rows [][]string) {
	if len(rows) == 0 {
		c.printf("(none)\n")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	_ = w.Flush()
	c.printf("%d row(s)\n", len(rows))
}

func isInputEnd(err error) bool {
	return errors.Is(err, errQuit) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
