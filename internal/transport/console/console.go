package console

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	analyticsService "github.com/reshetovitsme/community-analytics/internal/modules/analytics/service"
	communityService "github.com/reshetovitsme/community-analytics/internal/modules/community/service"
	"github.com/reshetovitsme/community-analytics/internal/shared/errors"
)

// Analytics runs the reports offered by the menu.
type Analytics interface {
	Intersections(ctx context.Context) (*analyticsService.IntersectionReport, error)
	Inactive(ctx context.Context, groupNames ...string) (*analyticsService.InactivityReport, error)
	Exclusive(ctx context.Context) (*analyticsService.ExclusivityReport, error)
}

// Community loads the community and performs confirmed removals.
type Community interface {
	Current(ctx context.Context) (*communityService.Snapshot, error)
	Load(ctx context.Context) (*communityService.Snapshot, error)
	PlanRemoval(ctx context.Context, ids []string) (*communityService.RemovalPlan, error)
	Remove(ctx context.Context, plan *communityService.RemovalPlan) error
}

// Console is the interactive operator menu. It serves one command at a time
// until the operator exits or the input ends.
type Console struct {
	in          *bufio.Scanner
	out         io.Writer
	interactive bool
	analytics   Analytics
	community   Community
	logger      *slog.Logger
}

// New creates a console reading commands from in. Prompts are printed only
// when in is a terminal.
func New(in io.Reader, out io.Writer, analytics Analytics, community Community, logger *slog.Logger) *Console {
	return &Console{
		in:          bufio.NewScanner(in),
		out:         out,
		interactive: isTerminal(in),
		analytics:   analytics,
		community:   community,
		logger:      logger,
	}
}

// SetInteractive forces prompts on or off
func (c *Console) SetInteractive(interactive bool) {
	c.interactive = interactive
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run serves commands until exit, end of input or cancellation of ctx.
// It returns nil on exit and io.EOF when the input ends.
// A failed command is reported and the menu is shown again.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.showMenu()
		line, ok := c.readLine("Choose an option: ")
		if !ok {
			if err := c.in.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		if line == "" {
			continue
		}

		cmd, err := parseChoice(line)
		if err != nil {
			c.printf("Unknown option %q\n", line)
			continue
		}
		if cmd == CommandExit {
			c.printf("Bye\n")
			return nil
		}

		if err := c.execute(ctx, cmd); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("Command failed", "command", cmd.String(), "error", err)
			c.printf("%s\n", describe(err))
		}
	}
}

func (c *Console) execute(ctx context.Context, cmd Command) error {
	switch cmd {
	case CommandIntersections:
		report, err := c.analytics.Intersections(ctx)
		if err != nil {
			return err
		}
		c.printf("Group intersections of %d groups written to %s\n", len(report.Matrix.Groups), report.File.Name)
	case CommandInactiveGroup:
		name, err := c.chooseGroup(ctx)
		if err != nil {
			return err
		}
		report, err := c.analytics.Inactive(ctx, name)
		if err != nil {
			return err
		}
		c.printInactivity(report)
	case CommandInactiveAll:
		report, err := c.analytics.Inactive(ctx)
		if err != nil {
			return err
		}
		c.printInactivity(report)
	case CommandExclusive:
		report, err := c.analytics.Exclusive(ctx)
		if err != nil {
			return err
		}
		c.printf("%d users only in one group written to %s\n", len(report.Users), report.File.Name)
	case CommandRemove:
		return c.remove(ctx)
	case CommandReload:
		snapshot, err := c.community.Load(ctx)
		if err != nil {
			return err
		}
		c.printf("Reloaded %s: %d groups, %d participants, %d admins\n",
			snapshot.Community.Name, len(snapshot.Groups), snapshot.Registry.Len(), snapshot.Registry.AdminCount())
	}
	return nil
}

func (c *Console) chooseGroup(ctx context.Context) (string, error) {
	snapshot, err := c.community.Current(ctx)
	if err != nil {
		return "", err
	}

	names := snapshot.GroupNames()
	if c.interactive {
		for i, name := range names {
			c.printf("%3d) %s\n", i+1, name)
		}
	}

	line, ok := c.readLine("Group: ")
	if !ok {
		return "", errors.ErrGroupNotFound
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(names) {
		return names[n-1], nil
	}
	return line, nil
}

func (c *Console) remove(ctx context.Context) error {
	line, ok := c.readLine("User IDs to remove (comma separated): ")
	if !ok {
		return nil
	}

	plan, err := c.community.PlanRemoval(ctx, strings.Split(line, ","))
	if err != nil {
		return err
	}

	for _, s := range plan.Skipped {
		c.printf("Skipping %s: %v\n", s.UserID, s.Reason)
	}
	if len(plan.Users) == 0 {
		c.printf("Nothing to remove\n")
		return nil
	}
	for _, u := range plan.Users {
		c.printf("  %s (%s) in %s\n", u.ID, u.Name, strings.Join(u.Groups, ", "))
	}

	answer, _ := c.readLine(fmt.Sprintf("Remove %d user(s) from the community? [y/N] ", len(plan.Users)))
	if !isYes(answer) {
		c.printf("Removal cancelled\n")
		return nil
	}

	if err := c.community.Remove(ctx, plan); err != nil {
		return err
	}
	c.printf("Removed %d user(s)\n", len(plan.Users))
	return nil
}

func (c *Console) printInactivity(report *analyticsService.InactivityReport) {
	r := report.Result
	c.printf("Scanned %d groups (%d skipped): %d of %d candidates inactive, %d unread, %d undelivered, %d unknown authors\n",
		len(r.Groups), len(r.Skipped), len(r.Inactive), r.Candidates, len(r.Unread), len(r.Undelivered), len(r.Unknown))
	for _, f := range report.Files {
		c.printf("  %s\n", f.Name)
	}
}

func (c *Console) showMenu() {
	if !c.interactive {
		return
	}
	c.printf("\n")
	for i, name := range CommandNames() {
		c.printf("%d) %s\n", i+1, menuLabels[Command(name)])
	}
}

func (c *Console) readLine(prompt string) (string, bool) {
	if c.interactive {
		c.printf("%s", prompt)
	}
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// parseChoice accepts a menu number or a command name.
func parseChoice(line string) (Command, error) {
	names := CommandNames()
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(names) {
			return "", ErrInvalidCommand
		}
		return Command(names[n-1]), nil
	}
	return ParseCommand(line)
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func describe(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrRemovalRefused):
		return fmt.Sprintf("Refused: %v", err)
	case stderrors.Is(err, errors.ErrGroupNotFound):
		return fmt.Sprintf("No such group: %v", err)
	case stderrors.Is(err, errors.ErrEmptyReport):
		return fmt.Sprintf("Nothing to report: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
