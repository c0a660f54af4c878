// Package notes runs the notes workspace CLI (supertag by default) and maps its
// output to schema.Result values.
package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/crystaldolphin/toogle/internal/schema"
	"github.com/crystaldolphin/toogle/internal/shared/stringutils"
)

const (
	defaultCommand  = "supertag"
	defaultTimeout  = 30 * time.Second
	defaultMaxChars = 50000
)

// Options configures a CLI.
type Options struct {
	Command  string            // binary name or path
	Args     []string          // arguments placed before every subcommand
	WorkDir  string            // working directory; empty = current
	Env      map[string]string // added to the inherited environment
	Timeout  time.Duration
	MaxChars int // output cap; longer output is truncated
}

// CLI implements schema.NotesService by shelling out to the notes CLI.
type CLI struct {
	command  string
	args     []string
	workDir  string
	env      []string
	timeout  time.Duration
	maxChars int
}

// NewCLI creates a CLI, filling unset options with defaults.
func NewCLI(opts Options) *CLI {
	c := &CLI{
		command:  opts.Command,
		args:     opts.Args,
		workDir:  opts.WorkDir,
		timeout:  opts.Timeout,
		maxChars: opts.MaxChars,
	}
	if c.command == "" {
		c.command = defaultCommand
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.maxChars <= 0 {
		c.maxChars = defaultMaxChars
	}
	for k, v := range opts.Env {
		c.env = append(c.env, k+"="+v)
	}
	return c
}

// Command returns the configured binary.
func (c *CLI) Command() string { return c.command }

// Search runs `<cmd> search <query> [--tag <tag>] [--semantic]`.
func (c *CLI) Search(ctx context.Context, q schema.NoteQuery) (schema.Result, error) {
	args := []string{"search", q.Query}
	if q.Tag != "" {
		args = append(args, "--tag", q.Tag)
	}
	if q.Semantic {
		args = append(args, "--semantic")
	}

	res, err := c.run(ctx, args)
	if err != nil || res.Failed() {
		return res, err
	}
	if res.Payload() == "" {
		return schema.Success("No results found for: " + q.Query), nil
	}
	return res, nil
}

// Show runs `<cmd> nodes show <nodeID>`.
func (c *CLI) Show(ctx context.Context, nodeID string) (schema.Result, error) {
	res, err := c.run(ctx, []string{"nodes", "show", nodeID})
	if err != nil || res.Failed() {
		return res, err
	}
	if res.Payload() == "" {
		return schema.Success("(no output)"), nil
	}
	return res, nil
}

// run executes the CLI. Failures the CLI itself reports (non-zero exit, timeout)
// become failed Results; a CLI that cannot be started is an error.
func (c *CLI) run(ctx context.Context, args []string) (schema.Result, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	full := append(append([]string{}, c.args...), args...)
	cmd := exec.CommandContext(cmdCtx, c.command, full...)
	cmd.Dir = c.workDir
	cmd.WaitDelay = time.Second
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("notes: exec", "command", c.command, "args", full)
	runErr := cmd.Run()

	if cmdCtx.Err() == context.DeadlineExceeded {
		return schema.Failure(fmt.Sprintf("command timed out after %v", c.timeout)), nil
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return schema.Result{}, fmt.Errorf("run %s: %w", c.command, runErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = fmt.Sprintf("exit code %d", exitErr.ExitCode())
		}
		return schema.Failure(stringutils.Truncate(msg, c.maxChars)), nil
	}

	out := strings.TrimSpace(stdout.String())
	if len(out) > c.maxChars {
		out = stringutils.Truncate(out, c.maxChars) +
			fmt.Sprintf("\n... (truncated, %d more chars)", len(out)-c.maxChars)
	}
	return schema.Success(out), nil
}

var _ schema.NotesService = (*CLI)(nil)
