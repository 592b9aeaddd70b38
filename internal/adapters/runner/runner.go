// Package runner executes the terminal-mode bundle in the configured
// runtime and prints its timed output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports"
	"go.trai.ch/jig/internal/ui/output"
	"go.trai.ch/zerr"
)

const fallbackTerminalWidth = 80

var _ ports.Runner = (*Runner)(nil)

// Runner implements ports.Runner by spawning the bundle in a PTY when
// one is available and falling back to plain pipes otherwise.
type Runner struct {
	logger ports.Logger
	out    io.Writer
}

// NewRunner creates a Runner that prints to stdout.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger, out: os.Stdout}
}

// SetOutput redirects the runner's printed report. Used by tests.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// RunBundle waits for the bundle, clears the terminal, spawns the
// configured runtime on it and prints the captured output under a timed
// header. The wait timeout is the one case where nothing is spawned.
func (r *Runner) RunBundle(ctx context.Context, cfg domain.PipelineConfig) error {
	if err := waitForBundle(ctx, cfg); err != nil {
		return err
	}

	if len(cfg.Runtime) == 0 {
		return zerr.New("no runtime configured for terminal mode")
	}

	output.New(r.out).ClearScreen()

	name := cfg.Runtime[0]
	args := append(append([]string{}, cfg.Runtime[1:]...), cfg.BundlePath())
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // runtime comes from the project config

	started := time.Now()
	stdout, stderr, runErr := capture(cmd)
	elapsed := time.Since(started)

	r.printReport(elapsed, stdout, stderr)

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		detail := zerr.With(zerr.Wrap(runErr, "runtime exited"), "runtime", name)
		detail = zerr.With(detail, "exit_code", exitCode)
		return errors.Join(domain.ErrBundleRunFailed, detail)
	}
	return nil
}

// capture runs the command and returns its output. A PTY is preferred
// so the child behaves as if attached to a terminal; PTYs merge the
// streams, so in that case everything comes back as stdout.
func capture(cmd *exec.Cmd) (stdout, stderr []byte, err error) {
	ptmx, ptyErr := pty.Start(cmd)
	if ptyErr != nil {
		return capturePipes(cmd)
	}

	var combined bytes.Buffer
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(&combined, ptmx)
	}()

	err = cmd.Wait()
	_ = ptmx.Close()
	<-ioDone

	return combined.Bytes(), nil, err
}

func capturePipes(cmd *exec.Cmd) (stdout, stderr []byte, err error) {
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// printReport writes the timed header followed by the captured output.
// Standard error is printed after standard output so failures are
// visible without interleaving.
func (r *Runner) printReport(elapsed time.Duration, stdout, stderr []byte) {
	label := fmt.Sprintf("Execution time: %s ", elapsed.Round(time.Millisecond))
	fill := r.terminalWidth() - len(label)
	if fill < 0 {
		fill = 0
	}

	fmt.Fprintln(r.out, label+strings.Repeat("-", fill))
	fmt.Fprintln(r.out)
	if len(stdout) > 0 {
		_, _ = r.out.Write(stdout)
	}
	if len(stderr) > 0 {
		_, _ = r.out.Write(stderr)
	}
}

func (r *Runner) terminalWidth() int {
	file, ok := r.out.(*os.File)
	if !ok {
		return fallbackTerminalWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return fallbackTerminalWidth
	}
	return width
}
