// Package runner invokes the external analysis engine and turns its output
// into a parsed result document.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"carbontrace/pkg/config"
	"carbontrace/pkg/engine"
	"carbontrace/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	maxLineSize = 16 * 1024 * 1024
	waitDelay   = 5 * time.Second
)

// Request one engine invocation
type Request struct {
	TraceFile string
	Hardware  string // appended as --hardware when non-blank
}

// Output captured process output
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner runs the analysis engine as a subprocess
type Runner struct {
	executable  string
	script      ScriptSource
	timeout     time.Duration
	sanityBound float64
}

// New creates a runner from the analysis configuration. A configured bundle
// means the script is an entry inside that zip archive.
func New(cfg config.AnalysisConfig) *Runner {
	var script ScriptSource = FileScript{Path: cfg.Script}
	if cfg.Bundle != "" {
		script = ArchiveScript{Archive: cfg.Bundle, Entry: cfg.Script}
	}
	return NewWithScript(cfg, script)
}

// NewWithScript creates a runner with an explicit script source
func NewWithScript(cfg config.AnalysisConfig, script ScriptSource) *Runner {
	bound := cfg.SanityBound
	if bound <= 0 {
		bound = config.DefaultSanityBound
	}
	return &Runner{
		executable:  cfg.Executable,
		script:      script,
		timeout:     cfg.Timeout,
		sanityBound: bound,
	}
}

// BuildArgs returns the arguments passed after the executable
func BuildArgs(scriptPath, traceFile, hardware string) []string {
	args := []string{scriptPath, traceFile}
	if hw := strings.TrimSpace(hardware); hw != "" {
		args = append(args, "--hardware", hw)
	}
	return args
}

// Analyze runs the engine and parses the JSON document it prints
func (r *Runner) Analyze(ctx context.Context, req Request) (*engine.Document, error) {
	out, err := r.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	payload, ok := ExtractJSON(out.Stdout)
	if !ok {
		logger.WarnCtx(ctx, "no JSON found in engine output, using entire output as JSON")
		payload = out.Stdout
	}

	doc, err := engine.Parse([]byte(payload))
	if err != nil {
		return nil, newExecutionError(KindMalformedOutput, "engine output is not valid JSON", err)
	}

	if failed, message := doc.Failed(); failed {
		if message == "" {
			message = "unknown error in analysis engine"
		}
		return nil, newExecutionError(KindEngineFailure, message, nil)
	}

	if doc.Summary().ExceedsBound(r.sanityBound) {
		logger.WarnCtx(ctx, "suspicious summary values above %g for %s, possible unit conversion error", r.sanityBound, req.TraceFile)
	}

	return doc, nil
}

// Run executes the engine once and captures its output. Non-zero exit,
// empty stdout, pipe errors and cancellation all return *ExecutionError.
func (r *Runner) Run(ctx context.Context, req Request) (*Output, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	scriptPath, release, err := r.script.Materialize(ctx)
	if err != nil {
		return nil, newExecutionError(KindIOFailure, "failed to resolve analysis script", err)
	}
	defer release()

	args := BuildArgs(scriptPath, req.TraceFile, req.Hardware)
	logger.InfoCtx(ctx, "executing command: %s %s", r.executable, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.executable, args...)
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8", "PYTHONUNBUFFERED=1")
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, newExecutionError(KindIOFailure, "failed to get stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, newExecutionError(KindIOFailure, "failed to get stderr pipe", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, newExecutionError(KindIOFailure, "failed to start analysis engine", err)
	}

	// Unblock the readers if the wait is interrupted while a grandchild
	// still holds the pipes open.
	stopClosing := context.AfterFunc(ctx, func() {
		stdout.Close()
		stderr.Close()
	})
	defer stopClosing()

	var outBuf, errBuf strings.Builder
	var g errgroup.Group
	g.Go(func() error {
		return drain(stdout, &outBuf, func(line string) {
			logger.DebugCtx(ctx, "engine output: %s", line)
		})
	})
	g.Go(func() error {
		return drain(stderr, &errBuf, func(line string) {
			logger.ErrorCtx(ctx, "engine error: %s", line)
		})
	})
	readErr := g.Wait()
	waitErr := cmd.Wait()

	out := &Output{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	logger.InfoCtx(ctx, "analysis engine exited with code %d after %v", out.ExitCode, out.Duration)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, newExecutionError(KindInterrupted, "wait for analysis engine interrupted", ctxErr)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, newExecutionError(KindIOFailure, "failed to wait for analysis engine", waitErr)
		}
		return nil, &ExecutionError{
			Kind:     KindExitCode,
			ExitCode: exitErr.ExitCode(),
			Stderr:   out.Stderr,
		}
	}

	if readErr != nil {
		return nil, newExecutionError(KindIOFailure, "failed to read engine output", readErr)
	}

	if strings.TrimSpace(out.Stdout) == "" {
		return nil, &ExecutionError{Kind: KindEmptyOutput, Stderr: out.Stderr}
	}

	return out, nil
}

// drain copies r line by line into buf, calling onLine for each line.
// After a read error the rest of r is discarded so the child never blocks
// on a full pipe.
func drain(r io.Reader, buf *strings.Builder, onLine func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')
		onLine(line)
	}
	err := scanner.Err()
	if err == nil || errors.Is(err, os.ErrClosed) {
		return nil
	}
	_, _ = io.Copy(io.Discard, r)
	return fmt.Errorf("read engine stream: %w", err)
}
