package ocr

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// Runner executes an external OCR tool. Tests replace it to avoid needing
// tesseract or poppler on the machine.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// stderrLogLimit bounds how much tool output lands in a single log record.
const stderrLogLimit = 4 << 10

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	log := common.LoggerFrom(ctx, r.logger)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	began := time.Now()
	err := cmd.Run()
	elapsed := time.Since(began)

	if err == nil {
		log.DebugContext(ctx, "ocr.exec.ok",
			"tool", name,
			"argc", len(args),
			"elapsed_ms", elapsed.Milliseconds(),
			"stdout_bytes", stdout.Len(),
		)
		return stdout.Bytes(), stderr.Bytes(), nil
	}

	attrs := []any{
		"tool", name,
		"args", args,
		"elapsed_ms", elapsed.Milliseconds(),
		"exit_code", exitCode(err),
		"stderr_tail", tail(stderr.String(), stderrLogLimit),
		"error", err,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		attrs = append(attrs, "ctx_error", ctxErr)
	}
	log.ErrorContext(ctx, "ocr.exec.failed", attrs...)
	return stdout.Bytes(), stderr.Bytes(), err
}

// exitCode is the process exit status, or -1 when the tool never ran or was killed.
func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// tail keeps the last max bytes of s without splitting a rune. Tool
// diagnostics put the actual failure at the end.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := len(s) - max
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return "..." + s[cut:]
}
