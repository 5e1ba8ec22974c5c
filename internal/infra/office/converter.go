package office

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"pdf-manager/internal/domain"
)

// Conversions that outlive this are stuck office processes, not slow files.
const convertTimeout = 2 * time.Minute

// Converter implements domain.OfficeConverter by shelling out to a
// unoconv-compatible binary: <binary> -f pdf -o <out> <in>.
type Converter struct {
	binary  string
	tempDir string
	logger  domain.Logger
}

// NewConverter creates a converter around the configured binary.
func NewConverter(binary, tempDir string, logger domain.Logger) *Converter {
	return &Converter{
		binary:  binary,
		tempDir: tempDir,
		logger:  logger,
	}
}

// ToPDF writes data into a scratch workspace, runs the converter, and
// returns the produced PDF bytes. The workspace is removed before return.
func (c *Converter) ToPDF(ctx context.Context, filename string, data []byte) ([]byte, error) {
	workDir, err := os.MkdirTemp(c.tempDir, "office-convert-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inPath := filepath.Join(workDir, "input"+filepath.Ext(filename))
	outPath := filepath.Join(workDir, "output.pdf")
	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write input file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, "-f", "pdf", "-o", outPath, inPath)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		c.logger.Error("Office conversion failed", err, "binary", c.binary, "file", filename, "stderr", stderr.String())
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("conversion timed out after %s", convertTimeout)
		}
		return nil, fmt.Errorf("converter %s failed: %w", c.binary, err)
	}

	pdf, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("converter produced no output: %w", err)
	}
	if !domain.SniffPDF(pdf) {
		return nil, fmt.Errorf("converter output is not a PDF")
	}

	c.logger.Debug("Office conversion finished", "file", filename, "duration_ms", time.Since(start).Milliseconds(), "bytes", len(pdf))
	return pdf, nil
}
