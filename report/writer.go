package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/vuln-correlator/correlator"
	"github.com/aquasecurity/vuln-correlator/utils"
)

const (
	matchesFolder = "matches"
	statusKey     = "matches"
)

var pathSafe = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

// Writer stores correlation reports as one pretty printed JSON file per advisory
type Writer struct {
	*options
}

// NewWriter return new writer instance
func NewWriter(opts ...option) Writer {
	o := &options{
		outputDir: utils.ReportDir(),
		folder:    matchesFolder,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return Writer{
		options: o,
	}
}

type options struct {
	outputDir string
	folder    string
	now       func() time.Time
}

type option func(*options)

// WithOutputDir sets the directory reports and the status file are written to
func WithOutputDir(dir string) option {
	return func(o *options) {
		o.outputDir = dir
	}
}

func WithClock(now func() time.Time) option {
	return func(o *options) {
		o.now = now
	}
}

// Dir is the folder holding the report files
func (w Writer) Dir() string {
	return filepath.Join(w.outputDir, w.folder)
}

// Write replaces the report folder with the given reports and records the
// time of the run in last_updated.json.
func (w Writer) Write(ctx context.Context, reports []correlator.Report) error {
	log := zerolog.Ctx(ctx).With().Str("component", "report").Logger()
	if len(reports) == 0 {
		return fmt.Errorf("no correlation reports to write")
	}
	fp := w.Dir()
	log.Debug().Str("dir", fp).Msg("Remove reports directory")
	if err := os.RemoveAll(fp); err != nil {
		return fmt.Errorf("failed to remove reports directory: %w", err)
	}
	if err := os.MkdirAll(fp, 0755); err != nil {
		return fmt.Errorf("mkdir error: %w", err)
	}
	written := make(map[string]struct{}, len(reports))
	for _, r := range reports {
		name := fileName(r)
		if _, ok := written[name]; ok {
			// several feed entries can carry the same advisory id
			name = collisionName(r)
			log.Warn().Str("advisory", r.Advisory.ID).Str("file", name).Msg("Duplicate advisory id, report written under its own id")
		}
		written[name] = struct{}{}

		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		var prettyJSON bytes.Buffer
		if err := json.Indent(&prettyJSON, data, "", "\t"); err != nil {
			return fmt.Errorf("failed to format json: %w", err)
		}
		filePath := filepath.Join(fp, name)
		if err = os.WriteFile(filePath, prettyJSON.Bytes(), 0644); err != nil {
			return xerrors.Errorf("write error: %w", err)
		}
	}
	log.Info().Int("reports", len(reports)).Str("dir", fp).Msg("Reports written")

	return SetLastUpdatedDate(w.outputDir, statusKey, w.now().UTC())
}

// fileName names a report after its advisory, or after the report itself
// when the advisory has no id. Path separators never reach the file system.
func fileName(r correlator.Report) string {
	name := r.Advisory.ID
	if name == "" {
		name = r.ID
	}
	return fmt.Sprintf("%s.json", pathSafe.Replace(name))
}

// collisionName is the file name of a report whose advisory id was already written
func collisionName(r correlator.Report) string {
	if r.Advisory.ID == "" {
		return fileName(r)
	}
	return fmt.Sprintf("%s-%s.json", pathSafe.Replace(r.Advisory.ID), pathSafe.Replace(r.ID))
}
