// Package report writes analysis results as JSON documents next to the
// recordings they describe.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cwbudde/algo-acoustics/measure/acoustic"
)

// Suffix is appended to the recording's base name to form the report name.
const Suffix = "_result.json"

// recorderName matches the names handheld recorders give their files,
// e.g. "Rec 2024-05-17 14h03m22s.wav".
var recorderName = regexp.MustCompile(`Rec (\d{4}-\d{2}-\d{2}) (\d{2})h(\d{2})m(\d{2})s`)

// Document is the on-disk form of one analysis.
type Document struct {
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recordedAt"`
	AnalyzedAt time.Time `json:"analyzedAt"`

	Metrics *acoustic.Metrics `json:"metrics"`
}

// New builds the document for the recording at source. The recording time
// is taken from the file name when it follows the recorder convention and
// from the file's modification time otherwise.
func New(source string, m *acoustic.Metrics) *Document {
	return &Document{
		Source:     filepath.Base(source),
		RecordedAt: RecordedAt(source),
		AnalyzedAt: time.Now().UTC().Truncate(time.Second),
		Metrics:    m,
	}
}

// ParseTimestamp extracts the recording time from a recorder file name.
// The time is interpreted in UTC.
func ParseTimestamp(name string) (time.Time, bool) {
	match := recorderName.FindStringSubmatch(filepath.Base(name))
	if match == nil {
		return time.Time{}, false
	}

	stamp := fmt.Sprintf("%s %s:%s:%s", match[1], match[2], match[3], match[4])
	t, err := time.Parse(time.DateTime, stamp)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// RecordedAt returns the recording time of path, falling back to its
// modification time. It returns the zero time when neither is available.
func RecordedAt(path string) time.Time {
	if t, ok := ParseTimestamp(path); ok {
		return t
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}

	return info.ModTime().UTC().Truncate(time.Second)
}

// Path returns the report path for source inside dir.
func Path(dir, source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, base+Suffix)
}

// Write encodes doc into dir, creating the directory when needed, and
// returns the written path. The file is replaced atomically.
func Write(dir string, doc *Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create %q: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: encode %s: %w", doc.Source, err)
	}

	path := Path(dir, doc.Source)
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return "", fmt.Errorf("report: write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("report: write %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("report: write %q: %w", path, err)
	}

	return path, nil
}

// Read decodes a report written by [Write].
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("report: decode %q: %w", path, err)
	}
	if doc.Metrics == nil {
		return nil, fmt.Errorf("report: decode %q: no metrics", path)
	}

	return doc, nil
}
