package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pvaneck/refstack/internal/guideline"
	"github.com/pvaneck/refstack/internal/parser"
	"github.com/pvaneck/refstack/internal/store"
)

// LoadError represents an error that occurred while loading an input file.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
}

// LoadGuideline reads and parses a guideline file.
// Parse failures come back as *parser.MalformedGuidelineError.
func LoadGuideline(path string) (*guideline.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: err.Error()}
	}
	return parser.Parse(raw)
}

// resolveGuideline loads the guideline a command argument names: a file path
// normally, or a version resolved through the cached guidelines directory when
// --guidelines is set.
func resolveGuideline(opts *RootOptions, arg string) (*guideline.Document, error) {
	if opts.GuidelinesDir == "" {
		return LoadGuideline(arg)
	}

	entry, err := opts.guidelineRegistry().Get(arg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: arg, Message: err.Error()}
		}
		return nil, err
	}
	return entry.Document, nil
}

// runFile is the submission file shape shared by JSON and YAML inputs.
// It mirrors the upload format of the certification service: a cloud product
// id, suite duration, and the list of passed tests.
type runFile struct {
	CPID            string            `json:"cpid" yaml:"cpid"`
	DurationSeconds int64             `json:"duration_seconds" yaml:"duration_seconds"`
	Results         []runFileResult   `json:"results" yaml:"results"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type runFileResult struct {
	Name string `json:"name" yaml:"name"`
}

// LoadRun reads a submission file into a store.Run.
//
// Accepted formats, chosen by extension:
//   - .json: either a run object ({"cpid": ..., "results": [{"name": ...}]})
//     or a bare JSON array of test names
//   - .yaml/.yml: the same shapes in YAML
//   - anything else: plain text, one test name per line, blank lines and
//     #-comments ignored
func LoadRun(path string) (store.Run, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return store.Run{}, &LoadError{Code: ErrCodeNotFound, Path: path, Message: err.Error()}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseRunJSON(path, raw)
	case ".yaml", ".yml":
		return parseRunYAML(path, raw)
	default:
		return parseRunLines(raw), nil
	}
}

// LoadResults reads just the passed test names from a submission file.
func LoadResults(path string) ([]string, error) {
	run, err := LoadRun(path)
	if err != nil {
		return nil, err
	}
	return run.Results, nil
}

func parseRunJSON(path string, raw []byte) (store.Run, error) {
	// Bare array of names first; a run object also starts with '{' so the
	// two shapes never collide.
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return store.Run{Results: names}, nil
	}

	var rf runFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		return store.Run{}, &LoadError{Code: ErrCodeBadInput, Path: path, Message: "not a recognized results file: " + err.Error()}
	}
	return rf.toRun(), nil
}

func parseRunYAML(path string, raw []byte) (store.Run, error) {
	var names []string
	if err := yaml.Unmarshal(raw, &names); err == nil && len(names) > 0 {
		return store.Run{Results: names}, nil
	}

	var rf runFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return store.Run{}, &LoadError{Code: ErrCodeBadInput, Path: path, Message: "not a recognized results file: " + err.Error()}
	}
	return rf.toRun(), nil
}

func parseRunLines(raw []byte) store.Run {
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return store.Run{Results: names}
}

func (rf runFile) toRun() store.Run {
	run := store.Run{
		CPID:            rf.CPID,
		DurationSeconds: rf.DurationSeconds,
		Metadata:        rf.Metadata,
	}
	for _, r := range rf.Results {
		if r.Name != "" {
			run.Results = append(run.Results, r.Name)
		}
	}
	return run
}
