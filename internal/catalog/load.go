package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/context-suggester/internal/features"
	"github.com/jonathan/context-suggester/internal/schemas"
	"github.com/jonathan/context-suggester/internal/types"
	rootschemas "github.com/jonathan/context-suggester/schemas"
)

// Options configures catalog loading
type Options struct {
	Logger *zap.Logger
}

// LoadResult is the accepted catalog plus what was skipped on the way.
type LoadResult struct {
	Suggestions  []types.Suggestion
	Files        int
	FilesSkipped int
	Rejected     int
	Issues       []types.Issue
}

// Loader validates catalog records against the suggestion schema, struct rules and the
// feature vocabulary.
type Loader struct {
	schema *schemas.Schema
	logger *zap.Logger
}

// NewLoader compiles the embedded record schema.
func NewLoader(opts *Options) (*Loader, error) {
	schema, err := schemas.Compile("suggestion.schema.json", rootschemas.Suggestion)
	if err != nil {
		return nil, &LoadError{Message: "failed to compile record schema", Cause: err}
	}

	logger := zap.NewNop()
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	return &Loader{schema: schema, logger: logger}, nil
}

// LoadDir recursively loads every *.json file under dir, in lexical path order.
// Only an unreadable root is fatal: bad files are skipped and bad records rejected, both counted.
func LoadDir(dir string, opts *Options) (*LoadResult, error) {
	loader, err := NewLoader(opts)
	if err != nil {
		return nil, err
	}
	return loader.LoadDir(dir)
}

// LoadDir recursively loads every *.json file under dir.
func (l *Loader) LoadDir(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read catalog directory %s", dir), Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Message: fmt.Sprintf("catalog path %s is not a directory", dir)}
	}

	result := &LoadResult{Suggestions: []types.Suggestion{}}
	seen := make(map[string]string)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			l.skipFile(result, path, "unreadable entry", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}

		result.Files++
		l.loadFile(result, path, seen)
		return nil
	})
	if walkErr != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to walk catalog directory %s", dir), Cause: walkErr}
	}

	l.logger.Info("catalog loaded",
		zap.String("dir", dir),
		zap.Int("files", result.Files),
		zap.Int("files_skipped", result.FilesSkipped),
		zap.Int("loaded", len(result.Suggestions)),
		zap.Int("rejected", result.Rejected),
	)
	return result, nil
}

func (l *Loader) loadFile(result *LoadResult, path string, seen map[string]string) {
	content, err := os.ReadFile(path)
	if err != nil {
		l.skipFile(result, path, "failed to read file", err)
		return
	}

	var records []json.RawMessage
	if err := json.Unmarshal(content, &records); err != nil {
		l.skipFile(result, path, "file is not a JSON array of records", err)
		return
	}

	for i, raw := range records {
		s, err := l.ParseRecord(raw)
		if err == nil && s.ID != "" {
			if first, dup := seen[s.ID]; dup {
				err = fmt.Errorf("duplicate id, first defined in %s", first)
			}
		}
		if err != nil {
			recErr := &RecordError{File: path, Index: i, ID: s.ID, Message: "record rejected", Cause: err}
			result.Rejected++
			result.Issues = append(result.Issues, types.Issue{Kind: types.IssueCatalog, Source: path, Message: recErr.Error()})
			l.logger.Warn("catalog record rejected", zap.String("file", path), zap.Int("index", i), zap.Error(err))
			continue
		}

		if s.ID != "" {
			seen[s.ID] = path
		}
		s.Source = path
		s.Index = len(result.Suggestions)
		result.Suggestions = append(result.Suggestions, s)
	}
}

func (l *Loader) skipFile(result *LoadResult, path, message string, cause error) {
	result.FilesSkipped++
	loadErr := &LoadError{Message: message, Cause: cause}
	result.Issues = append(result.Issues, types.Issue{Kind: types.IssueCatalog, Source: path, Message: loadErr.Error()})
	l.logger.Warn("catalog file skipped", zap.String("file", path), zap.Error(loadErr))
}

// ParseRecord validates one raw record and decodes it. The returned suggestion carries whatever
// fields decoded even on error, so callers can name the record.
func (l *Loader) ParseRecord(raw json.RawMessage) (types.Suggestion, error) {
	var s types.Suggestion

	if err := l.schema.ValidateBytes(raw); err != nil {
		_ = json.Unmarshal(raw, &s)
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return s, fmt.Errorf("schema: %s", ve.Summary())
		}
		return s, err
	}

	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("fields: %w", err)
	}
	if err := CheckPreferences(s.Preferences); err != nil {
		return s, err
	}
	return s, nil
}

// CheckPreferences verifies every key is in the vocabulary and every value is in [-1, 1] or the
// veto sentinel.
func CheckPreferences(prefs map[features.Key]float64) error {
	keys := make([]features.Key, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	features.SortKeys(keys)

	for _, k := range keys {
		if !features.Known(k) {
			return fmt.Errorf("unknown feature %q", k)
		}
		p := prefs[k]
		if types.IsVeto(p) {
			continue
		}
		if math.IsNaN(p) || p < -1 || p > 1 {
			return fmt.Errorf("preference %s=%v outside [-1, 1]", k, p)
		}
	}
	return nil
}
