package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cartola-dev/cartola/internal/statement"
)

// Parser converts an uploaded statement into transactions.
type Parser interface {
	Parse(data []byte, filename string) (*statement.Result, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers. The
// statement format uses p, or a default parser when p is nil.
func DefaultRegistry(p *statement.Parser) *Registry {
	if p == nil {
		p = statement.New()
	}
	r := NewRegistry()
	r.Register(NewStatementParser(p))
	return r
}

// StatementParser adapts the heuristic statement parser to the registry.
type StatementParser struct {
	p *statement.Parser
}

// NewStatementParser wraps p.
func NewStatementParser(p *statement.Parser) *StatementParser {
	return &StatementParser{p: p}
}

// Format returns the parser name.
func (s *StatementParser) Format() string { return "cartola" }

// Parse runs the statement parser.
func (s *StatementParser) Parse(data []byte, filename string) (*statement.Result, error) {
	return s.p.Parse(data, filename)
}

// DefaultExtensions are the spreadsheet types accepted for import.
var DefaultExtensions = []string{".xlsx", ".xlsm"}

// DefaultMaxBytes caps the size of a single upload.
const DefaultMaxBytes int64 = 10 << 20

var (
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned for files without an accepted extension.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// importDir is the subdirectory for statements waiting to be imported.
const importDir = "import"

// processedDir is the subdirectory for imported statements.
const processedDir = "import/processed"

// Accepts reports whether name has one of the extensions (case-insensitive).
func Accepts(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Scan returns statement files in <repoRoot>/import/.
func Scan(repoRoot string, extensions []string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if !Accepts(e.Name(), extensions) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// ReadUpload reads a statement file, enforcing the type and size limits before
// any bytes reach a parser. maxBytes <= 0 means DefaultMaxBytes.
func ReadUpload(path string, maxBytes int64, extensions []string) ([]byte, error) {
	if !Accepts(path, extensions) {
		return nil, fmt.Errorf("%s: %w (accepted: %s)", filepath.Base(path), ErrUnsupportedType, strings.Join(extensions, ", "))
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", filepath.Base(path), ErrTooLarge, maxBytes)
	}
	return data, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
