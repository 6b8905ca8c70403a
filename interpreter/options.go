package interpreter

import (
	"io"
	"net/http"
	"os"

	"github.com/oarkflow/log"
)

const (
	DefaultMaxCallDepth  = 10000
	DefaultExtension     = ".vx"
	DefaultJoinedResults = 1024
)

type settings struct {
	out           io.Writer
	logger        *log.Logger
	baseDir       string
	maxDepth      int
	modulePaths   []string
	ext           string
	joinedResults int64
	http          *http.Client
}

func defaultSettings() settings {
	return settings{
		out:           os.Stdout,
		logger:        &log.DefaultLogger,
		baseDir:       ".",
		maxDepth:      DefaultMaxCallDepth,
		ext:           DefaultExtension,
		joinedResults: DefaultJoinedResults,
	}
}

type Option func(*settings)

// WithOutput sends print output (and the dump native) to w.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBaseDir sets the directory the main program's imports resolve
// against until SetSource names a file.
func WithBaseDir(dir string) Option {
	return func(s *settings) { s.baseDir = dir }
}

func WithMaxCallDepth(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// WithModulePaths adds search roots for relative imports not found next to
// the importing file.
func WithModulePaths(paths ...string) Option {
	return func(s *settings) { s.modulePaths = append(s.modulePaths, paths...) }
}

// WithExtension sets the suffix tried for extension-less import paths. An
// empty ext disables the extra candidate.
func WithExtension(ext string) Option {
	return func(s *settings) { s.ext = ext }
}

// WithJoinedResults bounds how many joined thread results are remembered
// for repeated joins.
func WithJoinedResults(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.joinedResults = n
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.http = c }
}
