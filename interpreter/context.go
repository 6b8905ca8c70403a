package interpreter

import (
	"path/filepath"
	"strings"
)

// SetSource names the program the runtime is about to execute. Runtime
// errors quote lines from source, and the main program's imports resolve
// against filename's directory. Names in angle brackets, such as "<repl>",
// keep the current import directory.
func (r *Runtime) SetSource(filename string, source string) {
	r.mod.Path = filename
	r.mod.lines = splitLinesPreserve(source)
	if filename != "" && !strings.HasPrefix(filename, "<") {
		r.mod.dir = filepath.Dir(filename)
	}
}
