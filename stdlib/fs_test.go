package stdlib

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"vx/value"
)

func TestFileNatives(t *testing.T) {
	dir := t.TempDir()
	tbl := New(Env{})
	path := filepath.Join(dir, "notes.txt")
	p := value.String(path)

	mustCall := func(name string, args ...value.Value) value.Value {
		t.Helper()
		v, err := call(t, tbl, name, args...)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return v
	}

	mustCall("write_file", p, value.String("one\n"))
	mustCall("append_file", p, value.String("two\n"))
	if got := mustCall("read_file", p).Str; got != "one\ntwo\n" {
		t.Fatalf("read_file = %q", got)
	}
	if !mustCall("file_exists", p).Bool {
		t.Fatal("file_exists = false for a written file")
	}

	sub := value.String(filepath.Join(dir, "a", "b"))
	mustCall("create_dir", sub)
	moved := value.String(filepath.Join(dir, "a", "b", "moved.txt"))
	mustCall("rename_file", p, moved)
	if mustCall("file_exists", p).Bool {
		t.Fatal("old path still exists after rename")
	}
	if got := mustCall("list_dir", sub).Display(); got != `["moved.txt"]` {
		t.Fatalf("list_dir = %s", got)
	}
	mustCall("delete_file", moved)
	if mustCall("file_exists", moved).Bool {
		t.Fatal("file still exists after delete")
	}

	if _, err := call(t, tbl, "read_file", value.String(filepath.Join(dir, "missing"))); err == nil {
		t.Fatal("read_file on a missing file succeeded")
	}
}

func TestHTTPNatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = io.WriteString(w, r.Method+":"+string(body))
	}))
	defer srv.Close()

	tbl := New(Env{HTTP: srv.Client()})
	url := value.String(srv.URL)
	tests := []struct {
		name string
		args []value.Value
		want string
	}{
		{"http_get", []value.Value{url}, "GET:"},
		{"http_post", []value.Value{url, value.String("a=1")}, "POST:a=1"},
		{"http_put", []value.Value{url, value.String("b")}, "PUT:b"},
		{"http_delete", []value.Value{url}, "DELETE:"},
	}
	for _, tt := range tests {
		got, err := call(t, tbl, tt.name, tt.args...)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got.Str != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, got.Str, tt.want)
		}
	}
}
