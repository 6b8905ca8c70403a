package interpreter

import (
	"sort"

	"vx/value"
)

// Globals returns a copy of the top-level variables.
func (r *Runtime) Globals() map[string]value.Value {
	out := make(map[string]value.Value, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

// FuncNames returns sorted names of the functions declared so far.
func (r *Runtime) FuncNames() []string {
	return r.mod.Funcs.Names()
}

// ModuleAliases maps each import alias to the module file it is bound to.
func (r *Runtime) ModuleAliases() map[string]string {
	out := map[string]string{}
	for _, alias := range r.mod.Imports.Aliases() {
		m, _ := r.mod.Imports.Lookup(alias)
		out[alias] = m.Path
	}
	return out
}

// ModulesSnapshot returns module paths grouped by load state.
func (r *Runtime) ModulesSnapshot() (loading []string, loaded []string) {
	for path, st := range r.cache.states {
		switch st {
		case modLoading:
			loading = append(loading, path)
		case modLoaded:
			loaded = append(loaded, path)
		}
	}
	sort.Strings(loading)
	sort.Strings(loaded)
	return loading, loaded
}

// TestResults lists the outcome of every test block run so far, in order.
func (r *Runtime) TestResults() []TestResult {
	r.env.tests.mu.Lock()
	defer r.env.tests.mu.Unlock()
	return append([]TestResult(nil), r.env.tests.results...)
}

func (r *Runtime) Natives() []string {
	return r.env.natives.Names()
}
