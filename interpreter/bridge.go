package interpreter

import (
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"
	"github.com/pkg/errors"

	"vx/value"
)

// Bridge tracks threads started with thread_spawn. Each thread runs its own
// runtime over a snapshot of the spawner's functions and modules, so no
// interpreter state is shared between threads.
type Bridge struct {
	mu      sync.Mutex
	running map[string]*thread
	issued  map[string]struct{}
	joined  *ristretto.Cache
	logger  *log.Logger
}

type thread struct {
	name   string
	done   chan struct{}
	result value.Value
	err    error
}

// NewBridge remembers up to capacity joined results, so a repeated join can
// still answer while the result is cached.
func NewBridge(capacity int64, logger *log.Logger) *Bridge {
	if capacity < 1 {
		capacity = DefaultJoinedResults
	}
	b := &Bridge{
		running: map[string]*thread{},
		issued:  map[string]struct{}{},
		logger:  logger,
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        capacity * 10,
		MaxCost:            capacity,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		logger.Warn().Str("error", err.Error()).Msg("joined results will not be remembered")
	} else {
		b.joined = cache
	}
	return b
}

// Spawn starts run on a new goroutine and returns the thread id at once.
func (b *Bridge) Spawn(name string, run func() (value.Value, error)) string {
	id := "th_" + xid.New().String()
	th := &thread{name: name, done: make(chan struct{})}

	b.mu.Lock()
	b.running[id] = th
	b.issued[id] = struct{}{}
	b.mu.Unlock()

	go func() {
		defer close(th.done)
		defer func() {
			if p := recover(); p != nil {
				th.err = errors.Errorf("thread panicked: %v", p)
			}
		}()
		th.result, th.err = run()
	}()

	b.logger.Debug().Str("thread", id).Str("function", name).Msg("thread spawned")
	return id
}

// Join blocks until the thread finishes and returns its outcome. Joining an
// id that was never issued fails at once.
func (b *Bridge) Join(id string) (value.Value, error) {
	b.mu.Lock()
	th, running := b.running[id]
	_, issued := b.issued[id]
	b.mu.Unlock()

	if !running {
		if !issued {
			return value.Value{}, errors.Errorf("unknown thread %q", id)
		}
		if b.joined != nil {
			if v, found := b.joined.Get(id); found {
				th := v.(*thread)
				return th.result, th.err
			}
		}
		return value.Value{}, errors.Errorf("thread %q result not found", id)
	}

	<-th.done
	if b.joined != nil {
		b.joined.Set(id, th, 1)
		b.joined.Wait()
	}
	b.mu.Lock()
	if b.running[id] == th {
		delete(b.running, id)
	}
	b.mu.Unlock()

	b.logger.Debug().Str("thread", id).Str("function", th.name).Msg("thread joined")
	return th.result, th.err
}

// Status reports "running", "done" or "unknown" without blocking.
func (b *Bridge) Status(id string) string {
	b.mu.Lock()
	th, running := b.running[id]
	_, issued := b.issued[id]
	b.mu.Unlock()

	switch {
	case running:
		select {
		case <-th.done:
			return "done"
		default:
			return "running"
		}
	case issued:
		return "done"
	}
	return "unknown"
}

// ---------- Intrinsics ----------

// spawn takes a function name or reference followed by its arguments. The
// function is resolved now so a bad name fails in the spawning thread.
func (r *Runtime) spawn(args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, r.fail(ArityMismatch, "thread_spawn expects a function and its arguments")
	}
	target := args[0]
	switch target.Kind {
	case value.KindString:
		if err := r.checkCallable(target.Str); err != nil {
			return value.Value{}, err
		}
	case value.KindFunction:
	default:
		return value.Value{}, r.fail(NativeFailure, "thread_spawn: argument 1 must be a function name or reference, got %s", target.Kind)
	}

	snap := newSnapshot()
	worker := &Runtime{
		vars:  map[string]value.Value{},
		mod:   snap.module(r.mod),
		cache: snap.cache(r.cache),
		env:   r.env,
	}
	callArgs := make([]value.Value, 0, len(args)-1)
	for _, a := range args[1:] {
		callArgs = append(callArgs, snap.value(a))
	}

	name := target.Str
	run := func() (value.Value, error) { return worker.invoke(name, callArgs) }
	if target.Kind == value.KindFunction {
		ref := snap.value(target).Fn
		name = ref.Name
		run = func() (value.Value, error) { return worker.applyRef(ref, callArgs) }
	}

	return value.String(r.env.threads.Spawn(name, run)), nil
}

// checkCallable fails the way invoke would for a name it cannot resolve.
func (r *Runtime) checkCallable(name string) error {
	if alias, fname, dotted := strings.Cut(name, "."); dotted {
		m, ok := r.mod.Imports.Lookup(alias)
		if !ok {
			return r.fail(UnknownModule, "unknown module %q in call to %s", alias, name)
		}
		_, err := r.exportedFunc(m, alias, fname)
		return err
	}
	if _, ok := r.env.natives.Lookup(name); ok {
		return nil
	}
	if _, ok := r.mod.Funcs.Lookup(name); ok {
		return nil
	}
	return r.fail(UnknownFunction, "unknown function %q", name)
}

func (r *Runtime) threadID(intrinsic string, args []value.Value) (string, error) {
	if len(args) != 1 || args[0].Kind != value.KindString {
		return "", r.fail(NativeFailure, "%s expects one thread id", intrinsic)
	}
	return args[0].Str, nil
}

func (r *Runtime) join(args []value.Value) (value.Value, error) {
	id, err := r.threadID("thread_join", args)
	if err != nil {
		return value.Value{}, err
	}
	v, err := r.env.threads.Join(id)
	if err != nil {
		return value.Value{}, r.fail(ThreadFailure, "thread_join %s: %s", id, Message(err))
	}
	return v, nil
}

func (r *Runtime) status(args []value.Value) (value.Value, error) {
	id, err := r.threadID("thread_status", args)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(r.env.threads.Status(id)), nil
}

// ---------- Snapshots ----------

// snapshot deep-copies modules for a new thread. The memo keeps a module
// imported under several aliases a single module in the copy.
type snapshot struct {
	modules map[*Module]*Module
}

func newSnapshot() *snapshot {
	return &snapshot{modules: map[*Module]*Module{}}
}

func (s *snapshot) module(m *Module) *Module {
	if c, ok := s.modules[m]; ok {
		return c
	}
	c := &Module{
		Path:    m.Path,
		Funcs:   m.Funcs.clone(),
		Imports: NewModuleTable(),
		dir:     m.dir,
		lines:   m.lines,
		sealed:  m.sealed,
	}
	s.modules[m] = c
	for alias, dep := range m.Imports.all() {
		c.Imports.byAlias[alias] = s.module(dep)
	}
	return c
}

func (s *snapshot) cache(mc *moduleCache) *moduleCache {
	c := newModuleCache()
	for path, m := range mc.byPath {
		c.byPath[path] = s.module(m)
	}
	for path, st := range mc.states {
		c.states[path] = st
	}
	c.stack = append(c.stack, mc.stack...)
	return c
}

// value copies v, rebinding function references to the copied modules.
func (s *snapshot) value(v value.Value) value.Value {
	switch v.Kind {
	case value.KindArray:
		out := make([]value.Value, len(v.Arr))
		for i, el := range v.Arr {
			out[i] = s.value(el)
		}
		return value.Array(out)
	case value.KindObject:
		out := make(map[string]value.Value, len(v.Obj))
		for k, el := range v.Obj {
			out[k] = s.value(el)
		}
		return value.Object(out)
	case value.KindFunction:
		b, ok := v.Fn.Impl.(*boundFunc)
		if !ok {
			return v
		}
		mod := s.module(b.mod)
		fn, found := mod.Funcs.Lookup(b.fn.Name)
		if !found {
			cp := *b.fn
			fn = &cp
		}
		return value.Func(&value.FuncRef{Name: v.Fn.Name, Impl: &boundFunc{fn: fn, mod: mod}})
	}
	return v
}
