package interpreter

import (
	"strings"

	"github.com/pkg/errors"

	"vx/ast"
	"vx/value"
)

func (r *Runtime) eval(e ast.Expr) (value.Value, error) {
	switch x := e.(type) {
	case *ast.NumberLiteral:
		return value.Number(x.Value), nil
	case *ast.BoolLiteral:
		return value.Bool(x.Value), nil
	case *ast.StringLiteral:
		return value.String(x.Value), nil
	case *ast.NullLiteral:
		return value.Null(), nil

	case *ast.Variable:
		v, ok := r.vars[x.Name]
		if !ok {
			return value.Value{}, r.fail(UndefinedVariable, "undefined variable %q", x.Name)
		}
		return v, nil

	case *ast.ArrayLiteral:
		elems := make([]value.Value, 0, len(x.Elements))
		for _, el := range x.Elements {
			v, err := r.eval(el)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, v)
		}
		return value.Array(elems), nil

	case *ast.ObjectLiteral:
		m := make(map[string]value.Value, len(x.Entries))
		for _, entry := range x.Entries {
			v, err := r.eval(entry.Value)
			if err != nil {
				return value.Value{}, err
			}
			m[entry.Key] = v
		}
		return value.Object(m), nil

	case *ast.Interpolation:
		var b strings.Builder
		for _, part := range x.Parts {
			if part.Expr == nil {
				b.WriteString(part.Text)
				continue
			}
			v, err := r.eval(part.Expr)
			if err != nil {
				return value.Value{}, err
			}
			b.WriteString(v.Display())
		}
		return value.String(b.String()), nil

	case *ast.Comparison:
		return r.compare(x)

	case *ast.PropertyAccess:
		return r.evalProperty(x)

	case *ast.CallExpr:
		return r.evalCall(x)
	}

	return value.Value{}, errors.Errorf("unsupported expression %s", e.NodeKind())
}

// compare supports every operator on numbers and only equality on strings
// and booleans. Operands of different kinds never compare.
func (r *Runtime) compare(x *ast.Comparison) (value.Value, error) {
	left, err := r.eval(x.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := r.eval(x.Right)
	if err != nil {
		return value.Value{}, err
	}

	if left.Kind != right.Kind {
		return value.Value{}, r.fail(InvalidComparison, "cannot compare %s %s %s", left.Kind, x.Op, right.Kind)
	}

	switch left.Kind {
	case value.KindNumber:
		a, b := left.Num, right.Num
		switch x.Op {
		case "==":
			return value.Bool(a == b), nil
		case "!=":
			return value.Bool(a != b), nil
		case "<":
			return value.Bool(a < b), nil
		case ">":
			return value.Bool(a > b), nil
		case "<=":
			return value.Bool(a <= b), nil
		case ">=":
			return value.Bool(a >= b), nil
		}
	case value.KindString, value.KindBool:
		switch x.Op {
		case "==":
			return value.Bool(value.Equal(left, right)), nil
		case "!=":
			return value.Bool(!value.Equal(left, right)), nil
		}
	}
	return value.Value{}, r.fail(InvalidComparison, "operator %s is not supported between %s values", x.Op, left.Kind)
}

// evalProperty resolves alias.fn to a function reference when the object is
// an imported module's alias, and reads an object key otherwise.
func (r *Runtime) evalProperty(x *ast.PropertyAccess) (value.Value, error) {
	if v, ok := x.Object.(*ast.Variable); ok {
		if m, found := r.mod.Imports.Lookup(v.Name); found {
			fn, err := r.exportedFunc(m, v.Name, x.Property)
			if err != nil {
				return value.Value{}, err
			}
			return value.Func(&value.FuncRef{
				Name: v.Name + "." + x.Property,
				Impl: &boundFunc{fn: fn, mod: m},
			}), nil
		}
	}

	obj, err := r.eval(x.Object)
	if err != nil {
		return value.Value{}, err
	}
	if obj.Kind != value.KindObject {
		return value.Value{}, r.fail(InvalidProperty, "cannot read property %q of %s %s", x.Property, obj.Kind, obj.Repr())
	}
	v, ok := obj.Obj[x.Property]
	if !ok {
		return value.Value{}, r.fail(InvalidProperty, "property %q not found in %s", x.Property, obj.Repr())
	}
	return v, nil
}

// ---------- Calls ----------

// boundFunc is the implementation behind a function reference: the
// function together with the module whose scope it runs in.
type boundFunc struct {
	fn  *Function
	mod *Module
}

func (r *Runtime) evalCall(c *ast.CallExpr) (value.Value, error) {
	args := make([]value.Value, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := r.eval(a)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}
	return r.invoke(c.Name, args)
}

// invoke dispatches a call by name: alias.fn to an imported module, then the
// thread intrinsics, natives, this scope's functions, and finally a
// variable holding a function reference.
func (r *Runtime) invoke(name string, args []value.Value) (value.Value, error) {
	if alias, fname, dotted := strings.Cut(name, "."); dotted {
		m, ok := r.mod.Imports.Lookup(alias)
		if !ok {
			return value.Value{}, r.fail(UnknownModule, "unknown module %q in call to %s", alias, name)
		}
		fn, err := r.exportedFunc(m, alias, fname)
		if err != nil {
			return value.Value{}, err
		}
		return r.apply(fn, m, args)
	}

	switch name {
	case "thread_spawn":
		return r.spawn(args)
	case "thread_join":
		return r.join(args)
	case "thread_status":
		return r.status(args)
	}

	if native, ok := r.env.natives.Lookup(name); ok {
		v, err := native(args)
		if err != nil {
			return value.Value{}, r.fail(NativeFailure, "%s: %v", name, err)
		}
		return v, nil
	}

	if fn, ok := r.mod.Funcs.Lookup(name); ok {
		return r.apply(fn, r.mod, args)
	}

	if v, ok := r.vars[name]; ok && v.Kind == value.KindFunction {
		return r.applyRef(v.Fn, args)
	}

	return value.Value{}, r.fail(UnknownFunction, "unknown function %q", name)
}

// apply runs fn in a child runtime scoped to mod, with the arguments bound
// to its parameters. A body that ends without return yields null.
func (r *Runtime) apply(fn *Function, mod *Module, args []value.Value) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return value.Value{}, r.fail(ArityMismatch, "function %q expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	if r.depth+1 > r.env.settings.maxDepth {
		return value.Value{}, r.fail(CallDepth, "maximum call depth %d exceeded calling %q", r.env.settings.maxDepth, fn.Name)
	}

	locals := make(map[string]value.Value, len(fn.Params))
	for i, p := range fn.Params {
		locals[p] = args[i]
	}

	err := r.child(locals, mod.scope(), fn.Name).execBlock(fn.Body)
	if rs, ok := err.(ReturnSignal); ok {
		return rs.Val, nil
	}
	if err != nil {
		return value.Value{}, err
	}
	return value.Null(), nil
}

func (r *Runtime) applyRef(ref *value.FuncRef, args []value.Value) (value.Value, error) {
	b, ok := ref.Impl.(*boundFunc)
	if !ok {
		return value.Value{}, r.fail(UnknownFunction, "%s is not callable", ref.Name)
	}
	return r.apply(b.fn, b.mod, args)
}

// Call invokes a function by name as a call expression in the program
// would.
func (r *Runtime) Call(name string, args ...value.Value) (value.Value, error) {
	return r.invoke(name, args)
}
