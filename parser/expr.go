package parser

import (
	"errors"
	"strconv"
	"strings"

	"vx/ast"
	"vx/lexer"
)

// Longer operators first so "<=" is not read as "<".
var comparisonOps = []string{"==", "!=", "<=", ">=", "<", ">"}

// ParseExpression turns one text fragment into exactly one expression.
func ParseExpression(text string) (ast.Expr, error) {
	return parseExpr(text)
}

func parseExpr(text string) (ast.Expr, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, errorf("expected an expression")
	}

	if n, ok, err := parseNumber(s); ok || err != nil {
		return n, err
	}
	switch s {
	case "true":
		return &ast.BoolLiteral{Value: true}, nil
	case "false":
		return &ast.BoolLiteral{Value: false}, nil
	case "null":
		return &ast.NullLiteral{}, nil
	}

	if depth, inString := lexer.Depth(s); inString {
		return nil, errorf("unterminated string in %q", s)
	} else if at := lexer.Mismatch(s); at >= 0 {
		return nil, errorf("unexpected %q in %q", s[at], s)
	} else if depth != 0 {
		return nil, errorf("unbalanced brackets in %q", s)
	}

	switch s[0] {
	case '"':
		if lexer.MatchingQuote(s, 0) == len(s)-1 {
			return parseStringLiteral(s[1 : len(s)-1])
		}
	case '[':
		if lexer.MatchingClose(s, 0) == len(s)-1 {
			return parseArray(s[1 : len(s)-1])
		}
	case '{':
		if lexer.MatchingClose(s, 0) == len(s)-1 {
			return parseObject(s[1 : len(s)-1])
		}
	}

	if terms := lexer.SplitTopLevel(s, '+'); len(terms) > 1 {
		return parseConcat(terms)
	}

	if at, op := lexer.IndexOperator(s, comparisonOps); at >= 0 {
		return parseComparison(s, at, op)
	}

	if strings.ContainsRune(s, '(') {
		return parseCallOrChain(s)
	}
	if strings.ContainsRune(s, '.') {
		return parsePath(s)
	}
	if lexer.IsIdent(s) {
		return &ast.Variable{Name: s}, nil
	}
	return nil, errorf("invalid expression %q", s)
}

// parseNumber reports ok for a well-formed int32 literal and an error for a
// decimal literal that does not fit.
func parseNumber(s string) (ast.Expr, bool, error) {
	if strings.HasPrefix(s, "+") {
		return nil, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err == nil {
		return &ast.NumberLiteral{Value: int32(n)}, true, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return nil, false, errorf("integer literal %s is out of range", s)
	}
	return nil, false, nil
}

func parseStringLiteral(raw string) (ast.Expr, error) {
	if strings.Contains(raw, "${") {
		return parseInterpolation(raw)
	}
	return &ast.StringLiteral{Value: strings.ReplaceAll(raw, `\"`, `"`)}, nil
}

func parseArray(inner string) (ast.Expr, error) {
	elems := []ast.Expr{}
	for _, part := range lexer.SplitTopLevel(inner, ',') {
		if strings.TrimSpace(part) == "" {
			continue
		}
		e, err := parseExpr(part)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return &ast.ArrayLiteral{Elements: elems}, nil
}

func parseObject(inner string) (ast.Expr, error) {
	obj := &ast.ObjectLiteral{}
	seen := map[string]bool{}
	for _, part := range lexer.SplitTopLevel(inner, ',') {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		at, _ := lexer.IndexOperator(entry, []string{":"})
		if at < 0 {
			return nil, errorf("object entry %q must be key: value", entry)
		}
		key, err := objectKey(strings.TrimSpace(entry[:at]))
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, errorf("duplicate object key %q", key)
		}
		seen[key] = true

		val, err := parseExpr(entry[at+1:])
		if err != nil {
			return nil, err
		}
		obj.Entries = append(obj.Entries, ast.ObjectEntry{Key: key, Value: val})
	}
	return obj, nil
}

func objectKey(k string) (string, error) {
	if lexer.IsIdent(k) {
		return k, nil
	}
	if len(k) >= 2 && k[0] == '"' && lexer.MatchingQuote(k, 0) == len(k)-1 {
		key := strings.ReplaceAll(k[1:len(k)-1], `\"`, `"`)
		if key != "" {
			return key, nil
		}
	}
	return "", errorf("invalid object key %q", k)
}

// parseConcat right-folds the terms of a+b+c into
// string_concat(a, string_concat(b, c)).
func parseConcat(terms []string) (ast.Expr, error) {
	exprs := make([]ast.Expr, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) == "" {
			return nil, errorf("'+' is missing an operand")
		}
		e, err := parseExpr(t)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	acc := exprs[len(exprs)-1]
	for i := len(exprs) - 2; i >= 0; i-- {
		acc = &ast.CallExpr{Name: "string_concat", Args: []ast.Expr{exprs[i], acc}}
	}
	return acc, nil
}

func parseComparison(s string, at int, op string) (ast.Expr, error) {
	left, right := s[:at], s[at+len(op):]
	if strings.TrimSpace(left) == "" || strings.TrimSpace(right) == "" {
		return nil, errorf("comparison %q is missing an operand", s)
	}
	if next, _ := lexer.IndexOperator(right, comparisonOps); next >= 0 {
		return nil, errorf("chained comparison %q is not supported", s)
	}
	l, err := parseExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := parseExpr(right)
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{Left: l, Op: op, Right: r}, nil
}

// parseCallOrChain handles name(args), mod.fn(args) and property chains
// hanging off a call result such as f(x).a.b.
func parseCallOrChain(s string) (ast.Expr, error) {
	open := strings.IndexByte(s, '(')
	closeAt := lexer.MatchingClose(s, open)
	if closeAt < 0 {
		return nil, errorf("unclosed '(' in %q", s)
	}

	call, err := parseCall(s[:open], s[open+1:closeAt])
	if err != nil {
		return nil, err
	}
	rest := s[closeAt+1:]
	if rest == "" {
		return call, nil
	}
	if rest[0] != '.' {
		return nil, errorf("malformed call %q", s)
	}
	var out ast.Expr = call
	for _, seg := range strings.Split(rest[1:], ".") {
		if !lexer.IsIdent(seg) {
			return nil, errorf("malformed property access %q", s)
		}
		out = &ast.PropertyAccess{Object: out, Property: seg}
	}
	return out, nil
}

func parseCall(name, argText string) (*ast.CallExpr, error) {
	name = strings.TrimSpace(name)
	if !validCallee(name) {
		return nil, errorf("invalid function name %q", name)
	}
	call := &ast.CallExpr{Name: name, Args: []ast.Expr{}}
	if strings.TrimSpace(argText) == "" {
		return call, nil
	}
	for _, part := range lexer.SplitTopLevel(argText, ',') {
		if strings.TrimSpace(part) == "" {
			return nil, errorf("empty argument in call to %s", name)
		}
		arg, err := parseExpr(part)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

// validCallee accepts fn or alias.fn.
func validCallee(name string) bool {
	mod, fn, dotted := strings.Cut(name, ".")
	if !dotted {
		return lexer.IsIdent(name)
	}
	return lexer.IsIdent(mod) && lexer.IsIdent(fn)
}

func parsePath(s string) (ast.Expr, error) {
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if !lexer.IsIdent(seg) {
			return nil, errorf("malformed property access %q", s)
		}
	}
	var out ast.Expr = &ast.Variable{Name: segs[0]}
	for _, seg := range segs[1:] {
		out = &ast.PropertyAccess{Object: out, Property: seg}
	}
	return out, nil
}
