package parser

import (
	"fmt"
	"strings"

	"vx/ast"
	"vx/lexer"
)

type Parser struct {
	lines *lexer.Lines
}

func New(src string) *Parser {
	return &Parser{lines: lexer.Split(src)}
}

// ParseProgram parses a whole script. It returns the first ParseError.
func ParseProgram(src string) ([]ast.Stmt, error) {
	return New(src).ParseProgram()
}

func (p *Parser) ParseProgram() ([]ast.Stmt, error) {
	return p.parseBlock(nil)
}

// block records the header that opened a nested block, for the error raised
// when its `end` never arrives.
type block struct {
	kind string
	line int
}

func sp(ln lexer.Line) ast.Span { return ast.Span{Line: ln.Num, Col: 1} }

func (p *Parser) parseBlock(open *block) ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for {
		ln, ok := p.lines.Next()
		if !ok {
			if open != nil {
				return nil, &ParseError{Line: open.line, Msg: "missing 'end' for " + open.kind}
			}
			return stmts, nil
		}

		word, kw := lexer.FirstWord(ln.Text)
		if kw == lexer.END {
			if ln.Text != "end" {
				return nil, p.errAt(ln, "unexpected text after 'end'")
			}
			if open == nil {
				return nil, p.errAt(ln, "'end' without an open block")
			}
			return stmts, nil
		}

		stmt, err := p.parseStmt(ln, word, kw)
		if err != nil {
			return nil, atLine(err, ln.Num)
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseStmt(ln lexer.Line, word string, kw lexer.Keyword) (ast.Stmt, error) {
	switch kw {
	case lexer.SET:
		return p.parseSet(ln)
	case lexer.FUNCTION:
		return p.parseFunctionDecl(ln, rest(ln.Text, word), false)
	case lexer.EXPORT:
		after := rest(ln.Text, word)
		if w, k := lexer.FirstWord(after); k == lexer.FUNCTION {
			return p.parseFunctionDecl(ln, rest(after, w), true)
		}
		return nil, p.errAt(ln, "'export' must be followed by 'function'")
	case lexer.IF:
		return p.parseIf(ln, rest(ln.Text, word))
	case lexer.WHILE:
		return p.parseWhile(ln, rest(ln.Text, word))
	case lexer.FOR:
		return p.parseFor(ln, rest(ln.Text, word))
	case lexer.PRINT:
		return p.parsePrint(ln, rest(ln.Text, word))
	case lexer.RETURN:
		return p.parseReturn(ln, rest(ln.Text, word))
	case lexer.IMPORT:
		return p.parseImport(ln, rest(ln.Text, word))
	case lexer.TEST:
		return p.parseTest(ln, rest(ln.Text, word))
	case lexer.START, lexer.IN, lexer.FROM:
		return nil, p.errAt(ln, "unexpected '"+word+"'")
	}

	if strings.ContainsRune(ln.Text, '(') && strings.ContainsRune(ln.Text, ')') {
		return p.parseCallStmt(ln)
	}
	return nil, p.errAt(ln, "expected a statement, got "+quote(ln.Text))
}

func (p *Parser) parseSet(ln lexer.Line) (ast.Stmt, error) {
	body := rest(ln.Text, string(lexer.SET))
	target, _ := lexer.FirstWord(body)
	valueText := rest(body, target)
	if target == "" || valueText == "" {
		return nil, p.errAt(ln, "set expects a target and a value")
	}

	valueText, err := p.continueValue(ln, valueText)
	if err != nil {
		return nil, err
	}
	val, err := parseExpr(valueText)
	if err != nil {
		return nil, err
	}

	if !strings.ContainsRune(target, '.') {
		if !lexer.IsIdent(target) {
			return nil, p.errAt(ln, "invalid variable name "+quote(target))
		}
		return &ast.SetStmt{S: sp(ln), Name: target, Value: val}, nil
	}

	path, err := parsePath(target)
	if err != nil {
		return nil, err
	}
	prop := path.(*ast.PropertyAccess)
	return &ast.PropertySetStmt{S: sp(ln), Object: prop.Object, Property: prop.Property, Value: val}, nil
}

// continueValue keeps reading lines while value has an open '[' or '{'.
// Lines are joined with ", " unless a separator or bracket already sits at
// the seam.
func (p *Parser) continueValue(ln lexer.Line, value string) (string, error) {
	for {
		depth, inString := lexer.Depth(value)
		if inString {
			return "", p.errAt(ln, "unterminated string")
		}
		if at := lexer.Mismatch(value); at >= 0 {
			return "", p.errAt(ln, fmt.Sprintf("unexpected %q in %q", value[at], value))
		}
		if depth <= 0 {
			return value, nil
		}
		next, ok := p.lines.Next()
		if !ok {
			return "", p.errAt(ln, "unterminated literal in set")
		}
		value = joinContinuation(value, next.Text)
	}
}

func joinContinuation(acc, next string) string {
	last := acc[len(acc)-1]
	if last == '{' || last == '[' || last == ',' || next[0] == '}' || next[0] == ']' || next[0] == ',' {
		return acc + " " + next
	}
	return acc + ", " + next
}

func (p *Parser) parseFunctionDecl(ln lexer.Line, header string, exported bool) (ast.Stmt, error) {
	sig, err := p.blockHeader(ln, header, "function")
	if err != nil {
		return nil, err
	}
	open := strings.IndexByte(sig, '(')
	if open < 0 || sig[len(sig)-1] != ')' {
		return nil, p.errAt(ln, "function header must be name(params) start")
	}
	name := strings.TrimSpace(sig[:open])
	if !lexer.IsIdent(name) {
		return nil, p.errAt(ln, "invalid function name "+quote(name))
	}

	params := []string{}
	if inner := strings.TrimSpace(sig[open+1 : len(sig)-1]); inner != "" {
		seen := map[string]bool{}
		for _, raw := range strings.Split(inner, ",") {
			param := strings.TrimSpace(raw)
			if !lexer.IsIdent(param) {
				return nil, p.errAt(ln, "invalid parameter name "+quote(param))
			}
			if seen[param] {
				return nil, p.errAt(ln, "duplicate parameter "+quote(param))
			}
			seen[param] = true
			params = append(params, param)
		}
	}

	body, err := p.parseBlock(&block{kind: "function " + name, line: ln.Num})
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{S: sp(ln), Name: name, Params: params, Body: body, Exported: exported}, nil
}

func (p *Parser) parseIf(ln lexer.Line, header string) (ast.Stmt, error) {
	cond, body, err := p.conditionBlock(ln, header, "if")
	if err != nil {
		return nil, err
	}
	return &ast.IfStmt{S: sp(ln), Condition: cond, Body: body}, nil
}

func (p *Parser) parseWhile(ln lexer.Line, header string) (ast.Stmt, error) {
	cond, body, err := p.conditionBlock(ln, header, "while")
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{S: sp(ln), Condition: cond, Body: body}, nil
}

func (p *Parser) conditionBlock(ln lexer.Line, header, kind string) (ast.Expr, []ast.Stmt, error) {
	condText, err := p.blockHeader(ln, header, kind)
	if err != nil {
		return nil, nil, err
	}
	cond, err := parseExpr(condText)
	if err != nil {
		return nil, nil, err
	}
	body, err := p.parseBlock(&block{kind: kind, line: ln.Num})
	if err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}

func (p *Parser) parseFor(ln lexer.Line, header string) (ast.Stmt, error) {
	clause, err := p.blockHeader(ln, header, "for")
	if err != nil {
		return nil, err
	}
	name, after := lexer.FirstWord(clause)
	if after == lexer.IN || !lexer.IsIdent(name) {
		return nil, p.errAt(ln, "for expects a loop variable")
	}
	clause = rest(clause, name)
	w, k := lexer.FirstWord(clause)
	if k != lexer.IN {
		return nil, p.errAt(ln, "for expects 'in' after the loop variable")
	}
	clause = rest(clause, w)
	if clause == "" {
		return nil, p.errAt(ln, "for expects an iterable after 'in'")
	}
	iter, err := parseExpr(clause)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(&block{kind: "for", line: ln.Num})
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{S: sp(ln), Var: name, Iterable: iter, Body: body}, nil
}

func (p *Parser) parsePrint(ln lexer.Line, text string) (ast.Stmt, error) {
	if text == "" {
		return nil, p.errAt(ln, "print expects an expression")
	}
	e, err := parseExpr(text)
	if err != nil {
		return nil, err
	}
	return &ast.PrintStmt{S: sp(ln), Value: e}, nil
}

func (p *Parser) parseReturn(ln lexer.Line, text string) (ast.Stmt, error) {
	if text == "" {
		return &ast.ReturnStmt{S: sp(ln), Value: &ast.NullLiteral{}}, nil
	}
	e, err := parseExpr(text)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{S: sp(ln), Value: e}, nil
}

// parseImport reads `import alias from 'path'` (double quotes work too).
func (p *Parser) parseImport(ln lexer.Line, text string) (ast.Stmt, error) {
	alias, _ := lexer.FirstWord(text)
	if !lexer.IsIdent(alias) {
		return nil, p.errAt(ln, "import expects an alias")
	}
	text = rest(text, alias)
	w, kw := lexer.FirstWord(text)
	if kw != lexer.FROM {
		return nil, p.errAt(ln, "import expects 'from' after the alias")
	}
	text = rest(text, w)
	if len(text) < 2 || (text[0] != '\'' && text[0] != '"') {
		return nil, p.errAt(ln, "import path must be quoted")
	}
	q := text[0]
	closeAt := strings.IndexByte(text[1:], q) + 1
	if closeAt == 0 {
		return nil, p.errAt(ln, "unterminated quote in import path")
	}
	if closeAt != len(text)-1 {
		return nil, p.errAt(ln, "unexpected text after import path")
	}
	path := text[1:closeAt]
	if strings.TrimSpace(path) == "" {
		return nil, p.errAt(ln, "import path is empty")
	}
	return &ast.ImportStmt{S: sp(ln), Alias: alias, Path: path}, nil
}

func (p *Parser) parseTest(ln lexer.Line, header string) (ast.Stmt, error) {
	nameText, err := p.blockHeader(ln, header, "test")
	if err != nil {
		return nil, err
	}
	if nameText[0] != '"' {
		return nil, p.errAt(ln, "test name must be a quoted string")
	}
	closeAt := lexer.MatchingQuote(nameText, 0)
	if closeAt < 0 {
		return nil, p.errAt(ln, "unterminated quote in test name")
	}
	if closeAt != len(nameText)-1 {
		return nil, p.errAt(ln, "unexpected text after test name")
	}
	name := strings.ReplaceAll(nameText[1:closeAt], `\"`, `"`)

	body, err := p.parseBlock(&block{kind: "test " + quote(name), line: ln.Num})
	if err != nil {
		return nil, err
	}
	return &ast.TestStmt{S: sp(ln), Name: name, Body: body}, nil
}

func (p *Parser) parseCallStmt(ln lexer.Line) (ast.Stmt, error) {
	e, err := parseExpr(ln.Text)
	if err != nil {
		return nil, err
	}
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return nil, p.errAt(ln, "expected a statement, got "+quote(ln.Text))
	}
	return &ast.CallStmt{S: sp(ln), Call: call}, nil
}

// blockHeader strips the trailing `start` from a block header and returns
// what sits between the keyword and it.
func (p *Parser) blockHeader(ln lexer.Line, header, kind string) (string, error) {
	if header != string(lexer.START) && !strings.HasSuffix(header, " "+string(lexer.START)) {
		return "", p.errAt(ln, kind+" header must end with 'start'")
	}
	inner := strings.TrimSpace(strings.TrimSuffix(header, string(lexer.START)))
	if inner == "" {
		return "", p.errAt(ln, kind+" header is incomplete")
	}
	return inner, nil
}

func (p *Parser) errAt(ln lexer.Line, msg string) error {
	return &ParseError{Line: ln.Num, Msg: msg}
}

// rest returns s without its leading word, trimmed.
func rest(s, word string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, word))
}

func quote(s string) string { return "'" + s + "'" }
