package parser

import (
	"strings"

	"vx/ast"
	"vx/lexer"
)

// parseInterpolation splits the body of a string literal into text and
// ${expr} parts. Each embedded expression runs to its balanced '}', so it may
// hold objects and string literals of its own. `\$` is a literal dollar sign.
func parseInterpolation(raw string) (ast.Expr, error) {
	out := &ast.Interpolation{}
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out.Parts = append(out.Parts, ast.InterpolationPart{Text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(raw); {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && (raw[i+1] == '$' || raw[i+1] == '"') {
			text.WriteByte(raw[i+1])
			i += 2
			continue
		}
		if c == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			closeAt := lexer.MatchingClose(raw, i+1)
			if closeAt < 0 {
				return nil, errorf("unterminated ${ in string %q", raw)
			}
			inner := raw[i+2 : closeAt]
			if strings.TrimSpace(inner) == "" {
				return nil, errorf("empty ${} in string %q", raw)
			}
			e, err := parseExpr(inner)
			if err != nil {
				return nil, err
			}
			flush()
			out.Parts = append(out.Parts, ast.InterpolationPart{Expr: e})
			i = closeAt + 1
			continue
		}
		text.WriteByte(c)
		i++
	}
	flush()
	return out, nil
}
