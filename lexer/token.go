package lexer

// Keyword is the statement keyword a logical line starts with.
type Keyword string

const (
	NONE     Keyword = ""
	SET      Keyword = "set"
	FUNCTION Keyword = "function"
	EXPORT   Keyword = "export"
	IF       Keyword = "if"
	PRINT    Keyword = "print"
	RETURN   Keyword = "return"
	FOR      Keyword = "for"
	IN       Keyword = "in"
	WHILE    Keyword = "while"
	IMPORT   Keyword = "import"
	FROM     Keyword = "from"
	TEST     Keyword = "test"
	START    Keyword = "start"
	END      Keyword = "end"
)

// Keywords are case-sensitive.
func LookupKeyword(word string) Keyword {
	switch Keyword(word) {
	case SET, FUNCTION, EXPORT, IF, PRINT, RETURN, FOR, IN, WHILE, IMPORT, FROM, TEST, START, END:
		return Keyword(word)
	default:
		return NONE
	}
}

// FirstWord returns the leading whitespace-delimited word of a line and
// the keyword it names, if any.
func FirstWord(line string) (string, Keyword) {
	end := 0
	for end < len(line) && !isSpace(line[end]) {
		end++
	}
	w := line[:end]
	return w, LookupKeyword(w)
}

func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || isAlpha(c) || (i > 0 && isDigit(c)) {
			continue
		}
		return false
	}
	return true
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
