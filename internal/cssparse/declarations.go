package cssparse

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is one "name: value;" pair of a block body
type Declaration struct {
	Name  string
	Value string
}

// Body is the flat content of a block
type Body struct {
	Declarations []Declaration
	Apply        []string // Class lists of @apply statements, in order
}

// Get returns the value of the last declaration with the given name
func (b Body) Get(name string) (string, bool) {
	for i := len(b.Declarations) - 1; i >= 0; i-- {
		if b.Declarations[i].Name == name {
			return b.Declarations[i].Value, true
		}
	}
	return "", false
}

// Declarations extracts the depth-zero declarations of a block body
func Declarations(body string) []Declaration {
	return ParseBody(body).Declarations
}

// ParseBody lexes a block body. Nested blocks are skipped; values are
// rebuilt from the token bytes so whitespace inside them is preserved.
func ParseBody(body string) Body {
	var out Body
	lexer := css.NewLexer(parse.NewInputString(body))
	depth := 0

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal
			break
		}

		switch tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			if depth > 0 {
				depth--
			}
		case css.AtKeywordToken:
			if depth > 0 {
				continue
			}
			if string(text) != "@apply" {
				continue
			}
			value, end := readValue(lexer)
			if end == css.LeftBraceToken {
				depth++
				continue
			}
			if value != "" {
				out.Apply = append(out.Apply, value)
			}
		case css.IdentToken, css.CustomPropertyNameToken:
			if depth > 0 {
				continue
			}
			name := string(text)
			next := skipWhitespace(lexer)
			switch next {
			case css.ColonToken:
			case css.LeftBraceToken:
				depth++
				continue
			case css.RightBraceToken:
				if depth > 0 {
					depth--
				}
				continue
			default:
				continue
			}
			value, end := readValue(lexer)
			if end == css.LeftBraceToken {
				// "a:hover {" is a nested rule, not a declaration
				depth++
				continue
			}
			out.Declarations = append(out.Declarations, Declaration{Name: name, Value: value})
		}
	}

	return out
}

func skipWhitespace(lexer *css.Lexer) css.TokenType {
	for {
		tt, _ := lexer.Next()
		if tt != css.WhitespaceToken && tt != css.CommentToken {
			return tt
		}
	}
}

// readValue collects tokens up to the terminating ';', '{' or '}' at
// parenthesis depth zero and returns the trimmed text and the terminator
func readValue(lexer *css.Lexer) (string, css.TokenType) {
	var b strings.Builder
	parens := 0

	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return strings.TrimSpace(b.String()), tt
		case css.CommentToken:
			continue
		case css.FunctionToken, css.LeftParenthesisToken:
			parens++
		case css.RightParenthesisToken:
			if parens > 0 {
				parens--
			}
		case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			if parens == 0 || tt != css.SemicolonToken {
				return strings.TrimSpace(b.String()), tt
			}
		}
		b.Write(text)
	}
}
