package parse

import (
	"bytes"

	"src.nush.dev/pkg/diag"
)

// TokenKind is the kind of a Token.
type TokenKind int

// Kinds of tokens.
const (
	TokenItem TokenKind = iota
	TokenPipe
	TokenSemicolon
	TokenEOL
	TokenComment
)

// Token is a lexical token.
type Token struct {
	Kind TokenKind
	Span diag.Span
}

// Lex splits input into tokens. Spans of tokens start at offset.
//
// Quoted strings and text inside (), [] and {} are never split, so an item
// may contain whitespace. Bytes in extraWhitespace separate items like
// spaces do; bytes in special form items of their own when they appear at
// the top level. An unterminated quote or bracket results in an Unclosed
// error, but the token is still returned.
func Lex(input []byte, offset int, extraWhitespace, special []byte) ([]Token, *Error) {
	l := &lexer{input, offset, extraWhitespace, special, 0}
	var tokens []Token
	var err *Error
	for l.pos < len(input) {
		c := input[l.pos]
		switch {
		case c == '|':
			tokens = append(tokens, l.single(TokenPipe))
		case c == ';':
			tokens = append(tokens, l.single(TokenSemicolon))
		case bytes.IndexByte(extraWhitespace, c) >= 0 || c == ' ' || c == '\t':
			l.pos++
		case c == '\n' || c == '\r':
			tokens = append(tokens, l.single(TokenEOL))
		case c == '#':
			start := l.pos
			for l.pos < len(input) && input[l.pos] != '\n' && input[l.pos] != '\r' {
				l.pos++
			}
			tokens = append(tokens, Token{TokenComment, l.span(start)})
		default:
			tok, e := l.item()
			tokens = append(tokens, tok)
			err = firstErr(err, e)
		}
	}
	return tokens, err
}

type lexer struct {
	input           []byte
	offset          int
	extraWhitespace []byte
	special         []byte
	pos             int
}

func (l *lexer) span(start int) diag.Span {
	return diag.Span{Start: l.offset + start, End: l.offset + l.pos}
}

func (l *lexer) single(k TokenKind) Token {
	l.pos++
	return Token{k, l.span(l.pos - 1)}
}

var closing = map[byte]byte{'(': ')', '[': ']', '{': '}'}

func (l *lexer) terminates(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '|', ';', '#':
		return true
	}
	return bytes.IndexByte(l.extraWhitespace, c) >= 0 ||
		bytes.IndexByte(l.special, c) >= 0
}

func (l *lexer) item() (Token, *Error) {
	start := l.pos
	var quote byte
	// Closing brackets we are waiting for, innermost last.
	var pending []byte
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case len(pending) == 0 && bytes.IndexByte(l.special, c) >= 0:
			if l.pos == start {
				l.pos++
			}
			return Token{TokenItem, l.span(start)}, nil
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case closing[c] != 0:
			pending = append(pending, closing[c])
		case len(pending) > 0 && c == pending[len(pending)-1]:
			pending = pending[:len(pending)-1]
		case len(pending) == 0 && l.terminates(c):
			return Token{TokenItem, l.span(start)}, nil
		}
		l.pos++
	}
	tok := Token{TokenItem, l.span(start)}
	end := diag.PointSpan(tok.Span.End)
	if quote != 0 {
		return tok, newError(Unclosed, string(quote), end)
	}
	if len(pending) > 0 {
		return tok, newError(Unclosed, string(pending[len(pending)-1]), end)
	}
	return tok, nil
}
