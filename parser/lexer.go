package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src   string
	start int // byte offset of the token being scanned
	pos   int
	line  int

	tokens []Token
	diags  Diagnostics
}

func newLexer(src string) *lexer {
	return &lexer{
		src:  src,
		line: 1,
	}
}

// Scan splits source text into tokens terminated by an EOF token. Lexical
// errors are collected and scanning continues past them.
func Scan(src string) ([]Token, Diagnostics) {
	lx := newLexer(src)
	lx.scanTokens()
	return lx.tokens, lx.diags
}

func (lx *lexer) scanTokens() {
	for !lx.atEnd() {
		lx.start = lx.pos
		lx.scanToken()
	}
	lx.tokens = append(lx.tokens, Token{Type: TokenEOF, Line: lx.line})
}

func (lx *lexer) atEnd() bool {
	return lx.pos >= len(lx.src)
}

func (lx *lexer) readRune() rune {
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
	if r == '\n' {
		lx.line++
	}
	return r
}

func (lx *lexer) peek() rune {
	if lx.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func (lx *lexer) peekNext() rune {
	if lx.atEnd() {
		return 0
	}
	_, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if lx.pos+w >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos+w:])
	return r
}

func (lx *lexer) match(expected rune) bool {
	if lx.peek() != expected || lx.atEnd() {
		return false
	}
	lx.readRune()
	return true
}

func (lx *lexer) errorf(message string) {
	lx.diags = append(lx.diags, NewDiagnostic(lx.line, message))
}

func (lx *lexer) scanToken() {
	r := lx.readRune()
	switch r {
	case '(':
		lx.add(TokenLeftParen)
	case ')':
		lx.add(TokenRightParen)
	case '{':
		lx.add(TokenLeftBrace)
	case '}':
		lx.add(TokenRightBrace)
	case ',':
		lx.add(TokenComma)
	case '.':
		lx.add(TokenDot)
	case '-':
		lx.add(TokenMinus)
	case '+':
		lx.add(TokenPlus)
	case ';':
		lx.add(TokenSemicolon)
	case '*':
		lx.add(TokenStar)
	case '?':
		lx.add(TokenQuestion)
	case ':':
		lx.add(TokenColon)
	case '!':
		if lx.match('=') {
			lx.add(TokenBangEqual)
		} else {
			lx.add(TokenBang)
		}
	case '=':
		if lx.match('=') {
			lx.add(TokenEqualEqual)
		} else {
			lx.add(TokenEqual)
		}
	case '<':
		if lx.match('=') {
			lx.add(TokenLessEqual)
		} else {
			lx.add(TokenLess)
		}
	case '>':
		if lx.match('=') {
			lx.add(TokenGreaterEqual)
		} else {
			lx.add(TokenGreater)
		}
	case '/':
		switch {
		case lx.match('/'):
			lx.skipLine()
		case lx.match('*'):
			lx.skipBlockComment()
		default:
			lx.add(TokenSlash)
		}
	case ' ', '\r', '\t', '\n':
	case '"':
		lx.scanString()
	default:
		switch {
		case isDigit(r):
			lx.scanNumber()
		case isIdentifierStart(r):
			lx.scanIdentifier()
		default:
			lx.errorf("Unexpected character.")
		}
	}
}

func (lx *lexer) skipLine() {
	for lx.peek() != '\n' && !lx.atEnd() {
		lx.readRune()
	}
}

func (lx *lexer) skipBlockComment() {
	for !lx.atEnd() {
		if lx.peek() == '*' && lx.peekNext() == '/' {
			lx.readRune()
			lx.readRune()
			return
		}
		lx.readRune()
	}
	lx.errorf("Unterminated block comment.")
}

func (lx *lexer) scanString() {
	for lx.peek() != '"' && !lx.atEnd() {
		lx.readRune()
	}
	if lx.atEnd() {
		lx.errorf("Unterminated string.")
		return
	}
	lx.readRune() // closing quote
	value := lx.src[lx.start+1 : lx.pos-1]
	lx.addLiteral(TokenString, value)
}

func (lx *lexer) scanNumber() {
	for isDigit(lx.peek()) {
		lx.readRune()
	}
	if lx.peek() == '.' && isDigit(lx.peekNext()) {
		lx.readRune()
		for isDigit(lx.peek()) {
			lx.readRune()
		}
	}
	value, err := strconv.ParseFloat(lx.src[lx.start:lx.pos], 64)
	if err != nil {
		lx.errorf("Invalid number literal.")
		return
	}
	lx.addLiteral(TokenNumber, value)
}

func (lx *lexer) scanIdentifier() {
	for isIdentifierPart(lx.peek()) {
		lx.readRune()
	}
	text := lx.src[lx.start:lx.pos]
	if tt, ok := keywords[text]; ok {
		lx.add(tt)
		return
	}
	lx.add(TokenIdentifier)
}

func (lx *lexer) add(tt TokenType) {
	lx.addLiteral(tt, nil)
}

func (lx *lexer) addLiteral(tt TokenType, literal any) {
	lx.tokens = append(lx.tokens, Token{
		Type:    tt,
		Lexeme:  lx.src[lx.start:lx.pos],
		Literal: literal,
		Line:    lx.line,
	})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
