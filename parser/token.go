package parser

import "fmt"

// TokenType enumerates lexical categories recognised by the Lox lexer.
type TokenType int

const (
	TokenEOF TokenType = iota

	TokenIdentifier
	TokenNumber
	TokenString

	// Keywords
	TokenAnd
	TokenBreak
	TokenClass
	TokenContinue
	TokenElse
	TokenFalse
	TokenFor
	TokenFun
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile

	// Operators and punctuation
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenComma        // ,
	TokenDot          // .
	TokenMinus        // -
	TokenPlus         // +
	TokenSemicolon    // ;
	TokenSlash        // /
	TokenStar         // *
	TokenQuestion     // ?
	TokenColon        // :
	TokenBang         // !
	TokenBangEqual    // !=
	TokenEqual        // =
	TokenEqualEqual   // ==
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenLess         // <
	TokenLessEqual    // <=
)

func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenAnd:
		return "and"
	case TokenBreak:
		return "break"
	case TokenClass:
		return "class"
	case TokenContinue:
		return "continue"
	case TokenElse:
		return "else"
	case TokenFalse:
		return "false"
	case TokenFor:
		return "for"
	case TokenFun:
		return "fun"
	case TokenIf:
		return "if"
	case TokenNil:
		return "nil"
	case TokenOr:
		return "or"
	case TokenPrint:
		return "print"
	case TokenReturn:
		return "return"
	case TokenSuper:
		return "super"
	case TokenThis:
		return "this"
	case TokenTrue:
		return "true"
	case TokenVar:
		return "var"
	case TokenWhile:
		return "while"
	case TokenLeftParen:
		return "("
	case TokenRightParen:
		return ")"
	case TokenLeftBrace:
		return "{"
	case TokenRightBrace:
		return "}"
	case TokenComma:
		return ","
	case TokenDot:
		return "."
	case TokenMinus:
		return "-"
	case TokenPlus:
		return "+"
	case TokenSemicolon:
		return ";"
	case TokenSlash:
		return "/"
	case TokenStar:
		return "*"
	case TokenQuestion:
		return "?"
	case TokenColon:
		return ":"
	case TokenBang:
		return "!"
	case TokenBangEqual:
		return "!="
	case TokenEqual:
		return "="
	case TokenEqualEqual:
		return "=="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	default:
		return "unknown"
	}
}

var keywords = map[string]TokenType{
	"and":      TokenAnd,
	"break":    TokenBreak,
	"class":    TokenClass,
	"continue": TokenContinue,
	"else":     TokenElse,
	"false":    TokenFalse,
	"for":      TokenFor,
	"fun":      TokenFun,
	"if":       TokenIf,
	"nil":      TokenNil,
	"or":       TokenOr,
	"print":    TokenPrint,
	"return":   TokenReturn,
	"super":    TokenSuper,
	"this":     TokenThis,
	"true":     TokenTrue,
	"var":      TokenVar,
	"while":    TokenWhile,
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Type    TokenType
	Lexeme  string // raw source text of the token
	Literal any    // float64 for numbers, string for strings, nil otherwise
	Line    int    // one-based source line
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
}
