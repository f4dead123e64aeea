package expr

import (
	"strings"
)

// TokenType represents token type
type TokenType int

const (
	// TokenEOF end of input
	TokenEOF TokenType = iota
	// TokenIdent identifier
	TokenIdent
	// TokenNumber numeric literal
	TokenNumber
	// TokenString quoted string literal, Value holds the unescaped text
	TokenString
	// TokenTrue boolean literal true
	TokenTrue
	// TokenFalse boolean literal false
	TokenFalse
	// TokenAs alias keyword
	TokenAs
	TokenComma
	TokenDot
	TokenLParen
	TokenRParen
	TokenPlus
	TokenMinus
	TokenAsterisk
	TokenSlash
	TokenPercent
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "end of expression",
	TokenIdent:    "identifier",
	TokenNumber:   "number",
	TokenString:   "string",
	TokenTrue:     "true",
	TokenFalse:    "false",
	TokenAs:       "as",
	TokenComma:    ",",
	TokenDot:      ".",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenPlus:     "+",
	TokenMinus:    "-",
	TokenAsterisk: "*",
	TokenSlash:    "/",
	TokenPercent:  "%",
	TokenEQ:       "=",
	TokenNE:       "<>",
	TokenLT:       "<",
	TokenLE:       "<=",
	TokenGT:       ">",
	TokenGE:       ">=",
	TokenAnd:      "&&",
	TokenOr:       "||",
	TokenNot:      "!",
}

// String returns the display name of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token represents a token
type Token struct {
	// Type token type
	Type TokenType
	// Value token value
	Value string
	// Pos byte offset of the token in the input
	Pos int
}

var keywords = map[string]TokenType{
	"as":    TokenAs,
	"true":  TokenTrue,
	"false": TokenFalse,
}

// Lexer breaks an expression string into tokens
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

// NewLexer creates a lexer positioned at the first character of input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token or a lexical error
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	start := l.pos

	single := func(t TokenType) (Token, error) {
		tok := Token{Type: t, Value: string(l.ch), Pos: start}
		l.readChar()
		return tok, nil
	}
	double := func(t TokenType) (Token, error) {
		tok := Token{Type: t, Value: l.input[start : start+2], Pos: start}
		l.readChar()
		l.readChar()
		return tok, nil
	}

	switch l.ch {
	case 0:
		if l.pos < len(l.input) {
			return Token{}, CreateLexicalError("unexpected character", start, l.ch)
		}
		return Token{Type: TokenEOF, Pos: len(l.input)}, nil
	case ',':
		return single(TokenComma)
	case '(':
		return single(TokenLParen)
	case ')':
		return single(TokenRParen)
	case '+':
		return single(TokenPlus)
	case '-':
		return single(TokenMinus)
	case '*':
		return single(TokenAsterisk)
	case '/':
		return single(TokenSlash)
	case '%':
		return single(TokenPercent)
	case '=':
		if l.peekChar() == '=' {
			return double(TokenEQ)
		}
		return single(TokenEQ)
	case '<':
		switch l.peekChar() {
		case '=':
			return double(TokenLE)
		case '>':
			return double(TokenNE)
		}
		return single(TokenLT)
	case '>':
		if l.peekChar() == '=' {
			return double(TokenGE)
		}
		return single(TokenGT)
	case '!':
		if l.peekChar() == '=' {
			return double(TokenNE)
		}
		return single(TokenNot)
	case '&':
		if l.peekChar() == '&' {
			return double(TokenAnd)
		}
		return Token{}, CreateLexicalError("expected '&&'", start, l.ch)
	case '|':
		if l.peekChar() == '|' {
			return double(TokenOr)
		}
		return Token{}, CreateLexicalError("expected '||'", start, l.ch)
	case '\'', '"':
		return l.readString()
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		return single(TokenDot)
	}

	if isDigit(l.ch) {
		return l.readNumber()
	}
	if isLetter(l.ch) || l.ch == '_' {
		ident := l.readIdentifier()
		if t, ok := keywords[strings.ToLower(ident)]; ok {
			return Token{Type: t, Value: ident, Pos: start}, nil
		}
		return Token{Type: TokenIdent, Value: ident, Pos: start}, nil
	}
	return Token{}, CreateLexicalError("unexpected character", start, l.ch)
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an integer or a decimal number with an optional exponent.
// A dot is only consumed when a digit follows, so "1.abs()" stays a method call.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return Token{}, &ParseError{
				Type:     ErrorTypeInvalidNumber,
				Message:  "malformed exponent",
				Position: start,
				Token:    l.input[start:l.pos],
			}
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if isLetter(l.ch) || l.ch == '_' {
		return Token{}, &ParseError{
			Type:     ErrorTypeInvalidNumber,
			Message:  "identifier cannot start with a digit",
			Position: start,
			Token:    l.input[start : l.pos+1],
		}
	}
	return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}, nil
}

func (l *Lexer) readString() (Token, error) {
	start := l.pos
	quote := l.ch
	l.readChar()

	var sb strings.Builder
	for l.ch != quote {
		if l.pos >= len(l.input) {
			return Token{}, &ParseError{
				Type:     ErrorTypeUnterminatedString,
				Message:  "unterminated string literal",
				Position: start,
				Token:    l.input[start:],
			}
		}
		if l.ch == '\\' && l.readPos < len(l.input) {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar()
	return Token{Type: TokenString, Value: sb.String(), Pos: start}, nil
}

// Tokenize returns every token of input up to and including EOF
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// isDigit checks if character is a digit
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isLetter checks if character is a letter
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
