package expr

import (
	"fmt"
	"strings"
)

// ErrorType classifies parse errors
type ErrorType int

const (
	ErrorTypeSyntax ErrorType = iota
	ErrorTypeLexical
	ErrorTypeUnexpectedToken
	ErrorTypeMissingToken
	ErrorTypeInvalidNumber
	ErrorTypeUnterminatedString
)

// ParseError is returned for malformed expression text
type ParseError struct {
	Type     ErrorType
	Message  string
	Position int
	Token    string
	Expected []string
}

// Error 实现 error 接口
func (e *ParseError) Error() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("[%s] %s", e.getErrorTypeName(), e.Message))

	if e.Position >= 0 {
		builder.WriteString(fmt.Sprintf(" at position %d", e.Position))
	}

	if e.Token != "" {
		builder.WriteString(fmt.Sprintf(" (found '%s')", e.Token))
	}

	if len(e.Expected) > 0 {
		builder.WriteString(fmt.Sprintf(", expected: %s", strings.Join(e.Expected, ", ")))
	}

	return builder.String()
}

// getErrorTypeName 获取错误类型名称
func (e *ParseError) getErrorTypeName() string {
	switch e.Type {
	case ErrorTypeSyntax:
		return "SYNTAX_ERROR"
	case ErrorTypeLexical:
		return "LEXICAL_ERROR"
	case ErrorTypeUnexpectedToken:
		return "UNEXPECTED_TOKEN"
	case ErrorTypeMissingToken:
		return "MISSING_TOKEN"
	case ErrorTypeInvalidNumber:
		return "INVALID_NUMBER"
	case ErrorTypeUnterminatedString:
		return "UNTERMINATED_STRING"
	default:
		return "UNKNOWN_ERROR"
	}
}

// CreateSyntaxError 创建语法错误
func CreateSyntaxError(message string, position int, token string) *ParseError {
	return &ParseError{
		Type:     ErrorTypeSyntax,
		Message:  message,
		Position: position,
		Token:    token,
	}
}

// CreateLexicalError 创建词法错误
func CreateLexicalError(message string, position int, char byte) *ParseError {
	return &ParseError{
		Type:     ErrorTypeLexical,
		Message:  message,
		Position: position,
		Token:    string(char),
	}
}

// CreateUnexpectedTokenError 创建意外token错误
func CreateUnexpectedTokenError(found Token, expected ...string) *ParseError {
	value := found.Value
	if found.Type == TokenEOF {
		value = found.Type.String()
	}
	return &ParseError{
		Type:     ErrorTypeUnexpectedToken,
		Message:  fmt.Sprintf("Unexpected token '%s'", value),
		Position: found.Pos,
		Token:    value,
		Expected: expected,
	}
}

// CreateMissingTokenError 创建缺失token错误
func CreateMissingTokenError(expected string, found Token) *ParseError {
	return &ParseError{
		Type:     ErrorTypeMissingToken,
		Message:  fmt.Sprintf("Missing required token '%s'", expected),
		Position: found.Pos,
		Token:    found.Value,
		Expected: []string{expected},
	}
}

// FormatErrorContext 格式化错误上下文
func FormatErrorContext(input string, position int, contextLength int) string {
	if position < 0 || position > len(input) {
		return ""
	}

	start := position - contextLength
	if start < 0 {
		start = 0
	}

	end := position + contextLength
	if end > len(input) {
		end = len(input)
	}

	context := input[start:end]
	pointer := strings.Repeat(" ", position-start) + "^"

	return fmt.Sprintf("%s\n%s", context, pointer)
}
