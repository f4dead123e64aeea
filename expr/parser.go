package expr

import (
	"strconv"
	"strings"

	"github.com/rulego/tablecalc/types"
)

// Parser is a recursive descent parser over a token slice
type Parser struct {
	input  string
	tokens []Token
	pos    int
}

// NewParser tokenizes input and returns a parser positioned at the first token
func NewParser(input string) (*Parser, error) {
	if strings.TrimSpace(input) == "" {
		return nil, CreateSyntaxError("empty expression", 0, "")
	}
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return &Parser{input: input, tokens: tokens}, nil
}

// ParseProjectionList parses a comma separated select list such as "a, b + 1 as c, *"
func ParseProjectionList(text string) ([]Expression, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	return p.ParseProjectionList()
}

// ParsePredicate parses a single boolean filter expression
func ParsePredicate(text string) (Expression, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	return p.ParsePredicate()
}

// ParseProjectionList parses the whole input as a projection list
func (p *Parser) ParseProjectionList() ([]Expression, error) {
	var items []Expression
	for {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		switch p.current().Type {
		case TokenComma:
			p.advance()
		case TokenEOF:
			return items, nil
		default:
			return nil, CreateUnexpectedTokenError(p.current(), ",", "end of expression")
		}
	}
}

// ParsePredicate parses the whole input as one expression
func (p *Parser) ParsePredicate() (Expression, error) {
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, CreateUnexpectedTokenError(p.current(), "end of expression")
	}
	return e, nil
}

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(t TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != t {
		if tok.Type == TokenEOF {
			return tok, CreateMissingTokenError(t.String(), tok)
		}
		return tok, CreateUnexpectedTokenError(tok, t.String())
	}
	return p.advance(), nil
}

// parseItem parses "*" or an expression with an optional alias
func (p *Parser) parseItem() (Expression, error) {
	if p.current().Type == TokenAsterisk {
		next := p.peek(1).Type
		if next == TokenComma || next == TokenEOF {
			p.advance()
			return &Star{}, nil
		}
		if next == TokenAs {
			return nil, CreateSyntaxError("'*' cannot be aliased", p.peek(1).Pos, p.peek(1).Value)
		}
	}

	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenAs {
		return e, nil
	}
	p.advance()
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	return &Alias{Expr: e, Name: name.Value}, nil
}

func (p *Parser) parseExpression() (Expression, error) {
	return p.parseOr()
}

// parseOr parses OR expression
func (p *Parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

// parseAnd parses AND expression
func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Expression, error) {
	if p.current().Type != TokenNot {
		return p.parseComparison()
	}
	p.advance()
	operand, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: OpNot, Operand: operand}, nil
}

var comparisonOps = map[TokenType]Operator{
	TokenEQ: OpEQ,
	TokenNE: OpNE,
	TokenLT: OpLT,
	TokenLE: OpLE,
	TokenGT: OpGT,
	TokenGE: OpGE,
}

// parseComparison parses at most one comparison; comparisons do not chain
func (p *Parser) parseComparison() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOps[p.current().Type]
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if _, chained := comparisonOps[p.current().Type]; chained {
		return nil, CreateSyntaxError("comparisons cannot be chained", p.current().Pos, p.current().Value)
	}
	return &BinaryOp{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseAdditive() (Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch p.current().Type {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op Operator
		switch p.current().Type {
		case TokenAsterisk:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		case TokenPercent:
			op = OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
}

// parseUnary parses unary minus. A minus directly in front of a numeric
// literal is folded into the literal so "-128" is typed as INT8.
func (p *Parser) parseUnary() (Expression, error) {
	if p.current().Type != TokenMinus {
		return p.parsePostfix()
	}
	minus := p.advance()
	if p.current().Type == TokenNumber && p.peek(1).Type != TokenDot {
		tok := p.advance()
		return parseNumber("-"+tok.Value, minus.Pos)
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: OpNeg, Operand: operand}, nil
}

// parsePostfix parses receiver.name(args) chains
func (p *Parser) parsePostfix() (Expression, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenDot {
		p.advance()
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenLParen); err != nil {
			return nil, err
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		e = &FunctionCall{Name: name.Value, Args: append([]Expression{e}, args...), Method: true}
	}
	return e, nil
}

// parsePrimary parses primary expression
func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.current()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return parseNumber(tok.Value, tok.Pos)
	case TokenString:
		p.advance()
		return &Literal{Value: tok.Value, Type: types.String}, nil
	case TokenTrue:
		p.advance()
		return &Literal{Value: true, Type: types.Boolean}, nil
	case TokenFalse:
		p.advance()
		return &Literal{Value: false, Type: types.Boolean}, nil
	case TokenLParen:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return e, nil
	case TokenIdent:
		p.advance()
		if p.current().Type == TokenLParen {
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &FunctionCall{Name: tok.Value, Args: args}, nil
		}
		return &FieldRef{Name: tok.Value}, nil
	case TokenEOF:
		return nil, CreateMissingTokenError("expression", tok)
	default:
		return nil, CreateUnexpectedTokenError(tok, "expression")
	}
}

// parseArgs parses an argument list after the opening parenthesis
func (p *Parser) parseArgs() ([]Expression, error) {
	var args []Expression
	if p.current().Type == TokenRParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.current().Type {
		case TokenComma:
			p.advance()
		case TokenRParen:
			p.advance()
			return args, nil
		case TokenEOF:
			return nil, CreateMissingTokenError(")", p.current())
		default:
			return nil, CreateUnexpectedTokenError(p.current(), ",", ")")
		}
	}
}

// parseNumber types integer literals with the smallest width that holds them
// and everything with a fraction or exponent as FLOAT64
func parseNumber(text string, pos int) (Expression, error) {
	if !strings.ContainsAny(text, ".eE") {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, &ParseError{
				Type:     ErrorTypeInvalidNumber,
				Message:  "integer literal out of range",
				Position: pos,
				Token:    text,
			}
		}
		t := types.IntegerTypeFor(v)
		return &Literal{Value: types.NarrowInt(v, t), Type: t}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &ParseError{
			Type:     ErrorTypeInvalidNumber,
			Message:  "invalid numeric literal",
			Position: pos,
			Token:    text,
		}
	}
	return &Literal{Value: f, Type: types.Float64}, nil
}
