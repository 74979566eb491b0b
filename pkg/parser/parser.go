// Package parser implements vibescript's recursive-descent parser.
//
// The parser deliberately does NOT fold operator precedence itself: every
// run of binary operators is handed up as a flat *ast.ExpressionSequence
// (operand, operator-literal, operand, operator-literal, operand, ...).
// Precedence folding is pkg/compiler's job: the fold is opportunistic and
// may fail, in which case the compiler falls back to strict left-to-right
// association of the same flat sequence. Keeping the two concerns apart is
// what makes both paths independently testable.
package parser

import (
	"fmt"

	"github.com/vibescript/vibescript/pkg/ast"
	"github.com/vibescript/vibescript/pkg/diag"
	"github.com/vibescript/vibescript/pkg/lexer"
)

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	toks   []lexer.Token
	pos    int
	errors []string
}

// New tokenizes input and primes a parser over it. A lex error is folded
// into the parser's error list rather than returned here, matching the
// teacher's "keep going, collect errors" posture.
func New(input string) *Parser {
	toks, err := lexer.New(input).Tokenize()
	p := &Parser{toks: toks}
	if err != nil {
		p.errors = append(p.errors, err.Error())
	}
	return p
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.toks) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, bool) {
	if !p.at(tt) {
		p.addError(fmt.Sprintf("expected %s, got %s %q", what, p.cur().Type, p.cur().Literal))
		return lexer.Token{}, false
	}
	return p.advance(), true
}

func (p *Parser) addError(msg string) {
	tok := p.cur()
	p.errors = append(p.errors, fmt.Sprintf("line %d, column %d: %s", tok.Line, tok.Column, msg))
}

func (p *Parser) span(start lexer.Token) diag.Span {
	end := p.toks[max(0, p.pos-1)]
	return diag.Span{
		Start: diag.Position{Line: start.Line, Column: start.Column, UTF8Offset: start.UTF8Offset},
		End:   diag.Position{Line: end.Line, Column: end.Column, UTF8Offset: end.UTF8Offset + len(end.Literal)},
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Parse consumes the whole token stream and returns the resulting Program.
// Parsing never aborts early on a malformed statement: it records the
// error and resynchronizes at the next recognizable statement boundary,
// so a single typo doesn't hide every other diagnostic in the file.
func (p *Parser) Parse() (*ast.Program, error) {
	start := p.cur()
	var items []ast.Statement
	for !p.at(lexer.TokenEOF) {
		before := p.pos
		stmt := p.parseTopLevel()
		if stmt != nil {
			items = append(items, stmt)
		}
		if p.pos == before {
			p.advance() // guarantee forward progress on unrecoverable input
		}
	}
	prog := ast.NewProgram(p.span(start), items)
	if len(p.errors) > 0 {
		return prog, fmt.Errorf("parser errors: %v", p.errors)
	}
	return prog, nil
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) parseTopLevel() ast.Statement {
	switch p.cur().Type {
	case lexer.TokenFunc:
		return p.parseFuncDecl()
	case lexer.TokenStruct:
		return p.parseStructDecl()
	default:
		return p.parseStatement()
	}
}

// parseStatement parses one statement at top level or inside a block.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.TokenLet, lexer.TokenVar:
		return p.parseVarDecl()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenSemicolon:
		p.advance()
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlock() []ast.Statement {
	if _, ok := p.expect(lexer.TokenLBrace, "'{'"); !ok {
		return nil
	}
	var body []ast.Statement
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(lexer.TokenRBrace, "'}'")
	return body
}

func (p *Parser) parseFuncDecl() ast.Statement {
	start := p.cur()
	p.advance() // func
	name, _ := p.expect(lexer.TokenIdentifier, "function name")
	p.expect(lexer.TokenLParen, "'('")
	var params []string
	for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
		if id, ok := p.expect(lexer.TokenIdentifier, "parameter name"); ok {
			params = append(params, id.Literal)
		}
		if p.at(lexer.TokenComma) {
			p.advance()
		}
	}
	p.expect(lexer.TokenRParen, "')'")
	body := p.parseBlock()
	return ast.NewFuncDecl(p.span(start), name.Literal, params, body)
}

func (p *Parser) parseStructDecl() ast.Statement {
	start := p.cur()
	p.advance() // struct
	name, _ := p.expect(lexer.TokenIdentifier, "struct name")
	p.expect(lexer.TokenLBrace, "'{'")
	var fields []ast.StructFieldDecl
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		fieldName, ok := p.expect(lexer.TokenIdentifier, "field name")
		if !ok {
			p.advance()
			continue
		}
		fields = append(fields, ast.StructFieldDecl{Name: fieldName.Literal})
		if p.at(lexer.TokenComma) {
			p.advance()
		}
	}
	p.expect(lexer.TokenRBrace, "'}'")
	return ast.NewStructDecl(p.span(start), name.Literal, fields)
}

func (p *Parser) parseVarDecl() ast.Statement {
	start := p.cur()
	immutable := p.at(lexer.TokenLet)
	p.advance() // let/var
	name, _ := p.expect(lexer.TokenIdentifier, "variable name")
	p.expect(lexer.TokenAssign, "'='")
	init := p.parseExpression()
	p.consumeStatementTerminator()
	return ast.NewVarDecl(p.span(start), name.Literal, init, immutable)
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.cur()
	p.advance() // if
	cond := p.parseExpression()
	then := p.parseBlock()
	var els []ast.Statement
	if p.at(lexer.TokenElse) {
		p.advance()
		if p.at(lexer.TokenIf) {
			els = []ast.Statement{p.parseIfStatement()}
		} else {
			els = p.parseBlock()
		}
	}
	return ast.NewIfStatement(p.span(start), cond, then, els)
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.cur()
	p.advance() // while
	cond := p.parseExpression()
	body := p.parseBlock()
	return ast.NewWhileStatement(p.span(start), cond, body)
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.cur()
	p.advance() // return
	var value ast.Expression
	if !p.at(lexer.TokenSemicolon) && !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		value = p.parseExpression()
	}
	p.consumeStatementTerminator()
	return ast.NewReturnStatement(p.span(start), value)
}

func (p *Parser) consumeStatementTerminator() {
	if p.at(lexer.TokenSemicolon) {
		p.advance()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.cur()
	expr := p.parseExpression()
	p.consumeStatementTerminator()
	if expr == nil {
		return nil
	}
	return ast.NewExpressionStatement(p.span(start), expr)
}

// parseExpression parses a single top-level expression. Assignment is
// recognized here by lookahead (identifier, optionally `.field`, followed
// by a bare `=`) and produced directly as *ast.Assignment — the infix
// detection shape. Everything else falls through to the flat operand/
// operator-literal sequence that pkg/compiler folds.
func (p *Parser) parseExpression() ast.Expression {
	if assign := p.tryParseAssignment(); assign != nil {
		return assign
	}
	return p.parseOperatorSequence()
}

func (p *Parser) tryParseAssignment() ast.Expression {
	if !p.at(lexer.TokenIdentifier) {
		return nil
	}
	start := p.pos
	startTok := p.cur()
	name := p.advance().Literal
	field := ""
	if p.at(lexer.TokenDot) && p.peek().Type == lexer.TokenIdentifier {
		p.advance() // .
		field = p.advance().Literal
	}
	if !p.at(lexer.TokenAssign) {
		p.pos = start
		return nil
	}
	p.advance() // =
	value := p.parseOperatorSequence()
	return ast.NewAssignment(p.span(startTok), name, field, value)
}

// parseOperatorSequence parses a run of unary/primary operands separated by
// binary operators and returns it UNFOLDED: a single operand collapses to
// itself, but two or more collapse into an *ast.ExpressionSequence whose
// odd-indexed elements are *ast.OperatorLiteral placeholders. This is the
// flat shape the compiler's opportunistic folding pass expects.
func (p *Parser) parseOperatorSequence() ast.Expression {
	start := p.cur()
	first := p.parseUnary()
	if first == nil {
		return nil
	}
	elements := []ast.Expression{first}
	for isBinaryOperator(p.cur().Type) {
		opTok := p.advance()
		rhs := p.parseUnary()
		if rhs == nil {
			break
		}
		elements = append(elements, ast.NewOperatorLiteral(p.span(opTok), opTok.Literal), rhs)
	}
	if len(elements) == 1 {
		return elements[0]
	}
	return ast.NewExpressionSequence(p.span(start), elements)
}

// isBinaryOperator reports whether tt starts one of the eleven operator
// symbols the bridge catalog actually serves. `!=`/`!` tokens are scanned
// by the lexer for forward compatibility but are not part of
// this grammar's operator set; encountering one here ends the sequence and
// surfaces as a parse error at the unconsumed token.
func isBinaryOperator(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash,
		lexer.TokenEqual, lexer.TokenLess, lexer.TokenGreater,
		lexer.TokenLessEq, lexer.TokenGreaterEq, lexer.TokenAnd, lexer.TokenOr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseUnary() ast.Expression {
	if p.at(lexer.TokenMinus) {
		opTok := p.advance()
		operand := p.parseUnary()
		// Unary minus lowers to `0 - operand`, reusing the binary `-`
		// bridge symbol rather than inventing a twelfth operator.
		zero := ast.NewIntegerLiteral(p.span(opTok), 0)
		return ast.NewInfixExpression(p.span(opTok), "-", zero, operand)
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any chain of
// `.field`, `.method(args)`, or `(args)` suffixes.
func (p *Parser) parsePostfix() ast.Expression {
	start := p.cur()
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		switch {
		case p.at(lexer.TokenDot):
			p.advance()
			name, ok := p.expect(lexer.TokenIdentifier, "member name")
			if !ok {
				return expr
			}
			if p.at(lexer.TokenLParen) {
				args := p.parseArgs()
				expr = ast.NewMethodCallExpression(p.span(start), expr, name.Literal, args)
			} else {
				expr = ast.NewMemberExpression(p.span(start), expr, name.Literal)
			}
		case p.at(lexer.TokenLParen):
			if id, ok := expr.(*ast.Identifier); ok {
				args := p.parseArgs()
				expr = ast.NewCallExpression(p.span(start), id.Name, args)
				continue
			}
			return expr
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Expression {
	p.expect(lexer.TokenLParen, "'('")
	var args []ast.Expression
	for !p.at(lexer.TokenRParen) && !p.at(lexer.TokenEOF) {
		if arg := p.parseExpression(); arg != nil {
			args = append(args, arg)
		}
		if p.at(lexer.TokenComma) {
			p.advance()
		}
	}
	p.expect(lexer.TokenRParen, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenInteger:
		p.advance()
		var v int64
		if _, err := fmt.Sscanf(tok.Literal, "%d", &v); err != nil {
			p.addError(fmt.Sprintf("could not parse %q as integer", tok.Literal))
		}
		return ast.NewIntegerLiteral(p.span(tok), v)
	case lexer.TokenFloat:
		p.advance()
		var v float64
		if _, err := fmt.Sscanf(tok.Literal, "%g", &v); err != nil {
			p.addError(fmt.Sprintf("could not parse %q as float", tok.Literal))
		}
		return ast.NewFloatLiteral(p.span(tok), v)
	case lexer.TokenString:
		p.advance()
		return ast.NewStringLiteral(p.span(tok), tok.Literal)
	case lexer.TokenTrue:
		p.advance()
		return ast.NewBoolLiteral(p.span(tok), true)
	case lexer.TokenFalse:
		p.advance()
		return ast.NewBoolLiteral(p.span(tok), false)
	case lexer.TokenNil:
		p.advance()
		return ast.NewNilLiteral(p.span(tok))
	case lexer.TokenIdentifier:
		p.advance()
		return ast.NewIdentifier(p.span(tok), tok.Literal)
	case lexer.TokenLParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(lexer.TokenRParen, "')'")
		return inner
	default:
		p.addError(fmt.Sprintf("unexpected token %s %q", tok.Type, tok.Literal))
		p.advance()
		return nil
	}
}
