// Package parser implements a recursive-descent parser over the
// source grammar. It has no separate AST stage: each production
// resolves its identifiers and builds its Expr nodes directly through
// a resolver.Builder as it parses, the same way the grammar's original
// producer drives a symbol table straight from its parser actions.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lambdacalc/lambda/pkg/diagnostics"
	"github.com/lambdacalc/lambda/pkg/expr"
	"github.com/lambdacalc/lambda/pkg/lexer"
	"github.com/lambdacalc/lambda/pkg/resolver"
)

// Statement is one top-level construct: either an assignment (Name
// non-empty, built in the global arena) or a bare expression to
// evaluate and discard (Name empty, built in its own Factory so it can
// be released once evaluation finishes).
type Statement struct {
	Name    string
	Expr    *expr.Expr
	Span    diagnostics.Span
	Factory *expr.Factory
}

type parser struct {
	tokens         []lexer.Token
	pos            int
	diags          []diagnostics.Diagnostic
	builder        *resolver.Builder
	newEvalFactory func() *expr.Factory
}

// Parse tokenizes source and parses every statement in it, resolving
// each one against builder. newEvalFactory is called once per bare
// expression statement to get the arena that statement's nodes (and
// later its reduction) should live in.
func Parse(source, filename string, builder *resolver.Builder, newEvalFactory func() *expr.Factory) ([]Statement, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		if pe, ok := err.(*diagnostics.ParseError); ok {
			return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EParse, pe.Message, &pe.Span, "")}
		}
		return nil, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EParse, err.Error(), nil, "")}
	}

	p := &parser{tokens: tokens, builder: builder, newEvalFactory: newEvalFactory}
	stmts := p.parseProgram()
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return stmts, nil
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.TokenType {
	return p.current().Type
}

func (p *parser) peekAt(offset int) lexer.TokenType {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return lexer.TokEOF
	}
	return p.tokens[idx].Type
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ lexer.TokenType) (lexer.Token, bool) {
	tok := p.current()
	if tok.Type != typ {
		p.addError(fmt.Sprintf("expected %s, got %q", typ, tok.Value), tok.Span)
		return tok, false
	}
	return p.advance(), true
}

func (p *parser) addError(msg string, span diagnostics.Span) {
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.EParse, msg, &span, ""))
}

// synchronize skips tokens until the next statement boundary, so one
// malformed statement does not prevent the rest of the file from
// being reported on.
func (p *parser) synchronize() {
	for p.peek() != lexer.TokEOF {
		if p.peek() == lexer.TokIdent && p.peekAt(1) == lexer.TokEquals {
			return
		}
		p.advance()
	}
}

func (p *parser) parseProgram() []Statement {
	var stmts []Statement
	for p.peek() != lexer.TokEOF {
		before := len(p.diags)
		stmt, ok := p.parseStatement()
		if !ok || len(p.diags) > before {
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *parser) parseStatement() (Statement, bool) {
	start := p.current().Span

	if p.peek() == lexer.TokIdent && p.peekAt(1) == lexer.TokEquals {
		name := p.advance().Value
		p.advance() // consume '='
		p.builder.SetTarget(p.builder.Global())
		e, ok := p.parseExpr()
		if !ok {
			return Statement{}, false
		}
		span := p.spanFrom(start)
		p.builder.DeclareGlobal(name, e, span)
		return Statement{Name: name, Expr: e, Span: span}, true
	}

	f := p.newEvalFactory()
	p.builder.SetTarget(f)
	e, ok := p.parseExpr()
	if !ok {
		return Statement{}, false
	}
	return Statement{Expr: e, Span: p.spanFrom(start), Factory: f}, true
}

func (p *parser) spanFrom(start diagnostics.Span) diagnostics.Span {
	cur := p.current().Span
	return diagnostics.Span{File: start.File, StartLine: start.StartLine, StartCol: start.StartCol, EndLine: cur.EndLine, EndCol: cur.EndCol}
}

func (p *parser) parseExpr() (*expr.Expr, bool) {
	switch p.peek() {
	case lexer.TokLParen:
		return p.parseParenGroup()
	case lexer.TokBackslash:
		return p.parseLambda()
	case lexer.TokLBracket:
		return p.parseList()
	case lexer.TokLBrace:
		return p.parseTuple()
	case lexer.TokIntLit:
		return p.parseIntLiteral()
	case lexer.TokIdent:
		tok := p.advance()
		return p.builder.Ident(tok.Value), true
	default:
		tok := p.current()
		p.addError(fmt.Sprintf("unexpected %s", tok.Type), tok.Span)
		return nil, false
	}
}

// parseParenGroup parses `(e)` as a grouped expression and `(e1 e2
// ... en)`, n >= 2, as the left-associative application of e1 to the
// rest.
func (p *parser) parseParenGroup() (*expr.Expr, bool) {
	p.advance() // consume '('

	first, ok := p.parseExpr()
	if !ok {
		return nil, false
	}

	var args []*expr.Expr
	for p.peek() != lexer.TokRParen && p.peek() != lexer.TokEOF {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
	}

	if _, ok := p.expect(lexer.TokRParen); !ok {
		return nil, false
	}

	if len(args) == 0 {
		return first, true
	}
	return p.builder.Apply(first, args), true
}

// parseLambda parses `\a b c.e`, a one-or-more-parameter abstraction.
func (p *parser) parseLambda() (*expr.Expr, bool) {
	p.advance() // consume '\'

	var names []string
	for p.peek() == lexer.TokIdent {
		tok := p.advance()
		names = append(names, tok.Value)
		p.builder.StartLambda(tok.Value)
	}
	if len(names) == 0 {
		tok := p.current()
		p.addError("expected at least one parameter name after '\\'", tok.Span)
		return nil, false
	}

	if _, ok := p.expect(lexer.TokDot); !ok {
		return nil, false
	}

	body, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return p.builder.FinishLambda(names, body), true
}

// parseList parses `[e1 e2 ... en]`, desugared by the resolver into a
// pair chain terminated by the global false.
func (p *parser) parseList() (*expr.Expr, bool) {
	p.advance() // consume '['

	var elems []*expr.Expr
	for p.peek() != lexer.TokRBracket && p.peek() != lexer.TokEOF {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		elems = append(elems, e)
	}

	if _, ok := p.expect(lexer.TokRBracket); !ok {
		return nil, false
	}
	return p.builder.List(elems), true
}

// parseTuple parses `{e1 e2 ... en}`, desugared into `\s.((s e1) e2)
// ... en`. The fresh binder is pushed before the elements are parsed
// so their free variables are resolved at the right depth. It is pushed
// under the empty name, which no identifier can spell, so an element
// that mentions an outer `s` is not captured by it.
func (p *parser) parseTuple() (*expr.Expr, bool) {
	p.advance() // consume '{'

	p.builder.StartLambda("")
	var elems []*expr.Expr
	for p.peek() != lexer.TokRBrace && p.peek() != lexer.TokEOF {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		elems = append(elems, e)
	}

	if _, ok := p.expect(lexer.TokRBrace); !ok {
		return nil, false
	}

	body := p.builder.TupleBody(elems)
	return p.builder.FinishLambda([]string{"s"}, body), true
}

func (p *parser) parseIntLiteral() (*expr.Expr, bool) {
	tok := p.advance()
	clean := strings.ReplaceAll(tok.Value, "_", "")
	n, err := strconv.ParseUint(clean, 10, 64)
	if err != nil {
		p.addError(fmt.Sprintf("invalid integer literal %q", tok.Value), tok.Span)
		return nil, false
	}
	return p.builder.Number(n), true
}
