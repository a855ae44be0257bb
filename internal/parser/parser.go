// Package parser implements a recursive-descent parser over the JL
// grammar (spec.md §4.2). One function per production builds AST nodes
// and, for declarations, populates the class/function symbol tables as a
// side effect of descending — there is no separate "binder" pass between
// parsing and finalisation.
//
// Unlike the teacher's fused parser+codegen, this parser never emits VM
// code and never panics: every production returns an error instead.
package parser

import (
	"github.com/aprice/jlc/internal/ast"
	"github.com/aprice/jlc/internal/diag"
	"github.com/aprice/jlc/internal/lexer"
	"github.com/aprice/jlc/internal/symbols"
	"github.com/aprice/jlc/internal/token"
)

// Parser consumes a token stream and builds one ClassTable per source
// file, recording any non-fatal declaration warnings (e.g. a `var`
// declared after the first statement) into warn.
type Parser struct {
	lex  *lexer.Lexer
	warn *diag.Collector
}

// New creates a Parser reading from lex, recording warnings into warn.
func New(lex *lexer.Lexer, warn *diag.Collector) *Parser {
	return &Parser{lex: lex, warn: warn}
}

func asLexError(err error) error {
	if le, ok := err.(*lexer.Error); ok {
		return diag.Lexical(le.Message, le.Line)
	}
	return err
}

func (p *Parser) next() (token.Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return token.Token{}, asLexError(err)
	}
	return tok, nil
}

func (p *Parser) peek() (token.Token, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return token.Token{}, asLexError(err)
	}
	return tok, nil
}

func syntaxErr(expected string, got token.Token) error {
	return diag.Syntax(expected, got.Text, got.Line)
}

func isPunct(tok token.Token, text string) bool {
	return tok.Kind == token.Punctuator && tok.Text == text
}

func isOperatorText(tok token.Token, text string) bool {
	return tok.Kind == token.Operator && tok.Text == text
}

// validateType peeks at the next token and reports a syntax error unless
// it can start a type: a primitive keyword or any identifier (a class
// name). It does not consume the token — callers consume it themselves
// once validated, mirroring original_source/src/expressionParser.c's
// parseType.
func (p *Parser) validateType() error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Kind != token.Identifier && tok.Text != "int" && tok.Text != "char" && tok.Text != "boolean" {
		return syntaxErr("Identifier or variable type", tok)
	}
	return nil
}

// ParseClass parses a single `class Name { ... }` declaration, which is
// the entirety of one source file (spec.md §1, §6).
func (p *Parser) ParseClass() (*symbols.ClassTable, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Text != "class" {
		return nil, syntaxErr(`Keyword "class"`, tok)
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.Identifier {
		return nil, syntaxErr("Identifier", tok)
	}
	class := symbols.NewClassTable(tok.Text, tok.Line)

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, "{") {
		return nil, syntaxErr(`'{'`, tok)
	}

	for {
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if isPunct(tok, "}") {
			break
		}
		if tok.Text == "field" || tok.Text == "static" {
			if err := p.parseClassVarDec(class); err != nil {
				return nil, err
			}
			continue
		}
		if tok.Text == "constructor" || tok.Text == "function" || tok.Text == "method" {
			break
		}
		return nil, syntaxErr("Class variable or subroutine", tok)
	}

	for {
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if isPunct(tok, "}") {
			break
		}
		if tok.Text == "constructor" || tok.Text == "function" || tok.Text == "method" {
			if err := p.parseSubroutineDec(class); err != nil {
				return nil, err
			}
			continue
		}
		return nil, syntaxErr("Class variable or subroutine", tok)
	}

	tok, err = p.next() // consume '}'
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, "}") {
		return nil, syntaxErr(`'}'`, tok)
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.Terminator {
		return nil, syntaxErr("Terminator", tok)
	}

	return class, nil
}

// parseClassVarDec handles `("static"|"field") type ID ("," ID)* ";"`.
func (p *Parser) parseClassVarDec(class *symbols.ClassTable) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	var kind symbols.VariableKind
	switch tok.Text {
	case "field":
		kind = symbols.Field
	case "static":
		kind = symbols.Static
	default:
		return syntaxErr(`Keyword "field" or "static"`, tok)
	}

	if err := p.validateType(); err != nil {
		return err
	}
	typeTok, err := p.next()
	if err != nil {
		return err
	}
	typeName := typeTok.Text

	nameTok, err := p.next()
	if err != nil {
		return err
	}
	if nameTok.Kind != token.Identifier {
		return syntaxErr("Identifier", nameTok)
	}
	class.AddVariable(&symbols.VariableSymbol{Name: nameTok.Text, TypeName: typeName, Kind: kind, Line: nameTok.Line})

	for {
		tok, err = p.next()
		if err != nil {
			return err
		}
		if !isPunct(tok, ",") && !isPunct(tok, ";") {
			return syntaxErr(`',' or ';'`, tok)
		}
		if isPunct(tok, ";") {
			return nil
		}
		nameTok, err = p.next()
		if err != nil {
			return err
		}
		if nameTok.Kind != token.Identifier {
			return syntaxErr("Identifier", nameTok)
		}
		class.AddVariable(&symbols.VariableSymbol{Name: nameTok.Text, TypeName: typeName, Kind: kind, Line: nameTok.Line})
	}
}

// parseSubroutineDec handles a constructor/function/method declaration.
func (p *Parser) parseSubroutineDec(class *symbols.ClassTable) error {
	kindTok, err := p.next()
	if err != nil {
		return err
	}
	var kind symbols.FunctionKind
	switch kindTok.Text {
	case "constructor":
		kind = symbols.Constructor
	case "function":
		kind = symbols.Function
	case "method":
		kind = symbols.Method
	default:
		return syntaxErr(`Keyword "constructor", "function", or "method"`, kindTok)
	}

	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Text != "void" {
		if err := p.validateType(); err != nil {
			return err
		}
	}
	returnTok, err := p.next()
	if err != nil {
		return err
	}

	nameTok, err := p.next()
	if err != nil {
		return err
	}
	if nameTok.Kind != token.Identifier {
		return syntaxErr("Identifier", nameTok)
	}

	fn := symbols.NewFunctionTable(nameTok.Text, kind, nameTok.Line)
	fn.ReturnType = returnTok.Text
	class.AddFunction(fn)

	tok, err = p.next()
	if err != nil {
		return err
	}
	if !isPunct(tok, "(") {
		return syntaxErr(`'('`, tok)
	}

	if err := p.parseParamList(fn); err != nil {
		return err
	}

	tok, err = p.next()
	if err != nil {
		return err
	}
	if !isPunct(tok, ")") {
		return syntaxErr(`')'`, tok)
	}

	return p.parseSubroutineBody(class, fn)
}

// parseParamList handles `[ type ID ("," type ID)* ]`.
func (p *Parser) parseParamList(fn *symbols.FunctionTable) error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if isPunct(tok, ")") {
		return nil
	}

	for {
		if err := p.validateType(); err != nil {
			return err
		}
		typeTok, err := p.next()
		if err != nil {
			return err
		}
		nameTok, err := p.next()
		if err != nil {
			return err
		}
		if nameTok.Kind != token.Identifier {
			return syntaxErr("Identifier", nameTok)
		}
		fn.AddArgument(&symbols.VariableSymbol{Name: nameTok.Text, TypeName: typeTok.Text, Line: nameTok.Line})

		tok, err = p.peek()
		if err != nil {
			return err
		}
		if isPunct(tok, ")") {
			return nil
		}
		if !isPunct(tok, ",") {
			return syntaxErr(`')' or ','`, tok)
		}
		if _, err := p.next(); err != nil { // consume ','
			return err
		}
	}
}

// parseSubroutineBody handles `"{" varDec* statement* "}"`.
func (p *Parser) parseSubroutineBody(class *symbols.ClassTable, fn *symbols.FunctionTable) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if !isPunct(tok, "{") {
		return syntaxErr(`'{'`, tok)
	}

	for {
		tok, err = p.peek()
		if err != nil {
			return err
		}
		if isPunct(tok, "}") {
			if _, err := p.next(); err != nil {
				return err
			}
			return nil
		}
		if tok.Text == "var" {
			if err := p.parseVarDeclarStatement(fn); err != nil {
				return err
			}
			continue
		}
		stmt, err := p.parseStatement(class, fn)
		if err != nil {
			return err
		}
		fn.AddStatement(stmt)
	}
}

// parseVarDeclarStatement handles `"var" type ID ("," ID)* ";"`. Locals
// are consumed directly into the function table and never appear in the
// statement list (spec.md §3, §4.2).
func (p *Parser) parseVarDeclarStatement(fn *symbols.FunctionTable) error {
	if _, err := p.next(); err != nil { // consume "var"
		return err
	}

	if len(fn.Body) > 0 {
		p.warn.Warn("", "Variable declared after statements", 0)
	}

	if err := p.validateType(); err != nil {
		return err
	}
	typeTok, err := p.next()
	if err != nil {
		return err
	}
	typeName := typeTok.Text

	nameTok, err := p.next()
	if err != nil {
		return err
	}
	if nameTok.Kind != token.Identifier {
		return syntaxErr("Identifier", nameTok)
	}
	fn.AddLocal(&symbols.VariableSymbol{Name: nameTok.Text, TypeName: typeName, Line: nameTok.Line})

	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if !isPunct(tok, ",") && !isPunct(tok, ";") {
			return syntaxErr(`',' or ';'`, tok)
		}
		if isPunct(tok, ";") {
			return nil
		}
		nameTok, err = p.next()
		if err != nil {
			return err
		}
		if nameTok.Kind != token.Identifier {
			return syntaxErr("Identifier", nameTok)
		}
		fn.AddLocal(&symbols.VariableSymbol{Name: nameTok.Text, TypeName: typeName, Line: nameTok.Line})
	}
}

// parseStatement dispatches on the next keyword (spec.md §4.2's
// statement production).
func (p *Parser) parseStatement(class *symbols.ClassTable, fn *symbols.FunctionTable) (ast.Statement, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.Keyword {
		return nil, syntaxErr(`Statement or '}'`, tok)
	}
	switch tok.Text {
	case "let":
		return p.parseLetStatement()
	case "if":
		return p.parseIfStatement(class, fn)
	case "while":
		return p.parseWhileStatement(class, fn)
	case "do":
		return p.parseDoStatement()
	case "return":
		return p.parseReturnStatement()
	default:
		return nil, syntaxErr(`Statement or '}'`, tok)
	}
}

// parseLetStatement handles `"let" ID ("[" expr "]")? "=" expr ";"`.
func (p *Parser) parseLetStatement() (ast.Statement, error) {
	if _, err := p.next(); err != nil { // consume "let"
		return nil, err
	}

	nameTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if nameTok.Kind != token.Identifier {
		return nil, syntaxErr("Identifier", nameTok)
	}

	var index *ast.Expression

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case isOperatorText(tok, "="):
		// no index expression
	case isPunct(tok, "["):
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		index = idx

		closeTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !isPunct(closeTok, "]") {
			return nil, syntaxErr(`']'`, closeTok)
		}

		eqTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !isOperatorText(eqTok, "=") {
			return nil, syntaxErr(`'='`, eqTok)
		}
	default:
		return nil, syntaxErr(`'[' or '='`, tok)
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	semi, err := p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(semi, ";") {
		return nil, syntaxErr(`';'`, semi)
	}

	return ast.NewLetStatement(nameTok.Line, nameTok.Text, index, value), nil
}

// parseBlockStatements parses statement* up to (and consuming) the
// closing "}".
func (p *Parser) parseBlockStatements(class *symbols.ClassTable, fn *symbols.FunctionTable) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if isPunct(tok, "}") {
			if _, err := p.next(); err != nil {
				return nil, err
			}
			return stmts, nil
		}
		stmt, err := p.parseStatement(class, fn)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// parseIfStatement handles `"if" "(" expr ")" "{" statement* "}"
// ("else" "{" statement* "}")?`.
func (p *Parser) parseIfStatement(class *symbols.ClassTable, fn *symbols.FunctionTable) (ast.Statement, error) {
	ifTok, err := p.next() // consume "if"
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, "(") {
		return nil, syntaxErr(`'('`, tok)
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, ")") {
		return nil, syntaxErr(`')'`, tok)
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, "{") {
		return nil, syntaxErr(`'{'`, tok)
	}

	thenStmts, err := p.parseBlockStatements(class, fn)
	if err != nil {
		return nil, err
	}

	var elseStmts []ast.Statement

	tok, err = p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Keyword && tok.Text == "else" {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		if !isPunct(tok, "{") {
			return nil, syntaxErr(`'{'`, tok)
		}
		elseStmts, err = p.parseBlockStatements(class, fn)
		if err != nil {
			return nil, err
		}
	}

	return ast.NewIfStatement(ifTok.Line, cond, thenStmts, elseStmts), nil
}

// parseWhileStatement handles `"while" "(" expr ")" "{" statement* "}"`.
func (p *Parser) parseWhileStatement(class *symbols.ClassTable, fn *symbols.FunctionTable) (ast.Statement, error) {
	whileTok, err := p.next()
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, "(") {
		return nil, syntaxErr(`'('`, tok)
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, ")") {
		return nil, syntaxErr(`')'`, tok)
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, "{") {
		return nil, syntaxErr(`'{'`, tok)
	}

	body, err := p.parseBlockStatements(class, fn)
	if err != nil {
		return nil, err
	}

	return ast.NewWhileStatement(whileTok.Line, cond, body), nil
}

// parseDoStatement handles `"do" subroutineCall ";"`.
func (p *Parser) parseDoStatement() (ast.Statement, error) {
	doTok, err := p.next()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if nameTok.Kind != token.Identifier {
		return nil, syntaxErr("Identifier", nameTok)
	}
	call, err := p.parseSubroutineCall(nameTok)
	if err != nil {
		return nil, err
	}

	semi, err := p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(semi, ";") {
		return nil, syntaxErr(`';'`, semi)
	}

	return ast.NewDoStatement(doTok.Line, call), nil
}

// parseReturnStatement handles `"return" expr? ";"`.
func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	retTok, err := p.next()
	if err != nil {
		return nil, err
	}

	var value *ast.Expression

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, ";") {
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	semi, err := p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(semi, ";") {
		return nil, syntaxErr(`';'`, semi)
	}

	return ast.NewReturnStatement(retTok.Line, value), nil
}

// parseExpression handles `term (op term)*`, left-to-right with no
// operator precedence (spec.md §3, §9 — this is intentional, not a bug).
func (p *Parser) parseExpression() (*ast.Expression, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	expr := &ast.Expression{Terms: []ast.Term{first}, Line: first.Pos()}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Operator {
			break
		}
		opTok, err := p.next()
		if err != nil {
			return nil, err
		}
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr.Operators = append(expr.Operators, opTok.Text)
		expr.Terms = append(expr.Terms, term)
	}

	return expr, nil
}

// parseTerm handles the full term production, including the
// identifier-lookahead that distinguishes a bare variable reference from
// an array reference or a subroutine call.
func (p *Parser) parseTerm() (ast.Term, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Kind == token.Integer:
		n, err := tok.Int()
		if err != nil {
			return nil, diag.Lexical("malformed integer constant", tok.Line)
		}
		return ast.NewIntegerTerm(tok.Line, n), nil

	case tok.Kind == token.String:
		return ast.NewStringTerm(tok.Line, tok.Text), nil

	case tok.Kind == token.Keyword && (tok.Text == "true" || tok.Text == "false" || tok.Text == "null" || tok.Text == "this"):
		return ast.NewKeywordConstant(tok.Line, tok.Text), nil

	case tok.Kind == token.Identifier:
		return p.parseIdentifierTerm(tok)

	case isPunct(tok, "("):
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !isPunct(closeTok, ")") {
			return nil, syntaxErr(`')'`, closeTok)
		}
		return ast.NewParenTerm(tok.Line, inner), nil

	case tok.Kind == token.Operator && (tok.Text == "~" || tok.Text == "-"):
		operand, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryTerm(tok.Line, tok.Text, operand), nil

	default:
		return nil, syntaxErr(`String, integer, identifier, "true", "false", "null", "this", or '('`, tok)
	}
}

// parseIdentifierTerm continues a term after its leading identifier has
// already been consumed, distinguishing a variable reference from an
// array reference or a subroutine call by the following punctuator.
func (p *Parser) parseIdentifierTerm(nameTok token.Token) (ast.Term, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if isPunct(tok, "[") {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !isPunct(closeTok, "]") {
			return nil, syntaxErr(`']'`, closeTok)
		}
		return ast.NewArrayTerm(nameTok.Line, nameTok.Text, index), nil
	}

	if isPunct(tok, ".") || isPunct(tok, "(") {
		call, err := p.parseSubroutineCall(nameTok)
		if err != nil {
			return nil, err
		}
		return ast.NewCallTerm(nameTok.Line, call), nil
	}

	return ast.NewVariableTerm(nameTok.Line, nameTok.Text), nil
}

// parseSubroutineCall handles `("." ID)? "(" exprList ")"` given the
// leading identifier nameTok has already been consumed. It backs both
// do-statements and call terms (spec.md §4.2's shared `subroutineCall`
// production).
func (p *Parser) parseSubroutineCall(nameTok token.Token) (*ast.Call, error) {
	call := &ast.Call{Name: nameTok.Text, Line: nameTok.Line}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if isPunct(tok, ".") {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		methodTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if methodTok.Kind != token.Identifier {
			return nil, syntaxErr("Identifier", methodTok)
		}
		call.Qualifier = nameTok.Text
		call.Name = methodTok.Text
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, "(") {
		return nil, syntaxErr(`'('`, tok)
	}

	args, err := p.parseExpressionList()
	if err != nil {
		return nil, err
	}
	call.Args = args

	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !isPunct(tok, ")") {
		return nil, syntaxErr(`')'`, tok)
	}

	return call, nil
}

// parseExpressionList handles a comma-separated, possibly-empty list of
// expressions up to (but not consuming) the closing ")".
func (p *Parser) parseExpressionList() ([]*ast.Expression, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if isPunct(tok, ")") {
		return nil, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	exprs := []*ast.Expression{first}

	for {
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if isPunct(tok, ",") {
			if _, err := p.next(); err != nil {
				return nil, err
			}
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
			continue
		}
		if isPunct(tok, ")") {
			return exprs, nil
		}
		return nil, syntaxErr(`',' or ')'`, tok)
	}
}
