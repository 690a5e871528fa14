package parser

import "errors"

const maxArgs = 255

// Parse builds statements from a token stream ending in EOF. Syntax errors are
// collected; after each one the parser skips to the next statement boundary
// and keeps going, so the returned statements cover only the well-formed
// declarations. ids may be nil, in which case a fresh IDGen is used.
func Parse(tokens []Token, ids *IDGen) ([]Stmt, Diagnostics) {
	if ids == nil {
		ids = &IDGen{}
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, Token{Type: TokenEOF, Line: line})
	}
	p := &parser{
		tokens: tokens,
		ids:    ids,
	}
	return p.parseProgram(), p.diags
}

type parser struct {
	tokens    []Token
	current   int
	ids       *IDGen
	loopDepth int
	diags     Diagnostics
}

func (p *parser) parseProgram() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		stmts = append(stmts, p.declaration()...)
	}
	return stmts
}

// declaration parses one declaration and recovers from a syntax error inside
// it. A var declaration may yield several statements.
func (p *parser) declaration() []Stmt {
	stmts, err := p.parseDeclaration()
	if err != nil {
		var d Diagnostic
		if errors.As(err, &d) {
			p.diags = append(p.diags, d)
		}
		p.synchronize()
		return nil
	}
	return stmts
}

func (p *parser) parseDeclaration() ([]Stmt, error) {
	switch {
	case p.match(TokenClass):
		stmt, err := p.parseClassDecl()
		if err != nil {
			return nil, err
		}
		return []Stmt{stmt}, nil
	case p.check(TokenFun) && p.checkNext(TokenIdentifier):
		p.advance()
		stmt, err := p.parseFunction("function")
		if err != nil {
			return nil, err
		}
		return []Stmt{stmt}, nil
	case p.match(TokenVar):
		return p.parseVarDecl()
	default:
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return []Stmt{stmt}, nil
	}
}

func (p *parser) parseClassDecl() (Stmt, error) {
	name, err := p.expect(TokenIdentifier, "Expect class name.")
	if err != nil {
		return nil, err
	}
	var superclass *Variable
	if p.match(TokenLess) {
		superName, err := p.expect(TokenIdentifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &Variable{ID: p.ids.Next(), Name: superName}
	}
	if _, err := p.expect(TokenLeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*FunctionStmt
	for !p.check(TokenRightBrace) && !p.atEnd() {
		method, err := p.parseFunction("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.expect(TokenRightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
	}, nil
}

// parseFunction parses the part of a function or method declaration that
// follows the fun keyword. kind is used in error messages only.
func (p *parser) parseFunction(kind string) (*FunctionStmt, error) {
	name, err := p.expect(TokenIdentifier, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftParen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	params, body, err := p.parseFunctionRest(kind)
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

// parseFunctionRest parses a parameter list after its opening parenthesis,
// followed by the body block.
func (p *parser) parseFunctionRest(kind string) ([]Token, []Stmt, error) {
	params, err := p.parseParamNames()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after parameters."); err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(TokenLeftBrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, nil, err
	}

	// A loop around a function body does not make break legal inside it.
	enclosingLoops := p.loopDepth
	p.loopDepth = 0
	body, err := p.parseBlock()
	p.loopDepth = enclosingLoops
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

func (p *parser) parseParamNames() ([]Token, error) {
	var params []Token
	if p.check(TokenRightParen) {
		return params, nil
	}
	for {
		if len(params) >= maxArgs {
			p.report(p.peek(), "Can't have more than 255 parameters.")
		}
		tok, err := p.expect(TokenIdentifier, "Expect parameter name.")
		if err != nil {
			return nil, err
		}
		params = append(params, tok)
		if !p.match(TokenComma) {
			break
		}
	}
	return params, nil
}

// parseVarDecl parses "var a = 1, b, c = 3;" after the var keyword into one
// VarStmt per name.
func (p *parser) parseVarDecl() ([]Stmt, error) {
	var stmts []Stmt
	for {
		name, err := p.expect(TokenIdentifier, "Expect variable name.")
		if err != nil {
			return nil, err
		}
		var init Expr
		if p.match(TokenEqual) {
			init, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		stmts = append(stmts, &VarStmt{Name: name, Init: init})
		if !p.match(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseStatement() (Stmt, error) {
	switch {
	case p.match(TokenFor):
		return p.parseForStmt()
	case p.match(TokenIf):
		return p.parseIfStmt()
	case p.match(TokenPrint):
		return p.parsePrintStmt()
	case p.match(TokenReturn):
		return p.parseReturnStmt()
	case p.match(TokenWhile):
		return p.parseWhileStmt()
	case p.match(TokenBreak):
		return p.parseLoopJump(&BreakStmt{Keyword: p.previous()}, "break")
	case p.match(TokenContinue):
		return p.parseLoopJump(&ContinueStmt{Keyword: p.previous()}, "continue")
	case p.match(TokenLeftBrace):
		stmts, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts}, nil
	default:
		return p.parseExpressionStmt()
	}
}

func (p *parser) parseForStmt() (Stmt, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init []Stmt
	switch {
	case p.match(TokenSemicolon):
	case p.match(TokenVar):
		decls, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		init = decls
	default:
		stmt, err := p.parseExpressionStmt()
		if err != nil {
			return nil, err
		}
		init = []Stmt{stmt}
	}

	var cond Expr
	if !p.check(TokenSemicolon) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = expr
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment Expr
	if !p.check(TokenRightParen) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		increment = expr
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	if cond == nil {
		cond = &Literal{Value: true}
	}
	var loop Stmt = &ForStmt{
		Cond:      cond,
		Increment: increment,
		Body:      body,
	}
	if len(init) > 0 {
		loop = &BlockStmt{Stmts: append(init, loop)}
	}
	return loop, nil
}

func (p *parser) parseLoopBody() (Stmt, error) {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseStatement()
}

func (p *parser) parseIfStmt() (Stmt, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(TokenElse) {
		elseBranch, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{
		Cond: cond,
		Then: thenBranch,
		Else: elseBranch,
	}, nil
}

func (p *parser) parsePrintStmt() (Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: value}, nil
}

func (p *parser) parseReturnStmt() (Stmt, error) {
	keyword := p.previous()
	var value Expr
	if !p.check(TokenSemicolon) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{
		Keyword: keyword,
		Value:   value,
	}, nil
}

func (p *parser) parseWhileStmt() (Stmt, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.parseLoopBody()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{
		Cond: cond,
		Body: body,
	}, nil
}

func (p *parser) parseLoopJump(stmt Stmt, keyword string) (Stmt, error) {
	if p.loopDepth == 0 {
		p.report(p.previous(), "Must be inside a loop to use '"+keyword+"'.")
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after '"+keyword+"'."); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseBlock() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(TokenRightBrace) && !p.atEnd() {
		stmts = append(stmts, p.declaration()...)
	}
	if _, err := p.expect(TokenRightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseExpressionStmt() (Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expr: expr}, nil
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseTernary()
}

func (p *parser) parseTernary() (Expr, error) {
	cond, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenQuestion) {
		return cond, nil
	}
	question := p.previous()
	thenExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon, "Expect ':' after then branch of conditional expression."); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Ternary{
		Cond:     cond,
		Question: question,
		Then:     thenExpr,
		Else:     elseExpr,
	}, nil
}

func (p *parser) parseAssignment() (Expr, error) {
	expr, err := p.parseLambda()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenEqual) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	switch target := expr.(type) {
	case *Variable:
		return &Assign{ID: p.ids.Next(), Name: target.Name, Value: value}, nil
	case *Get:
		return &Set{Object: target.Object, Name: target.Name, Value: value}, nil
	}
	p.report(equals, "Invalid assignment target.")
	return expr, nil
}

func (p *parser) parseLambda() (Expr, error) {
	if !(p.check(TokenFun) && p.checkNext(TokenLeftParen)) {
		return p.parseOr()
	}
	keyword := p.advance()
	p.advance() // (
	params, body, err := p.parseFunctionRest("lambda")
	if err != nil {
		return nil, err
	}
	return &Lambda{
		Keyword: keyword,
		Params:  params,
		Body:    body,
	}, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(TokenOr) {
		op := p.previous()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.match(TokenAnd) {
		op := p.previous()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &Logical{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// parseBinaryLevel parses a left-associative chain of the given operators
// whose operands are produced by next.
func (p *parser) parseBinaryLevel(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &Binary{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	return p.parseBinaryLevel(p.parseComparison, TokenBangEqual, TokenEqualEqual)
}

func (p *parser) parseComparison() (Expr, error) {
	return p.parseBinaryLevel(p.parseTerm, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *parser) parseTerm() (Expr, error) {
	return p.parseBinaryLevel(p.parseFactor, TokenMinus, TokenPlus)
}

func (p *parser) parseFactor() (Expr, error) {
	return p.parseBinaryLevel(p.parseUnary, TokenSlash, TokenStar)
}

func (p *parser) parseUnary() (Expr, error) {
	if p.match(TokenBang, TokenMinus) {
		op := p.previous()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Right: right}, nil
	}
	return p.parseCall()
}

func (p *parser) parseCall() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(TokenLeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(TokenDot):
			name, err := p.expect(TokenIdentifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(TokenRightParen) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	paren, err := p.expect(TokenRightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &Call{
		Callee: callee,
		Paren:  paren,
		Args:   args,
	}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch {
	case p.match(TokenFalse):
		return &Literal{Value: false}, nil
	case p.match(TokenTrue):
		return &Literal{Value: true}, nil
	case p.match(TokenNil):
		return &Literal{Value: nil}, nil
	case p.match(TokenNumber, TokenString):
		return &Literal{Value: p.previous().Literal}, nil
	case p.match(TokenThis):
		return &This{ID: p.ids.Next(), Keyword: p.previous()}, nil
	case p.match(TokenSuper):
		keyword := p.previous()
		if _, err := p.expect(TokenDot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.expect(TokenIdentifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &Super{ID: p.ids.Next(), Keyword: keyword, Method: method}, nil
	case p.match(TokenIdentifier):
		return &Variable{ID: p.ids.Next(), Name: p.previous()}, nil
	case p.match(TokenLeftParen):
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &Grouping{Expr: expr}, nil
	default:
		return nil, DiagnosticAt(p.peek(), "Expect expression.")
	}
}

// synchronize discards tokens until a likely statement boundary.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf, TokenWhile, TokenPrint, TokenReturn:
			return
		}
		p.advance()
	}
}

// report records a syntax error that does not require resynchronising.
func (p *parser) report(tok Token, message string) {
	p.diags = append(p.diags, DiagnosticAt(tok, message))
}

func (p *parser) expect(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, DiagnosticAt(p.peek(), message)
}

func (p *parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(tt TokenType) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *parser) checkNext(tt TokenType) bool {
	if p.atEnd() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == tt
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) atEnd() bool {
	return p.peek().Type == TokenEOF
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
