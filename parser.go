package main

// maxCallArgs is the number of System V integer argument registers. Calls
// with more arguments than that are out of scope for this compiler.
const maxCallArgs = 6

// Parser consumes the token slice through a forward-only cursor. The grammar
// needs at most one token of lookahead (telling a call from a variable
// reference). Productions panic with *CompileError; Parse recovers at the top.
type Parser struct {
	toks []Token
	pos  int

	// locals collects the current function's variables in declaration order.
	// Lookup scans newest-first, so redeclaring a name shadows the older
	// entry (first match wins).
	locals []*Variable
}

// Parse builds the translation unit from a token sequence.
func Parse(toks []Token) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CompileError); ok {
				prog = nil
				err = ce
				return
			}
			panic(r)
		}
	}()

	p := &Parser{toks: toks}
	prog = &Program{}
	for !p.atEOF() {
		prog.Funcs = append(prog.Funcs, p.function())
	}
	return prog, nil
}

// ParseExpr parses a single expression instead of a whole translation unit.
// Undeclared identifiers become implicit int locals, same as in a function
// body. Used by tests and the markdown test runner.
func ParseExpr(toks []Token) (node *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CompileError); ok {
				node = nil
				err = ce
				return
			}
			panic(r)
		}
	}()

	p := &Parser{toks: toks}
	node = p.expr()
	if !p.atEOF() {
		panic(parseErrorf(p.cur().Pos, "extra token '%s' after expression", p.cur().Lit))
	}
	return node, nil
}

// cursor helpers

func (p *Parser) cur() Token {
	return p.toks[p.pos]
}

func (p *Parser) peek() Token {
	if p.toks[p.pos].Kind == EOF {
		return p.toks[p.pos]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == EOF
}

// equal reports whether tok is the given punctuator or keyword-shaped
// identifier. Keywords are not reserved; they are plain IDENT tokens matched
// by exact string comparison.
func equal(tok Token, lit string) bool {
	return (tok.Kind == PUNCT || tok.Kind == IDENT) && tok.Lit == lit
}

func (p *Parser) consume(lit string) bool {
	if !equal(p.cur(), lit) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(lit string) Token {
	if !equal(p.cur(), lit) {
		panic(parseErrorf(p.cur().Pos, "expected '%s' but got '%s'", lit, p.cur().Lit))
	}
	return p.advance()
}

func (p *Parser) expectIdent() Token {
	if p.cur().Kind != IDENT {
		panic(parseErrorf(p.cur().Pos, "expected an identifier but got '%s'", p.cur().Lit))
	}
	return p.advance()
}

func (p *Parser) expectNumber() Token {
	if p.cur().Kind != NUM {
		panic(parseErrorf(p.cur().Pos, "expected a number but got '%s'", p.cur().Lit))
	}
	return p.advance()
}

// symbol table

func (p *Parser) findVar(name string) *Variable {
	for i := len(p.locals) - 1; i >= 0; i-- {
		if p.locals[i].Name == name {
			return p.locals[i]
		}
	}
	return nil
}

func (p *Parser) pushVar(name string, ty *Type) *Variable {
	v := &Variable{Name: name, Type: ty}
	p.locals = append(p.locals, v)
	return v
}

// declarations

// basetype = "int" "*"*
func (p *Parser) basetype() *Type {
	p.expect("int")
	ty := intType()
	for p.consume("*") {
		ty = pointerTo(ty)
	}
	return ty
}

// typeSuffix = ("[" num "]")?
func (p *Parser) typeSuffix(base *Type) *Type {
	if !p.consume("[") {
		return base
	}
	n := p.expectNumber()
	p.expect("]")
	return arrayOf(base, n.Val)
}

// declaration = basetype ident typeSuffix ("=" expr)? ";"
func (p *Parser) declaration() *Node {
	ty := p.basetype()
	name := p.expectIdent()
	ty = p.typeSuffix(ty)
	v := p.pushVar(name.Lit, ty)

	if p.consume(";") {
		return newNode(NodeBlock, name.Pos) // declaration without initializer emits nothing
	}

	eq := p.expect("=")
	rhs := p.expr()
	p.expect(";")
	assign := newBinary(NodeAssign, newVarRef(v, name.Pos), rhs, eq.Pos)
	return newUnary(NodeExprStmt, assign, name.Pos)
}

// function = "int"? ident "(" params? ")" "{" stmt* "}"
// param    = ("int" "*"*)? ident typeSuffix
//
// The leading typespec is optional so the bare form `main() { ... }`
// still parses.
func (p *Parser) function() *Function {
	p.locals = nil

	if equal(p.cur(), "int") {
		p.basetype()
	}
	name := p.expectIdent()
	fn := &Function{Name: name.Lit}

	p.expect("(")
	for !p.consume(")") {
		if len(fn.Params) > 0 {
			p.expect(",")
		}
		if len(fn.Params) == maxCallArgs {
			panic(parseErrorf(p.cur().Pos, "too many parameters (max %d)", maxCallArgs))
		}
		fn.Params = append(fn.Params, p.param())
	}

	p.expect("{")
	for !p.consume("}") {
		fn.Body = append(fn.Body, p.stmt())
	}

	fn.Locals = p.locals
	for _, stmt := range fn.Body {
		typeCheckStmt(stmt)
	}
	assignOffsets(fn)
	return fn
}

func (p *Parser) param() *Variable {
	ty := intType()
	if equal(p.cur(), "int") {
		ty = p.basetype()
	}
	name := p.expectIdent()
	ty = p.typeSuffix(ty)
	return p.pushVar(name.Lit, ty)
}

// assignOffsets is the post-parse finalization pass: it walks the complete
// locals list and hands out frame offsets. Offsets start past the 32-byte
// region reserved for r12-r15 and each variable is naturally aligned, so
// `rbp - offset` is an aligned address. The frame is rounded up to 16.
func assignOffsets(fn *Function) {
	offset := int64(32)
	for _, v := range fn.Locals {
		offset += sizeOf(v.Type)
		offset = alignTo(offset, alignOf(v.Type))
		v.Offset = offset
	}
	fn.StackSize = alignTo(offset, 16)
}

func alignOf(ty *Type) int64 {
	switch ty.Kind {
	case TypeInt:
		return 4
	case TypePtr:
		return 8
	case TypeArray:
		return alignOf(ty.Base)
	}
	panic("alignOf: unknown type kind " + string(ty.Kind))
}

// statements

// stmt = "return" expr ";"
//
//	| "if" "(" expr ")" stmt ("else" stmt)?
//	| "while" "(" expr ")" stmt
//	| "for" "(" (declaration | expr ";" | ";") expr? ";" expr? ")" stmt
//	| "{" stmt* "}"
//	| declaration
//	| expr ";"
func (p *Parser) stmt() *Node {
	tok := p.cur()

	if p.consume("return") {
		node := newUnary(NodeReturn, p.expr(), tok.Pos)
		p.expect(";")
		return node
	}

	if p.consume("if") {
		node := newNode(NodeIf, tok.Pos)
		p.expect("(")
		node.Cond = p.expr()
		p.expect(")")
		node.Then = p.stmt()
		if p.consume("else") {
			node.Else = p.stmt()
		}
		return node
	}

	if p.consume("while") {
		node := newNode(NodeWhile, tok.Pos)
		p.expect("(")
		node.Cond = p.expr()
		p.expect(")")
		node.Then = p.stmt()
		return node
	}

	if p.consume("for") {
		node := newNode(NodeFor, tok.Pos)
		p.expect("(")
		if !p.consume(";") {
			if equal(p.cur(), "int") {
				node.Init = p.declaration() // consumes its own ";"
			} else {
				node.Init = p.exprStmt()
				p.expect(";")
			}
		}
		if !p.consume(";") {
			node.Cond = p.expr()
			p.expect(";")
		}
		if !equal(p.cur(), ")") {
			node.Inc = p.exprStmt()
		}
		p.expect(")")
		node.Then = p.stmt()
		return node
	}

	if p.consume("{") {
		node := newNode(NodeBlock, tok.Pos)
		for !p.consume("}") {
			node.Body = append(node.Body, p.stmt())
		}
		return node
	}

	if equal(tok, "int") {
		return p.declaration()
	}

	node := p.exprStmt()
	p.expect(";")
	return node
}

func (p *Parser) exprStmt() *Node {
	tok := p.cur()
	return newUnary(NodeExprStmt, p.expr(), tok.Pos)
}

// expressions

// expr = assign
func (p *Parser) expr() *Node {
	return p.assign()
}

// assign = equality ("=" assign)?
func (p *Parser) assign() *Node {
	node := p.equality()
	if tok := p.cur(); p.consume("=") {
		if node.Kind != NodeVarRef && node.Kind != NodeDeref {
			panic(parseErrorf(node.Pos, "not an assignable expression"))
		}
		node = newBinary(NodeAssign, node, p.assign(), tok.Pos)
	}
	return node
}

// equality = relational ("==" relational | "!=" relational)*
func (p *Parser) equality() *Node {
	node := p.relational()
	for {
		tok := p.cur()
		if p.consume("==") {
			node = newBinary(NodeEq, node, p.relational(), tok.Pos)
		} else if p.consume("!=") {
			node = newBinary(NodeNe, node, p.relational(), tok.Pos)
		} else {
			return node
		}
	}
}

// relational = add ("<" relational | "<=" relational | ">" relational | ">=" relational)*
//
// The right operand recurses back into relational itself, so chains are
// right-associative: a < b < c parses as a < (b < c).
// ">" and ">=" swap operands and reuse < / <=.
func (p *Parser) relational() *Node {
	node := p.add()
	for {
		tok := p.cur()
		if p.consume("<") {
			node = newBinary(NodeLt, node, p.relational(), tok.Pos)
		} else if p.consume("<=") {
			node = newBinary(NodeLe, node, p.relational(), tok.Pos)
		} else if p.consume(">") {
			node = newBinary(NodeLt, p.relational(), node, tok.Pos)
		} else if p.consume(">=") {
			node = newBinary(NodeLe, p.relational(), node, tok.Pos)
		} else {
			return node
		}
	}
}

// add = mul ("+" mul | "-" mul)*
func (p *Parser) add() *Node {
	node := p.mul()
	for {
		tok := p.cur()
		if p.consume("+") {
			node = newAdd(node, p.mul(), tok.Pos)
		} else if p.consume("-") {
			node = newSub(node, p.mul(), tok.Pos)
		} else {
			return node
		}
	}
}

// newAdd applies the pointer-arithmetic desugaring: the integer side of
// pointer + integer is multiplied by the pointee size, so the address moves
// by whole elements. Adding two pointers is rejected.
func newAdd(lhs, rhs *Node, pos int) *Node {
	addType(lhs)
	addType(rhs)

	if !hasBase(lhs.Type) && !hasBase(rhs.Type) {
		return newBinary(NodeAdd, lhs, rhs, pos)
	}
	if hasBase(lhs.Type) && hasBase(rhs.Type) {
		panic(typeErrorf(pos, "invalid operands: cannot add two pointers"))
	}
	if hasBase(rhs.Type) {
		lhs, rhs = rhs, lhs // canonicalize: pointer on the left
	}
	scale := newNum(sizeOf(lhs.Type.Base), pos)
	return newBinary(NodeAdd, lhs, newBinary(NodeMul, rhs, scale, pos), pos)
}

// newSub handles the three valid shapes: int - int, pointer - int (scaled),
// and pointer - pointer (byte difference divided back into elements).
func newSub(lhs, rhs *Node, pos int) *Node {
	addType(lhs)
	addType(rhs)

	if !hasBase(lhs.Type) && !hasBase(rhs.Type) {
		return newBinary(NodeSub, lhs, rhs, pos)
	}
	if hasBase(lhs.Type) && hasBase(rhs.Type) {
		diff := newBinary(NodeSub, lhs, rhs, pos)
		diff.Type = intType()
		node := newBinary(NodeDiv, diff, newNum(sizeOf(lhs.Type.Base), pos), pos)
		node.Type = intType()
		return node
	}
	if hasBase(rhs.Type) {
		panic(typeErrorf(pos, "invalid operands: cannot subtract a pointer from an integer"))
	}
	scale := newNum(sizeOf(lhs.Type.Base), pos)
	return newBinary(NodeSub, lhs, newBinary(NodeMul, rhs, scale, pos), pos)
}

// mul = unary ("*" unary | "/" unary)*
func (p *Parser) mul() *Node {
	node := p.unary()
	for {
		tok := p.cur()
		if p.consume("*") {
			node = newBinary(NodeMul, node, p.unary(), tok.Pos)
		} else if p.consume("/") {
			node = newBinary(NodeDiv, node, p.unary(), tok.Pos)
		} else {
			return node
		}
	}
}

// unary = ("+" | "-" | "*" | "&") unary
//
//	| "sizeof" unary
//	| postfix
func (p *Parser) unary() *Node {
	tok := p.cur()

	if p.consume("+") {
		return p.unary()
	}
	if p.consume("-") {
		// Negation is 0 - x.
		return newSub(newNum(0, tok.Pos), p.unary(), tok.Pos)
	}
	if p.consume("&") {
		return newUnary(NodeAddr, p.unary(), tok.Pos)
	}
	if p.consume("*") {
		return newUnary(NodeDeref, p.unary(), tok.Pos)
	}
	if p.consume("sizeof") {
		// sizeof folds to a literal at parse time; its operand is typed but
		// never evaluated.
		operand := p.unary()
		addType(operand)
		return newNum(sizeOf(operand.Type), tok.Pos)
	}
	return p.postfix()
}

// postfix = primary ("[" expr "]")*
func (p *Parser) postfix() *Node {
	node := p.primary()
	for {
		tok := p.cur()
		if !p.consume("[") {
			return node
		}
		// x[y] is sugar for *(x+y)
		idx := p.expr()
		p.expect("]")
		node = newUnary(NodeDeref, newAdd(node, idx, tok.Pos), tok.Pos)
	}
}

// primary = "(" expr ")" | ident args? | num
// args    = "(" (assign ("," assign)*)? ")"
func (p *Parser) primary() *Node {
	tok := p.cur()

	if p.consume("(") {
		node := p.expr()
		p.expect(")")
		return node
	}

	if tok.Kind == IDENT {
		if p.peek().Kind == PUNCT && p.peek().Lit == "(" {
			return p.call()
		}
		p.advance()
		v := p.findVar(tok.Lit)
		if v == nil {
			// First use of an undeclared name declares it as an int local.
			v = p.pushVar(tok.Lit, intType())
		}
		return newVarRef(v, tok.Pos)
	}

	if tok.Kind == NUM {
		p.advance()
		return newNum(tok.Val, tok.Pos)
	}

	panic(parseErrorf(tok.Pos, "expected an expression but got '%s'", tok.Lit))
}

func (p *Parser) call() *Node {
	name := p.expectIdent()
	node := &Node{Kind: NodeCall, FuncName: name.Lit, Pos: name.Pos}
	p.expect("(")
	for !p.consume(")") {
		if len(node.Args) > 0 {
			p.expect(",")
		}
		if len(node.Args) == maxCallArgs {
			panic(parseErrorf(p.cur().Pos, "too many call arguments (max %d)", maxCallArgs))
		}
		node.Args = append(node.Args, p.assign())
	}
	return node
}
