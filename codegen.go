package main

import (
	"bytes"
	"fmt"
)

// System V integer argument registers, in calling-convention order.
var (
	argreg64 = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	argreg32 = []string{"edi", "esi", "edx", "ecx", "r8d", "r9d"}
)

// Codegen walks the AST and emits Intel-syntax x86-64 text. Expressions are
// evaluated on an explicit operand stack: every expression pushes exactly one
// value, and every consumer pops. Labels come from a counter that is never
// reset, so they are unique across the whole compilation.
//
// The AST is assumed well formed here; the parser already rejected bad input.
// Anything unexpected is an internal bug and panics.
type Codegen struct {
	buf        bytes.Buffer
	labelCount int
	fn         *Function // function being generated, for the return label
}

// Generate emits the assembly text for a whole translation unit.
func Generate(prog *Program) string {
	g := &Codegen{}
	g.emit(".intel_syntax noprefix")
	for _, fn := range prog.Funcs {
		g.genFunction(fn)
	}
	return g.buf.String()
}

func (g *Codegen) emit(format string, args ...interface{}) {
	fmt.Fprintf(&g.buf, format+"\n", args...)
}

func (g *Codegen) newLabel() int {
	g.labelCount++
	return g.labelCount
}

func (g *Codegen) genFunction(fn *Function) {
	g.fn = fn

	g.emit(".globl %s", fn.Name)
	g.emit("%s:", fn.Name)

	// Prologue: frame setup, then r12-r15 into the reserved spill region.
	g.emit("  push rbp")
	g.emit("  mov rbp, rsp")
	g.emit("  sub rsp, %d", fn.StackSize)
	g.emit("  mov [rbp-8], r12")
	g.emit("  mov [rbp-16], r13")
	g.emit("  mov [rbp-24], r14")
	g.emit("  mov [rbp-32], r15")

	// Incoming arguments land in their parameter slots.
	for i, param := range fn.Params {
		if sizeOf(param.Type) == 4 {
			g.emit("  mov [rbp-%d], %s", param.Offset, argreg32[i])
		} else {
			g.emit("  mov [rbp-%d], %s", param.Offset, argreg64[i])
		}
	}

	for _, stmt := range fn.Body {
		g.genStmt(stmt)
	}

	// Epilogue; "return" jumps here.
	g.emit(".L.return.%s:", fn.Name)
	g.emit("  mov r12, [rbp-8]")
	g.emit("  mov r13, [rbp-16]")
	g.emit("  mov r14, [rbp-24]")
	g.emit("  mov r15, [rbp-32]")
	g.emit("  mov rsp, rbp")
	g.emit("  pop rbp")
	g.emit("  ret")
}

func (g *Codegen) genStmt(node *Node) {
	switch node.Kind {
	case NodeReturn:
		g.genExpr(node.Lhs)
		g.emit("  pop rax")
		g.emit("  jmp .L.return.%s", g.fn.Name)

	case NodeExprStmt:
		// The value is produced and immediately discarded.
		g.genExpr(node.Lhs)
		g.emit("  add rsp, 8")

	case NodeBlock:
		for _, stmt := range node.Body {
			g.genStmt(stmt)
		}

	case NodeIf:
		c := g.newLabel()
		g.genExpr(node.Cond)
		g.emit("  pop rax")
		g.emit("  cmp rax, 0")
		if node.Else != nil {
			g.emit("  je .L.else.%d", c)
			g.genStmt(node.Then)
			g.emit("  jmp .L.end.%d", c)
			g.emit(".L.else.%d:", c)
			g.genStmt(node.Else)
		} else {
			g.emit("  je .L.end.%d", c)
			g.genStmt(node.Then)
		}
		g.emit(".L.end.%d:", c)

	case NodeWhile:
		c := g.newLabel()
		g.emit(".L.begin.%d:", c)
		g.genExpr(node.Cond)
		g.emit("  pop rax")
		g.emit("  cmp rax, 0")
		g.emit("  je .L.end.%d", c)
		g.genStmt(node.Then)
		g.emit("  jmp .L.begin.%d", c)
		g.emit(".L.end.%d:", c)

	case NodeFor:
		c := g.newLabel()
		if node.Init != nil {
			g.genStmt(node.Init)
		}
		g.emit(".L.begin.%d:", c)
		if node.Cond != nil {
			g.genExpr(node.Cond)
			g.emit("  pop rax")
			g.emit("  cmp rax, 0")
			g.emit("  je .L.end.%d", c)
		}
		g.genStmt(node.Then)
		if node.Inc != nil {
			g.genStmt(node.Inc)
		}
		g.emit("  jmp .L.begin.%d", c)
		g.emit(".L.end.%d:", c)

	default:
		panic("codegen: unexpected statement kind " + string(node.Kind))
	}
}

func (g *Codegen) genExpr(node *Node) {
	addType(node)

	switch node.Kind {
	case NodeNum:
		g.emit("  push %d", node.Val)
		return

	case NodeVarRef:
		g.genAddr(node)
		if node.Type.Kind != TypeArray {
			g.load(node.Type)
		}
		return

	case NodeAssign:
		g.genLval(node.Lhs)
		g.genExpr(node.Rhs)
		g.emit("  pop rdi")
		g.emit("  pop rax")
		if sizeOf(node.Type) == 4 {
			g.emit("  mov [rax], edi")
		} else {
			g.emit("  mov [rax], rdi")
		}
		g.emit("  push rdi")
		return

	case NodeAddr:
		g.genAddr(node.Lhs)
		return

	case NodeDeref:
		g.genExpr(node.Lhs)
		if node.Type.Kind != TypeArray {
			g.load(node.Type)
		}
		return

	case NodeCall:
		g.genCall(node)
		return
	}

	// Binary operators: both operands on the stack, right in rdi, left in rax.
	g.genExpr(node.Lhs)
	g.genExpr(node.Rhs)
	g.emit("  pop rdi")
	g.emit("  pop rax")

	switch node.Kind {
	case NodeAdd:
		g.emit("  add rax, rdi")
	case NodeSub:
		g.emit("  sub rax, rdi")
	case NodeMul:
		g.emit("  imul rax, rdi")
	case NodeDiv:
		g.emit("  cqo")
		g.emit("  idiv rdi")
	case NodeEq:
		g.emit("  cmp rax, rdi")
		g.emit("  sete al")
		g.emit("  movzb rax, al")
	case NodeNe:
		g.emit("  cmp rax, rdi")
		g.emit("  setne al")
		g.emit("  movzb rax, al")
	case NodeLt:
		g.emit("  cmp rax, rdi")
		g.emit("  setl al")
		g.emit("  movzb rax, al")
	case NodeLe:
		g.emit("  cmp rax, rdi")
		g.emit("  setle al")
		g.emit("  movzb rax, al")
	default:
		panic("codegen: unexpected expression kind " + string(node.Kind))
	}

	g.emit("  push rax")
}

// genAddr pushes the address of a variable: frame base minus its offset.
func (g *Codegen) genAddr(node *Node) {
	if node.Kind != NodeVarRef {
		panic("codegen: address of non-variable node " + string(node.Kind))
	}
	g.emit("  mov rax, rbp")
	g.emit("  sub rax, %d", node.Var.Offset)
	g.emit("  push rax")
}

// genLval pushes the address an assignment stores through.
func (g *Codegen) genLval(node *Node) {
	switch node.Kind {
	case NodeVarRef:
		g.genAddr(node)
	case NodeDeref:
		g.genExpr(node.Lhs)
	default:
		panic("codegen: not an lvalue " + string(node.Kind))
	}
}

// load replaces the address on top of the stack with the value it points at.
// 4-byte values are sign-extended to fill the 64-bit stack slot.
func (g *Codegen) load(ty *Type) {
	g.emit("  pop rax")
	if sizeOf(ty) == 4 {
		g.emit("  movsxd rax, dword ptr [rax]")
	} else {
		g.emit("  mov rax, [rax]")
	}
	g.emit("  push rax")
}

// genCall evaluates arguments left to right onto the operand stack, pops them
// into the argument registers in reverse, then aligns rsp to 16 before the
// call. The operand stack makes the depth at this point unpredictable, so the
// alignment is checked at run time.
func (g *Codegen) genCall(node *Node) {
	for _, arg := range node.Args {
		g.genExpr(arg)
	}
	for i := len(node.Args) - 1; i >= 0; i-- {
		g.emit("  pop %s", argreg64[i])
	}

	c := g.newLabel()
	g.emit("  mov rax, rsp")
	g.emit("  and rax, 15")
	g.emit("  jnz .L.call.%d", c)
	g.emit("  mov rax, 0")
	g.emit("  call %s", node.FuncName)
	g.emit("  jmp .L.end.%d", c)
	g.emit(".L.call.%d:", c)
	g.emit("  sub rsp, 8")
	g.emit("  mov rax, 0")
	g.emit("  call %s", node.FuncName)
	g.emit("  add rsp, 8")
	g.emit(".L.end.%d:", c)
	g.emit("  push rax")
}
