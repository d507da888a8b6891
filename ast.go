package main

// NodeKind represents different types of AST nodes.
type NodeKind string

const (
	NodeNum      NodeKind = "NodeNum"      // integer literal
	NodeVarRef   NodeKind = "NodeVarRef"   // local variable reference
	NodeAssign   NodeKind = "NodeAssign"   // lhs = rhs
	NodeAddr     NodeKind = "NodeAddr"     // &x
	NodeDeref    NodeKind = "NodeDeref"    // *x
	NodeAdd      NodeKind = "NodeAdd"      // +
	NodeSub      NodeKind = "NodeSub"      // -
	NodeMul      NodeKind = "NodeMul"      // *
	NodeDiv      NodeKind = "NodeDiv"      // /
	NodeEq       NodeKind = "NodeEq"       // ==
	NodeNe       NodeKind = "NodeNe"       // !=
	NodeLt       NodeKind = "NodeLt"       // < (also > with operands swapped)
	NodeLe       NodeKind = "NodeLe"       // <= (also >= with operands swapped)
	NodeCall     NodeKind = "NodeCall"     // f(a, b)
	NodeReturn   NodeKind = "NodeReturn"   // return expr
	NodeIf       NodeKind = "NodeIf"       // if (cond) then else
	NodeWhile    NodeKind = "NodeWhile"    // while (cond) body
	NodeFor      NodeKind = "NodeFor"      // for (init; cond; inc) body
	NodeBlock    NodeKind = "NodeBlock"    // { ... }
	NodeExprStmt NodeKind = "NodeExprStmt" // expression in statement position
)

// Node is one AST node. Each node owns its children; the tree is read-only
// after parsing and walked exactly once by the code generator.
type Node struct {
	Kind NodeKind
	Type *Type // resolved lazily by addType
	Pos  int   // offset of the introducing token

	Lhs *Node
	Rhs *Node

	// NodeIf, NodeWhile, NodeFor:
	Cond *Node
	Then *Node
	Else *Node
	Init *Node
	Inc  *Node

	// NodeBlock:
	Body []*Node

	// NodeCall:
	FuncName string
	Args     []*Node

	Var *Variable // NodeVarRef
	Val int64     // NodeNum
}

// Variable is a named local. Offset is the positive distance below the frame
// base, assigned only after the whole function has been parsed.
type Variable struct {
	Name   string
	Type   *Type
	Offset int64
}

// Function is one parsed function definition. Params share Variable entries
// with Locals; Locals is in declaration order.
type Function struct {
	Name      string
	Params    []*Variable
	Locals    []*Variable
	Body      []*Node
	StackSize int64
}

// Program is a whole translation unit in source order.
type Program struct {
	Funcs []*Function
}

func newNode(kind NodeKind, pos int) *Node {
	return &Node{Kind: kind, Pos: pos}
}

func newBinary(kind NodeKind, lhs, rhs *Node, pos int) *Node {
	return &Node{Kind: kind, Lhs: lhs, Rhs: rhs, Pos: pos}
}

func newUnary(kind NodeKind, operand *Node, pos int) *Node {
	return &Node{Kind: kind, Lhs: operand, Pos: pos}
}

func newNum(val int64, pos int) *Node {
	return &Node{Kind: NodeNum, Val: val, Pos: pos}
}

func newVarRef(v *Variable, pos int) *Node {
	return &Node{Kind: NodeVarRef, Var: v, Pos: pos}
}
