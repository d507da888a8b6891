package main

// addType resolves the type of an expression node by structural rule. It is
// called on demand wherever the parser or the code generator needs a type, so
// it must be idempotent: a node whose Type is already set is left alone.
//
// Panics with *CompileError on an invalid operand combination; the parser's
// recover point turns that into the returned error.
func addType(node *Node) {
	if node == nil || node.Type != nil {
		return
	}

	addType(node.Lhs)
	addType(node.Rhs)

	switch node.Kind {
	case NodeNum:
		node.Type = intType()

	case NodeVarRef:
		node.Type = node.Var.Type

	case NodeAssign:
		node.Type = node.Lhs.Type

	case NodeAddr:
		// Taking the address of an array yields a pointer to its first
		// element, not a pointer to the whole array.
		if node.Lhs.Type.Kind == TypeArray {
			node.Type = pointerTo(node.Lhs.Type.Base)
		} else {
			node.Type = pointerTo(node.Lhs.Type)
		}

	case NodeDeref:
		if !hasBase(node.Lhs.Type) {
			panic(typeErrorf(node.Pos, "invalid pointer dereference"))
		}
		node.Type = node.Lhs.Type.Base

	case NodeAdd, NodeSub:
		// Pointer scaling happened during parsing; whatever reaches here
		// keeps the left operand's type so pointer arithmetic stays
		// pointer-valued.
		node.Type = node.Lhs.Type

	case NodeMul, NodeDiv, NodeEq, NodeNe, NodeLt, NodeLe:
		node.Type = intType()

	case NodeCall:
		for _, arg := range node.Args {
			addType(arg)
		}
		node.Type = intType()
	}
}

// typeCheckStmt types every expression reachable from a statement, so invalid
// operand combinations surface while errors can still be reported. The code
// generator relies on this: by the time it runs, every expression is typed or
// the program was rejected.
func typeCheckStmt(node *Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case NodeReturn, NodeExprStmt:
		addType(node.Lhs)
	case NodeIf:
		addType(node.Cond)
		typeCheckStmt(node.Then)
		typeCheckStmt(node.Else)
	case NodeWhile:
		addType(node.Cond)
		typeCheckStmt(node.Then)
	case NodeFor:
		typeCheckStmt(node.Init)
		addType(node.Cond)
		typeCheckStmt(node.Inc)
		typeCheckStmt(node.Then)
	case NodeBlock:
		for _, stmt := range node.Body {
			typeCheckStmt(stmt)
		}
	}
}
