package main

import "strconv"

// ToSExpr converts an AST node to its s-expression string representation.
// Used by `check -v` and by the parser tests.
func ToSExpr(node *Node) string {
	if node == nil {
		return "()"
	}

	switch node.Kind {
	case NodeNum:
		return "(num " + strconv.FormatInt(node.Val, 10) + ")"
	case NodeVarRef:
		return "(var \"" + node.Var.Name + "\")"
	case NodeAssign:
		return "(assign " + ToSExpr(node.Lhs) + " " + ToSExpr(node.Rhs) + ")"
	case NodeAddr:
		return "(addr " + ToSExpr(node.Lhs) + ")"
	case NodeDeref:
		return "(deref " + ToSExpr(node.Lhs) + ")"
	case NodeAdd, NodeSub, NodeMul, NodeDiv, NodeEq, NodeNe, NodeLt, NodeLe:
		return "(binary \"" + binaryOpName(node.Kind) + "\" " + ToSExpr(node.Lhs) + " " + ToSExpr(node.Rhs) + ")"
	case NodeCall:
		result := "(call \"" + node.FuncName + "\""
		for _, arg := range node.Args {
			result += " " + ToSExpr(arg)
		}
		result += ")"
		return result
	case NodeReturn:
		return "(return " + ToSExpr(node.Lhs) + ")"
	case NodeIf:
		result := "(if " + ToSExpr(node.Cond) + " " + ToSExpr(node.Then)
		if node.Else != nil {
			result += " " + ToSExpr(node.Else)
		}
		result += ")"
		return result
	case NodeWhile:
		return "(while " + ToSExpr(node.Cond) + " " + ToSExpr(node.Then) + ")"
	case NodeFor:
		result := "(for"
		result += " " + ToSExpr(node.Init)
		result += " " + ToSExpr(node.Cond)
		result += " " + ToSExpr(node.Inc)
		result += " " + ToSExpr(node.Then)
		result += ")"
		return result
	case NodeBlock:
		result := "(block"
		for _, stmt := range node.Body {
			result += " " + ToSExpr(stmt)
		}
		result += ")"
		return result
	case NodeExprStmt:
		return "(expr-stmt " + ToSExpr(node.Lhs) + ")"
	default:
		return ""
	}
}

func binaryOpName(kind NodeKind) string {
	switch kind {
	case NodeAdd:
		return "+"
	case NodeSub:
		return "-"
	case NodeMul:
		return "*"
	case NodeDiv:
		return "/"
	case NodeEq:
		return "=="
	case NodeNe:
		return "!="
	case NodeLt:
		return "<"
	case NodeLe:
		return "<="
	default:
		return ""
	}
}

// ProgramToSExpr renders a whole translation unit, one function per line.
func ProgramToSExpr(prog *Program) string {
	result := ""
	for i, fn := range prog.Funcs {
		if i > 0 {
			result += "\n"
		}
		result += FuncToSExpr(fn)
	}
	return result
}

func FuncToSExpr(fn *Function) string {
	result := "(func \"" + fn.Name + "\" ("
	for i, p := range fn.Params {
		if i > 0 {
			result += " "
		}
		result += "\"" + p.Name + "\""
	}
	result += ")"
	for _, stmt := range fn.Body {
		result += " " + ToSExpr(stmt)
	}
	result += ")"
	return result
}
