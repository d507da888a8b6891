package main

// TypeKind discriminates the three value shapes the language knows.
type TypeKind string

const (
	TypeInt   TypeKind = "int"
	TypePtr   TypeKind = "ptr"
	TypeArray TypeKind = "array"
)

// Type describes a 4-byte signed integer, a pointer, or a fixed-length array.
// Types are immutable once built and may be shared between nodes.
type Type struct {
	Kind TypeKind
	Base *Type // pointee or element type, TypePtr and TypeArray only
	Len  int64 // element count, TypeArray only
}

func intType() *Type {
	return &Type{Kind: TypeInt}
}

func pointerTo(base *Type) *Type {
	return &Type{Kind: TypePtr, Base: base}
}

func arrayOf(base *Type, n int64) *Type {
	return &Type{Kind: TypeArray, Base: base, Len: n}
}

func sizeOf(ty *Type) int64 {
	switch ty.Kind {
	case TypeInt:
		return 4
	case TypePtr:
		return 8
	case TypeArray:
		return sizeOf(ty.Base) * ty.Len
	}
	panic("sizeOf: unknown type kind " + string(ty.Kind))
}

// hasBase reports whether ty is pointer-like for arithmetic scaling purposes.
// Arrays count: they decay to a pointer to their first element.
func hasBase(ty *Type) bool {
	return ty.Kind == TypePtr || ty.Kind == TypeArray
}

func alignTo(n, align int64) int64 {
	return (n + align - 1) / align * align
}
