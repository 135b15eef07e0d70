// Package par holds the element-type capability constraints and the
// process-wide defaults shared by the parallel multiply packages.
//
// Every element type used with go-parmul must be copyable, have the zero
// value as its additive identity, and support +, += and *. Go's numeric kinds
// satisfy all of this, so the constraints below simply enumerate them.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-parmul/par/contrib/matmul"
//
//	a, _ := matrix.New(2, 3, []int{1, 2, 3, 4, 5, 6})
//	b, _ := matrix.New(3, 2, []int{1, 2, 3, 4, 5, 6})
//	c, err := matmul.Multiply(a, b)
package par

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Complex is a constraint for complex types.
type Complex interface {
	~complex64 | ~complex128
}

// Number is the constraint for matrix elements: anything with an additive
// identity (its zero value), addition and multiplication.
type Number interface {
	Integers | Floats | Complex
}
