// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package op builds the encoded operation argument of FUTEX_WAKE_OP.
//
// An Op modifies the second futex, and a Cmp is evaluated against its old value.
// They must be combined into an OpAndCmp:
//	op.Add(1).With(op.Eq(0))
// The argument of any Op or Cmp must be below 4096. Larger arguments cause a panic.
// The kernel sign-extends 12-bit arguments, so arguments from 2048 up act as negative numbers.
package op

import "fmt"

const (
	// MaxArg is the largest argument an Op or a Cmp can carry.
	MaxArg = 1<<12 - 1

	opShift    = 28
	opArgShift = 12
	cmpShift   = 24
	argMask    = 0xfff
	codeMask   = 0xf
)

// modify operations, see FUTEX_OP_* in linux/futex.h.
// codes 8-12 are the same operations with FUTEX_OP_OPARG_SHIFT set.
const (
	CodeAssign    = 0
	CodeAdd       = 1
	CodeOr        = 2
	CodeAndNot    = 3
	CodeXor       = 4
	CodeAssignBit = 8
	CodeAddBit    = 9
	CodeSetBit    = 10
	CodeClearBit  = 11
	CodeToggleBit = 12
)

// comparisons, see FUTEX_OP_CMP_* in linux/futex.h.
const (
	CodeEq = 0
	CodeNe = 1
	CodeLt = 2
	CodeLe = 3
	CodeGt = 4
	CodeGe = 5
)

var opNames = map[uint32]string{
	CodeAssign:    "Assign",
	CodeAdd:       "Add",
	CodeOr:        "Or",
	CodeAndNot:    "AndNot",
	CodeXor:       "Xor",
	CodeAssignBit: "AssignBit",
	CodeAddBit:    "AddBit",
	CodeSetBit:    "SetBit",
	CodeClearBit:  "ClearBit",
	CodeToggleBit: "ToggleBit",
}

var cmpNames = map[uint32]string{
	CodeEq: "Eq",
	CodeNe: "Ne",
	CodeLt: "Lt",
	CodeLe: "Le",
	CodeGt: "Gt",
	CodeGe: "Ge",
}

// Op is the operation FUTEX_WAKE_OP applies to the second futex.
type Op struct {
	bits uint32
}

// Assign sets the value: value = arg.
func Assign(arg uint32) Op { return newOp(CodeAssign, arg) }

// Add adds to the value: value += arg.
func Add(arg uint32) Op { return newOp(CodeAdd, arg) }

// Or sets bits: value |= arg.
func Or(arg uint32) Op { return newOp(CodeOr, arg) }

// AndNot clears bits: value &^= arg.
func AndNot(arg uint32) Op { return newOp(CodeAndNot, arg) }

// Xor toggles bits: value ^= arg.
func Xor(arg uint32) Op { return newOp(CodeXor, arg) }

// AssignBit sets the value to a single bit: value = 1 << bit.
func AssignBit(bit uint32) Op { return newOp(CodeAssignBit, bit) }

// AddBit adds a power of two: value += 1 << bit.
func AddBit(bit uint32) Op { return newOp(CodeAddBit, bit) }

// SetBit sets one bit: value |= 1 << bit.
func SetBit(bit uint32) Op { return newOp(CodeSetBit, bit) }

// ClearBit clears one bit: value &^= 1 << bit.
func ClearBit(bit uint32) Op { return newOp(CodeClearBit, bit) }

// ToggleBit toggles one bit: value ^= 1 << bit.
func ToggleBit(bit uint32) Op { return newOp(CodeToggleBit, bit) }

func newOp(code, arg uint32) Op {
	checkArg(arg)
	return Op{bits: code<<opShift | arg<<opArgShift}
}

// Code returns operation's code.
func (o Op) Code() uint32 {
	return o.bits >> opShift
}

// Arg returns operation's argument. For bit operations it is the bit index.
func (o Op) Arg() uint32 {
	return o.bits >> opArgShift & argMask
}

// With combines the operation with a comparison.
func (o Op) With(c Cmp) OpAndCmp {
	return OpAndCmp{bits: o.bits | c.bits}
}

func (o Op) String() string {
	name, ok := opNames[o.Code()]
	if !ok {
		name = "Invalid"
	}
	return fmt.Sprintf("op.%s(%d)", name, o.Arg())
}

// Cmp is the comparison FUTEX_WAKE_OP applies to the old value of the second futex.
type Cmp struct {
	bits uint32
}

// Eq is true if the old value equals arg.
func Eq(arg uint32) Cmp { return newCmp(CodeEq, arg) }

// Ne is true if the old value does not equal arg.
func Ne(arg uint32) Cmp { return newCmp(CodeNe, arg) }

// Lt is true if the old value is less than arg.
func Lt(arg uint32) Cmp { return newCmp(CodeLt, arg) }

// Le is true if the old value is less than or equal to arg.
func Le(arg uint32) Cmp { return newCmp(CodeLe, arg) }

// Gt is true if the old value is greater than arg.
func Gt(arg uint32) Cmp { return newCmp(CodeGt, arg) }

// Ge is true if the old value is greater than or equal to arg.
func Ge(arg uint32) Cmp { return newCmp(CodeGe, arg) }

func newCmp(code, arg uint32) Cmp {
	checkArg(arg)
	return Cmp{bits: code<<cmpShift | arg}
}

// Code returns comparison's code.
func (c Cmp) Code() uint32 {
	return c.bits >> cmpShift & codeMask
}

// Arg returns comparison's argument.
func (c Cmp) Arg() uint32 {
	return c.bits & argMask
}

// With combines the comparison with an operation.
func (c Cmp) With(o Op) OpAndCmp {
	return o.With(c)
}

func (c Cmp) String() string {
	name, ok := cmpNames[c.Code()]
	if !ok {
		name = "Invalid"
	}
	return fmt.Sprintf("op.%s(%d)", name, c.Arg())
}

// OpAndCmp is an encoded FUTEX_WAKE_OP argument.
type OpAndCmp struct {
	bits uint32
}

// Combine is the same as o.With(c).
func Combine(o Op, c Cmp) OpAndCmp {
	return o.With(c)
}

// FromRawBits wraps an already encoded value.
func FromRawBits(bits uint32) OpAndCmp {
	return OpAndCmp{bits: bits}
}

// RawBits returns the value passed to the kernel.
func (oc OpAndCmp) RawBits() uint32 {
	return oc.bits
}

// Op returns the operation part.
func (oc OpAndCmp) Op() Op {
	return Op{bits: oc.bits &^ (codeMask<<cmpShift | argMask)}
}

// Cmp returns the comparison part.
func (oc OpAndCmp) Cmp() Cmp {
	return Cmp{bits: oc.bits & (codeMask<<cmpShift | argMask)}
}

func (oc OpAndCmp) String() string {
	return oc.Op().String() + " + " + oc.Cmp().String()
}

func checkArg(arg uint32) {
	if arg > MaxArg {
		panic(fmt.Sprintf("futex op argument %d is too large", arg))
	}
}
