// Copyright 2016 Aleksandr Demakin. All rights reserved.

package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	ops = map[uint32]func(uint32) Op{
		CodeAssign:    Assign,
		CodeAdd:       Add,
		CodeOr:        Or,
		CodeAndNot:    AndNot,
		CodeXor:       Xor,
		CodeAssignBit: AssignBit,
		CodeAddBit:    AddBit,
		CodeSetBit:    SetBit,
		CodeClearBit:  ClearBit,
		CodeToggleBit: ToggleBit,
	}
	cmps = map[uint32]func(uint32) Cmp{
		CodeEq: Eq,
		CodeNe: Ne,
		CodeLt: Lt,
		CodeLe: Le,
		CodeGt: Gt,
		CodeGe: Ge,
	}
)

func TestOpAndCmpRoundTrip(t *testing.T) {
	a := assert.New(t)
	for opCode, newOp := range ops {
		for cmpCode, newCmp := range cmps {
			for arg := uint32(0); arg <= MaxArg; arg++ {
				oc := newOp(arg).With(newCmp(MaxArg - arg))
				decoded := FromRawBits(oc.RawBits())
				if !a.Equal(opCode, decoded.Op().Code()) ||
					!a.Equal(arg, decoded.Op().Arg()) ||
					!a.Equal(cmpCode, decoded.Cmp().Code()) ||
					!a.Equal(MaxArg-arg, decoded.Cmp().Arg()) {
					return
				}
			}
		}
	}
}

func TestOpAndCmpOrderIndependent(t *testing.T) {
	a := assert.New(t)
	o, c := Xor(0x5a5), Ge(4095)
	a.Equal(o.With(c), c.With(o))
	a.Equal(o.With(c), Combine(o, c))
	a.Equal(o, o.With(c).Op())
	a.Equal(c, o.With(c).Cmp())
}

func TestOpAndCmpEncoding(t *testing.T) {
	a := assert.New(t)
	// FUTEX_OP(FUTEX_OP_ADD, 1, FUTEX_OP_CMP_EQ, 0)
	a.Equal(uint32(0x10001000), Add(1).With(Eq(0)).RawBits())
	// FUTEX_OP(FUTEX_OP_SET|FUTEX_OP_OPARG_SHIFT, 31, FUTEX_OP_CMP_GT, 1)
	a.Equal(uint32(0x8401f001), AssignBit(31).With(Gt(1)).RawBits())
}

func TestArgTooLarge(t *testing.T) {
	a := assert.New(t)
	for _, newOp := range ops {
		a.NotPanics(func() { newOp(MaxArg) })
		a.Panics(func() { newOp(MaxArg + 1) })
		a.Panics(func() { newOp(1 << 31) })
	}
	for _, newCmp := range cmps {
		a.NotPanics(func() { newCmp(MaxArg) })
		a.Panics(func() { newCmp(MaxArg + 1) })
	}
}

func TestString(t *testing.T) {
	a := assert.New(t)
	a.Equal("op.Add(1) + op.Eq(0)", Add(1).With(Eq(0)).String())
	a.Equal("op.ToggleBit(3)", ToggleBit(3).String())
	a.Equal("op.Invalid(0) + op.Invalid(0)", FromRawBits(0xf<<28|0xf<<24).String())
}
