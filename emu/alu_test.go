package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
)

var _ = Describe("ALU", func() {
	alu := emu.NewALU()

	DescribeTable("Compute",
		func(fn insts.MathFunc, a, b, want uint32) {
			Expect(alu.Compute(fn, a, b)).To(Equal(want))
		},
		Entry("ADD wraps on overflow", insts.FuncADD, uint32(0xFFFFFFFF), uint32(1), uint32(0)),
		Entry("SUB wraps on underflow", insts.FuncSUB, uint32(0), uint32(1), uint32(0xFFFFFFFF)),
		Entry("AND", insts.FuncAND, uint32(0xFF), uint32(0x0F), uint32(0x0F)),
		Entry("OR", insts.FuncOR, uint32(0xF0), uint32(0x0F), uint32(0xFF)),
		Entry("SLL shifts a left by b", insts.FuncSLL, uint32(1), uint32(4), uint32(16)),
		Entry("SRL shifts a right by b", insts.FuncSRL, uint32(16), uint32(4), uint32(1)),
	)

	It("computes effective address as rs plus sign-extended immediate", func() {
		Expect(alu.ComputeAddress(100, 0xFFFC)).To(Equal(uint32(96))) // +(-4)
	})
})
