package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/emu"
)

var _ = Describe("RegFile", func() {
	It("hardwires r0 to zero", func() {
		var r emu.RegFile
		r.WriteReg(0, 0xDEADBEEF)
		Expect(r.ReadReg(0)).To(Equal(uint32(0)))
	})

	It("stores and retrieves any other register", func() {
		var r emu.RegFile
		r.WriteReg(17, 42)
		Expect(r.ReadReg(17)).To(Equal(uint32(42)))
	})
})
