package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
)

// newEmulator seeds disjoint instruction and data memories with the
// same image, matching how the loader hands both to the simulator.
func newEmulator(image []uint32) *emu.Emulator {
	instrMem := emu.NewMemory(len(image))
	instrMem.LoadWords(image)
	dataMem := emu.NewMemory(len(image))
	dataMem.LoadWords(image)
	return emu.NewEmulator(instrMem, dataMem)
}

var _ = Describe("Emulator", func() {
	It("executes ADDI then MATH ADD then HALT", func() {
		e := newEmulator([]uint32{
			insts.EncodeI(insts.ADDI, 1, 0, 5),       // r1 = r0 + 5
			insts.EncodeI(insts.ADDI, 2, 0, 7),       // r2 = r0 + 7
			insts.EncodeMath(insts.FuncADD, 3, 1, 2), // r3 = r1 + r2
			insts.EncodeHALT(),
		})

		cycles, err := e.Run(100)

		Expect(err).NotTo(HaveOccurred())
		Expect(cycles).To(Equal(uint64(3)))
		Expect(e.Regs.ReadReg(3)).To(Equal(uint32(12)))
	})

	It("takes a forward BEQZ branch when the source register is zero", func() {
		e := newEmulator([]uint32{
			insts.EncodeI(insts.BEQZ, 0, 0, 4), // r0 is always zero: branch taken to pc+4+4=8
			insts.EncodeHALT(),
			insts.EncodeHALT(),
		})

		_, err := e.Run(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.PC).To(Equal(uint32(8)))
	})

	It("stores and loads through the same word-aligned address", func() {
		e := newEmulator([]uint32{
			insts.EncodeI(insts.ADDI, 1, 0, 99),
			insts.EncodeI(insts.SW, 1, 0, 16), // byte address 16 = word index 4
			insts.EncodeI(insts.LW, 2, 0, 16),
			insts.EncodeHALT(),
			0, // word index 4: scratch data word the SW/LW pair above targets
		})

		_, err := e.Run(100)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Regs.ReadReg(2)).To(Equal(uint32(99)))
	})

	It("retires a raw data word as a NOP instead of aborting", func() {
		e := newEmulator([]uint32{
			insts.EncodeFill(0xDEADBEEF), // undecodable opcode, no architectural effect
			insts.EncodeHALT(),
		})

		cycles, err := e.Run(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(cycles).To(Equal(uint64(1)))
		Expect(e.PC).To(Equal(uint32(4)))
	})

	It("reports JALR as unimplemented", func() {
		e := newEmulator([]uint32{insts.EncodeJALR(4)})

		_, err := e.Run(10)
		Expect(err).To(HaveOccurred())
	})

	It("never lets a write to r0 survive past the cycle that restores it", func() {
		e := newEmulator([]uint32{
			insts.EncodeMath(insts.FuncADD, 0, 0, 0),
			insts.EncodeHALT(),
		})

		_, err := e.Run(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Regs.ReadReg(0)).To(Equal(uint32(0)))
	})
})
