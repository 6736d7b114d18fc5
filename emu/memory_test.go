package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/asmerr"
	"github.com/sarchlab/pipesim/emu"
)

var _ = Describe("Memory", func() {
	It("reads back what it wrote", func() {
		m := emu.NewMemory(16)
		Expect(m.WriteWord(3, 0xCAFEBABE)).To(Succeed())
		v, err := m.ReadWord(3)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0xCAFEBABE)))
	})

	It("rejects reads past the end of the array", func() {
		m := emu.NewMemory(4)
		_, err := m.ReadWord(4)
		Expect(err).To(HaveOccurred())
		var boundsErr *asmerr.BoundsError
		Expect(err).To(BeAssignableToTypeOf(boundsErr))
	})

	It("rejects writes past the end of the array", func() {
		m := emu.NewMemory(4)
		err := m.WriteWord(10, 1)
		Expect(err).To(HaveOccurred())
	})

	It("loads a program image sized to the image length", func() {
		m := emu.NewMemory(0)
		m.LoadWords([]uint32{1, 2, 3})
		Expect(m.Len()).To(Equal(3))
		v, err := m.ReadWord(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(3)))
	})
})
