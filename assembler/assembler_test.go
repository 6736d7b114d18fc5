package assembler_test

import (
	"bytes"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pipesim/assembler"
	"github.com/sarchlab/pipesim/insts"
)

func assemble(source string) (string, error) {
	var out bytes.Buffer
	err := assembler.Assemble(strings.NewReader(source), &out)
	return out.String(), err
}

func hexLine(word uint32) string {
	return fmt.Sprintf("%08x\n", word)
}

var _ = Describe("Assemble", func() {
	It("emits straight-line ADDI, MATH, and HALT", func() {
		source := "\tADDI\t1\t0\t5\n" +
			"\tADDI\t2\t0\t7\n" +
			"\tADD\t3\t1\t2\n" +
			"\tHALT\n"

		out, err := assemble(source)
		Expect(err).NotTo(HaveOccurred())

		want := hexLine(insts.EncodeI(insts.ADDI, 1, 0, 5)) +
			hexLine(insts.EncodeI(insts.ADDI, 2, 0, 7)) +
			hexLine(insts.EncodeMath(insts.FuncADD, 3, 1, 2)) +
			hexLine(insts.EncodeHALT())
		Expect(out).To(Equal(want))
	})

	It("resolves a forward branch label to a positive PC-relative displacement", func() {
		source := "\tBEQZ\t0\t0\tskip\n" +
			"\tADDI\t1\t0\t99\n" +
			"skip\tADDI\t2\t0\t7\n" +
			"\tHALT\n"

		out, err := assemble(source)
		Expect(err).NotTo(HaveOccurred())

		want := hexLine(insts.EncodeI(insts.BEQZ, 0, 0, 4)) +
			hexLine(insts.EncodeI(insts.ADDI, 1, 0, 99)) +
			hexLine(insts.EncodeI(insts.ADDI, 2, 0, 7)) +
			hexLine(insts.EncodeHALT())
		Expect(out).To(Equal(want))
	})

	It("resolves a backward branch label to a negative PC-relative displacement", func() {
		source := "loop\tADDI\t1\t1\t-1\n" +
			"\tBEQZ\t0\t1\tloop\n" +
			"\tHALT\n"

		out, err := assemble(source)
		Expect(err).NotTo(HaveOccurred())

		want := hexLine(insts.EncodeI(insts.ADDI, 1, 1, -1)) +
			hexLine(insts.EncodeI(insts.BEQZ, 0, 1, -8)) +
			hexLine(insts.EncodeHALT())
		Expect(out).To(Equal(want))
	})

	It("emits the literal word for a .fill directive given in hex", func() {
		source := "\t.fill\t0xDEADBEEF\n" +
			"\tHALT\n"

		out, err := assemble(source)
		Expect(err).NotTo(HaveOccurred())

		want := hexLine(0xDEADBEEF) + hexLine(insts.EncodeHALT())
		Expect(out).To(Equal(want))
	})

	It("encodes decimal immediates for LW and SW", func() {
		source := "\tLW\t1\t0\t20\n" +
			"\tSW\t1\t0\t24\n" +
			"\tHALT\n"

		out, err := assemble(source)
		Expect(err).NotTo(HaveOccurred())

		want := hexLine(insts.EncodeI(insts.LW, 1, 0, 20)) +
			hexLine(insts.EncodeI(insts.SW, 1, 0, 24)) +
			hexLine(insts.EncodeHALT())
		Expect(out).To(Equal(want))
	})

	It("rejects a duplicate label", func() {
		source := "foo\tADDI\t1\t0\t0\n" +
			"foo\tADDI\t2\t0\t0\n" +
			"\tHALT\n"

		_, err := assemble(source)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("symbol error"))
		Expect(err.Error()).To(ContainSubstring("duplicate"))
	})

	It("rejects an undefined label", func() {
		source := "\tBEQZ\t0\t0\tnowhere\n" +
			"\tHALT\n"

		_, err := assemble(source)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("symbol error"))
	})

	It("rejects an immediate outside the signed 16-bit range", func() {
		source := "\tADDI\t1\t0\t40000\n" +
			"\tHALT\n"

		_, err := assemble(source)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("range error"))
		Expect(err.Error()).To(ContainSubstring("line 1"))
	})

	It("rejects a register number outside 0-31", func() {
		source := "\tADD\t99\t0\t0\n" +
			"\tHALT\n"

		_, err := assemble(source)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("syntax error"))
	})

	It("rejects an unrecognized opcode", func() {
		source := "\tNOPE\t1\t2\t3\n"

		_, err := assemble(source)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("syntax error"))
	})

	It("rejects a line longer than the line-length limit", func() {
		source := "\tADDI\t1\t0\t" + strings.Repeat("9", 1200) + "\n"

		_, err := assemble(source)
		Expect(err).To(HaveOccurred())
	})
})
