package pipeline

import (
	"fmt"
	"io"

	"github.com/sarchlab/pipesim/insts"
)

// Tracer receives pipeline state at trace points. WriterTracer is the
// only implementation; it exists as an interface so tests can assert
// on captured output without parsing stdout.
type Tracer interface {
	BeforeCycle(p *Pipeline)
	Halted(cycles uint64)
}

// WriterTracer renders the full per-cycle state dump to w.
type WriterTracer struct {
	w io.Writer
}

// NewWriterTracer returns a tracer writing to w.
func NewWriterTracer(w io.Writer) *WriterTracer {
	return &WriterTracer{w: w}
}

// BeforeCycle prints the "state before cycle N starts" block: pc, the
// full data memory, all 32 registers, and the five latches, in the
// order the specification fixes for trace output.
func (t *WriterTracer) BeforeCycle(p *Pipeline) {
	fmt.Fprintf(t.w, "@@@\nstate before cycle %d starts\n", p.Cycles+1)
	fmt.Fprintf(t.w, "\tpc %d\n", int32(p.pc))

	for i, v := range p.dataMem.Snapshot() {
		fmt.Fprintf(t.w, "\tdataMem[ %d ] %d\n", i, int32(v))
	}
	for i, v := range p.regs.R {
		fmt.Fprintf(t.w, "\treg[ %d ] %d\n", i, int32(v))
	}

	t.latch("IFID", p.ifid.Instr, "pcPlus4", int32(p.ifid.PCNext))
	t.latch("IDEX", p.idex.Instr, "readRegA", int32(p.idex.ReadRegA), "readRegB", int32(p.idex.ReadRegB))
	t.latch("EXMEM", p.exmem.Instr, "aluResult", int32(p.exmem.ALUResult), "readReg", int32(p.exmem.ReadReg))
	t.latch("MEMWB", p.memwb.Instr, "writeData", int32(p.memwb.WriteData))
	t.latch("WBEND", p.wbend.Instr, "writeData", int32(p.wbend.WriteData))
}

func (t *WriterTracer) latch(name string, instr insts.Instruction, pairs ...interface{}) {
	fmt.Fprintf(t.w, "\t%s:\n", name)
	fmt.Fprintf(t.w, "\t\tinstr %s\n", instr.String())
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(t.w, "\t\t%s %v\n", pairs[i], pairs[i+1])
	}
}

// Halted prints the terminal summary line the specification requires.
func (t *WriterTracer) Halted(cycles uint64) {
	fmt.Fprintf(t.w, "machine halted\n")
	fmt.Fprintf(t.w, "total of %d cycles executed\n", cycles)
}
