// Package pipeline implements the classic 5-stage pipeline the
// simulator runs: fetch, decode, execute, memory, writeback, connected
// by five latches (IF/ID, ID/EX, EX/MEM, MEM/WB, WB/END) and a hazard
// unit that stalls on load-use and squashes on branch misprediction.
package pipeline

import (
	"github.com/sarchlab/pipesim/asmerr"
	"github.com/sarchlab/pipesim/emu"
	"github.com/sarchlab/pipesim/insts"
)

// Pipeline is the cycle-stepped 5-stage machine.
type Pipeline struct {
	fetch      *FetchStage
	decode     *DecodeStage
	execute    *ExecuteStage
	memory     *MemoryStage
	writeback  *WritebackStage
	hazard     *HazardUnit

	regs     *emu.RegFile
	instrMem *emu.Memory
	dataMem  *emu.Memory
	pc       uint32

	ifid  IFIDLatch
	idex  IDEXLatch
	exmem EXMEMLatch
	memwb MEMWBLatch
	wbend WBENDLatch

	Cycles       uint64
	Instructions uint64
	Stalls       uint64
	Squashes     uint64

	halted bool

	Tracer Tracer
}

// New creates a pipeline over the given register file, instruction
// memory, and data memory. instrMem and dataMem are disjoint word
// arrays, each already loaded with the same machine image by the
// caller: fetch reads only instrMem, and only the memory stage writes
// dataMem.
func New(regs *emu.RegFile, instrMem, dataMem *emu.Memory) *Pipeline {
	p := &Pipeline{
		fetch:     NewFetchStage(instrMem),
		decode:    NewDecodeStage(regs),
		execute:   NewExecuteStage(emu.NewALU()),
		memory:    NewMemoryStage(emu.NewLoadStoreUnit(dataMem)),
		writeback: NewWritebackStage(regs),
		hazard:    NewHazardUnit(),
		regs:      regs,
		instrMem:  instrMem,
		dataMem:   dataMem,
	}
	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()
	p.wbend.Clear()
	return p
}

// Halted reports whether a HALT has retired from writeback.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.pc
}

// Tick advances every stage by exactly one cycle. All five stages
// read the latches as they stood at the start of the cycle; their
// outputs are committed together at the end, so no stage observes a
// partial update from another stage in the same cycle.
func (p *Pipeline) Tick() error {
	if p.halted {
		return nil
	}

	if p.Tracer != nil {
		p.Tracer.BeforeCycle(p)
	}

	retiring := p.memwb.Instr
	p.writeback.Writeback(p.memwb)

	memResult, err := p.memory.Access(p.exmem)
	if err != nil {
		return asmerr.AtCycle(p.Cycles, err)
	}
	nextMEMWB := MEMWBLatch{Instr: p.exmem.Instr, WriteData: memResult}

	a := p.hazard.ResolveOperand(p.idex.Instr.Rs, p.idex.ReadRegA, p.idex.Instr, false, p.exmem, p.memwb, p.wbend)
	b := p.hazard.ResolveOperand(p.idex.Instr.Rt, p.idex.ReadRegB, p.idex.Instr, true, p.exmem, p.memwb, p.wbend)

	exResult, err := p.execute.Execute(p.idex, a, b)
	if err != nil {
		return asmerr.AtCycle(p.Cycles, err)
	}
	nextEXMEM := EXMEMLatch{Instr: p.idex.Instr, ALUResult: exResult.ALUResult, ReadReg: exResult.ReadReg}

	loadUseHazard := p.hazard.DetectLoadUseHazard(p.idex, p.ifid.Instr)

	var nextIDEX IDEXLatch
	if loadUseHazard {
		nextIDEX.Clear()
	} else {
		ra, rb, imm := p.decode.Decode(p.ifid.Instr)
		nextIDEX = IDEXLatch{Instr: p.ifid.Instr, PCNext: p.ifid.PCNext, ReadRegA: ra, ReadRegB: rb, SignExtImm: imm}
	}

	fetchResult := p.fetch.Fetch(p.pc)
	nextIFID := IFIDLatch{Instr: fetchResult.Instr, PCNext: fetchResult.PCNext}
	nextPC := fetchResult.PredictedPC

	switch {
	case exResult.Mispredict:
		p.Squashes++
		nextIFID.Clear()
		nextIDEX.Clear()
		nextPC = exResult.ResolvedPC
	case loadUseHazard:
		p.Stalls++
		nextIFID = p.ifid
		nextPC = p.pc
	}

	p.ifid = nextIFID
	p.idex = nextIDEX
	p.exmem = nextEXMEM
	p.wbend = WBENDLatch{Instr: p.memwb.Instr, WriteData: p.memwb.WriteData}
	p.memwb = nextMEMWB
	p.pc = nextPC

	if !retiring.IsNOP() {
		p.Instructions++
	}
	p.Cycles++

	if retiring.Opcode == insts.HALT {
		p.halted = true
		if p.Tracer != nil {
			p.Tracer.Halted(p.Cycles)
		}
	}

	return nil
}

// Run ticks until halt or maxCycles is reached (0 means unbounded).
func (p *Pipeline) Run(maxCycles uint64) error {
	for maxCycles == 0 || p.Cycles < maxCycles {
		if err := p.Tick(); err != nil {
			return err
		}
		if p.halted {
			return nil
		}
	}
	return &asmerr.RangeError{Msg: "exceeded max cycle budget"}
}

// Registers exposes the register file for trace dumps and tests.
func (p *Pipeline) Registers() *emu.RegFile { return p.regs }

// InstructionMemory exposes instruction memory for trace dumps and tests.
func (p *Pipeline) InstructionMemory() *emu.Memory { return p.instrMem }

// DataMemory exposes data memory for trace dumps and tests.
func (p *Pipeline) DataMemory() *emu.Memory { return p.dataMem }

// Latches returns a snapshot of all five latches, in pipeline order.
func (p *Pipeline) Latches() (IFIDLatch, IDEXLatch, EXMEMLatch, MEMWBLatch, WBENDLatch) {
	return p.ifid, p.idex, p.exmem, p.memwb, p.wbend
}

// SetPC seeds the program counter, used to start execution somewhere
// other than word 0.
func (p *Pipeline) SetPC(pc uint32) {
	p.pc = pc
}
