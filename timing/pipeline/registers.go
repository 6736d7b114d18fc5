// Package pipeline provides the cycle-accurate 5-stage pipeline: fetch,
// decode, execute, memory, writeback, each separated by a latch that is
// replaced wholesale at the end of every cycle.
package pipeline

import "github.com/sarchlab/pipesim/insts"

// IFIDLatch holds state between Fetch and Decode.
type IFIDLatch struct {
	Instr  insts.Instruction
	PCNext uint32
}

// Clear resets the latch to a NOP bubble.
func (l *IFIDLatch) Clear() {
	l.Instr = insts.NOP()
	l.PCNext = 0
}

// IDEXLatch holds state between Decode and Execute.
type IDEXLatch struct {
	Instr      insts.Instruction
	PCNext     uint32
	ReadRegA   uint32
	ReadRegB   uint32
	SignExtImm uint32
}

// Clear resets the latch to a NOP bubble.
func (l *IDEXLatch) Clear() {
	l.Instr = insts.NOP()
	l.PCNext = 0
	l.ReadRegA = 0
	l.ReadRegB = 0
	l.SignExtImm = 0
}

// EXMEMLatch holds state between Execute and Memory.
type EXMEMLatch struct {
	Instr     insts.Instruction
	ALUResult uint32
	ReadReg   uint32
}

// Clear resets the latch to a NOP bubble.
func (l *EXMEMLatch) Clear() {
	l.Instr = insts.NOP()
	l.ALUResult = 0
	l.ReadReg = 0
}

// MEMWBLatch holds state between Memory and Writeback.
type MEMWBLatch struct {
	Instr     insts.Instruction
	WriteData uint32
}

// Clear resets the latch to a NOP bubble.
func (l *MEMWBLatch) Clear() {
	l.Instr = insts.NOP()
	l.WriteData = 0
}

// WBENDLatch holds the retiring instruction one cycle after writeback,
// kept so the execute stage has a third forwarding source reaching
// back two cycles past ID/EX.
type WBENDLatch struct {
	Instr     insts.Instruction
	WriteData uint32
}

// Clear resets the latch to a NOP bubble.
func (l *WBENDLatch) Clear() {
	l.Instr = insts.NOP()
	l.WriteData = 0
}
