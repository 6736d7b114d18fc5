// Package insts provides the instruction encoding used by the assembler
// and the simulators: a tagged 32-bit word with three logical formats
// (R, I, J) that share a common opcode field.
//
// The word is represented as an untagged bit pattern only at the edges
// (loader input, ALU operands); internally it is always a decoded
// Instruction, a tagged sum with one variant per format plus a Data
// variant for words that are not valid instructions. This avoids the
// overlapping-storage "trust me" reads a C-style union would need.
package insts

// Opcode identifies the instruction's operation. It occupies the top 6
// bits of every instruction word, regardless of format.
type Opcode uint8

// Defined opcodes. Any other 6-bit value is invalid.
const (
	MATH Opcode = 0x00
	BEQZ Opcode = 0x04
	ADDI Opcode = 0x08
	JALR Opcode = 0x13
	LW   Opcode = 0x23
	SW   Opcode = 0x2B
	HALT Opcode = 0x3F
)

// MathFunc identifies the ALU operation for an R-format MATH instruction.
type MathFunc uint8

// Defined math funcs. Any other 6-bit value under MATH marks the word as data.
const (
	FuncADD MathFunc = 0x20
	FuncSLL MathFunc = 0x04
	FuncSRL MathFunc = 0x06
	FuncSUB MathFunc = 0x22
	FuncAND MathFunc = 0x24
	FuncOR  MathFunc = 0x25
)

// Format identifies which of the three bit layouts an instruction uses.
type Format uint8

// Instruction formats. FormatData marks a word that is not a valid
// instruction; it executes as a NOP wherever it is fetched.
const (
	FormatR Format = iota
	FormatI
	FormatJ
	FormatData
)

// FormatOf is the total function from opcode to format: MATH is R-format,
// LW/SW/ADDI/BEQZ are I-format, JALR/HALT are J-format. Any other opcode
// has no valid format and is treated as data by the caller.
func FormatOf(op Opcode) (Format, bool) {
	switch op {
	case MATH:
		return FormatR, true
	case LW, SW, ADDI, BEQZ:
		return FormatI, true
	case JALR, HALT:
		return FormatJ, true
	default:
		return FormatData, false
	}
}

// Instruction is a decoded 32-bit instruction word. Exactly one of the
// format-specific field groups is meaningful, selected by Format. Opcode
// is always meaningful — reading it never fails, per the specification.
type Instruction struct {
	Word   uint32
	Opcode Opcode
	Format Format

	// R-format fields (MATH).
	Rs, Rt, Rd uint8
	Shamt      uint8
	Func       MathFunc

	// I-format fields (LW, SW, ADDI, BEQZ). Rs/Rt are shared with R-format above.
	Imm16 uint16

	// J-format fields (JALR, HALT).
	Offset26 uint32
}

// NOP is the canonical bubble instruction: MATH ADD r0, r0, r0.
func NOP() Instruction {
	return Instruction{
		Word:   EncodeMath(FuncADD, 0, 0, 0),
		Opcode: MATH,
		Format: FormatR,
		Func:   FuncADD,
	}
}

// IsNOP reports whether instr is the canonical bubble: MATH ADD r0, r0, r0.
func (instr Instruction) IsNOP() bool {
	return instr.Opcode == MATH && instr.Func == FuncADD &&
		instr.Rd == 0 && instr.Rs == 0 && instr.Rt == 0
}

// IsData reports whether word does not decode to a valid instruction:
// either its opcode is unrecognized, or its opcode is MATH with a func
// that is not one of the six defined math operations. Downstream stages
// must treat such a word as a NOP.
func IsData(word uint32) bool {
	op := Opcode(word >> 26)
	format, ok := FormatOf(op)
	if !ok {
		return true
	}
	if format == FormatR {
		fn := MathFunc(word & 0x3F)
		switch fn {
		case FuncADD, FuncSLL, FuncSRL, FuncSUB, FuncAND, FuncOR:
			return false
		default:
			return true
		}
	}
	return false
}

// SignExtend16 is the single canonical sign-extension helper used
// everywhere an immediate participates in arithmetic or address
// computation: interpret the low 16 bits as signed, widen to 32 bits,
// and reinterpret as unsigned so the result can be added with wrapping
// semantics.
func SignExtend16(imm uint16) uint32 {
	return uint32(int32(int16(imm)))
}
