// Package insts provides the instruction encoding used by the assembler
// and the simulators.
package insts

// Bit positions of the instruction fields. The opcode is common to all
// formats; rs/rt are shared by the R and I formats, and R-format places
// rd/shamt/func below them.
const (
	opShift  = 26
	rsShift  = 21
	rtShift  = 16
	rdShift  = 11
	shamtShift = 6
)

// Decode reads the opcode out of word and, if the opcode is recognized,
// populates the fields of the matching format. A word with an
// unrecognized opcode, or a MATH word whose func is not one of the six
// defined operations, decodes to FormatData — it is not an error,
// it is how the hardware represents "not an instruction".
func Decode(word uint32) Instruction {
	op := Opcode((word >> opShift) & 0x3F)
	format, ok := FormatOf(op)
	if !ok {
		return Instruction{Word: word, Opcode: op, Format: FormatData}
	}

	switch format {
	case FormatR:
		instr := Instruction{
			Word:   word,
			Opcode: op,
			Format: FormatR,
			Rs:     uint8((word >> rsShift) & 0x1F),
			Rt:     uint8((word >> rtShift) & 0x1F),
			Rd:     uint8((word >> rdShift) & 0x1F),
			Shamt:  uint8((word >> shamtShift) & 0x1F),
			Func:   MathFunc(word & 0x3F),
		}
		switch instr.Func {
		case FuncADD, FuncSLL, FuncSRL, FuncSUB, FuncAND, FuncOR:
			return instr
		default:
			return Instruction{Word: word, Opcode: op, Format: FormatData}
		}

	case FormatI:
		return Instruction{
			Word:   word,
			Opcode: op,
			Format: FormatI,
			Rs:     uint8((word >> rsShift) & 0x1F),
			Rt:     uint8((word >> rtShift) & 0x1F),
			Imm16:  uint16(word & 0xFFFF),
		}

	default: // FormatJ
		return Instruction{
			Word:     word,
			Opcode:   op,
			Format:   FormatJ,
			Offset26: word & 0x3FFFFFF,
		}
	}
}
