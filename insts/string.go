package insts

import "fmt"

var mathNames = map[MathFunc]string{
	FuncADD: "add",
	FuncSLL: "sll",
	FuncSRL: "srl",
	FuncSUB: "sub",
	FuncAND: "and",
	FuncOR:  "or",
}

var iNames = map[Opcode]string{
	ADDI: "addi",
	BEQZ: "beqz",
	LW:   "lw",
	SW:   "sw",
}

var jNames = map[Opcode]string{
	JALR: "jalr",
	HALT: "halt",
}

// String renders instr in the disassembly grammar the specification
// defines for trace output: "<func> <rd> <rs> <rt>" for R-format,
// "<op> <rt> <rs> <sext(imm)>" for I-format, "<op>" (plus "<offset>" for
// JALR) for J-format, "data: <u32>" for an invalid word, and the literal
// "nop" for the canonical bubble.
func (instr Instruction) String() string {
	if instr.Format == FormatR && instr.IsNOP() {
		return "nop"
	}

	switch instr.Format {
	case FormatR:
		return fmt.Sprintf("%s %d %d %d", mathNames[instr.Func], instr.Rd, instr.Rs, instr.Rt)
	case FormatI:
		sext := int32(SignExtend16(instr.Imm16))
		return fmt.Sprintf("%s %d %d %d", iNames[instr.Opcode], instr.Rt, instr.Rs, sext)
	case FormatJ:
		if instr.Opcode == JALR {
			return fmt.Sprintf("%s %d", jNames[instr.Opcode], instr.Offset26)
		}
		return jNames[instr.Opcode]
	default:
		return fmt.Sprintf("data: %d", instr.Word)
	}
}
