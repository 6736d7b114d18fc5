// Package assembler implements the two-pass assembler: a label-resolving
// first pass over tab-separated source lines, followed by an emission
// pass that lowers each line to one 32-bit instruction word.
package assembler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/pipesim/asmerr"
	"github.com/sarchlab/pipesim/insts"
)

const (
	maxNumLabels   = 10000
	maxLineLength  = 1000
	maxLabelLength = 10
)

var mathFuncs = map[string]insts.MathFunc{
	"ADD": insts.FuncADD,
	"SUB": insts.FuncSUB,
	"SLL": insts.FuncSLL,
	"SRL": insts.FuncSRL,
	"AND": insts.FuncAND,
	"OR":  insts.FuncOR,
}

var iOpcodes = map[string]insts.Opcode{
	"ADDI": insts.ADDI,
	"LW":   insts.LW,
	"SW":   insts.SW,
	"BEQZ": insts.BEQZ,
}

// sourceLine is one parsed tab-separated input line, before emission.
type sourceLine struct {
	label    string
	opcode   string
	operands []string
}

// Assemble reads tab-separated assembly source from r and writes the
// assembled machine image, one 8-digit lowercase hex word per line, to
// w. On any error, w may have received a partial write; callers at the
// CLI boundary are expected to discard it (no output file on failure).
func Assemble(r io.Reader, w io.Writer) error {
	lines, err := readSource(r)
	if err != nil {
		return err
	}

	labels, err := resolveLabels(lines)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for i, l := range lines {
		word, err := emit(i, l, labels)
		if err != nil {
			return asmerr.AtLine(i+1, err)
		}
		if _, err := fmt.Fprintf(bw, "%08x\n", word); err != nil {
			return &asmerr.InputError{Msg: fmt.Sprintf("writing machine image: %v", err)}
		}
	}
	return bw.Flush()
}

// readSource splits every line into its label, opcode, and operand
// fields, enforcing the line-length limit as it goes.
func readSource(r io.Reader) ([]sourceLine, error) {
	var lines []sourceLine

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if len(raw) > maxLineLength {
			return nil, asmerr.AtLine(lineNo, &asmerr.SyntaxError{
				Msg: fmt.Sprintf("line exceeds %d bytes", maxLineLength),
			})
		}
		if raw == "" {
			continue
		}

		fields := strings.Split(raw, "\t")
		if len(fields) < 2 {
			return nil, asmerr.AtLine(lineNo, &asmerr.SyntaxError{
				Msg: "expected at least a label field and an opcode field",
			})
		}
		lines = append(lines, sourceLine{label: fields[0], opcode: fields[1], operands: fields[2:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, &asmerr.InputError{Msg: fmt.Sprintf("reading source: %v", err)}
	}
	return lines, nil
}

// resolveLabels is pass 1: record every non-empty label's word address.
func resolveLabels(lines []sourceLine) (map[string]uint32, error) {
	labels := make(map[string]uint32)

	for i, l := range lines {
		if l.label == "" {
			continue
		}
		if len(l.label) > maxLabelLength || !isAlphanumeric(l.label) {
			return nil, asmerr.AtLine(i+1, &asmerr.SyntaxError{
				Msg: fmt.Sprintf("invalid label %q: must be at most %d alphanumeric characters", l.label, maxLabelLength),
			})
		}
		if _, dup := labels[l.label]; dup {
			return nil, asmerr.AtLine(i+1, &asmerr.SymbolError{Msg: fmt.Sprintf("duplicate label %q", l.label)})
		}
		if len(labels) >= maxNumLabels {
			return nil, asmerr.AtLine(i+1, &asmerr.SymbolError{
				Msg: fmt.Sprintf("more than %d distinct labels", maxNumLabels),
			})
		}
		labels[l.label] = uint32(i) * 4
	}

	return labels, nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			return false
		}
	}
	return true
}

// emit is pass 2 for a single line: lower it to its instruction word.
func emit(lineIdx int, l sourceLine, labels map[string]uint32) (uint32, error) {
	if fn, ok := mathFuncs[l.opcode]; ok {
		rd, rs, rt, err := parseThreeRegs(l.operands)
		if err != nil {
			return 0, err
		}
		return insts.EncodeMath(fn, rd, rs, rt), nil
	}

	if op, ok := iOpcodes[l.opcode]; ok {
		return emitIFormat(lineIdx, op, l.operands, labels)
	}

	switch l.opcode {
	case "JALR":
		if len(l.operands) != 1 {
			return 0, &asmerr.SyntaxError{Msg: fmt.Sprintf("JALR expects 1 operand, got %d", len(l.operands))}
		}
		offs, err := resolveImm(l.operands[0], labels)
		if err != nil {
			return 0, err
		}
		return insts.EncodeJALR(int32(offs)), nil

	case "HALT":
		if len(l.operands) != 0 {
			return 0, &asmerr.SyntaxError{Msg: fmt.Sprintf("HALT takes no operands, got %d", len(l.operands))}
		}
		return insts.EncodeHALT(), nil

	case ".fill":
		if len(l.operands) != 1 {
			return 0, &asmerr.SyntaxError{Msg: fmt.Sprintf(".fill expects 1 operand, got %d", len(l.operands))}
		}
		return emitFill(l.operands[0])

	default:
		return 0, &asmerr.SyntaxError{Msg: fmt.Sprintf("unrecognized opcode %q", l.opcode)}
	}
}

func emitIFormat(lineIdx int, op insts.Opcode, operands []string, labels map[string]uint32) (uint32, error) {
	if len(operands) != 3 {
		return 0, &asmerr.SyntaxError{Msg: fmt.Sprintf("expected 3 operands, got %d", len(operands))}
	}

	rt, err := parseReg(operands[0])
	if err != nil {
		return 0, err
	}
	rs, err := parseReg(operands[1])
	if err != nil {
		return 0, err
	}

	var imm int16
	if op == insts.BEQZ {
		imm, err = resolveBranchImm(lineIdx, operands[2], labels)
	} else {
		imm, err = resolveImm(operands[2], labels)
	}
	if err != nil {
		return 0, err
	}

	return insts.EncodeI(op, rt, rs, imm), nil
}

func emitFill(operand string) (uint32, error) {
	v, err := strconv.ParseInt(operand, 0, 64)
	if err != nil {
		return 0, &asmerr.SyntaxError{Msg: fmt.Sprintf("bad .fill operand %q: %v", operand, err)}
	}
	return insts.EncodeFill(uint32(uint64(v) & 0xFFFFFFFF)), nil
}

func parseThreeRegs(operands []string) (rd, rs, rt uint8, err error) {
	if len(operands) != 3 {
		return 0, 0, 0, &asmerr.SyntaxError{Msg: fmt.Sprintf("expected 3 register operands, got %d", len(operands))}
	}
	if rd, err = parseReg(operands[0]); err != nil {
		return
	}
	if rs, err = parseReg(operands[1]); err != nil {
		return
	}
	rt, err = parseReg(operands[2])
	return
}

func parseReg(s string) (uint8, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 31 {
		return 0, &asmerr.SyntaxError{Msg: fmt.Sprintf("invalid register %q: must be 0-31", s)}
	}
	return uint8(v), nil
}

// resolveImm parses a decimal immediate, or resolves s as a label to its
// absolute word address, and range-checks the signed 16-bit result.
func resolveImm(s string, labels map[string]uint32) (int16, error) {
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return checkImmRange(v)
	}

	addr, ok := labels[s]
	if !ok {
		return 0, &asmerr.SymbolError{Msg: fmt.Sprintf("undefined label %q", s)}
	}
	return checkImmRange(int64(addr))
}

// resolveBranchImm handles BEQZ's special case: a label operand encodes
// as a PC-relative displacement from the instruction after the branch,
// not an absolute address.
func resolveBranchImm(lineIdx int, s string, labels map[string]uint32) (int16, error) {
	if v, err := strconv.ParseInt(s, 10, 32); err == nil {
		return checkImmRange(v)
	}

	addr, ok := labels[s]
	if !ok {
		return 0, &asmerr.SymbolError{Msg: fmt.Sprintf("undefined label %q", s)}
	}
	disp := int64(addr) - int64(lineIdx)*4 - 4
	return checkImmRange(disp)
}

func checkImmRange(v int64) (int16, error) {
	if v < -32768 || v > 32767 {
		return 0, &asmerr.RangeError{Msg: fmt.Sprintf("value %d out of signed 16-bit range", v)}
	}
	return int16(v), nil
}
