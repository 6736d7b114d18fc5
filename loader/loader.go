// Package loader reads the machine image format the assembler emits: one
// 8-hex-digit word per line, loaded identically into instruction memory
// and data memory at startup.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/pipesim/asmerr"
)

// Image is a loaded machine image: the same word vector the simulator
// uses to seed both instruction memory and data memory.
type Image struct {
	Words []uint32
}

// Load reads the machine image at path. Every non-empty line must be
// exactly 8 hex digits (lowercase or uppercase); anything else is an
// InputError keyed to the offending line.
func Load(path string) (*Image, error) {
	return LoadVerbose(path, nil)
}

// LoadVerbose behaves like Load but, when log is non-nil, also writes a
// "memory[i]=<hex>" line per word and a final word-count line, the
// summary printed behind psim's -v flag.
func LoadVerbose(path string, log io.Writer) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &asmerr.InputError{Msg: fmt.Sprintf("cannot open %q: %v", path, err)}
	}
	defer func() { _ = f.Close() }()

	img, err := Read(f)
	if err != nil {
		return nil, err
	}

	if log != nil {
		for i, word := range img.Words {
			fmt.Fprintf(log, "memory[%d]=%08x\n", i, word)
		}
		fmt.Fprintf(log, "%d memory words\n", len(img.Words))
	}

	return img, nil
}

// Read parses a machine image from r, the form Load uses once the file
// is open. Exposed separately so callers (and tests) can load from any
// io.Reader, not just a path.
func Read(r io.Reader) (*Image, error) {
	var words []uint32

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if len(line) != 8 {
			return nil, asmerr.AtLine(lineNo, &asmerr.InputError{
				Msg: fmt.Sprintf("expected 8 hex digits, got %q", line),
			})
		}

		word, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, asmerr.AtLine(lineNo, &asmerr.InputError{
				Msg: fmt.Sprintf("malformed hex word %q: %v", line, err),
			})
		}

		words = append(words, uint32(word))
	}
	if err := scanner.Err(); err != nil {
		return nil, &asmerr.InputError{Msg: fmt.Sprintf("reading image: %v", err)}
	}

	return &Image{Words: words}, nil
}

// Write renders img back to the 8-hex-digit-per-line format, the same
// format the assembler's own writer produces. Used by tests that need
// to round-trip an image.
func Write(w io.Writer, img *Image) error {
	for _, word := range img.Words {
		if _, err := fmt.Fprintf(w, "%08x\n", word); err != nil {
			return &asmerr.InputError{Msg: fmt.Sprintf("writing image: %v", err)}
		}
	}
	return nil
}
