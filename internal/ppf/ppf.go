// Package ppf reads and writes the "pixel perfect format", a plain-text
// monochrome bitmap format used for the pointer image.
//
// A file starts with the line "ppf". Lines starting with '#' are comments.
// Every other line is a row of space-separated tokens:
//
//	1  opaque black
//	0  opaque white
//	x  transparent (white pixel data carrying the transparency flag)
//
// The first row fixes the width; every row must match it.
package ppf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/pixwm/internal/bitmap"
)

// Magic is the required first line.
const Magic = "ppf"

var (
	// ErrMagic is returned when the input does not start with the magic line.
	ErrMagic = errors.New("ppf: unexpected magic bytes")
	// ErrEmpty is returned when the input holds no data rows.
	ErrEmpty = errors.New("ppf: no pixel rows")
)

// FormatError reports a malformed data row.
type FormatError struct {
	Line   int    // 1-based line number in the input
	Token  string // offending token, empty for width mismatches
	Width  int    // expected row width
	Actual int    // tokens found on the row
}

func (e *FormatError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("ppf: line %d: invalid token %q", e.Line, e.Token)
	}
	return fmt.Sprintf("ppf: line %d: row has %d pixels, want %d", e.Line, e.Actual, e.Width)
}

// Load reads a ppf file from disk.
func Load(path string) (*bitmap.BitMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bm, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return bm, nil
}

// Decode parses a ppf image.
func Decode(r io.Reader) (*bitmap.BitMap, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() || strings.TrimRight(sc.Text(), "\r") != Magic {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrMagic
	}

	var (
		pix    []bitmap.Pixel
		width  int
		height int
		lineNo = 1
		blank  int // first blank line not yet followed by data
	)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			// Only a run of blank lines at the end of the input may be empty.
			if blank == 0 {
				blank = lineNo
			}
			continue
		}
		if height == 0 {
			width = len(fields)
		}
		if blank != 0 {
			return nil, &FormatError{Line: blank, Width: width, Actual: 0}
		}
		if len(fields) != width {
			return nil, &FormatError{Line: lineNo, Width: width, Actual: len(fields)}
		}
		for _, tok := range fields {
			px, ok := decodeToken(tok)
			if !ok {
				return nil, &FormatError{Line: lineNo, Token: tok, Width: width, Actual: len(fields)}
			}
			pix = append(pix, px)
		}
		height++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if height == 0 {
		return nil, ErrEmpty
	}
	return bitmap.FromPixels(width, height, pix), nil
}

// DecodeString is Decode over an in-memory string.
func DecodeString(s string) (*bitmap.BitMap, error) {
	return Decode(strings.NewReader(s))
}

func decodeToken(tok string) (bitmap.Pixel, bool) {
	switch tok {
	case "1":
		return bitmap.Black, true
	case "0":
		return bitmap.White, true
	case "x":
		return bitmap.Clear, true
	}
	return bitmap.Pixel{}, false
}

// Encode writes s as ppf. Transparent pixels become 'x', pixels darker than
// mid-grey become '1' and everything else '0'.
func Encode(w io.Writer, s bitmap.Surface) error {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte('\n')
	pix := s.Pix()
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if x > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteByte(encodePixel(pix[y*s.Width()+x]))
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func encodePixel(p bitmap.Pixel) byte {
	if p.IsTransparent() {
		return 'x'
	}
	if int(p.R)+int(p.G)+int(p.B) < 3*0x80 {
		return '1'
	}
	return '0'
}
