// Package fits reads and writes the subset of FITS used by planetary
// science frames: a primary HDU followed by IMAGE extensions holding
// 2D data arrays, with string/int/float header cards. Data values are
// exposed as float64 grids with BZERO/BSCALE already applied.
package fits

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/obsarchive/planetthumb/pkg/pgrid"
)

const (
	blockSize = 2880
	cardSize  = 80
)

// ErrNoUnit is returned when a named HDU is not present in a file.
var ErrNoUnit = errors.New("no such HDU")

// A Header holds the parsed value cards of one HDU, keyed by keyword.
// FITS keywords are stored uppercase; lookups are case-insensitive.
type Header map[string]string

func (h Header) Get(key string) (string, bool) {
	v, ok := h[strings.ToUpper(key)]
	return v, ok
}

func (h Header) Int(key string) (int, error) {
	v, ok := h.Get(key)
	if !ok {
		return 0, fmt.Errorf("missing header card %s", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("header card %s=%q: %w", key, v, err)
	}
	return n, nil
}

func (h Header) Float(key string, def float64) (float64, error) {
	v, ok := h.Get(key)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("header card %s=%q: %w", key, v, err)
	}
	return f, nil
}

// A Unit is one HDU: a header plus, for 2D IMAGE data, the samples.
// Data is nil when the HDU carries no data or data that is not 2D.
type Unit struct {
	Name   string // EXTNAME value, "" for an unnamed HDU
	Header Header
	Bitpix int
	Naxis  []int
	Data   *pgrid.Grid
}

type File struct {
	Units []Unit
}

// Unit returns the HDU whose EXTNAME matches name, case-insensitively.
func (f *File) Unit(name string) (*Unit, error) {
	for i := range f.Units {
		if strings.EqualFold(f.Units[i].Name, name) {
			return &f.Units[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoUnit, name)
}

func Open(filename string) (*File, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open fits '%s': %w", filename, err)
	}
	defer r.Close()

	f, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("fits '%s': %w", filename, err)
	}
	return f, nil
}

func Decode(r io.Reader) (*File, error) {
	f := &File{}
	for {
		u, err := decodeUnit(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("HDU %d: %w", len(f.Units), err)
		}
		f.Units = append(f.Units, *u)
	}

	if len(f.Units) == 0 {
		return nil, fmt.Errorf("no HDUs found")
	}
	return f, nil
}

// decodeUnit reads one HDU. A clean EOF before any header bytes means
// the previous HDU was the last one, and is reported as io.EOF.
func decodeUnit(r io.Reader) (*Unit, error) {
	u := &Unit{Header: Header{}}
	block := make([]byte, blockSize)

	end := false
	first := true
	for !end {
		if _, err := io.ReadFull(r, block); err != nil {
			if err == io.EOF && first {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read header block: %w", err)
		}
		first = false

		for i := 0; i < blockSize; i += cardSize {
			key, val, isEnd := parseCard(string(block[i : i+cardSize]))
			if isEnd {
				end = true
				break
			}
			if key != "" {
				u.Header[key] = val
			}
		}
	}

	if name, ok := u.Header.Get("EXTNAME"); ok {
		u.Name = name
	}

	naxis, err := u.Header.Int("NAXIS")
	if err != nil {
		return nil, err
	}
	if naxis == 0 {
		return u, nil
	}

	u.Bitpix, err = u.Header.Int("BITPIX")
	if err != nil {
		return nil, err
	}

	n := 1
	for i := 1; i <= naxis; i++ {
		dim, err := u.Header.Int(fmt.Sprintf("NAXIS%d", i))
		if err != nil {
			return nil, err
		}
		if dim < 1 {
			return nil, fmt.Errorf("bad NAXIS%d %d", i, dim)
		}
		u.Naxis = append(u.Naxis, dim)
		n *= dim
	}

	if bytesPerSample(u.Bitpix) == 0 {
		return nil, fmt.Errorf("unsupported BITPIX %d", u.Bitpix)
	}
	data := make([]byte, padToBlock(n*bytesPerSample(u.Bitpix)))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read data (%d bytes): %w", len(data), err)
	}

	// Only 2D arrays become grids; other shapes keep header only.
	if naxis != 2 {
		return u, nil
	}

	bzero, err := u.Header.Float("BZERO", 0)
	if err != nil {
		return nil, err
	}
	bscale, err := u.Header.Float("BSCALE", 1)
	if err != nil {
		return nil, err
	}

	u.Data = decodeSamples(data, u.Bitpix, u.Naxis[0], u.Naxis[1], bzero, bscale)
	return u, nil
}

// decodeSamples converts big-endian FITS data into a grid. NAXIS1 is
// the fast axis, so the file order is row-major already.
func decodeSamples(data []byte, bitpix, w, h int, bzero, bscale float64) *pgrid.Grid {
	g := pgrid.New(w, h)
	vals := g.Values()

	for i := range vals {
		var v float64
		switch bitpix {
		case 8:
			v = float64(data[i])
		case 16:
			v = float64(int16(binary.BigEndian.Uint16(data[2*i:])))
		case 32:
			v = float64(int32(binary.BigEndian.Uint32(data[4*i:])))
		case -32:
			v = float64(math.Float32frombits(binary.BigEndian.Uint32(data[4*i:])))
		case -64:
			v = math.Float64frombits(binary.BigEndian.Uint64(data[8*i:]))
		}
		vals[i] = bzero + bscale*v
	}
	return g
}

func bytesPerSample(bitpix int) int {
	switch bitpix {
	case 8:
		return 1
	case 16:
		return 2
	case 32, -32:
		return 4
	case -64:
		return 8
	}
	return 0
}

func padToBlock(n int) int {
	return (n + blockSize - 1) / blockSize * blockSize
}

// parseCard splits one 80-byte header card into keyword and value.
// Commentary cards (COMMENT, HISTORY, blank keyword) yield "".
func parseCard(card string) (key, value string, end bool) {
	key = strings.TrimRight(card[:8], " ")
	switch key {
	case "END":
		return "", "", true
	case "", "COMMENT", "HISTORY":
		return "", "", false
	}
	if card[8:10] != "= " {
		return "", "", false
	}
	return key, parseValue(card[10:]), false
}

// parseValue handles quoted strings ('' escapes a quote, trailing
// blanks are not significant) and bare values with an optional
// "/ comment" suffix.
func parseValue(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "'") {
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			if s[i] == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}
				break
			}
			b.WriteByte(s[i])
		}
		return strings.TrimRight(b.String(), " ")
	}

	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
