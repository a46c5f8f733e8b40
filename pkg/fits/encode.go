package fits

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
)

// Keywords the encoder emits itself; extra header cards with these
// names are dropped rather than duplicated.
var reserved = map[string]bool{
	"SIMPLE": true, "EXTEND": true, "XTENSION": true, "BITPIX": true,
	"NAXIS": true, "NAXIS1": true, "NAXIS2": true,
	"PCOUNT": true, "GCOUNT": true, "EXTNAME": true, "END": true,
}

// WriteFile writes a primary HDU followed by one IMAGE extension per
// unit. Used for fixture generation; data goes out as 32-bit floats
// and extra header cards as string values.
func WriteFile(filename string, units ...Unit) error {
	w, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create fits '%s': %w", filename, err)
	}
	defer w.Close()

	if err := Encode(w, units...); err != nil {
		return fmt.Errorf("encode fits '%s': %w", filename, err)
	}
	return nil
}

func Encode(w io.Writer, units ...Unit) error {
	cards := []string{
		logicalCard("SIMPLE", true),
		intCard("BITPIX", 8),
		intCard("NAXIS", 0),
		logicalCard("EXTEND", true),
	}
	if err := writeHeader(w, cards); err != nil {
		return err
	}

	for i := range units {
		if err := encodeUnit(w, &units[i]); err != nil {
			return fmt.Errorf("HDU %q: %w", units[i].Name, err)
		}
	}
	return nil
}

func encodeUnit(w io.Writer, u *Unit) error {
	if u.Data == nil {
		return fmt.Errorf("no data grid")
	}

	cards := []string{
		stringCard("XTENSION", "IMAGE"),
		intCard("BITPIX", -32),
		intCard("NAXIS", 2),
		intCard("NAXIS1", u.Data.Dx()),
		intCard("NAXIS2", u.Data.Dy()),
		intCard("PCOUNT", 0),
		intCard("GCOUNT", 1),
	}
	if u.Name != "" {
		if len(u.Name) > 68 {
			return fmt.Errorf("header card EXTNAME does not fit")
		}
		cards = append(cards, stringCard("EXTNAME", u.Name))
	}

	extras := make([]string, 0, len(u.Header))
	for k := range u.Header {
		if !reserved[strings.ToUpper(k)] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		if len(k) > 8 || len(u.Header[k]) > 68 {
			return fmt.Errorf("header card %s does not fit", k)
		}
		cards = append(cards, stringCard(strings.ToUpper(k), u.Header[k]))
	}

	if err := writeHeader(w, cards); err != nil {
		return err
	}

	vals := u.Data.Values()
	data := make([]byte, padToBlock(4*len(vals)))
	for i, v := range vals {
		binary.BigEndian.PutUint32(data[4*i:], math.Float32bits(float32(v)))
	}
	_, err := w.Write(data)
	return err
}

func writeHeader(w io.Writer, cards []string) error {
	var b bytes.Buffer
	for _, c := range cards {
		b.WriteString(padCard(c))
	}
	b.WriteString(padCard("END"))
	for b.Len()%blockSize != 0 {
		b.WriteByte(' ')
	}
	_, err := w.Write(b.Bytes())
	return err
}

func padCard(c string) string {
	return fmt.Sprintf("%-*s", cardSize, c)
}

func logicalCard(key string, v bool) string {
	s := "F"
	if v {
		s = "T"
	}
	return fmt.Sprintf("%-8s= %20s", key, s)
}

func intCard(key string, v int) string {
	return fmt.Sprintf("%-8s= %20d", key, v)
}

func stringCard(key, v string) string {
	return fmt.Sprintf("%-8s= '%-8s'", key, strings.ReplaceAll(v, "'", "''"))
}
