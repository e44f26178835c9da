package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Format selects how a batch of records is laid out on a stream.
type Format string

// Supported stream formats.
const (
	// FormatPseudoArray joins records with commas and no brackets.
	FormatPseudoArray Format = "pseudo-array"
	// FormatNDJSON writes one record per line.
	FormatNDJSON Format = "ndjson"
	// FormatArray writes a JSON array.
	FormatArray Format = "array"
)

// Formats returns the supported format names.
func Formats() []string {
	return []string{
		string(FormatPseudoArray), string(FormatNDJSON), string(FormatArray),
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if f == s {
			return Format(s), nil
		}
	}

	return "", fmt.Errorf("unknown record format %q", s)
}

// Write encodes records to w in the given format, followed by a newline.
func Write(w io.Writer, format Format, records []Record) error {
	var buf bytes.Buffer

	sep := []byte(",")
	switch format {
	case FormatNDJSON:
		sep = []byte("\n")
	case FormatArray:
		buf.WriteByte('[')
	case FormatPseudoArray:
	default:
		return fmt.Errorf("unknown record format %q", format)
	}

	for i, r := range records {
		if i > 0 {
			buf.Write(sep)
		}

		data, err := marshal(r)
		if err != nil {
			return err
		}

		buf.Write(data)
	}

	if format == FormatArray {
		buf.WriteByte(']')
	}

	buf.WriteByte('\n')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write records: %w", err)
	}

	return nil
}

// AppendFile appends records to the file at path, creating it if needed.
func AppendFile(path string, format Format, records []Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if err := Write(f, format, records); err != nil {
		f.Close()

		return fmt.Errorf("append to %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

// Decode extracts every record from r. It accepts any of the stream
// formats and skips text that is not part of a record, such as handshake
// tokens or diagnostic output.
//
// A '{' or '[' that does not start a record is retried from the next byte,
// so cost is quadratic in the amount of bracketed noise.
func Decode(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	var records []Record

	for i := 0; i < len(data); {
		switch data[i] {
		case '{':
			var rec Record
			if n, ok := decodeAt(data[i:], &rec); ok && rec.AlgorithmName != "" {
				records = append(records, rec)
				i += n

				continue
			}

		case '[':
			var batch []Record
			if n, ok := decodeAt(data[i:], &batch); ok && allNamed(batch) {
				records = append(records, batch...)
				i += n

				continue
			}
		}

		i++
	}

	return records, nil
}

func decodeAt(data []byte, v any) (int, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return 0, false
	}

	return int(dec.InputOffset()), true
}

func allNamed(records []Record) bool {
	for _, r := range records {
		if r.AlgorithmName == "" {
			return false
		}
	}

	return true
}
