package annot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadLab builds an annotation from delimited lab-file rows, the common
// interchange format for reference MIR annotations. Supported row shapes:
//
//	time value...            sparse events ("0.5 C:maj")
//	start end value...       intervals; duration = end - start
//	time                     bare event markers (value nil)
//
// Blank lines and lines starting with '#' are skipped. Values that parse
// as numbers are stored as float64, otherwise as the remaining text.
func ReadLab(r io.Reader, ns string) (*Annotation, error) {
	a := New(ns)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		start, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("annot: lab line %d: bad time %q: %w", lineNo, fields[0], err)
		}

		switch {
		case len(fields) == 1:
			a.Append(start, 0, nil, nil)

		case len(fields) >= 3:
			// Interval form only when the second column is numeric.
			if end, endErr := strconv.ParseFloat(fields[1], 64); endErr == nil && end >= start {
				a.Append(start, end-start, labValue(fields[2:]), nil)
				continue
			}
			a.Append(start, 0, labValue(fields[1:]), nil)

		default:
			a.Append(start, 0, labValue(fields[1:]), nil)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("annot: read lab: %w", err)
	}
	return a, nil
}

func labValue(fields []string) any {
	text := strings.Join(fields, " ")
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return n
	}
	return text
}
