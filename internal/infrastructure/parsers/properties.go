package parsers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ersonp/entref/internal/domain/entities"
)

// FormatRecord renders one table line: name=cp0[,cp1];codeIndex
func FormatRecord(r *entities.Record) (string, error) {
	if !r.Indexed() {
		return "", fmt.Errorf("%w: %s %q", entities.ErrUnindexed, r.Group, r.Name)
	}
	if len(r.Codepoints) < entities.MinCodepoints || len(r.Codepoints) > entities.MaxCodepoints {
		return "", fmt.Errorf("%w: %q has %d codepoints", entities.ErrMalformedInput, r.Name, len(r.Codepoints))
	}

	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(int(r.Codepoints[0])))
	if len(r.Codepoints) > 1 {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(int(r.Codepoints[1])))
	}
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(r.CodeIndex))

	return b.String(), nil
}

// EncodeTable writes one line per record, in the table's order.
func EncodeTable(w io.Writer, t entities.Table) error {
	bw := bufio.NewWriter(w)
	for _, r := range t.Records {
		line, err := FormatRecord(r)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseTable reads a table written by EncodeTable. Record order is preserved.
func ParseTable(r io.Reader, group entities.Group) (entities.Table, error) {
	table := entities.Table{Group: group}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		record, err := parseLine(scanner.Text(), group)
		if err != nil {
			return entities.Table{}, fmt.Errorf("%w: line %d: %w", entities.ErrInvalidTable, lineNum, err)
		}
		table.Records = append(table.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return entities.Table{}, fmt.Errorf("reading table: %w", err)
	}

	return table, nil
}

// parseLine decodes name=cp0[,cp1];codeIndex
func parseLine(line string, group entities.Group) (*entities.Record, error) {
	name, rest, ok := strings.Cut(line, "=")
	if !ok || name == "" {
		return nil, fmt.Errorf("missing name in %q", line)
	}

	cps, index, ok := strings.Cut(rest, ";")
	if !ok {
		return nil, fmt.Errorf("missing code index in %q", line)
	}

	codeIndex, err := strconv.Atoi(index)
	if err != nil || codeIndex < 0 {
		return nil, fmt.Errorf("invalid code index %q", index)
	}

	fields := strings.Split(cps, ",")
	if len(fields) > entities.MaxCodepoints {
		return nil, fmt.Errorf("too many codepoints in %q", line)
	}

	codepoints := make([]rune, len(fields))
	for i, f := range fields {
		cp, err := strconv.ParseInt(f, 10, 32)
		if err != nil || cp < 0 {
			return nil, fmt.Errorf("invalid codepoint %q", f)
		}
		codepoints[i] = rune(cp)
	}

	record := entities.NewRecord(name, group, codepoints...)
	record.CodeIndex = codeIndex
	return record, nil
}
