package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one PostgREST filter parameter, e.g. team_id=eq.7.
type Condition interface {
	appendQuery(buf *strings.Builder)
}

type opCondition struct {
	column string
	op     string
	value  string
}

func Eq(column string, value any) Condition {
	return opCondition{column: column, op: "eq", value: formatValue(value)}
}

func Gte(column string, value any) Condition {
	return opCondition{column: column, op: "gte", value: formatValue(value)}
}

func (c opCondition) appendQuery(buf *strings.Builder) {
	buf.WriteString(escape(c.column))
	buf.WriteString("=")
	buf.WriteString(c.op)
	buf.WriteString(".")
	buf.WriteString(escape(c.value))
}

// Builder assembles a PostgREST query string. Parameters are emitted in a
// fixed order (select, filters, order) so the same builder always
// encodes to the same string.
type Builder struct {
	columns []string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *Builder {
	return &Builder{columns: append([]string(nil), columns...)}
}

// Filter starts a builder without a select list, used for PATCH and DELETE.
func Filter(conditions ...Condition) *Builder {
	return (&Builder{}).Where(conditions...)
}

func (b *Builder) Where(conditions ...Condition) *Builder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *Builder) OrderBy(parts ...string) *Builder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *Builder) Encode() string {
	if b == nil {
		return ""
	}

	var buf strings.Builder
	sep := func() {
		if buf.Len() > 0 {
			buf.WriteString("&")
		}
	}

	if len(b.columns) > 0 {
		buf.WriteString("select=")
		for i, col := range b.columns {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString(escape(col))
		}
	}
	for _, c := range b.where {
		sep()
		c.appendQuery(&buf)
	}
	if len(b.orderBy) > 0 {
		sep()
		buf.WriteString("order=")
		for i, part := range b.orderBy {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString(escape(part))
		}
	}
	return buf.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case interface{ String() string }:
		return v.String()
	default:
		return ""
	}
}

const hexDigits = "0123456789ABCDEF"

// escape percent-encodes everything outside the characters PostgREST reads
// literally in filter values and select lists.
func escape(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isLiteral(c) {
			buf.WriteByte(c)
			continue
		}
		buf.WriteByte('%')
		buf.WriteByte(hexDigits[c>>4])
		buf.WriteByte(hexDigits[c&0x0f])
	}
	return buf.String()
}

func isLiteral(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '~', '*', ',', ':':
		return true
	}
	return false
}
