package overpass

import (
	"fmt"
	"strconv"
	"strings"
)

// Around restricts a selector to a radius around a point.
type Around struct {
	RadiusM int
	Lat     float64
	Lon     float64
}

func (a Around) String() string {
	return fmt.Sprintf("(around:%d,%s,%s)", a.RadiusM,
		strconv.FormatFloat(a.Lat, 'f', -1, 64),
		strconv.FormatFloat(a.Lon, 'f', -1, 64))
}

// Selector is one union member: an element kind and its tag filters.
type Selector struct {
	Kind string
	Tags [][2]string
}

// Sel builds a selector from key/value pairs. A trailing key without a
// value is dropped.
func Sel(kind string, kv ...string) Selector {
	s := Selector{Kind: kind}
	for i := 0; i+1 < len(kv); i += 2 {
		s.Tags = append(s.Tags, [2]string{kv[i], kv[i+1]})
	}
	return s
}

// Statement renders the selector restricted to a.
func (s Selector) Statement(a Around) string {
	var b strings.Builder
	b.WriteString(s.Kind)
	for _, t := range s.Tags {
		fmt.Fprintf(&b, "[%q=%q]", t[0], t[1])
	}
	b.WriteString(a.String())
	b.WriteByte(';')
	return b.String()
}

func union(timeoutSecs int, a Around, sels []Selector, out string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSecs)
	for _, s := range sels {
		b.WriteString("  ")
		b.WriteString(s.Statement(a))
		b.WriteByte('\n')
	}
	b.WriteString(");\n")
	b.WriteString(out)
	return b.String()
}

// CountQuery builds a union query answered with a single count element.
func CountQuery(timeoutSecs int, a Around, sels ...Selector) string {
	return union(timeoutSecs, a, sels, "out count;")
}

// BodyQuery builds a union query returning the matched elements together
// with the nodes their ways reference.
func BodyQuery(timeoutSecs int, a Around, sels ...Selector) string {
	return union(timeoutSecs, a, sels, "out body;\n>;\nout skel qt;")
}
