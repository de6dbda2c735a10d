// Package pathtmpl parses route templates such as "/cars/{id}/wow" into anchored matchers, and builds concrete paths
// from them.
package pathtmpl

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrEmptyTemplate    = errors.New("empty template")
	ErrMismatchedBraces = errors.New("mismatched placeholder braces")
)

const (
	// wildcard matches one or more characters of a single path segment.
	wildcard = `[^/]+`
	// rest matches one or more characters across segments, for placeholders written as "{name...}".
	rest = `.+`
)

// Template is a parsed route template.
type Template struct {
	raw      string
	literals []string // len(literals) == len(names)+1
	names    []string
	re       *regexp.Regexp
}

// Parse parses str. Every '{' must be closed by a '}' before the next '{' opens. A placeholder matches one or more
// characters within a single segment, or across segments when its name ends in "...".
func Parse(str string) (*Template, error) {
	if str == "" {
		return nil, ErrEmptyTemplate
	}

	var opens, closes []int
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '{':
			opens = append(opens, i)
		case '}':
			closes = append(closes, i)
		}
	}

	if len(opens) != len(closes) {
		return nil, errors.Wrapf(ErrMismatchedBraces, "%d opening and %d closing in %q", len(opens), len(closes), str)
	}

	tmpl := &Template{raw: str}
	prev := 0
	for i, open := range opens {
		closing := closes[i]
		if closing < open || (i+1 < len(opens) && opens[i+1] < closing) {
			return nil, errors.Wrapf(ErrMismatchedBraces, "unbalanced placeholder at offset %d in %q", open, str)
		}

		tmpl.literals = append(tmpl.literals, str[prev:open])
		tmpl.names = append(tmpl.names, str[open+1:closing])
		prev = closing + 1
	}
	tmpl.literals = append(tmpl.literals, str[prev:])

	var expr strings.Builder
	expr.WriteByte('^')
	for i, lit := range tmpl.literals {
		expr.WriteString(regexp.QuoteMeta(lit))
		if i < len(tmpl.names) {
			expr.WriteString(tmpl.placeholderExpr(i))
		}
	}
	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, errors.Wrapf(err, "compile %q", str)
	}
	tmpl.re = re

	return tmpl, nil
}

func (t *Template) placeholderExpr(i int) string {
	if strings.HasSuffix(t.names[i], "...") {
		return rest
	}
	return wildcard
}

// String returns the template as it was written.
func (t *Template) String() string { return t.raw }

// Names returns the placeholder names in order of appearance.
func (t *Template) Names() []string { return t.names }

// Expr returns the anchored expression the template compiled to.
func (t *Template) Expr() string { return t.re.String() }

// Match reports whether path matches the whole template.
func (t *Template) Match(path string) bool { return t.re.MatchString(path) }

// Build substitutes vals for the placeholders, in order. Each value must be non-empty.
func Build(t *Template, vals ...string) (string, error) {
	if len(vals) < len(t.names) {
		return "", errors.Newf("not enough values for %q: got %d, want %d", t.raw, len(vals), len(t.names))
	}
	if len(vals) > len(t.names) {
		return "", errors.Newf("too many values for %q: got %d, want %d", t.raw, len(vals), len(t.names))
	}

	var sb strings.Builder
	for i, lit := range t.literals {
		sb.WriteString(lit)
		if i < len(t.names) {
			if vals[i] == "" {
				return "", errors.Newf("empty value for placeholder %q", t.names[i])
			}
			sb.WriteString(vals[i])
		}
	}

	return sb.String(), nil
}
