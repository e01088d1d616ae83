package jregex

import (
	"fmt"
	"strings"

	"github.com/btre/jregex/syntax"
)

// Three very similar algorithms appear below: replace (template),
// replace (evaluator), and split.

// AppendReplacement writes the input between the previous append position
// and the current match, then the expansion of template, and moves the
// append position to the end of the match.
//
// The template takes $N and ${name} group references; \ escapes the next
// character. A group that didn't take part in the match expands to "".
func (m *Matcher) AppendReplacement(buf *strings.Builder, template string) error {
	if err := m.matched(); err != nil {
		return err
	}
	rep, err := m.replacement(template)
	if err != nil {
		return err
	}

	buf.WriteString(m.in.Substring(m.lastAppendPos, m.first))
	m.expand(buf, rep)
	m.lastAppendPos = m.last
	return nil
}

// AppendTail writes the input from the append position to its end.
func (m *Matcher) AppendTail(buf *strings.Builder) {
	buf.WriteString(m.in.Substring(m.lastAppendPos, m.textLen()))
}

// ReplaceAll replaces every match in the input with the template. It
// resets the Matcher first.
//
// Note that the special case of no matches is handled on its own:
// with no matches, the input string is returned unchanged.
func (m *Matcher) ReplaceAll(template string) (string, error) {
	return m.replace(template, -1)
}

// ReplaceFirst replaces the first match in the input with the template.
func (m *Matcher) ReplaceFirst(template string) (string, error) {
	return m.replace(template, 1)
}

// The template is parsed at the first match, so a bad template with
// nothing to replace is not an error.
func (m *Matcher) replace(template string, count int) (string, error) {
	return m.replaceWith(count, func(buf *strings.Builder) error {
		rep, err := m.replacement(template)
		if err != nil {
			return err
		}
		m.expand(buf, rep)
		return nil
	})
}

// ReplaceAllFunc replaces every match with what eval returns. eval sees
// the Matcher positioned on the match.
func (m *Matcher) ReplaceAllFunc(eval func(*Matcher) string) (string, error) {
	return m.replaceWith(-1, func(buf *strings.Builder) error {
		buf.WriteString(eval(m))
		return nil
	})
}

func (m *Matcher) replaceWith(count int, write func(*strings.Builder) error) (string, error) {
	m.Reset()
	ok, err := m.Find()
	if err != nil {
		return "", err
	}
	if !ok {
		return m.in.String(), nil
	}

	buf := &strings.Builder{}
	for ok {
		buf.WriteString(m.in.Substring(m.lastAppendPos, m.first))
		if err := write(buf); err != nil {
			return "", err
		}
		m.lastAppendPos = m.last
		count--
		if count == 0 {
			break
		}
		if ok, err = m.Find(); err != nil {
			return "", err
		}
	}
	m.AppendTail(buf)
	return buf.String(), nil
}

// replacement parses a template, reusing the last one if it's the same.
func (m *Matcher) replacement(template string) (*syntax.ReplacerData, error) {
	if m.repl != nil && m.repl.Rep == template {
		return m.repl, nil
	}
	rep, err := syntax.ParseReplacement(template, m.GroupCount(), m.re.capnames)
	if err != nil {
		return nil, err
	}
	m.repl = rep
	return rep, nil
}

func (m *Matcher) expand(buf *strings.Builder, rep *syntax.ReplacerData) {
	for _, r := range rep.Rules {
		if r >= 0 {
			buf.WriteString(rep.Strings[r])
			continue
		}
		g := syntax.GroupRule(r)
		if s, e := m.groups[2*g], m.groups[2*g+1]; s >= 0 {
			buf.WriteString(m.in.Substring(s, e))
		}
	}
}

// QuoteReplacement returns a template that expands to s literally.
func QuoteReplacement(s string) string {
	if !strings.ContainsAny(s, `\$`) {
		return s
	}
	var b strings.Builder
	for _, ch := range s {
		if ch == '\\' || ch == '$' {
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// ReplaceAllStringFunc replaces every match in s with what eval returns
// for it.
func (re *Regexp) ReplaceAllStringFunc(s string, eval func(*Matcher) string) (string, error) {
	if eval == nil {
		return "", fmt.Errorf("%w: nil evaluator", ErrIllegalArgument)
	}
	return re.Matcher(s).ReplaceAllFunc(eval)
}
