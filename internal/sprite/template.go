package sprite

import (
	"fmt"
	"strconv"
	"strings"
)

// templateSlots is the number of insertion points a path template must have.
const templateSlots = 2

// slot is one insertion point in a path template, e.g. "%s" or "%02d".
type slot struct {
	directive string
	verb      byte
}

// Template is a parsed two-slot path template. The first slot receives the
// frame name and the second the angle name. Supported verbs are %s, %d and %v
// with optional flags, width and precision; %% is a literal percent sign.
// The # flag is rejected on %v, where it would quote names inside the path.
type Template struct {
	raw      string
	literals [templateSlots + 1]string
	slots    [templateSlots]slot
}

// ParseTemplate parses and checks a path template.
func ParseTemplate(raw string) (Template, error) {
	t := Template{raw: raw}
	var lit strings.Builder
	n := 0

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		if i+1 < len(raw) && raw[i+1] == '%' {
			lit.WriteByte('%')
			i++
			continue
		}

		j := i + 1
		for j < len(raw) && strings.IndexByte("-+# 0", raw[j]) >= 0 {
			j++
		}
		flags := raw[i+1 : j]
		j = skipDigits(raw, j)
		if j < len(raw) && raw[j] == '.' {
			j = skipDigits(raw, j+1)
		}
		if j >= len(raw) {
			return Template{}, NewConfigError(ErrInvalidTemplate, "%q: dangling %% at offset %d", raw, i)
		}
		verb := raw[j]
		if verb != 's' && verb != 'd' && verb != 'v' {
			return Template{}, NewConfigError(ErrInvalidTemplate,
				"%q: unsupported verb %%%c (use %%s, %%d or %%v)", raw, verb)
		}
		if verb == 'v' && strings.IndexByte(flags, '#') >= 0 {
			return Template{}, NewConfigError(ErrInvalidTemplate,
				"%q: %%#v would quote names in the path", raw)
		}
		if n == templateSlots {
			return Template{}, NewConfigError(ErrInvalidTemplate,
				"%q: more than %d insertion points", raw, templateSlots)
		}

		t.literals[n] = lit.String()
		lit.Reset()
		t.slots[n] = slot{directive: raw[i : j+1], verb: verb}
		n++
		i = j
	}

	if n != templateSlots {
		return Template{}, NewConfigError(ErrInvalidTemplate,
			"%q: found %d insertion points, need %d (frame name, angle name)", raw, n, templateSlots)
	}
	t.literals[templateSlots] = lit.String()

	return t, nil
}

// skipDigits returns the index of the first non-digit at or after i.
func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// String returns the template as written.
func (t Template) String() string { return t.raw }

// Format fills the template with a frame name and an angle name.
func (t Template) Format(frameName, angleName string) (string, error) {
	var b strings.Builder
	for i, name := range [templateSlots]string{frameName, angleName} {
		b.WriteString(t.literals[i])
		s, err := t.slots[i].format(name)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteString(t.literals[templateSlots])
	return b.String(), nil
}

// accepts reports whether name can be placed in the given slot.
func (t Template) accepts(slotIndex int, name string) error {
	_, err := t.slots[slotIndex].format(name)
	return err
}

func (s slot) format(name string) (string, error) {
	if s.verb != 'd' {
		return fmt.Sprintf(s.directive, name), nil
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return "", NewConfigError(ErrInvalidTemplate, "name %q cannot fill integer slot %s", name, s.directive)
	}
	return fmt.Sprintf(s.directive, n), nil
}
