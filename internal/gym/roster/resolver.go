package roster

import (
	"fmt"
	"strings"
)

// Resolve maps what a user typed at the desk to a canonical key. The full
// prefixed code always wins; otherwise the digits of the input are compared
// with the digits of every key, first exactly and then ignoring leading
// zeros, so "AL007", "007" and "7" all reach AL007.
func (d *Directory) Resolve(raw string) (string, Member, error) {
	in := strings.TrimSpace(raw)
	if in == "" {
		return "", Member{}, ErrNotFound
	}

	if m, ok := d.members[in]; ok {
		return in, m, nil
	}

	digits := digitsOf(in)
	if digits == "" {
		return "", Member{}, fmt.Errorf("%w: %q", ErrNotFound, in)
	}

	if key, err := d.matchDigits(digits, func(k string) string { return digitsOf(k) }); key != "" || err != nil {
		return d.result(key, err)
	}
	key, err := d.matchDigits(trimZeros(digits), func(k string) string { return trimZeros(digitsOf(k)) })
	if key == "" && err == nil {
		return "", Member{}, fmt.Errorf("%w: %q", ErrNotFound, in)
	}
	return d.result(key, err)
}

func (d *Directory) result(key string, err error) (string, Member, error) {
	if err != nil {
		return "", Member{}, err
	}
	return key, d.members[key], nil
}

// matchDigits walks keys in source order and returns the first whose
// normalised digits equal want.
func (d *Directory) matchDigits(want string, norm func(string) string) (string, error) {
	var first string
	for _, k := range d.order {
		if norm(k) != want {
			continue
		}
		if first == "" {
			first = k
			if !d.rejectAmbiguous {
				return first, nil
			}
			continue
		}
		return "", fmt.Errorf("%w: %q matches %s and %s", ErrAmbiguous, want, first, k)
	}
	return first, nil
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func trimZeros(digits string) string {
	if digits == "" {
		return ""
	}
	t := strings.TrimLeft(digits, "0")
	if t == "" {
		return "0"
	}
	return t
}
