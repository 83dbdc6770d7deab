package validate

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"7812345678901", "7812345678901", true},
		{"  7812345678901\n", "7812345678901", true},
		{"ABC-123_x", "ABC-123_x", true},
		{"", "", false},
		{"   ", "", false},
		{"78123 45678901", "78123 45678901", false},
		{"code\x00", "code\x00", false},
	}
	for _, c := range cases {
		got, ok := Code(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("Code(%q) = %q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestQ(t *testing.T) {
	if q, ok := Q("  coca "); !ok || q != "coca" {
		t.Fatalf("got %q %v", q, ok)
	}
	if _, ok := Q(""); ok {
		t.Fatal("empty query accepted")
	}
	if _, ok := Q("drop table;"); ok {
		t.Fatal("semicolon accepted")
	}
}

func TestQCutsLongAccentedQueriesByCharacter(t *testing.T) {
	// 61 characters, 121 bytes: byte 50 falls inside an "ã".
	in := "a" + strings.Repeat("ã", 60)
	q, ok := Q(in)
	if !ok {
		t.Fatalf("accented query rejected: %q", q)
	}
	if !utf8.ValidString(q) {
		t.Fatalf("query cut inside a character: %q", q)
	}
	if n := utf8.RuneCountInString(q); n != 50 {
		t.Fatalf("expected 50 characters, got %d", n)
	}
	if !strings.HasPrefix(in, q) {
		t.Fatalf("%q is not a prefix of the input", q)
	}
}
