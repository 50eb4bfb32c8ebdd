package formula

import (
	"errors"
	"testing"
)

func TestCaesarShiftExample(t *testing.T) {
	latin, _ := LookupAlphabet("latin")
	if got := CaesarShift("abc", 2, latin, false); got != "cde" {
		t.Fatalf("expected %q, got %q", "cde", got)
	}
	if got := CaesarShift("xyz", 3, latin, false); got != "abc" {
		t.Fatalf("expected wraparound %q, got %q", "abc", got)
	}
	if got := CaesarShift("Hello, World!", 3, latin, false); got != "Khoor, Zruog!" {
		t.Fatalf("expected %q, got %q", "Khoor, Zruog!", got)
	}
}

func TestCaesarRoundTrip(t *testing.T) {
	texts := map[string]string{
		"latin":   "The quick brown fox jumps over the lazy dog 123!",
		"russian": "Съешь же ещё этих мягких французских булок, да выпей чаю.",
		"greek":   "Ξεσκεπάζω την ψυχοφθόρα βδελυγμία",
		"german":  "Zwölf Boxkämpfer jagen Viktor quer über den großen Sylter Deich",
		"spanish": "El pingüino Wenceslao hizo kilómetros bajo exhaustiva lluvia y frío, añoraba a su querido cachorro.",
	}

	for name, text := range texts {
		alphabet, ok := LookupAlphabet(name)
		if !ok {
			t.Fatalf("missing alphabet %q", name)
		}
		for k := -60; k <= 60; k++ {
			encoded := CaesarShift(text, k, alphabet, false)
			if got := CaesarShift(encoded, k, alphabet, true); got != text {
				t.Fatalf("%s shift %d: round trip gave %q", name, k, got)
			}
		}
	}
}

func TestCaesarLeavesCaseFoldingLookalikesAlone(t *testing.T) {
	latin, _ := LookupAlphabet("latin")

	// KELVIN SIGN and LATIN CAPITAL LETTER I WITH DOT ABOVE lower-case to
	// ASCII letters but are not their upper-case forms.
	for _, text := range []string{"\u212A", "\u0130", "a\u212Ab"} {
		encoded := CaesarShift(text, 3, latin, false)
		if got := CaesarShift(encoded, 3, latin, true); got != text {
			t.Fatalf("round trip of %q gave %q", text, got)
		}
	}
	if got := CaesarShift("\u212A", 3, latin, false); got != "\u212A" {
		t.Fatalf("expected KELVIN SIGN to pass through, got %q", got)
	}
	if got := CaesarShift("a\u212Ab", 3, latin, false); got != "d\u212Ae" {
		t.Fatalf("expected %q, got %q", "d\u212Ae", got)
	}
}

func TestVigenereCipher(t *testing.T) {
	latin, _ := LookupAlphabet("latin")

	got, err := VigenereCipher("ATTACK AT DAWN", "LEMON", latin, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "LXFOPV EF RNHR" {
		t.Fatalf("expected %q, got %q", "LXFOPV EF RNHR", got)
	}

	back, err := VigenereCipher(got, "lemon", latin, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != "ATTACK AT DAWN" {
		t.Fatalf("expected round trip, got %q", back)
	}
}

func TestVigenereRejectsBadKey(t *testing.T) {
	latin, _ := LookupAlphabet("latin")
	for _, key := range []string{"", "  ", "key1"} {
		_, err := VigenereCipher("text", key, latin, false)
		var inputErr *InputError
		if !errors.As(err, &inputErr) || inputErr.Code != CodeInvalidKey {
			t.Fatalf("key %q: expected invalid key error, got %v", key, err)
		}
	}
}

func TestNewAlphabetRejectsDuplicates(t *testing.T) {
	if _, err := NewAlphabet("bad", "abca"); err == nil {
		t.Fatal("expected duplicate letters to be rejected")
	}
	if _, err := NewAlphabet("short", "a"); err == nil {
		t.Fatal("expected single letter alphabet to be rejected")
	}
}
