package formula

import (
	"sort"
	"strings"
	"unicode"
)

// Alphabet is an ordered set of lower-case letters used by the substitution
// ciphers. Lookups are case-insensitive and the case of the input character
// is preserved in the output.
type Alphabet struct {
	Name    string
	letters []rune
	index   map[rune]int
}

// NewAlphabet builds an alphabet from letters. Empty input and repeated
// letters are rejected.
func NewAlphabet(name, letters string) (*Alphabet, error) {
	runes := []rune(strings.ToLower(letters))
	if len(runes) < 2 {
		return nil, reject(CodeBadAlphabet, "alphabet", "an alphabet needs at least two letters")
	}
	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		if _, dup := index[r]; dup {
			return nil, reject(CodeBadAlphabet, "alphabet", "letter %q appears twice", r)
		}
		index[r] = i
	}
	return &Alphabet{Name: name, letters: runes, index: index}, nil
}

func mustAlphabet(name, letters string) *Alphabet {
	a, err := NewAlphabet(name, letters)
	if err != nil {
		panic(err)
	}
	return a
}

var alphabets = map[string]*Alphabet{
	"latin":   mustAlphabet("latin", "abcdefghijklmnopqrstuvwxyz"),
	"russian": mustAlphabet("russian", "абвгдеёжзийклмнопрстуфхцчшщъыьэюя"),
	"greek":   mustAlphabet("greek", "αβγδεζηθικλμνξοπρστυφχψω"),
	"german":  mustAlphabet("german", "abcdefghijklmnopqrstuvwxyzäöü"),
	"spanish": mustAlphabet("spanish", "abcdefghijklmnñopqrstuvwxyz"),
}

// LookupAlphabet returns one of the built-in alphabets by name.
func LookupAlphabet(name string) (*Alphabet, bool) {
	a, ok := alphabets[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// AlphabetNames lists the built-in alphabets, sorted.
func AlphabetNames() []string {
	out := make([]string, 0, len(alphabets))
	for name := range alphabets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len is the number of letters.
func (a *Alphabet) Len() int { return len(a.letters) }

// position reports the index of r and whether r was upper case.
func (a *Alphabet) position(r rune) (int, bool, bool) {
	if i, ok := a.index[r]; ok {
		return i, false, true
	}
	// Only a true upper-case form of a letter maps back to it. Runes such
	// as KELVIN SIGN lower-case into the alphabet but would not survive the
	// trip back through ToUpper.
	lower := unicode.ToLower(r)
	if i, ok := a.index[lower]; ok && lower != r && unicode.ToUpper(lower) == r {
		return i, true, true
	}
	return 0, false, false
}

func (a *Alphabet) shifted(i, shift int, upper bool) rune {
	n := len(a.letters)
	j := ((i+shift)%n + n) % n
	out := a.letters[j]
	if upper {
		return unicode.ToUpper(out)
	}
	return out
}

// CaesarShift moves every alphabet letter of text shift places forward, or
// backward when decode is set. Other characters pass through unchanged.
func CaesarShift(text string, shift int, alphabet *Alphabet, decode bool) string {
	if decode {
		shift = -shift
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		i, upper, ok := alphabet.position(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(alphabet.shifted(i, shift, upper))
	}
	return b.String()
}

// VigenereCipher shifts each alphabet letter of text by the matching letter
// of key. Characters outside the alphabet pass through and do not consume a
// key letter. Every key letter must belong to the alphabet.
func VigenereCipher(text, key string, alphabet *Alphabet, decode bool) (string, error) {
	shifts := make([]int, 0, len(key))
	for _, r := range strings.TrimSpace(key) {
		i, _, ok := alphabet.position(r)
		if !ok {
			return "", reject(CodeInvalidKey, "key", "the key may only contain letters of the %s alphabet", alphabet.Name)
		}
		shifts = append(shifts, i)
	}
	if len(shifts) == 0 {
		return "", reject(CodeInvalidKey, "key", "enter a key")
	}

	var b strings.Builder
	b.Grow(len(text))
	k := 0
	for _, r := range text {
		i, upper, ok := alphabet.position(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		shift := shifts[k%len(shifts)]
		if decode {
			shift = -shift
		}
		b.WriteRune(alphabet.shifted(i, shift, upper))
		k++
	}
	return b.String(), nil
}
