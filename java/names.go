package java

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/stubgen/java/signature"
)

var reservedWords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch",
	"char", "class", "const", "continue", "default", "do", "double",
	"else", "enum", "extends", "final", "finally", "float", "for", "goto",
	"if", "implements", "import", "instanceof", "int", "interface", "long",
	"native", "new", "package", "private", "protected", "public", "return",
	"short", "static", "strictfp", "super", "switch", "synchronized",
	"this", "throw", "throws", "transient", "try", "void", "volatile",
	"while", "true", "false", "null", "_",
}

// IsReserved reports whether name cannot be used as an identifier.
func IsReserved(name string) bool {
	for _, word := range reservedWords {
		if word == name {
			return true
		}
	}
	return false
}

// NameSet tracks the identifiers taken in one parameter list. A new set
// already holds the reserved words.
type NameSet map[string]struct{}

func NewNameSet() NameSet {
	s := NameSet{}
	for _, word := range reservedWords {
		s[word] = struct{}{}
	}
	return s
}

func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Claim takes name if it is free and reports whether it did.
func (s NameSet) Claim(name string) bool {
	if s.Contains(name) {
		return false
	}
	s[name] = struct{}{}
	return true
}

// Reserve takes suggested, or the first of suggested2, suggested3, ...
// that is free, and returns the name taken.
func (s NameSet) Reserve(suggested string) string {
	if s.Claim(suggested) {
		return suggested
	}
	for i := 2; ; i++ {
		name := suggested + strconv.Itoa(i)
		if s.Claim(name) {
			return name
		}
	}
}

// SuggestName derives a parameter name from the simple name of its type:
// type arguments and array brackets are dropped, the first letter is
// lower-cased, and boolean becomes bool.
func SuggestName(t signature.Type) string {
	str := signature.SimpleString(t)
	if i := strings.IndexAny(str, "<["); i >= 0 {
		str = str[:i]
	}
	if i := strings.LastIndexByte(str, '.'); i >= 0 {
		str = str[i+1:]
	}
	if str == "boolean" {
		return "bool"
	}
	r, size := utf8.DecodeRuneInString(str)
	if size == 0 {
		return "arg"
	}
	return string(unicode.ToLower(r)) + str[size:]
}
