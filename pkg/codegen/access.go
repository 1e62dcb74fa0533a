package codegen

import (
	"fmt"
	"strings"
)

// AccessModifier is the closed set of C# accessibility keywords the generator
// emits.
type AccessModifier int

const (
	Public AccessModifier = iota
	Internal
	Protected
	Private
)

var accessKeywords = [...]string{
	Public:    "public",
	Internal:  "internal",
	Protected: "protected",
	Private:   "private",
}

// Keyword returns the C# keyword for the modifier. Values outside the
// enumeration are rejected with ErrInvalidArgument.
func (a AccessModifier) Keyword() (string, error) {
	if !a.Valid() {
		return "", invalidArgument("AccessModifier.Keyword", "accessModifier",
			fmt.Sprintf("unknown access modifier %d", int(a)))
	}
	return accessKeywords[a], nil
}

// Valid reports whether a is one of the four declared modifiers.
func (a AccessModifier) Valid() bool {
	return a >= Public && int(a) < len(accessKeywords)
}

func (a AccessModifier) String() string {
	if !a.Valid() {
		return fmt.Sprintf("AccessModifier(%d)", int(a))
	}
	return accessKeywords[a]
}

// ParseAccessModifier maps a keyword back to its modifier. Matching is case
// insensitive and ignores surrounding whitespace.
func ParseAccessModifier(keyword string) (AccessModifier, error) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	for i, kw := range accessKeywords {
		if kw == k {
			return AccessModifier(i), nil
		}
	}
	return 0, invalidArgument("ParseAccessModifier", "keyword",
		fmt.Sprintf("%q is not an access modifier", keyword))
}
