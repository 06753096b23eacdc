// Package lang renders game output as natural English: enumerations,
// articles, cardinalities and verb forms.
package lang

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gertd/go-pluralize"
)

const (
	DefaultPattern   = "%s"
	DefaultSeparator = ","
	DefaultOperator  = "and"
)

var pluralizer = pluralize.NewClient()

// Singular returns the singular form of a noun.
func Singular(word string) string {
	return pluralizer.Singular(word)
}

// Plural returns the plural form of a noun.
func Plural(word string) string {
	return pluralizer.Plural(word)
}

// Capitalize upcases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Words with misleading leading letters for article selection.
var (
	silentH   = []string{"hour", "honest", "heir", "honor", "honour"}
	hardVowel = []string{"university", "unicorn", "unique", "unit", "user", "one", "once", "euro"}
)

// Article returns the indefinite article ("a" or "an") for word.
func Article(word string) string {
	lower := strings.ToLower(word)
	for _, prefix := range silentH {
		if strings.HasPrefix(lower, prefix) {
			return "an"
		}
	}
	for _, prefix := range hardVowel {
		if strings.HasPrefix(lower, prefix) {
			return "a"
		}
	}
	if lower == "" {
		return "a"
	}
	switch lower[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	case '8':
		// "eight"
		return "an"
	}
	return "a"
}

// Indef prefixes word with its indefinite article.
func Indef(word string) string {
	return fmt.Sprintf("%s %s", Article(word), word)
}

// Articles applies Indef to every word, for enumerating listings.
func Articles(words []string) []string {
	result := make([]string, len(words))
	for i, word := range words {
		result[i] = Indef(word)
	}
	return result
}

var smallCardinals = []string{"no", "", "two", "three"}

// Card renders a counted noun: "no swords", "a sword", "two swords",
// "4 swords".
func Card(count int, word string) string {
	switch {
	case count == 0:
		return fmt.Sprintf("no %s", Plural(word))
	case count == 1:
		return Indef(word)
	case count < len(smallCardinals):
		return fmt.Sprintf("%s %s", smallCardinals[count], Plural(word))
	}
	return fmt.Sprintf("%s %s", strconv.Itoa(count), Plural(word))
}

type Tense int

const (
	None Tense = iota
	Present
	Past
)

// Enumerator renders string lists as natural English enumerations,
// e.g. "a lamp, a sword, and a key".
type Enumerator struct {
	Pattern   string
	Separator string
	Operator  string
	Tense     Tense
}

func (e Enumerator) Do(elements ...string) string {
	pattern, separator, operator := DefaultPattern, DefaultSeparator, DefaultOperator
	if e.Pattern != "" {
		pattern = e.Pattern
	}
	if e.Separator != "" {
		separator = e.Separator
	}
	if e.Operator != "" {
		operator = e.Operator
	}
	res := &bytes.Buffer{}
	for idx, element := range elements {
		if idx+2 < len(elements) {
			fmt.Fprintf(res, fmt.Sprintf("%s%%s ", pattern), element, separator)
		} else if idx+1 < len(elements) {
			// Oxford comma for three or more.
			sep := ""
			if len(elements) > 2 {
				sep = separator
			}
			fmt.Fprintf(res, fmt.Sprintf("%s%%s %%s ", pattern), element, sep, operator)
		} else {
			fmt.Fprintf(res, pattern, element)
		}
	}
	switch e.Tense {
	case Present:
		if len(elements) == 1 {
			fmt.Fprint(res, " is")
		} else {
			fmt.Fprint(res, " are")
		}
	case Past:
		if len(elements) == 1 {
			fmt.Fprint(res, " was")
		} else {
			fmt.Fprint(res, " were")
		}
	}
	return res.String()
}

var irregularThirdPerson = map[string]string{
	"go":   "goes",
	"do":   "does",
	"have": "has",
	"be":   "is",
}

// ThirdPersonSingular conjugates a base verb for "it": stab -> stabs,
// slash -> slashes, carry -> carries.
func ThirdPersonSingular(verb string) string {
	if verb == "" {
		return verb
	}
	if conj, found := irregularThirdPerson[verb]; found {
		return conj
	}
	for _, suffix := range []string{"s", "sh", "ch", "x", "z"} {
		if strings.HasSuffix(verb, suffix) {
			return verb + "es"
		}
	}
	if strings.HasSuffix(verb, "y") && len(verb) > 1 && !strings.ContainsRune("aeiou", rune(verb[len(verb)-2])) {
		return verb[:len(verb)-1] + "ies"
	}
	return verb + "s"
}

// Possessive renders the possessive form of a name: John's, James'.
func Possessive(name string) string {
	if name == "" {
		return name
	}
	if strings.HasSuffix(strings.ToLower(name), "s") {
		return name + "'"
	}
	return name + "'s"
}

// Sentence upcases the first letter and ensures terminal punctuation.
func Sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = Capitalize(s)
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
