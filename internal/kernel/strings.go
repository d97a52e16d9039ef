package kernel

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-sif/optimus"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StringFunc lifts a string transform into a ValueFunc. Non-null values are
// coerced to strings first; nulls stay null.
func StringFunc(fn func(string) string) optimus.ValueFunc {
	return func(v interface{}) (interface{}, error) {
		s, ok := ToString(v)
		if !ok {
			return nil, nil
		}
		return fn(s), nil
	}
}

// Proper capitalizes the first letter of every word
func Proper(s string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		defer func() { prev = r }()
		if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
			return unicode.ToTitle(r)
		}
		return unicode.ToLower(r)
	}, s)
}

// Reverse reverses the runes of s
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// RemoveAccents decomposes s and drops every non-ASCII rune
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	res, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return res
}

var specialChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// RemoveSpecialChars drops every character which is not an ASCII letter or digit
func RemoveSpecialChars(s string) string {
	return specialChars.ReplaceAllString(s, "")
}

// RemoveWhiteSpaces drops all whitespace
func RemoveWhiteSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ReplaceChars replaces every occurrence of search[i] with replaceBy[i]. A single
// replacement is used for every search string.
func ReplaceChars(search []string, replaceBy []string) func(string) string {
	pairs := make([]string, 0, 2*len(search))
	for i, s := range search {
		if len(s) == 0 {
			continue
		}
		var r string
		if len(replaceBy) == 1 {
			r = replaceBy[0]
		} else if i < len(replaceBy) {
			r = replaceBy[i]
		}
		pairs = append(pairs, s, r)
	}
	replacer := strings.NewReplacer(pairs...)
	return replacer.Replace
}

// compiled patterns, shared by every mask and replace built from the same expression
var patterns, _ = lru.New(256)

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Add(pattern, re)
	return re, nil
}

// ReplaceWords replaces whole words found in search with replaceBy
func ReplaceWords(search []string, replaceBy string) func(string) string {
	if len(search) == 0 {
		return func(s string) string { return s }
	}
	quoted := make([]string, len(search))
	for i, s := range search {
		quoted[i] = regexp.QuoteMeta(s)
	}
	re, _ := compile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return func(s string) string {
		return re.ReplaceAllLiteralString(s, replaceBy)
	}
}

// ReplaceFull replaces values which are entirely equal to one of search
func ReplaceFull(search []string, replaceBy string) func(string) string {
	set := make(map[string]struct{}, len(search))
	for _, s := range search {
		set[s] = struct{}{}
	}
	return func(s string) string {
		if _, ok := set[s]; ok {
			return replaceBy
		}
		return s
	}
}

// Strings transforms which take no parameters, by Action
var stringTransforms = map[optimus.Action]func(string) string{
	optimus.Lower:              strings.ToLower,
	optimus.Upper:              strings.ToUpper,
	optimus.Proper:             Proper,
	optimus.Trim:               strings.TrimSpace,
	optimus.Reverse:            Reverse,
	optimus.RemoveAccents:      RemoveAccents,
	optimus.RemoveSpecialChars: RemoveSpecialChars,
	optimus.RemoveWhiteSpaces:  RemoveWhiteSpaces,
}

// String returns the ValueFunc implementing a string Action
func String(action optimus.Action) (optimus.ValueFunc, bool) {
	fn, ok := stringTransforms[action]
	if !ok {
		return nil, false
	}
	return StringFunc(fn), true
}

// Match produces a ValueFunc testing values against a regular expression
func Match(pattern string) (optimus.ValueFunc, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return func(v interface{}) (interface{}, error) {
		s, ok := ToString(v)
		if !ok {
			return false, nil
		}
		return re.MatchString(s), nil
	}, nil
}
