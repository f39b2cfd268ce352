package imageref

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	// maxUnwrapRounds bounds how many serialisation layers are peeled off a
	// single text value.
	maxUnwrapRounds = 5

	// maxNestingDepth bounds how deep array elements are re-normalised.
	maxNestingDepth = 5
)

// urlPattern matches an absolute http(s) URL embedded in arbitrary text.
var urlPattern = regexp.MustCompile(`https?://[^\s"'\\\]]+`)

// fragment is a piece of text still waiting to be normalised.
type fragment struct {
	text  string
	depth int
}

// Normalize converts an image-list encoding into an ordered list of absolute
// URLs. It never fails: unrecoverable input yields an empty list, partially
// recoverable input yields whatever URLs could be found. The result is never
// nil and applying Normalize to List(result) returns result unchanged.
func Normalize(enc Encoding) []string {
	var roots []string
	switch enc.kind {
	case kindText:
		if s := strings.TrimSpace(enc.text); s != "" {
			roots = append(roots, s)
		}
	case kindList:
		for _, item := range enc.items {
			if s := strings.TrimSpace(item); s != "" {
				roots = append(roots, s)
			}
		}
	}

	out := make([]string, 0, len(roots))

	stack := make([]fragment, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, fragment{text: roots[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if isURL(f.text) {
			out = append(out, f.text)
			continue
		}

		value, ok := unwrap(f.text)
		if !ok {
			out = append(out, extractURLs(f.text)...)
			continue
		}

		switch v := value.(type) {
		case []any:
			children := elementFragments(v, f.depth+1)
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		case string:
			s := strings.TrimSpace(v)
			switch {
			case s == "":
			case isURL(s):
				out = append(out, s)
			default:
				out = append(out, extractURLs(s)...)
			}
		default:
			out = append(out, extractURLs(f.text)...)
		}
	}

	return out
}

// NormalizeText is a convenience for callers holding a single stored value.
func NormalizeText(s string) []string {
	return Normalize(Text(s))
}

// elementFragments selects the elements of a decoded array that are worth
// normalising further. URLs pass through as-is, nested encodings are queued
// one level deeper, everything else is dropped.
func elementFragments(elems []any, depth int) []fragment {
	var children []fragment
	for _, elem := range elems {
		s, ok := elem.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		switch {
		case s == "":
		case looksEncoded(s):
			if depth > maxNestingDepth {
				for _, u := range extractURLs(s) {
					children = append(children, fragment{text: u, depth: depth})
				}
				continue
			}
			children = append(children, fragment{text: s, depth: depth})
		case isURL(s):
			children = append(children, fragment{text: s, depth: depth})
		}
	}
	return children
}

// unwrap peels serialisation layers off s. It reports false when not even
// the first layer could be decoded.
func unwrap(s string) (any, bool) {
	var current any = s
	parsed := false

	for round := 0; round < maxUnwrapRounds; round++ {
		text, ok := current.(string)
		if !ok {
			break
		}
		next, ok := decodeLayer(text)
		if !ok {
			break
		}
		current = next
		parsed = true
	}

	return current, parsed
}

// decodeLayer decodes one JSON layer. A value wrapped in one extra pair of
// matching quotes that is not itself valid JSON is retried without them.
func decodeLayer(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, true
	}

	if inner, ok := stripQuotes(s); ok {
		if err := json.Unmarshal([]byte(inner), &v); err == nil {
			return v, true
		}
	}

	return nil, false
}

func stripQuotes(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	first, last := s[0], s[len(s)-1]
	if first != last || (first != '"' && first != '\'') {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func looksEncoded(s string) bool {
	switch s[0] {
	case '[', '{', '"':
		return true
	}
	return false
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http")
}

func extractURLs(s string) []string {
	return urlPattern.FindAllString(s, -1)
}
