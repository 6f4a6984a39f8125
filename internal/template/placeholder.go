package template

import "regexp"

// DefaultPlaceholderPattern recognizes moustache-style substitution headings
// such as "{{ deliverable name }}".
const DefaultPlaceholderPattern = `\{\{.*\}\}`

// PlaceholderMatcher decides whether a template heading denotes a variable
// slot an instance may omit or replace.
type PlaceholderMatcher func(text string) bool

// PlaceholderFromPattern builds a matcher from a regular expression.
func PlaceholderFromPattern(pattern string) (PlaceholderMatcher, error) {
	if pattern == "" {
		pattern = DefaultPlaceholderPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re.MatchString, nil
}
