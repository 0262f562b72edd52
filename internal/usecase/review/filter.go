package review

import (
	"regexp"
	"strings"

	"github.com/jmorgan/prreview/internal/domain"
)

// SplitPatterns splits a comma-separated exclusion list into individual
// patterns, trimming surrounding whitespace from each. An empty input
// yields a single empty pattern, which matches only an empty path.
func SplitPatterns(raw string) []string {
	parts := strings.Split(raw, ",")
	patterns := make([]string, len(parts))
	for i, part := range parts {
		patterns[i] = strings.TrimSpace(part)
	}
	return patterns
}

// FilterFiles returns the files whose NewPath matches none of the
// exclusion patterns. Relative order is preserved. Matching uses
// shell-glob semantics where `*` also crosses path separators, so a
// pattern like `vendor/*` excludes the whole subtree.
func FilterFiles(files []domain.FileDiff, patterns []string) []domain.FileDiff {
	filtered := make([]domain.FileDiff, 0, len(files))
	for _, file := range files {
		if !matchesAny(file.NewPath, patterns) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(pattern, path) {
			return true
		}
	}
	return false
}

// matchGlob reports whether name matches the glob pattern. The whole
// string must match. `*` matches any run of characters including `/`,
// `?` matches a single character, and `[...]` matches a character class
// with `!` negation. A malformed class (no closing bracket) is taken
// literally.
func matchGlob(pattern, name string) bool {
	re, err := regexp.Compile(globToRegexp(pattern))
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

func globToRegexp(pattern string) string {
	var sb strings.Builder
	sb.WriteString(`^`)

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)
		case '[':
			class, consumed := parseCharClass(runes[i:])
			if consumed == 0 {
				sb.WriteString(`\[`)
				continue
			}
			sb.WriteString(class)
			i += consumed - 1
		default:
			sb.WriteString(regexp.QuoteMeta(string(runes[i])))
		}
	}

	sb.WriteString(`$`)
	return sb.String()
}

// parseCharClass converts a `[...]` class starting at runes[0] into its
// regexp form. Returns the class and how many runes it spans, or zero
// when the class is unterminated.
func parseCharClass(runes []rune) (string, int) {
	j := 1
	negated := false
	if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
		negated = true
		j++
	}
	// A `]` directly after the opening bracket is a literal member.
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for j < len(runes) && runes[j] != ']' {
		j++
	}
	if j >= len(runes) {
		return "", 0
	}

	start := 1
	if negated {
		start = 2
	}
	body := string(runes[start:j])
	body = strings.ReplaceAll(body, `\`, `\\`)

	var sb strings.Builder
	sb.WriteString(`[`)
	if negated {
		sb.WriteString(`^`)
	}
	sb.WriteString(body)
	sb.WriteString(`]`)
	return sb.String(), j + 1
}
