package testserver

// matchGlob reports whether s matches the glob pattern used by KEYS:
// '*' matches any sequence, '?' any single character, [abc], [^abc] and [a-z]
// character classes, and '\' escapes the next character.
// Unlike path.Match, '/' is not special.
func matchGlob(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchGlob(pattern, s[i:]) {
					return true
				}
			}
			return false

		case '?':
			if len(s) == 0 {
				return false
			}
			pattern, s = pattern[1:], s[1:]

		case '[':
			if len(s) == 0 {
				return false
			}
			matched, rest, ok := matchClass(pattern[1:], s[0])
			if !ok || !matched {
				return false
			}
			pattern, s = rest, s[1:]

		case '\\':
			if len(pattern) >= 2 {
				pattern = pattern[1:]
			}
			fallthrough

		default:
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		}
	}
	return len(s) == 0
}

// matchClass matches c against the character class starting after '['.
// It returns the remaining pattern after ']'. ok is false for an unterminated class.
func matchClass(pattern string, c byte) (matched bool, rest string, ok bool) {
	negate := false
	if len(pattern) > 0 && pattern[0] == '^' {
		negate = true
		pattern = pattern[1:]
	}

	for i := 0; i < len(pattern); i++ {
		switch {
		case pattern[i] == ']':
			return matched != negate, pattern[i+1:], true
		case pattern[i] == '\\' && i+1 < len(pattern):
			i++
			if pattern[i] == c {
				matched = true
			}
		case i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']':
			lo, hi := pattern[i], pattern[i+2]
			if lo > hi {
				lo, hi = hi, lo
			}
			if c >= lo && c <= hi {
				matched = true
			}
			i += 2
		default:
			if pattern[i] == c {
				matched = true
			}
		}
	}
	return false, "", false
}
