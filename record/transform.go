package record

import "strconv"

// Transform parses the leading numbers of r.Text and maps each through
// Apply. It never fails.
func Transform(r Raw) Numeric {
	return TransformLine(r.Text)
}

// TransformLine is Transform for a bare line.
func TransformLine(line string) Numeric {
	values := ParseValues(line)
	for i, v := range values {
		values[i] = Apply(v)
	}
	return values
}

// Apply is the per-value transform.
func Apply(v float64) float64 {
	return v*v + 0.5
}

// ParseValues reads numbers from line with a single cursor, the way a
// formatted stream extraction loop does.
//
// At each step leading whitespace is skipped and the longest match of
// [+-] digits [. digits] [(e|E) [+-] digits] is taken from the cursor. Reading
// continues right after the match, even inside the same whitespace-separated
// word, so "1.5.3" yields 1.5 and .3 and "1-2" yields 1 and -2. Reading stops
// at the first position with no match, at an exponent marker with no digits
// ("3e", "1e+"), or at a value outside the float64 range; the failed read adds
// no value. "inf", "nan" and hexadecimal spellings are not numbers: "0x10"
// yields 0 and then stops at "x".
func ParseValues(line string) Numeric {
	values := make(Numeric, 0, 8)
	pos := 0
	for {
		for pos < len(line) && isSpace(line[pos]) {
			pos++
		}
		if pos == len(line) {
			return values
		}
		n, ok := scanNumber(line[pos:])
		if !ok {
			return values
		}
		v, err := strconv.ParseFloat(line[pos:pos+n], 64)
		if err != nil {
			return values
		}
		values = append(values, v)
		pos += n
	}
}

// scanNumber returns the length of the number at the start of s. ok is false
// when s does not start with a mantissa digit (after an optional sign and
// point) or when an exponent marker is not followed by digits.
func scanNumber(s string) (n int, ok bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == exp {
			return 0, false
		}
	}
	return i, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isSpace reports the C locale whitespace set.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
