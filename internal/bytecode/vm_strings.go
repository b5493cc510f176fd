package bytecode

// String opcodes operate on raw bytes by default, matching the source
// Rust runtime's use of String::len()/slicing — multi-byte UTF-8
// characters misbehave under this mode, exactly as documented in
// DESIGN.md's Open Questions. WithCodePointStrings switches the VM to the
// rune-correct variants below instead.

func stringLen(codePoints bool, s string) int {
	if codePoints {
		return len([]rune(s))
	}
	return len(s)
}

// stringIndexChar returns the 1-based single-character slice of s at
// index, or EmptyValue if index isn't a positive integer within range.
func stringIndexChar(codePoints bool, s string, index float64) Value {
	if index != float64(int64(index)) || index <= 0 {
		return EmptyValue()
	}
	i := int(index)
	if codePoints {
		runes := []rune(s)
		if i > len(runes) {
			return EmptyValue()
		}
		return StringValue(string(runes[i-1 : i]))
	}
	if i > len(s) {
		return EmptyValue()
	}
	return StringValue(s[i-1 : i])
}
