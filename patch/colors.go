package patch

import "regexp"

// CanonicalColor replaces legacy accent colors.
const CanonicalColor = "#8bc34a"

var legacyColors = regexp.MustCompile(`(?i)#(adff2f|61dafb)`)

// UnifyColorLiterals rewrites legacy accent colors to CanonicalColor. Only
// "#" and six digits are matched, surrounding text is not checked.
func UnifyColorLiterals(text string) (string, int) {
	n := len(legacyColors.FindAllStringIndex(text, -1))
	if n == 0 {
		return text, 0
	}
	return legacyColors.ReplaceAllLiteralString(text, CanonicalColor), n
}
