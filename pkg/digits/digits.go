package digits

import "strings"

// Arabic-Indic digits: ٠١٢٣٤٥٦٧٨٩
// Latin digits:        0123456789
var arabicToLatin = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

var latinToArabic = map[rune]rune{
	'0': '٠', '1': '١', '2': '٢', '3': '٣', '4': '٤',
	'5': '٥', '6': '٦', '7': '٧', '8': '٨', '9': '٩',
}

// ToASCII converts Arabic-Indic digits to Latin ("French") digits.
// Every other character is kept as is.
func ToASCII(input string) string {
	return mapRunes(input, arabicToLatin)
}

// ToArabic converts Latin digits to Arabic-Indic digits
func ToArabic(input string) string {
	return mapRunes(input, latinToArabic)
}

// ContainsArabic reports whether input has at least one Arabic-Indic digit
func ContainsArabic(input string) bool {
	return strings.IndexFunc(input, func(r rune) bool {
		_, ok := arabicToLatin[r]
		return ok
	}) >= 0
}

// ContainsASCII reports whether input has at least one Latin digit
func ContainsASCII(input string) bool {
	return strings.IndexFunc(input, func(r rune) bool {
		return r >= '0' && r <= '9'
	}) >= 0
}

func mapRunes(input string, table map[rune]rune) string {
	if input == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(input))
	for _, char := range input {
		if mapped, found := table[char]; found {
			result.WriteRune(mapped)
		} else {
			result.WriteRune(char)
		}
	}

	return result.String()
}
