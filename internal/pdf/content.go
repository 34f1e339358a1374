package pdf

import (
	"strings"
)

// textFromContentStream pulls the human-readable text out of a decoded PDF
// content stream by reading the text-show operators (Tj, TJ, ' and ") and
// discarding positioning/graphics instructions. Whitespace is collapsed so a
// page renders as one space-separated line.
func textFromContentStream(content string) string {
	var parts []string

	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.Contains(line, " Tj") && !strings.Contains(line, " TJ") &&
			!strings.Contains(line, "' ") && !strings.Contains(line, "\" ") {
			continue
		}
		parts = append(parts, literalStrings(line)...)
	}

	return collapseWhitespace(cleanExtracted(strings.Join(parts, " ")))
}

// literalStrings extracts every (...) literal from one operator line,
// unescaping the standard PDF escape sequences.
func literalStrings(line string) []string {
	var texts []string
	inText := false
	start := -1

	for i, ch := range line {
		switch {
		case ch == '(' && (i == 0 || line[i-1] != '\\'):
			inText = true
			start = i + 1
		case ch == ')' && inText && (i == 0 || line[i-1] != '\\'):
			if start != -1 && start < i {
				text := line[start:i]
				text = strings.ReplaceAll(text, `\(`, "(")
				text = strings.ReplaceAll(text, `\)`, ")")
				text = strings.ReplaceAll(text, `\\`, `\`)
				text = strings.ReplaceAll(text, `\n`, "\n")
				text = strings.ReplaceAll(text, `\r`, "\r")
				text = strings.ReplaceAll(text, `\t`, "\t")
				if strings.TrimSpace(text) != "" {
					texts = append(texts, text)
				}
			}
			inText = false
			start = -1
		}
	}

	return texts
}

// octalReplacements maps octal escapes commonly produced by PDF generators to
// their readable equivalents.
var octalReplacements = map[string]string{
	`\037`: "",
	`\260`: "°",
	`\256`: "®",
	`\251`: "©",
	`\221`: "'",
	`\231`: "'",
	`\223`: "\"",
	`\224`: "\"",
	`\226`: "-",
	`\227`: "-",
	`\240`: " ",
	`\012`: "\n",
	`\015`: "\r",
	`\011`: "\t",
}

// cleanExtracted resolves octal escapes and strips control/binary characters.
func cleanExtracted(text string) string {
	for octal, replacement := range octalReplacements {
		text = strings.ReplaceAll(text, octal, replacement)
	}

	// Drop any remaining unrecognized 3-digit octal sequences.
	var b strings.Builder
	i := 0
	for i < len(text) {
		if i+3 < len(text) && text[i] == '\\' &&
			isOctalDigit(text[i+1]) && isOctalDigit(text[i+2]) && isOctalDigit(text[i+3]) {
			i += 4
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	text = b.String()

	var out strings.Builder
	for _, ch := range text {
		switch {
		case ch == '\n' || ch == '\r' || ch == '\t':
			out.WriteRune(' ')
		case ch < 32:
			out.WriteRune(' ')
		default:
			out.WriteRune(ch)
		}
	}
	return out.String()
}

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

// collapseWhitespace reduces any run of whitespace to a single space and
// trims the ends.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
