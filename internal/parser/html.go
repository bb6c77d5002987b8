package parser

import "strings"

// bulletPrefixes are the markers that open or continue a list.
var bulletPrefixes = []string{"- ", "* ", "• "}

// FormatExplanationHTML renders plain explanation text as HTML. Bulleted
// lines become <li> items inside a <ul>, blank lines close any open list
// and emit <br>, and every other non-empty line becomes a <p> paragraph.
// Blank input yields the empty string.
func FormatExplanationHTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var b strings.Builder
	inList := false
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)

		if stripped == "" {
			if inList {
				b.WriteString("</ul>")
				inList = false
			}
			b.WriteString("<br>")
			continue
		}

		if item, ok := bulletItem(stripped); ok {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>" + item + "</li>")
			continue
		}

		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		b.WriteString("<p>" + stripped + "</p>")
	}

	if inList {
		b.WriteString("</ul>")
	}
	return b.String()
}

func bulletItem(stripped string) (string, bool) {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(stripped, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(stripped, prefix)), true
		}
	}
	return "", false
}
