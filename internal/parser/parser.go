// Package parser recovers structure from raw model output: fenced code
// blocks with optional line-range headers, the prose interleaved between
// them, and precise edit records. Model output is not fully controllable,
// so every malformed shape degrades to a best-effort fallback; this package
// never returns an error.
package parser

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/Kaztic/crosshair/pkg/models"
)

const fence = "```"

// SegmentKind distinguishes prose from fence contents.
type SegmentKind int

const (
	// SegmentText is prose outside any fence.
	SegmentText SegmentKind = iota
	// SegmentCode is the raw content of one fence.
	SegmentCode
)

// Segment is one slice of the raw response, in original order.
type Segment struct {
	Kind    SegmentKind
	Content string
}

// Result is the structured form of a model response.
type Result struct {
	// Code is every fence block re-wrapped in fences, with recognized
	// line-spec headers re-attached, joined by blank lines in original
	// order.
	Code string
	// Explanation is the interleaved prose rendered as HTML.
	Explanation string
	// Edits are the precisely-located replacements extracted from Code.
	// Always empty in whole-file mode.
	Edits []models.CodeEdit
}

// block is one fence after header handling.
type block struct {
	lineSpec string // "start:end:filepath" when recognized, else ""
	code     string
}

// specRe matches a strict line-specification header.
var specRe = regexp.MustCompile(`^(\d+):(\d+):([^\n]+)$`)

// Tokenize splits raw text on the triple-backtick delimiter into an
// alternating sequence of prose and fence-content segments.
func Tokenize(raw string) []Segment {
	parts := strings.Split(raw, fence)
	segments := make([]Segment, 0, len(parts))
	for i, part := range parts {
		kind := SegmentText
		if i%2 == 1 {
			kind = SegmentCode
		}
		segments = append(segments, Segment{Kind: kind, Content: part})
	}
	return segments
}

// Parse turns a raw model response into its structured form. When wholeFile
// is true no precise edits are extracted.
func Parse(raw string, wholeFile bool) Result {
	segments := Tokenize(raw)

	var blocks []block
	var prose []string
	for _, seg := range segments {
		if seg.Kind == SegmentText {
			prose = append(prose, seg.Content)
			continue
		}
		blocks = append(blocks, parseBlock(seg.Content))
	}

	var code, explanation string
	if len(blocks) > 0 {
		formatted := make([]string, len(blocks))
		for i, b := range blocks {
			formatted[i] = fence + b.lineSpec + "\n" + b.code + fence
		}
		code = strings.Join(formatted, "\n\n")
		explanation = strings.TrimSpace(strings.Join(prose, "\n"))
	} else {
		// No fence pair at all: scan line by line, toggling on bare
		// fence lines.
		code, explanation = scanLines(raw)
	}

	explanation = FormatExplanationHTML(explanation)

	// Never discard the model's output entirely.
	if code == "" && explanation == "" {
		code = raw
		explanation = "<p>" + raw + "</p>"
	}

	result := Result{Code: code, Explanation: explanation}
	if !wholeFile {
		result.Edits = extractEdits(code)
	}
	return result
}

// parseBlock interprets the first line of a fence as either a
// startLine:endLine:filepath header, a language tag to strip, or part of
// the code itself.
func parseBlock(content string) block {
	content = strings.TrimSpace(content)
	lines := strings.SplitN(content, "\n", 2)
	header := lines[0]
	body := ""
	if len(lines) > 1 {
		body = lines[1]
	}

	if strings.Count(header, ":") >= 2 {
		fields := strings.SplitN(header, ":", 3)
		_, startErr := strconv.Atoi(fields[0])
		_, endErr := strconv.Atoi(fields[1])
		if startErr == nil && endErr == nil {
			return block{lineSpec: header, code: body}
		}
		log.Printf("warning: dropping malformed line spec %q", header)
	}

	if isLanguageTag(header) && len(lines) > 1 {
		return block{code: body}
	}
	return block{code: content}
}

// isLanguageTag reports whether a fence header line looks like a language
// name rather than code: non-empty, no leading space, at most two words.
func isLanguageTag(line string) bool {
	return line != "" && !strings.HasPrefix(line, " ") && len(strings.Fields(line)) <= 2
}

// extractEdits re-scans the reassembled code representation for blocks with
// a strict digits:digits:filepath header. Blocks whose header failed
// integer parsing were already re-rendered bare and never match.
func extractEdits(code string) []models.CodeEdit {
	parts := strings.Split(code, fence)
	var edits []models.CodeEdit
	for i := 1; i < len(parts); i += 2 {
		header, body, _ := strings.Cut(parts[i], "\n")
		m := specRe.FindStringSubmatch(header)
		if m == nil {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		edits = append(edits, models.CodeEdit{
			StartLine: start,
			EndLine:   end,
			Filepath:  m[3],
			Code:      body,
		})
	}
	return edits
}

// scanLines is the degenerate fallback for responses without a fence pair:
// an "inside code" flag toggles on lines that are exactly a fence delimiter
// after trimming, and each other line lands in the code or explanation
// buffer according to the flag.
func scanLines(raw string) (code, explanation string) {
	var codeLines, explanationLines []string
	inCode := false
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.TrimSpace(line) == fence:
			inCode = !inCode
		case inCode:
			codeLines = append(codeLines, line)
		default:
			explanationLines = append(explanationLines, line)
		}
	}
	return strings.Join(codeLines, "\n"), strings.Join(explanationLines, "\n")
}

// ExtractFirstBlock returns the contents of the first fence block with any
// leading language-tag or line-spec header line removed. Text without a
// fence pair is returned unchanged.
func ExtractFirstBlock(text string) string {
	parts := strings.Split(text, fence)
	if len(parts) < 3 {
		return text
	}
	content := strings.TrimSpace(parts[1])
	lines := strings.SplitN(content, "\n", 2)
	if len(lines) > 1 && isLanguageTag(lines[0]) {
		return lines[1]
	}
	return content
}
