package parser

import "testing"

func TestFormatExplanationHTML(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bullets then paragraph",
			text: "- item1\n- item2\n\nNormal line",
			want: "<ul><li>item1</li><li>item2</li></ul><br><p>Normal line</p>",
		},
		{
			name: "asterisk bullets",
			text: "* first\n* second",
			want: "<ul><li>first</li><li>second</li></ul>",
		},
		{
			name: "unicode bullets",
			text: "• only",
			want: "<ul><li>only</li></ul>",
		},
		{
			name: "plain paragraphs",
			text: "one\ntwo",
			want: "<p>one</p><p>two</p>",
		},
		{
			name: "leading whitespace trimmed",
			text: "   indented line",
			want: "<p>indented line</p>",
		},
		{
			name: "list closed by paragraph",
			text: "- a\nplain",
			want: "<ul><li>a</li></ul><p>plain</p>",
		},
		{
			name: "blank input",
			text: "",
			want: "",
		},
		{
			name: "whitespace only input",
			text: "  \n\t\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatExplanationHTML(tt.text); got != tt.want {
				t.Errorf("FormatExplanationHTML(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
