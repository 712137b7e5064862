package engine

import "testing"

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"tags", "<i>emphasis</i> and <b>bold</b>", "emphasis and bold"},
		{"entities", "it&#39;s fine &amp; good", "it's fine & good"},
		{"mixed", "  <font color=\"#CCCCCC\">so we&#39;re done</font> ", "so we're done"},
		{"empty", "", ""},
		{"only tags", "<br/><br/>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.in); got != tt.want {
				t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate = %q, want %q", got, "abc")
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate should not pad, got %q", got)
	}
	if got := Truncate("", 5); got != "" {
		t.Errorf("Truncate of empty = %q", got)
	}
}
