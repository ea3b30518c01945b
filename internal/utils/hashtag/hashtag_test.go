package hashtag_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"wiki-triggers/internal/utils/hashtag"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single tag",
			text: "Fixed a typo #copyedit",
			want: []string{"copyedit"},
		},
		{
			name: "multiple tags",
			text: "#wikipedia edit for #Coffee article",
			want: []string{"wikipedia", "Coffee"},
		},
		{
			name: "duplicates collapsed",
			text: "#test again #test",
			want: []string{"test"},
		},
		{
			name: "numeric only ignored",
			text: "see section #2",
			want: nil,
		},
		{
			name: "no tags",
			text: "plain edit summary",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hashtag.Extract(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}
