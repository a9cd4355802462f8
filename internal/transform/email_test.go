package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "multiple emails in prose",
			text: "Contact us at support@company.com or sales@company.com. You can also reach John at john.doe@example.org",
			want: []string{"support@company.com", "sales@company.com", "john.doe@example.org"},
		},
		{
			name: "case-insensitive dedup keeps first casing",
			text: "Contact john@EXAMPLE.com and John@example.com",
			want: []string{"john@EXAMPLE.com"},
		},
		{
			name: "exact duplicates collapse",
			text: "a@b.co a@b.co a@b.co",
			want: []string{"a@b.co"},
		},
		{
			name: "no emails",
			text: "nothing to see here @ all",
			want: []string{},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "plus and percent addressing",
			text: "billing+march@corp.io and 100%discount@deals.example.com",
			want: []string{"billing+march@corp.io", "100%discount@deals.example.com"},
		},
		{
			name: "embedded in punctuation",
			text: "Email (jane@site.net), or <bob@site.net>.",
			want: []string{"jane@site.net", "bob@site.net"},
		},
		{
			name: "order preserved",
			text: "z@z.com a@a.com m@m.com",
			want: []string{"z@z.com", "a@a.com", "m@m.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEmails(tt.text))
		})
	}
}
