package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeReply(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name, in, want string
	}{
		{"bold", "**Great** answer", "Great answer"},
		{"italic", "*almost* there", "almost there"},
		{"heading", "## Feedback\nGood work", "Feedback\nGood work"},
		{"bullets", "- first\n- second", "first\nsecond"},
		{"inline code", "use `VLOOKUP` here", "use VLOOKUP here"},
		{"fenced block", "try this:\n```sql\nSELECT 1\n```", "try this:\nSELECT 1"},
		{"blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"plain passes through", "No markdown at all.", "No markdown at all."},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, SanitizeReply(tc.in))
		})
	}
}

