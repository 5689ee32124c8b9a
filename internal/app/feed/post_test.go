package feed

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "plain content passes unchanged",
			content: "hello world",
			want:    "hello world",
		},
		{
			name:    "surrounding whitespace is trimmed",
			content: "  hello world \n",
			want:    "hello world",
		},
		{
			name:    "empty content is rejected",
			content: "",
			wantErr: ErrEmptyContent,
		},
		{
			name:    "whitespace-only content is rejected",
			content: " \t\n ",
			wantErr: ErrEmptyContent,
		},
		{
			name:    "exactly the limit passes",
			content: strings.Repeat("a", MaxContentLength),
			want:    strings.Repeat("a", MaxContentLength),
		},
		{
			name:    "one over the limit is rejected",
			content: strings.Repeat("a", MaxContentLength+1),
			wantErr: ErrContentTooLong,
		},
		{
			name:    "length is counted in codepoints, not bytes",
			content: strings.Repeat("あ", MaxContentLength),
			want:    strings.Repeat("あ", MaxContentLength),
		},
		{
			name:    "trimming happens before the length check",
			content: "  " + strings.Repeat("a", MaxContentLength) + "  ",
			want:    strings.Repeat("a", MaxContentLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateContent(tt.content)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateContent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ValidateContent() returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateContent() = %q, want %q", got, tt.want)
			}
		})
	}
}
