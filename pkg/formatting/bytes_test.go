package formatting_test

import (
	"testing"

	"github.com/JaimeStill/docqa/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"512B", 512, false},
		{"1KB", 1024, false},
		{"50MB", 50 << 20, false},
		{"10mb", 10 << 20, false},
		{"100 MB", 100 << 20, false},
		{"  2GB ", 2 << 30, false},
		{"1.5KB", 1536, false},
		{"", 0, true},
		{"50XX", 0, true},
		{"MB", 0, true},
		{"-5MB", 0, true},
		{"1.2.3MB", 0, true},
		{"9000000TB", 0, true},
		{"1PB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 1, "0 B"},
		{500, 1, "500 B"},
		{2048, 1, "2.0 KB"},
		{1536 * 1024, 1, "1.5 MB"},
		{50 << 20, 0, "50 MB"},
		{1024, -1, "1 KB"},
		{5 << 40, 1, "5.0 TB"},
		{2048 << 40, 0, "2048 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}
