package wled

import "testing"

func TestParseGroupMask(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint8
		wantErr bool
	}{
		{
			name:  "single group",
			input: "1",
			want:  1,
		},
		{
			name:  "several groups",
			input: "1,3,5",
			want:  21, // bits 0, 2, 4
		},
		{
			name:  "highest group",
			input: "8",
			want:  128,
		},
		{
			name:  "all groups",
			input: "1,2,3,4,5,6,7,8",
			want:  255,
		},
		{
			name:  "duplicate groups OR together",
			input: "2,2",
			want:  2,
		},
		{
			name:  "spaces around tokens",
			input: " 1, 3 ",
			want:  5,
		},
		{
			name:  "empty means no groups",
			input: "",
			want:  0,
		},
		{
			name:  "whitespace means no groups",
			input: "   ",
			want:  0,
		},
		{
			name:  "none keyword",
			input: "none",
			want:  0,
		},
		{
			name:  "none keyword is case-insensitive",
			input: "NoNe",
			want:  0,
		},
		{
			name:    "zero is out of range",
			input:   "0",
			wantErr: true,
		},
		{
			name:    "nine is out of range",
			input:   "9",
			wantErr: true,
		},
		{
			name:    "negative group",
			input:   "-1",
			wantErr: true,
		},
		{
			name:    "non-numeric token",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "one bad token invalidates the whole input",
			input:   "1,x,3",
			wantErr: true,
		},
		{
			name:  "stray commas are skipped",
			input: "1,,2",
			want:  3,
		},
		{
			name:  "trailing comma",
			input: "4,",
			want:  8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGroupMask(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGroupMask(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !IsValidationError(err) {
					t.Errorf("ParseGroupMask(%q) error should be a validation error, got %v", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseGroupMask(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatGroupMask(t *testing.T) {
	tests := []struct {
		name string
		mask uint8
		want string
	}{
		{"no groups", 0, "none"},
		{"single group", 2, "2"},
		{"several groups", 21, "1,3,5"},
		{"all groups", 255, "1,2,3,4,5,6,7,8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatGroupMask(tt.mask); got != tt.want {
				t.Errorf("FormatGroupMask(%d) = %q, want %q", tt.mask, got, tt.want)
			}
		})
	}
}

func TestGroupMaskRoundTrip(t *testing.T) {
	for mask := 0; mask <= 255; mask++ {
		text := FormatGroupMask(uint8(mask))
		got, err := ParseGroupMask(text)
		if err != nil {
			t.Fatalf("ParseGroupMask(FormatGroupMask(%d)) error = %v", mask, err)
		}
		if got != uint8(mask) {
			t.Errorf("round trip of %d through %q = %d", mask, text, got)
		}
	}
}
