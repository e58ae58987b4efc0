package bytesize

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ByteSize
	}{
		{"1024", 1024},
		{"1Ki", KiB},
		{"64Mi", 64 * MiB},
		{"64MiB", 64 * MiB},
		{"1gi", GiB},
		{"100MB", 100 * MB},
		{"1.5Ki", 1536},
		{" 2 Gi ", 2 * GiB},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "12XB", "-5Mi", "1.2.3"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected an error", in)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	want := 3*GiB + 17
	text, err := want.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var got ByteSize
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %d after round trip, got %d", want, got)
	}
}

func TestString(t *testing.T) {
	if s := (512 * B).String(); s != "512B" {
		t.Errorf("Expected 512B, got %s", s)
	}
	if s := (64 * MiB).String(); s != "64.00MiB" {
		t.Errorf("Expected 64.00MiB, got %s", s)
	}
}

func TestSetFlag(t *testing.T) {
	var b ByteSize
	if err := b.Set("8Mi"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if b != 8*MiB {
		t.Errorf("Expected %d, got %d", 8*MiB, b)
	}
	if b.Type() != "bytesize" {
		t.Errorf("Unexpected flag type %q", b.Type())
	}
}
