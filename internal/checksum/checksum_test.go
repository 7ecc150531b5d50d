package checksum

import "testing"

func TestSum_Known(t *testing.T) {
	got := Sum([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Sum = %q, want %q", got, want)
	}
}

func TestETag_Quoted(t *testing.T) {
	tag := ETag([]byte("abc"))
	if tag != `"ba7816bf8f01cfea"` {
		t.Errorf("ETag = %s", tag)
	}
}

func TestMatchETag(t *testing.T) {
	tag := `"ba7816bf8f01cfea"`
	tests := []struct {
		name   string
		values []string
		want   bool
	}{
		{"absent", nil, false},
		{"exact", []string{tag}, true},
		{"list", []string{`"aaa", ` + tag + `, "bbb"`}, true},
		{"weak", []string{`W/` + tag}, true},
		{"wildcard", []string{"*"}, true},
		{"second header", []string{`"aaa"`, tag}, true},
		{"no match", []string{`"aaa", W/"bbb"`}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchETag(tt.values, tag); got != tt.want {
				t.Errorf("MatchETag(%q) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
