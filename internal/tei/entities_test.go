package tei

import "testing"

func TestInternalEntities(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want map[string]string
	}{
		{"no doctype", `<TEI/>`, nil},
		{"external only", `<!DOCTYPE TEI SYSTEM "tei.dtd"><TEI/>`, nil},
		{
			"literal values",
			`<!DOCTYPE TEI [<!ENTITY a "Alpha"><!ENTITY b 'Beta'>]><TEI/>`,
			map[string]string{"a": "Alpha", "b": "Beta"},
		},
		{
			"nested and first wins",
			`<!DOCTYPE TEI [ <!ENTITY a "A"> <!ENTITY a "X"> <!ENTITY ab "&a;B&c;"> ] ><TEI/>`,
			map[string]string{"a": "A", "ab": "AB&c;"},
		},
		{
			"parameter entities skipped",
			`<!DOCTYPE TEI [<!ENTITY % p "x"><!ENTITY g "y">]><TEI/>`,
			map[string]string{"g": "y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := internalEntities([]byte(tt.doc))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
