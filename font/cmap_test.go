package font

import (
	"errors"
	"testing"
)

// identityCMap is the shape most producers write for Identity-H fonts
const identityCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0003> <0020>
<0024> <0041>
<0025> <0042>
endbfchar
2 beginbfrange
<0044> <0046> <0061>
<0050> <0052> [<0058> <0059> <005A>]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func mustParse(t *testing.T, data string) *CMap {
	t.Helper()
	cm, err := ParseCMap([]byte(data))
	if err != nil {
		t.Fatalf("ParseCMap() error: %v", err)
	}
	return cm
}

// ============================================================================
// Lookup Tests
// ============================================================================

func TestCMapLookup(t *testing.T) {
	cm := mustParse(t, identityCMap)

	tests := []struct {
		code   []byte
		want   string
		wantOK bool
	}{
		{[]byte{0x00, 0x03}, " ", true},
		{[]byte{0x00, 0x24}, "A", true},
		{[]byte{0x00, 0x44}, "a", true},
		{[]byte{0x00, 0x46}, "c", true},
		{[]byte{0x00, 0x51}, "Y", true},
		{[]byte{0x00, 0x47}, "", false},
		{[]byte{0x24}, "", false}, // same value, different length
	}

	for _, tt := range tests {
		got, ok := cm.Lookup(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(% X) = %q, %v, want %q, %v", tt.code, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCMapDecode(t *testing.T) {
	cm := mustParse(t, identityCMap)

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"two byte codes", []byte{0x00, 0x24, 0x00, 0x25}, "AB"},
		{"range and array", []byte{0x00, 0x44, 0x00, 0x03, 0x00, 0x52}, "a Z"},
		{"unmapped dropped", []byte{0x00, 0x24, 0x01, 0x00, 0x00, 0x25}, "AB"},
		{"truncated code", []byte{0x00, 0x24, 0x00}, "A"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cm.Decode(tt.in); got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCMapMixedCodespace(t *testing.T) {
	// one-byte codes below 0x80, two-byte codes from 0x8140
	cm := mustParse(t, `2 begincodespacerange
<00> <7F>
<8140> <9FFC>
endcodespacerange
2 beginbfchar
<41> <0041>
<8144> <3042>
endbfchar`)

	if got := cm.Decode([]byte{0x41, 0x81, 0x44, 0x41}); got != "AあA" {
		t.Errorf("Decode() = %q, want %q", got, "AあA")
	}
}

func TestCMapWithoutCodespace(t *testing.T) {
	cm := mustParse(t, "1 beginbfchar <0001> <00E9> endbfchar")

	if got := cm.Decode([]byte{0x00, 0x01, 0x00, 0x01}); got != "éé" {
		t.Errorf("Decode() = %q", got)
	}
}

func TestCMapDestinations(t *testing.T) {
	cm := mustParse(t, `1 begincodespacerange <00> <FF> endcodespacerange
4 beginbfchar
<01> <FEFF0041>
<02> <D83DDE00>
<03> <00660069>
<04> <42>
endbfchar`)

	tests := []struct {
		code byte
		want string
	}{
		{0x01, "A"},
		{0x02, "😀"},
		{0x03, "fi"},
		{0x04, "B"},
	}

	for _, tt := range tests {
		if got, _ := cm.Lookup([]byte{tt.code}); got != tt.want {
			t.Errorf("Lookup(%02X) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCMapRangeAdvancesLastRune(t *testing.T) {
	cm := mustParse(t, "1 beginbfrange <10> <12> <00660066> endbfrange")

	if got, _ := cm.Lookup([]byte{0x12}); got != "fh" {
		t.Errorf("Lookup(12) = %q, want fh", got)
	}
}

// ============================================================================
// Error Tests
// ============================================================================

func TestParseCMapErrors(t *testing.T) {
	if _, err := ParseCMap([]byte("1 begincodespacerange <00> <FF> endcodespacerange")); !errors.Is(err, ErrNoMappings) {
		t.Errorf("ParseCMap() error = %v, want ErrNoMappings", err)
	}
	if _, err := ParseCMap([]byte("1 beginbfchar <01 endbfchar")); err == nil {
		t.Error("expected error for an unclosed hex string")
	}
}

func TestNilCMapDecode(t *testing.T) {
	var cm *CMap
	if got := cm.Decode([]byte("abc")); got != "abc" {
		t.Errorf("Decode() = %q", got)
	}
}
