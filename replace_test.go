package wflpattern

import (
	"reflect"
	"strings"
	"testing"
)

const ssnPattern = `exactly 3 digit "-" exactly 2 digit "-" exactly 4 digit`

func TestReplace(t *testing.T) {
	tests := []struct {
		pattern string
		src     string
		repl    string
		want    string
	}{
		{ssnPattern, "SSN: 123-45-6789 and ID: 987-65-4321", "XXX-XX-XXXX", "SSN: XXX-XX-XXXX and ID: XXX-XX-XXXX"},
		{`"world"`, "hello world", "Go", "hello Go"},
		{`one or more digit`, "a1b22c333", "#", "a#b#c#"},
		{`one or more whitespace`, "a  b \t c", "", "abc"},
		{`"zzz"`, "abc", "X", "abc"},
		{`one or more digit`, "price 10", "$1", "price $1"}, // taken literally
		{`zero or more digit`, "ab", "-", "-a-b-"},
		{`zero or more digit`, "a1", "-", "-a--"},
		{`at start of text "a"`, "aaa", "b", "baa"},
		{`"a" at end of text`, "aaa", "b", "aab"},
	}

	for _, tt := range tests {
		got, err := MustCompile(tt.pattern).Replace(tt.src, tt.repl)
		if err != nil {
			t.Errorf("Replace(%q, %q, %q) error = %v", tt.pattern, tt.src, tt.repl, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Replace(%q, %q, %q) = %q; want %q", tt.pattern, tt.src, tt.repl, got, tt.want)
		}
	}
}

func TestReplaceFixedPoint(t *testing.T) {
	p := MustCompile(ssnPattern)
	once, err := p.Replace("SSN: 123-45-6789 and ID: 987-65-4321", "XXX-XX-XXXX")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := p.Replace(once, "XXX-XX-XXXX")
	if err != nil {
		t.Fatal(err)
	}
	if twice != once {
		t.Errorf("second Replace = %q; want %q", twice, once)
	}
}

func TestReplaceTemplate(t *testing.T) {
	tests := []struct {
		pattern string
		src     string
		tmpl    string
		want    string
	}{
		{phonePattern, "(555) 123-4567", "$area_code.${exchange}.$number", "555.123.4567"},
		{phonePattern, "call (555) 123-4567", "[$0]", "call [(555) 123-4567]"},
		{`one or more digit`, "cost 100", "$$$0", "cost $100"},
		{`capture { one or more digit } as n`, "x=123", "${n}0", "x=1230"},
		{`capture { one or more digit } as n`, "x=1", "$missing|", "x=|"},
		{`capture { one or more digit } as n`, "x=1", "${n", "x=${n"},
		{`capture { one or more digit } as n`, "x=1", "n$", "x=n$"},
		{`capture { one or more digit } as n`, "x=1", "$-", "x=$-"},
		{`"a" optional capture { "b" } as b`, "a ab", "<$b>", "<> <b>"},
	}

	for _, tt := range tests {
		got, err := MustCompile(tt.pattern).ReplaceTemplate(tt.src, tt.tmpl)
		if err != nil {
			t.Errorf("ReplaceTemplate(%q, %q) error = %v", tt.src, tt.tmpl, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReplaceTemplate(%q, %q) = %q; want %q", tt.src, tt.tmpl, got, tt.want)
		}
	}
}

func TestReplaceFunc(t *testing.T) {
	p := MustCompile(`one or more letter`)
	got, err := p.ReplaceFunc("ab 12 cd", func(m *Match) string {
		return strings.ToUpper(m.Text)
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := "AB 12 CD"; got != want {
		t.Errorf("ReplaceFunc() = %q; want %q", got, want)
	}

	var offsets []int
	_, err = p.ReplaceFunc("x yy zzz", func(m *Match) string {
		offsets = append(offsets, m.Start)
		return ""
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 2, 5}; !reflect.DeepEqual(offsets, want) {
		t.Errorf("ReplaceFunc saw offsets %v; want %v", offsets, want)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		pattern string
		src     string
		want    []string
	}{
		{`"," or ";" or "|"`, "apple,banana;orange|grape", []string{"apple", "banana", "orange", "grape"}},
		{`","`, "no separators", []string{"no separators"}},
		{`","`, ",a,", []string{"", "a", ""}},
		{`","`, "", []string{""}},
		{`one or more whitespace`, "a  b\tc", []string{"a", "b", "c"}},
		{`optional ","`, "ab", []string{"", "a", "b", ""}},
	}

	for _, tt := range tests {
		got, err := MustCompile(tt.pattern).Split(tt.src)
		if err != nil {
			t.Errorf("Split(%q, %q) error = %v", tt.pattern, tt.src, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q, %q) = %q; want %q", tt.pattern, tt.src, got, tt.want)
		}
	}
}

func TestSplitSeqStopsEarly(t *testing.T) {
	p := MustCompile(`","`)
	var got []string
	for part, err := range p.SplitSeq("a,b,c,d") {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, part)
		if len(got) == 2 {
			break
		}
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSeq() = %q; want %q", got, want)
	}
}

func TestMatchExpand(t *testing.T) {
	m, err := MustCompile(phonePattern).Find("(555) 123-4567")
	if err != nil || m == nil {
		t.Fatalf("Find() = %v, %v", m, err)
	}
	if got, want := m.Expand("$number/$area_code"), "4567/555"; got != want {
		t.Errorf("Expand() = %q; want %q", got, want)
	}
}
