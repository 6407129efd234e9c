package wflpattern

import (
	"fmt"
	"strings"
	"testing"
)

// TestStressLongInput checks the literal and prefilter paths on long subjects.
func TestStressLongInput(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	haystack := strings.Repeat("x", 100000) + "needle"

	m, err := MustCompile(`"needle"`).Find(haystack)
	if err != nil || m == nil || m.Start != 100000 {
		t.Errorf("literal Find() = %v, %v; want match at 100000", m, err)
	}

	m, err = MustCompile(`"need" one or more letter`).Find(haystack)
	if err != nil || m == nil || m.Text != "needle" {
		t.Errorf("prefiltered Find() = %v, %v; want needle", m, err)
	}

	m, err = MustCompile(`"needle" digit`).Find(haystack)
	if err != nil || m != nil {
		t.Errorf("Find() = %v, %v; want nil", m, err)
	}
}

// TestStressManyAlternatives exercises a wide alternation.
func TestStressManyAlternatives(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("%q", fmt.Sprintf("word%d", i))
	}
	p := MustCompile(strings.Join(words, " or "))

	for _, s := range []string{"word0", "word99", "word199"} {
		if ok, err := p.Matches(s); err != nil || !ok {
			t.Errorf("Matches(%q) = %v, %v; want true", s, ok, err)
		}
	}
	if ok, _ := p.Matches("word200"); ok {
		t.Error("Matches(word200) = true; want false")
	}
}

// TestStressDeepNesting compiles captures nested close to the depth limit.
func TestStressDeepNesting(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	depth := 30
	var sb strings.Builder
	for i := 0; i < depth; i++ {
		sb.WriteString("capture { ")
	}
	sb.WriteString(`"a"`)
	for i := depth - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, " } as g%d", i)
	}

	p, err := Compile(sb.String())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	m, err := p.Find("a")
	if err != nil || m == nil {
		t.Fatalf("Find() = %v, %v", m, err)
	}
	if got := len(m.Captures()); got != depth {
		t.Errorf("len(Captures()) = %d; want %d", got, depth)
	}
	if names := p.CaptureNames(); names[0] != "g0" || names[depth-1] != fmt.Sprintf("g%d", depth-1) {
		t.Errorf("CaptureNames() = %v", names)
	}
}

// TestStressManyMatches replaces a large number of matches.
func TestStressManyMatches(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	input := strings.Repeat("ab12 ", 20000)
	got, err := MustCompile(`one or more digit`).Replace(input, "#")
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Repeat("ab# ", 20000); got != want {
		t.Errorf("Replace() produced %d bytes; want %d", len(got), len(want))
	}

	parts, err := MustCompile(`" "`).Split(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 20001 {
		t.Errorf("len(Split()) = %d; want 20001", len(parts))
	}
}

// TestStressBacktrackingBounded checks that nested loops give up instead of
// running for exponential time.
func TestStressBacktrackingBounded(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	p := MustCompile(`one or more { one or more { one or more letter } } digit`)
	for _, n := range []int{25, 50, 100} {
		ok, err := p.Matches(strings.Repeat("a", n))
		if ok {
			t.Errorf("Matches(%d a's) = true", n)
		}
		if err == nil {
			t.Errorf("Matches(%d a's) finished without hitting the step limit", n)
		}
	}
}
