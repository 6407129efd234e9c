package prefilter

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		literals []string
		wantErr  bool
	}{
		{"single", []string{"abc"}, false},
		{"several", []string{"http", "ftp"}, false},
		{"none", nil, true},
		{"empty literal", []string{"a", ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.literals)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v; wantErr %v", tt.literals, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNoLiterals) {
				t.Errorf("New(%q) error = %v; want ErrNoLiterals", tt.literals, err)
			}
		})
	}
}

func TestNext(t *testing.T) {
	p, err := New([]string{"cat", "dog"})
	if err != nil {
		t.Fatal(err)
	}
	h := []byte("a dog and a cat")
	tests := []struct {
		at   int
		want int
	}{
		{0, 2},
		{2, 2},
		{3, 12},
		{12, 12},
		{13, -1},
		{len(h), -1},
		{100, -1},
	}
	for _, tt := range tests {
		if got := p.Next(h, tt.at); got != tt.want {
			t.Errorf("Next(%q, %d) = %d; want %d", h, tt.at, got, tt.want)
		}
	}
	if !p.IsMatch(h) {
		t.Errorf("IsMatch(%q) = false; want true", h)
	}
	if p.IsMatch([]byte("cow")) {
		t.Errorf("IsMatch(%q) = true; want false", "cow")
	}
}

func TestCursor(t *testing.T) {
	p, err := New([]string{"xyz"})
	if err != nil {
		t.Fatal(err)
	}
	c := p.NewCursor([]byte("ab xyz cd"))
	for pos := 0; pos <= 3; pos++ {
		if !c.Viable(pos) {
			t.Errorf("Viable(%d) = false; want true", pos)
		}
	}
	if c.Viable(4) {
		t.Errorf("Viable(4) = true; want false")
	}
	// Stays rejected.
	if c.Viable(2) {
		t.Errorf("Viable(2) after exhaustion = true; want false")
	}
}
