package wflpattern

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const libSource = `create pattern phone:
    capture { exactly 3 digit } as area "-" exactly 4 digit
end pattern

create pattern word:
    one or more letter
end pattern
`

func TestParseLibrary(t *testing.T) {
	lib, err := ParseLibrary(libSource, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := lib.Names(); !reflect.DeepEqual(got, []string{"phone", "word"}) {
		t.Errorf("Names() = %v", got)
	}
	if lib.Len() != 2 {
		t.Errorf("Len() = %d; want 2", lib.Len())
	}

	phone, ok := lib.Lookup("phone")
	if !ok {
		t.Fatal("Lookup(phone) failed")
	}
	m, err := phone.Find("call 555-1234")
	if err != nil || m == nil {
		t.Fatalf("Find() = %v, %v", m, err)
	}
	if area, _ := m.Capture("area"); area != "555" {
		t.Errorf("area = %q; want 555", area)
	}
	if got := strings.TrimSpace(phone.String()); got != `capture { exactly 3 digit } as area "-" exactly 4 digit` {
		t.Errorf("String() = %q", got)
	}

	if _, ok := lib.Lookup("nope"); ok {
		t.Error("Lookup(nope) succeeded")
	}
}

func TestParseLibraryOptions(t *testing.T) {
	lib, err := ParseLibrary(libSource, Options{StepLimit: 77})
	if err != nil {
		t.Fatal(err)
	}
	word, _ := lib.Lookup("word")
	if word.StepLimit() != 77 {
		t.Errorf("StepLimit() = %d; want 77", word.StepLimit())
	}
}

func TestParseLibraryEmpty(t *testing.T) {
	lib, err := ParseLibrary("  \n", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if lib.Len() != 0 {
		t.Errorf("Len() = %d; want 0", lib.Len())
	}
}

func TestParseLibraryErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		msg    string
		line   int
		column int
	}{
		{"missing create", `pattern x: "a" end pattern`, "expected 'create pattern'", 1, 1},
		{"missing name", `create pattern : "a" end pattern`, "expected pattern name", 1, 16},
		{"reserved name", `create pattern digit: "a" end pattern`, "reserved word", 1, 16},
		{"missing colon", `create pattern x "a" end pattern`, "expected ':'", 1, 18},
		{"missing end", `create pattern x: "a"`, "expected 'end pattern'", 1, 1},
		{"empty body", `create pattern x: end pattern`, "empty body", 1, 17},
		{
			"duplicate",
			"create pattern x: \"a\" end pattern\ncreate pattern x: \"b\" end pattern",
			"already declared", 2, 16,
		},
		{
			"body error points into the file",
			"create pattern ok:\n    \"a\"\nend pattern\ncreate pattern bad:\n    \"a\" zork\nend pattern\n",
			`unknown keyword "zork"`, 5, 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLibrary(tt.src, Options{})
			if err == nil {
				t.Fatal("ParseLibrary() succeeded")
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *SyntaxError", err)
			}
			if !strings.Contains(se.Msg, tt.msg) {
				t.Errorf("message = %q; want it to contain %q", se.Msg, tt.msg)
			}
			if se.Pos.Line != tt.line || se.Pos.Column != tt.column {
				t.Errorf("position = %d:%d; want %d:%d", se.Pos.Line, se.Pos.Column, tt.line, tt.column)
			}
		})
	}
}

func TestIsReservedName(t *testing.T) {
	for _, name := range []string{"digit", "letter", "pattern", "capture", "end", "or", "property"} {
		if !IsReservedName(name) {
			t.Errorf("IsReservedName(%q) = false", name)
		}
	}
	for _, name := range []string{"phone", "email_address", "x"} {
		if IsReservedName(name) {
			t.Errorf("IsReservedName(%q) = true", name)
		}
	}
}
