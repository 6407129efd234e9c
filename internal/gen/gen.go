// Package gen emits Go source that compiles a pattern library at package
// initialisation and exposes typed capture accessors for each pattern.
package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/wfl-lang/wflpattern"
)

const enginePath = "github.com/wfl-lang/wflpattern"

// Config holds the configuration for code generation.
type Config struct {
	Package string // package clause of the generated file
	Source  string // shown in the header comment, e.g. the library file name
	// StepLimit is compiled into every generated pattern. Zero keeps
	// wflpattern.DefaultStepLimit.
	StepLimit int
}

// Generator builds one Go file for a library.
type Generator struct {
	config Config
	file   *jen.File
	used   map[string]string // generated identifier -> pattern that claimed it
}

// New creates a new generator.
func New(config Config) *Generator {
	if config.Package == "" {
		config.Package = "patterns"
	}
	f := jen.NewFile(config.Package)
	f.ImportName(enginePath, "wflpattern")
	if config.Source != "" {
		f.HeaderComment(fmt.Sprintf("Code generated by wflpat gen from %s. DO NOT EDIT.", config.Source))
	} else {
		f.HeaderComment("Code generated by wflpat gen. DO NOT EDIT.")
	}
	return &Generator{config: config, file: f, used: make(map[string]string)}
}

// AddLibrary adds every pattern of lib in declaration order.
func (g *Generator) AddLibrary(lib *wflpattern.Library) error {
	for _, name := range lib.Names() {
		p, _ := lib.Lookup(name)
		if err := g.AddPattern(name, p); err != nil {
			return err
		}
	}
	return nil
}

// AddPattern emits the variable, capture-name constants, result type and
// Find function for one pattern.
func (g *Generator) AddPattern(name string, p *wflpattern.Pattern) error {
	ident := exportedName(name)
	if ident == "" {
		return fmt.Errorf("pattern %q has no usable Go identifier", name)
	}
	result := ident + "Result"
	find := "Find" + ident
	for _, id := range []string{ident, result, find} {
		if err := g.claim(id, name); err != nil {
			return err
		}
	}

	captures := p.CaptureNames()
	fields := make([]string, len(captures))
	for i, c := range captures {
		fields[i] = exportedName(c)
		if fields[i] == "" || fields[i] == "Match" {
			fields[i] = fmt.Sprintf("Group%d", i+1)
		}
	}

	src := strings.TrimSpace(p.String())
	g.file.Commentf("%s is the compiled %q pattern:", ident, name)
	g.file.Comment("//")
	for _, line := range strings.Split(src, "\n") {
		g.file.Comment("//\t" + strings.TrimSpace(line))
	}
	g.file.Var().Id(ident).Op("=").Add(g.compileCall(src))
	g.file.Line()

	if len(captures) > 0 {
		defs := make([]jen.Code, len(captures))
		for i, c := range captures {
			constName := ident + fields[i]
			if err := g.claim(constName, name); err != nil {
				return err
			}
			defs[i] = jen.Id(constName).Op("=").Lit(c)
		}
		g.file.Comment(fmt.Sprintf("Capture names of %s.", ident))
		g.file.Const().Defs(defs...)
		g.file.Line()
	}

	structFields := []jen.Code{
		jen.Id("Match").String().Comment("Full match"),
	}
	for _, f := range fields {
		structFields = append(structFields, jen.Id(f).String())
	}
	g.file.Commentf("%s holds the text of a %s match and its captures.", result, ident)
	g.file.Type().Id(result).Struct(structFields...)
	g.file.Line()

	body := []jen.Code{
		jen.List(jen.Id("m"), jen.Err()).Op(":=").Id(ident).Dot("Find").Call(jen.Id("s")),
		jen.If(jen.Err().Op("!=").Nil().Op("||").Id("m").Op("==").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Id("r").Op(":=").Op("&").Id(result).Values(jen.Dict{
			jen.Id("Match"): jen.Id("m").Dot("Text"),
		}),
	}
	for i, c := range captures {
		body = append(body,
			jen.List(jen.Id("r").Dot(fields[i]), jen.Id("_")).Op("=").Id("m").Dot("Capture").Call(jen.Lit(c)),
		)
	}
	body = append(body, jen.Return(jen.Id("r"), jen.Nil()))

	g.file.Commentf("%s returns the leftmost match of %s in s, or nil.", find, ident)
	g.file.Func().Id(find).
		Params(jen.Id("s").String()).
		Params(jen.Op("*").Id(result), jen.Error()).
		Block(body...)
	return nil
}

// compileCall builds the initialiser of a pattern variable.
func (g *Generator) compileCall(src string) jen.Code {
	if g.config.StepLimit <= 0 {
		return jen.Qual(enginePath, "MustCompile").Call(jen.Lit(src))
	}
	return jen.Qual(enginePath, "MustCompileWithOptions").Call(
		jen.Lit(src),
		jen.Qual(enginePath, "Options").Values(jen.Dict{
			jen.Id("StepLimit"): jen.Lit(g.config.StepLimit),
		}),
	)
}

func (g *Generator) claim(id, pattern string) error {
	if prev, ok := g.used[id]; ok {
		return fmt.Errorf("identifier %s for pattern %q collides with pattern %q", id, pattern, prev)
	}
	g.used[id] = pattern
	return nil
}

// Render writes the formatted file.
func (g *Generator) Render(w io.Writer) error {
	return g.file.Render(w)
}

// Save writes the formatted file to path.
func (g *Generator) Save(path string) error {
	if err := g.file.Save(path); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// exportedName turns snake_case into an exported CamelCase identifier.
func exportedName(name string) string {
	var sb strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	s := sb.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		return ""
	}
	return s
}
