package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wfl-lang/wflpattern"
	"github.com/wfl-lang/wflpattern/internal/gen"
)

const defaultSize = 4096

var (
	matchStyle   = color.New(color.FgHiGreen, color.Bold)
	failStyle    = color.New(color.FgHiRed)
	offsetStyle  = color.New(color.FgHiBlue)
	captureStyle = color.New(color.FgHiCyan)
	dimStyle     = color.New(color.Faint)
)

// patternFlags selects a pattern either inline or from a declaration file.
type patternFlags struct {
	expr string
	file string
	name string
}

func (pf *patternFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pf.expr, "expr", "e", "", "Pattern source")
	cmd.Flags().StringVarP(&pf.file, "file", "f", "", "File of 'create pattern' declarations")
	cmd.Flags().StringVarP(&pf.name, "name", "n", "", "Name of the declared pattern to use")
}

// loadPattern resolves the pattern flags. With only -n the configured
// library files are searched in order.
func (a *app) loadPattern(pf *patternFlags) (*wflpattern.Pattern, error) {
	switch {
	case pf.expr != "" && (pf.file != "" || pf.name != ""):
		return nil, errors.New("use either -e or -f/-n, not both")

	case pf.expr != "":
		p, err := wflpattern.CompileWithOptions(pf.expr, a.options())
		if err != nil {
			return nil, newSourceError("<expr>", pf.expr, err)
		}
		slog.Debug("compiled pattern", "source", pf.expr, "captures", p.CaptureNames())
		return p, nil

	case pf.file != "":
		lib, err := a.loadLibrary(pf.file)
		if err != nil {
			return nil, err
		}
		return pickPattern(lib, pf.file, pf.name)

	case pf.name != "":
		for _, file := range a.cfg.Library.Files {
			lib, err := a.loadLibrary(file)
			if err != nil {
				return nil, err
			}
			if p, ok := lib.Lookup(pf.name); ok {
				return p, nil
			}
		}
		return nil, fmt.Errorf("pattern %q not found in configured library files", pf.name)
	}
	return nil, errors.New("no pattern given: use -e SOURCE or -f FILE -n NAME")
}

func (a *app) loadLibrary(file string) (*wflpattern.Library, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file: %w", err)
	}
	lib, err := wflpattern.ParseLibrary(string(b), a.options())
	if err != nil {
		return nil, newSourceError(file, string(b), err)
	}
	slog.Debug("loaded library", "file", file, "patterns", lib.Names())
	return lib, nil
}

func pickPattern(lib *wflpattern.Library, file, name string) (*wflpattern.Pattern, error) {
	if name == "" {
		if lib.Len() != 1 {
			return nil, fmt.Errorf("%s declares %d patterns; choose one with -n", file, lib.Len())
		}
		name = lib.Names()[0]
	}
	p, ok := lib.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: no pattern named %q (have %s)", file, name, strings.Join(lib.Names(), ", "))
	}
	return p, nil
}

// readSubjects returns args, or the lines of r when there are none.
func readSubjects(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	bufferedReader := bufio.NewReaderSize(r, defaultSize)
	var lines []string
	for {
		line, err := bufferedReader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if line != "" {
			lines = append(lines, strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		}
		if err == io.EOF {
			break
		}
	}
	return lines, nil
}

func newCheckCmd(a *app) *cobra.Command {
	pf := &patternFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile a pattern or a declaration file and report errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if pf.file != "" && pf.name == "" {
				lib, err := a.loadLibrary(pf.file)
				if err != nil {
					return err
				}
				for _, name := range lib.Names() {
					p, _ := lib.Lookup(name)
					fmt.Fprintf(out, "%s: %s%s\n", name, matchStyle.Sprint("ok"), describeCaptures(p))
				}
				return nil
			}
			p, err := a.loadPattern(pf)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s%s\n", matchStyle.Sprint("ok"), describeCaptures(p))
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func describeCaptures(p *wflpattern.Pattern) string {
	names := p.CaptureNames()
	if len(names) == 0 {
		return ""
	}
	return dimStyle.Sprintf(" (captures: %s)", strings.Join(names, ", "))
}

func newMatchCmd(a *app) *cobra.Command {
	pf := &patternFlags{}
	cmd := &cobra.Command{
		Use:   "match [TEXT...]",
		Short: "Test whether each whole subject matches the pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPattern(pf)
			if err != nil {
				return err
			}
			subjects, err := readSubjects(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			all := true
			for _, s := range subjects {
				ok, err := p.Matches(s)
				if err != nil {
					return fmt.Errorf("matching %q: %w", s, err)
				}
				if ok {
					fmt.Fprintf(out, "%s\t%s\n", matchStyle.Sprint("match"), s)
				} else {
					all = false
					fmt.Fprintf(out, "%s\t%s\n", failStyle.Sprint("no match"), s)
				}
			}
			if !all {
				return errNoMatch
			}
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	pf := &patternFlags{}
	var all bool
	cmd := &cobra.Command{
		Use:   "find [TEXT...]",
		Short: "Print the matches of the pattern in each subject with their captures",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPattern(pf)
			if err != nil {
				return err
			}
			subjects, err := readSubjects(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			found := false
			for _, s := range subjects {
				limit := 1
				if all {
					limit = -1
				}
				matches, err := p.FindAll(s, limit)
				if err != nil {
					return fmt.Errorf("searching %q: %w", s, err)
				}
				for _, m := range matches {
					found = true
					printMatch(out, p, m)
				}
			}
			if !found {
				return errNoMatch
			}
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Print every match, not only the first")
	return cmd
}

func printMatch(w io.Writer, p *wflpattern.Pattern, m *wflpattern.Match) {
	fmt.Fprintf(w, "%s\t%s\n", offsetStyle.Sprintf("%d-%d", m.Start, m.End), matchStyle.Sprint(m.Text))
	for _, name := range p.CaptureNames() {
		if v, ok := m.Capture(name); ok {
			fmt.Fprintf(w, "  %s = %q\n", captureStyle.Sprint(name), v)
		} else {
			fmt.Fprintf(w, "  %s %s\n", captureStyle.Sprint(name), dimStyle.Sprint("(did not participate)"))
		}
	}
}

func newReplaceCmd(a *app) *cobra.Command {
	pf := &patternFlags{}
	var with string
	var template bool
	cmd := &cobra.Command{
		Use:   "replace --with TEXT [TEXT...]",
		Short: "Replace every match in each subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPattern(pf)
			if err != nil {
				return err
			}
			subjects, err := readSubjects(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range subjects {
				var result string
				if template {
					result, err = p.ReplaceTemplate(s, with)
				} else {
					result, err = p.Replace(s, with)
				}
				if err != nil {
					return fmt.Errorf("replacing in %q: %w", s, err)
				}
				fmt.Fprintln(out, result)
			}
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&with, "with", "w", "", "Replacement text")
	cmd.Flags().BoolVarP(&template, "template", "t", false, "Expand $0, $name, ${name} and $$ in the replacement")
	_ = cmd.MarkFlagRequired("with")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	pf := &patternFlags{}
	cmd := &cobra.Command{
		Use:   "split [TEXT...]",
		Short: "Split each subject on the pattern, one piece per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPattern(pf)
			if err != nil {
				return err
			}
			subjects, err := readSubjects(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range subjects {
				for piece, err := range p.SplitSeq(s) {
					if err != nil {
						return fmt.Errorf("splitting %q: %w", s, err)
					}
					fmt.Fprintln(out, piece)
				}
			}
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func newGenCmd(a *app) *cobra.Command {
	var file, pkg, output string
	cmd := &cobra.Command{
		Use:   "gen -f FILE",
		Short: "Generate Go code that compiles a declaration file's patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.loadLibrary(file)
			if err != nil {
				return err
			}
			g := gen.New(gen.Config{Package: pkg, Source: file, StepLimit: a.cfg.Engine.StepLimit})
			if err := g.AddLibrary(lib); err != nil {
				return err
			}
			if output == "" {
				return g.Render(cmd.OutOrStdout())
			}
			if err := g.Save(output); err != nil {
				return err
			}
			slog.Info("generated", "file", output, "patterns", lib.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File of 'create pattern' declarations")
	cmd.Flags().StringVarP(&pkg, "package", "p", "patterns", "Package name of the generated file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", appName, FullVersion)
			return nil
		},
	}
}
