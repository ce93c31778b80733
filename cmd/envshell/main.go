// Command envshell is a small interactive inspector over the analyzer
// pipeline. Tokenization and parsing are out of scope for this repo, so
// rather than accepting source text it loads a JSON module fixture (see
// internal/fixture) and drives the real C5/C7/C8/C9 components against
// it — the same "poke the real engine from a REPL" role internal/repl
// plays for the teacher's evaluator.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/mlcheck/internal/ast"
	"github.com/sunholo/mlcheck/internal/checker"
	"github.com/sunholo/mlcheck/internal/config"
	"github.com/sunholo/mlcheck/internal/depsort"
	"github.com/sunholo/mlcheck/internal/errors"
	"github.com/sunholo/mlcheck/internal/fixture"
	"github.com/sunholo/mlcheck/internal/importlink"
	"github.com/sunholo/mlcheck/internal/infer"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// shell holds the interactive session's state: the loaded module, the
// checker it runs analyses through, and every previously checked
// module available for a later fixture's own imports to resolve
// against.
type shell struct {
	module  *shellModule
	ch      *checker.Checker
	modules importlink.ModuleSet
	cfg     *config.Manifest
}

type shellModule struct {
	path string
	raw  []byte
}

// newShell loads the analyzer manifest (analyzer.yaml in the working
// directory, falling back to config.Default if it is absent or fails
// to load) and wires a Checker whose default-imports behavior follows
// the manifest's own defaultImports list rather than being hardcoded:
// fixtures are still free to spell out every import explicitly, but a
// manifest whose defaultImports does not list Basics disables the
// implicit Basics prelude so :check's behavior depends only on what
// :load's fixture JSON says. A manifest with an empty defaultImports
// fails to load, so config.Default (which lists Basics) applies.
func newShell() *shell {
	cfg, err := config.Load("analyzer.yaml")
	if err != nil {
		cfg = config.Default()
	}
	withDefaults := cfg.IsDefaultImport("Basics")
	return &shell{
		ch:      checker.New(infer.NewAnalyzer(), withDefaults),
		modules: importlink.ModuleSet{},
		cfg:     cfg,
	}
}

func main() {
	s := newShell()
	s.run(os.Stdin, os.Stdout)
}

func (s *shell) run(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	fmt.Fprintf(out, "%s\n", bold("mlcheck envshell"))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))

	commands := []string{":help", ":quit", ":load", ":sort", ":check", ":env", ":modules"}
	line.SetCompleter(func(text string) (c []string) {
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, text) {
				c = append(c, cmd)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("mlcheck> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":quit" || input == ":q" {
			fmt.Fprintln(out, green("goodbye"))
			return
		}

		s.handle(input, out)
	}
}

func (s *shell) handle(input string, out io.Writer) {
	fields := strings.Fields(input)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case ":help":
		s.printHelp(out)
	case ":load":
		s.cmdLoad(args, out)
	case ":sort":
		s.cmdSort(out)
	case ":check":
		s.cmdCheck(args, out)
	case ":env":
		s.cmdEnv(args, out)
	case ":modules":
		s.cmdModules(out)
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", yellow("warning"), cmd)
	}
}

func (s *shell) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("commands:"))
	fmt.Fprintln(out, "  :load <path>         load a JSON module fixture (see internal/fixture)")
	fmt.Fprintln(out, "  :sort                print the dependency-sorted statement order")
	fmt.Fprintln(out, "  :check <as-path>     run the full orchestrator, registering the result under")
	fmt.Fprintln(out, "                       <as-path> so a later :load'ed fixture can import it")
	fmt.Fprintln(out, "  :env find <name>     look up a name in the checked modules' environments")
	fmt.Fprintln(out, "  :modules             list previously checked modules available to :check")
	fmt.Fprintln(out, "  :quit                exit")
}

func (s *shell) cmdLoad(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintf(out, "%s: usage: :load <path>\n", red("error"))
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	if _, err := fixture.LoadModule(data); err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	s.module = &shellModule{path: args[0], raw: data}
	fmt.Fprintf(out, "%s loaded %s\n", green("ok"), args[0])
}

func (s *shell) cmdSort(out io.Writer) {
	module, ok := s.requireModule(out)
	if !ok {
		return
	}
	sorted, err := depsort.Sort(module.Statements)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", yellow("cycle"), checker.FormatError(err))
	}
	names := make([]string, len(sorted))
	for i, stm := range sorted {
		names[i] = stm.StatementName()
	}
	fmt.Fprintf(out, "%s\n", strings.Join(names, " -> "))
}

func (s *shell) cmdCheck(args []string, out io.Writer) {
	module, ok := s.requireModule(out)
	if !ok {
		return
	}
	path := s.module.path
	if len(args) == 1 {
		path = args[0]
	}

	checked, err := s.ch.AnalyzeModule(path, module, s.modules)
	if err != nil {
		fmt.Fprintln(out, checker.FormatError(err))
		s.suggestForMissingModule(err, out)
		return
	}
	s.modules[path] = checked

	names := make([]string, len(checked.Exposing))
	for i, d := range checked.Exposing {
		names[i] = d.DeclName()
	}
	sort.Strings(names)
	fmt.Fprintf(out, "%s %s exposes: %s\n", green("ok"), path, strings.Join(names, ", "))
}

func (s *shell) cmdEnv(args []string, out io.Writer) {
	if len(args) != 2 || args[0] != "find" {
		fmt.Fprintf(out, "%s: usage: :env find <name>\n", red("error"))
		return
	}
	if len(s.modules) == 0 {
		fmt.Fprintf(out, "%s: no module has been checked yet\n", yellow("warning"))
		return
	}
	for path, m := range s.modules {
		if t, ok := m.Env.FindDefinition(args[1]); ok {
			fmt.Fprintf(out, "%s %s.%s : %s\n", cyan(path), path, args[1], t)
			return
		}
	}
	fmt.Fprintf(out, "%s: %q not found in any checked module\n", yellow("warning"), args[1])
}

func (s *shell) cmdModules(out io.Writer) {
	if len(s.modules) == 0 {
		fmt.Fprintln(out, dim("(none checked yet)"))
		return
	}
	names := make([]string, 0, len(s.modules))
	for path := range s.modules {
		names = append(names, path)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
}

// suggestForMissingModule prints a "did you mean" hint from the
// manifest's moduleSearchOrder for each MissingModule report in err, the
// module-name-typo UX a manifest-driven moduleSearchOrder exists for.
func (s *shell) suggestForMissingModule(err error, out io.Writer) {
	for _, rep := range checker.Errors(err) {
		if rep.Code != errors.CodeMissingModule {
			continue
		}
		name, _ := rep.Data["module"].(string)
		if name == "" {
			continue
		}
		if suggestion, ok := s.cfg.SuggestModule(name); ok {
			fmt.Fprintf(out, "%s did you mean %q?\n", dim("hint:"), suggestion)
		}
	}
}

func (s *shell) requireModule(out io.Writer) (*ast.Module, bool) {
	if s.module == nil {
		fmt.Fprintf(out, "%s: no module loaded, try :load <path>\n", red("error"))
		return nil, false
	}
	m, err := fixture.LoadModule(s.module.raw)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return nil, false
	}
	return m, true
}
