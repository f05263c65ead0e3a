package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/config"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/expr"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/httpapi"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/service"
	"github.com/randalmurphal/ruleengine/pkg/ruleengine/store"
)

// ruleArg joins the positional arguments into one rule text, so quoting the
// whole rule is optional.
func ruleArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: rule text is required", errUsage)
	}
	return strings.Join(args, " "), nil
}

func runParse(args []string, e env) error {
	fs, _ := newFlagSet("parse", e)
	tokens := fs.Bool("tokens", false, "print tokens instead of the tree")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text, err := ruleArg(fs.Args())
	if err != nil {
		return err
	}

	if *tokens {
		toks, err := expr.Tokenize(text)
		if err != nil {
			return err
		}
		for _, tok := range toks {
			fmt.Fprintf(e.stdout, "%d\t%s\t%s\n", tok.Pos, tok.Kind, tok.Text)
		}
		return nil
	}

	tree, err := expr.Parse(text)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, expr.Render(tree))
	return nil
}

func runAdd(args []string, e env) error {
	fs, common := newFlagSet("add", e)
	if err := fs.Parse(args); err != nil {
		return err
	}
	text, err := ruleArg(fs.Args())
	if err != nil {
		return err
	}
	s, err := common.settings()
	if err != nil {
		return err
	}
	engine, st, err := openEngine(s, service.WithLogger(newLogger(s, e)))
	if err != nil {
		return err
	}
	defer st.Close()

	added, err := engine.AddRule(context.Background(), text)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s\t%s\n", added.Rule.Name, expr.Render(added.Tree))
	return nil
}

func runList(args []string, e env) error {
	fs, common := newFlagSet("list", e)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := common.settings()
	if err != nil {
		return err
	}
	engine, st, err := openEngine(s)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	names, err := engine.RuleNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		text, err := engine.RuleText(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "%s\t%s\n", name, text)
	}
	return nil
}

func runDelete(args []string, e env) error {
	fs, common := newFlagSet("delete", e)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: exactly one rule name is required", errUsage)
	}
	s, err := common.settings()
	if err != nil {
		return err
	}
	engine, st, err := openEngine(s, service.WithLogger(newLogger(s, e)))
	if err != nil {
		return err
	}
	defer st.Close()

	return engine.DeleteRule(context.Background(), fs.Arg(0))
}

func runEval(args []string, e env) error {
	fs, common := newFlagSet("eval", e)
	rule := fs.String("rule", "", "rule text")
	name := fs.String("name", "", "stored rule name (takes precedence over -rule)")
	data := fs.String("data", "", "JSON record")
	dataFile := fs.String("data-file", "", "file holding the JSON record (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := recordJSON(*data, *dataFile, e.stdin)
	if err != nil {
		return err
	}
	record, err := httpapi.DecodeRecord(raw)
	if err != nil {
		return err
	}

	s, err := common.settings()
	if err != nil {
		return err
	}
	engine, closeStore, err := engineFor(s, *name != "")
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := engine.Evaluate(context.Background(), service.EvaluateRequest{
		Rule:     *rule,
		RuleName: *name,
		Data:     record,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, result)
	return nil
}

func runCombine(args []string, e env) error {
	fs, common := newFlagSet("combine", e)
	var names stringList
	fs.Var(&names, "name", "stored rule name (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := common.settings()
	if err != nil {
		return err
	}
	engine, closeStore, err := engineFor(s, len(names) > 0)
	if err != nil {
		return err
	}
	defer closeStore()

	tree, err := engine.Combine(context.Background(), service.CombineRequest{
		Rules:     fs.Args(),
		RuleNames: names,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, expr.Render(tree))
	return nil
}

func runExport(args []string, e env) error {
	fs, common := newFlagSet("export", e)
	out := fs.String("o", "-", "output file (- for stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := common.settings()
	if err != nil {
		return err
	}
	engine, st, err := openEngine(s)
	if err != nil {
		return err
	}
	defer st.Close()

	w := e.stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	n, err := engine.Export(context.Background(), w)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stderr, "exported %d rules\n", n)
	return nil
}

func runImport(args []string, e env) error {
	fs, common := newFlagSet("import", e)
	in := fs.String("i", "-", "input file (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := common.settings()
	if err != nil {
		return err
	}
	engine, st, err := openEngine(s, service.WithLogger(newLogger(s, e)))
	if err != nil {
		return err
	}
	defer st.Close()

	r := e.stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	n, err := engine.Import(context.Background(), r)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stderr, "imported %d rules\n", n)
	return nil
}

// engineFor returns an Engine over the configured store when stored rules
// are needed, and over an empty in-memory store otherwise.
func engineFor(s config.Settings, needStore bool) (*service.Engine, func(), error) {
	if !needStore {
		st := store.NewMemoryStore()
		return service.New(st), func() { _ = st.Close() }, nil
	}
	engine, st, err := openEngine(s)
	if err != nil {
		return nil, nil, err
	}
	return engine, func() { _ = st.Close() }, nil
}

// recordJSON returns the record text from -data, -data-file or stdin.
func recordJSON(data, dataFile string, stdin io.Reader) ([]byte, error) {
	switch {
	case data != "" && dataFile != "":
		return nil, fmt.Errorf("%w: use -data or -data-file, not both", errUsage)
	case data != "":
		return []byte(data), nil
	case dataFile == "" || dataFile == "-":
		if stdin == nil {
			return nil, errors.New("no record given")
		}
		return io.ReadAll(stdin)
	default:
		return os.ReadFile(dataFile)
	}
}
