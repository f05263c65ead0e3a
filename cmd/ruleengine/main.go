// Command ruleengine stores, evaluates and combines eligibility rules.
//
// Usage:
//
//	ruleengine serve   [-config file] [-listen addr] [-db path]
//	ruleengine parse   [-tokens] 'rule'
//	ruleengine add     [-db path] 'rule'
//	ruleengine list    [-db path]
//	ruleengine eval    [-rule 'rule' | -name Rule_N] [-data '{...}' | -data-file path]
//	ruleengine combine [-name Rule_N]... ['rule']...
//	ruleengine delete  [-db path] Rule_N
//	ruleengine export  [-db path] [-o file]
//	ruleengine import  [-db path] [-i file]
//
// Every command accepts -config, -db, -log-level and -log-format. Flags
// override RULEENGINE_* environment variables, which override the config
// file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// env carries the process streams so commands can be tested.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	run   func(args []string, e env) error
	usage string
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"serve":   {runServe, "run the HTTP rule service"},
		"parse":   {runParse, "print the tree (or tokens) of a rule"},
		"add":     {runAdd, "store a rule under a generated name"},
		"list":    {runList, "list stored rule names"},
		"eval":    {runEval, "evaluate a rule against a JSON record"},
		"combine": {runCombine, "combine rules with AND and print the tree"},
		"delete":  {runDelete, "delete a stored rule"},
		"export":  {runExport, "write all rules as a compressed snapshot"},
		"import":  {runImport, "load rules from a compressed snapshot"},
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: ruleengine <command> [flags] [args]")
	fmt.Fprintln(w)
	for _, name := range []string{"serve", "parse", "add", "list", "eval", "combine", "delete", "export", "import"} {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].usage)
	}
}

// run dispatches args[0] to its command.
func run(args []string, e env) error {
	if len(args) == 0 {
		usage(e.stderr)
		return errUsage
	}
	switch args[0] {
	case "-h", "-help", "--help", "help":
		usage(e.stdout)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(e.stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.run(args[1:], e)
}

var errUsage = errors.New("usage")

func main() {
	err := run(os.Args[1:], env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "ruleengine: %s\n", err)
		os.Exit(1)
	}
}
