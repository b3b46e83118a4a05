/*
Tamelangc compiles a tamelang specification file into packed LALR(1)
parser tables, one per language block, and reports every diagnostic the
compile produced.

Usage:

	tamelangc [flags] SPEC_FILE

The flags are:

	-c, --config FILE
		Load named boolean options (e.g. allow-empty-guards) from a TOML
		config file alongside the spec.

	-o, --option name=value
		Set a single named boolean option, overriding the config file.
		Can be repeated.

	--cache-dir DIR
		Cache compiled tables under DIR, keyed by a hash of the spec
		source, so a later run over an unchanged file skips recompiling.
		Disabled (no caching) if left empty.

Tamelangc exists to exercise internal/langc through internal/lrtables
end to end; it is a thin collaborator outside the parser-generator core,
not a subject of the core's own test suite.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/tamelang/internal/diag"
	"github.com/dekarrin/tamelang/internal/lalr"
	"github.com/dekarrin/tamelang/internal/langc"
	"github.com/dekarrin/tamelang/internal/lexc"
	"github.com/dekarrin/tamelang/internal/lrtables"
	"github.com/dekarrin/tamelang/internal/rewrite"
	"github.com/dekarrin/tamelang/internal/specsyntax"
	"github.com/dekarrin/tamelang/internal/tablecache"
	"github.com/dekarrin/tamelang/internal/terms"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitCompileError
)

var (
	returnCode int = ExitSuccess

	configFile *string   = pflag.StringP("config", "c", "", "TOML file of named boolean options to load before compiling")
	options    *[]string = pflag.StringArrayP("option", "o", nil, "set a named boolean option as name=value, overriding the config file; may be repeated")
	cacheDir   *string   = pflag.String("cache-dir", "", "cache compiled tables under this directory, keyed by a hash of the spec source")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tamelangc [flags] SPEC_FILE")
		returnCode = ExitUsageError
		return
	}
	specPath := pflag.Arg(0)

	cfg, err := loadConfig(*configFile, *options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitUsageError
		return
	}

	src, err := os.ReadFile(specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitUsageError
		return
	}

	bag := diag.NewBag()
	p := specsyntax.NewParser(string(src), specPath, bag)
	file := p.Parse()
	if bag.HasErrors() {
		printDiagnostics(bag)
		returnCode = ExitCompileError
		return
	}

	dict := terms.NewDict()
	c := langc.NewCompiler(file, dict, cfg, bag, specPath)
	langs := c.CompileAll(file)
	printDiagnostics(bag)
	if bag.HasErrors() {
		returnCode = ExitCompileError
		return
	}

	var cache *tablecache.Store
	var cacheKey string
	if *cacheDir != "" {
		cache = tablecache.New(*cacheDir)
		cacheKey = tablecache.Key(src)
	}

	for name, cl := range langs {
		table, fromCache, err := buildTable(cl, cache, cacheKey+":"+name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: compiling language %q: %s\n", name, err)
			returnCode = ExitCompileError
			continue
		}
		origin := "compiled"
		if fromCache {
			origin = "cache"
		}
		fmt.Printf("%s: %s (%s)\n", name, table, origin)
	}
}

// buildTable drives internal/lexc -> internal/lalr -> internal/rewrite ->
// internal/lrtables for one compiled language, consulting cache first
// when one is configured.
func buildTable(cl *langc.CompiledLanguage, cache *tablecache.Store, key string) (*lrtables.PackedTable, bool, error) {
	if cache != nil {
		if t, ok, err := cache.Load(key); err == nil && ok {
			return t, true, nil
		}
	}

	endOfInput := cl.Dict.Intern("⊣")
	lex := lexc.Compile(cl.NDFA, cl.Weak, cl.Dict, []int{0})
	res := lalr.BuildLALR1(cl.Grammar, endOfInput)
	rt := rewrite.Rewrite(res.Table, lex.WeakMap)
	table := lrtables.Pack(cl.Grammar, rt, res.First, cl.StartState, endOfInput)

	if cache != nil {
		if err := cache.Save(key, table); err != nil {
			return table, false, err
		}
	}
	return table, false, nil
}

// loadConfig builds a diag.Config from an optional TOML file plus
// repeatable --option name=value overrides, matching the precedence
// SPEC_FULL.md's ambient-stack section describes (flags override file).
func loadConfig(path string, opts []string) (*diag.Config, error) {
	var cfg *diag.Config
	var err error
	if path != "" {
		cfg, err = diag.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	} else {
		cfg = diag.NewConfig()
	}

	for _, o := range opts {
		name, val, ok := strings.Cut(o, "=")
		if !ok {
			return nil, fmt.Errorf("malformed --option %q, want name=value", o)
		}
		cfg.Set(name, val == "true" || val == "1")
	}
	return cfg, nil
}

func printDiagnostics(bag *diag.Bag) {
	for _, d := range bag.All() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}
