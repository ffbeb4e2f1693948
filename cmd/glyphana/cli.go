package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	glyphcli "github.com/virtualritz/glyphana/internal/cli"
	"github.com/virtualritz/glyphana/internal/store"
	"github.com/virtualritz/glyphana/internal/unicodedata"
	"github.com/virtualritz/glyphana/pkg/catalog"
	"github.com/virtualritz/glyphana/pkg/charsets"
	"github.com/virtualritz/glyphana/pkg/config"
	"github.com/virtualritz/glyphana/pkg/glyphnames"
	"github.com/virtualritz/glyphana/pkg/search"
	"github.com/virtualritz/glyphana/pkg/server"
	"github.com/virtualritz/glyphana/pkg/skeleton"
	"github.com/virtualritz/glyphana/pkg/tracker"
)

// engine bundles the shared state every command operates on. Indices
// are built once at startup; the store is optional and nil when the
// database cannot be opened.
type engine struct {
	cfg   *config.Config
	cat   *catalog.Catalog
	names *glyphnames.Index
	eval  *search.Evaluator
	track *tracker.Tracker
	db    *store.Store
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	return &cli.App{
		Name:    "glyphana",
		Usage:   "Search, inspect and collect Unicode glyphs",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to config.toml"},
		},
		Commands: []*cli.Command{
			searchCmd(),
			inspectCmd(),
			collectCmd(),
			uncollectCmd(),
			collectionCmd(),
			recentCmd(),
			blocksCmd(),
			setsCmd(),
			serveCmd(),
			replCmd(),
			configCmd(),
		},
	}
}

// buildEngine loads config, builds the catalog and indices, and
// restores persisted state. A missing or unreadable glyph-name corpus
// is fatal; a broken store only loses persistence.
func buildEngine(c *cli.Context) (*engine, error) {
	cfg, _, err := config.LoadConfigWithPriority(c.String("config"))
	if err != nil {
		return nil, err
	}

	cat := catalog.New(catalog.Options{
		IncludePrivateUse: cfg.Catalog.IncludePrivateUse,
	})
	names, err := glyphnames.New(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to build glyph name index: %w", err)
	}
	skel := skeleton.New(cat)
	eval := search.NewEvaluator(cat, names, skel, search.Config{
		FuzzyThreshold: cfg.Search.FuzzyThreshold,
		MaxTerms:       cfg.Search.MaxTerms,
	})
	track := tracker.New(cat, cfg.Recent.MaxEntries)

	eng := &engine{cfg: cfg, cat: cat, names: names, eval: eval, track: track}

	storePath, err := cfg.StorePath()
	if err != nil {
		log.Warnf("Cannot resolve store path: %v. Running without persistence.", err)
		return eng, nil
	}
	db, err := store.Open(storePath)
	if err != nil {
		log.Warnf("Cannot open store at %s: %v. Running without persistence.", storePath, err)
		return eng, nil
	}
	eng.db = db

	collection, err := db.LoadCollection()
	if err != nil {
		log.Warnf("Failed to load collection: %v", err)
	}
	recent, err := db.LoadRecent()
	if err != nil {
		log.Warnf("Failed to load recent list: %v", err)
	}
	track.Restore(collection, recent)
	return eng, nil
}

// persist writes the tracker state back to the store, if one is open.
func (e *engine) persist() {
	if e.db == nil {
		return
	}
	if err := e.db.SaveCollection(e.track.Collection()); err != nil {
		log.Warnf("Failed to save collection: %v", err)
	}
	if err := e.db.SaveRecent(e.track.Recent()); err != nil {
		log.Warnf("Failed to save recent list: %v", err)
	}
}

func (e *engine) close() {
	if e.db != nil {
		e.db.Close()
	}
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search glyphs by name, codepoint or content",
		ArgsUsage: "<query terms>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 24, Usage: "Maximum results"},
			&cli.StringFlag{Name: "scope", Value: "all", Usage: "Search scope: all|recent|collection"},
			&cli.BoolFlag{Name: "case-sensitive", Aliases: []string{"c"}, Usage: "Match case exactly"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("missing query")
			}
			eng, err := buildEngine(c)
			if err != nil {
				return err
			}
			defer eng.close()

			scope, err := parseScope(c.String("scope"))
			if err != nil {
				return err
			}
			raw := strings.Join(c.Args().Slice(), " ")
			caseSensitive := c.Bool("case-sensitive") || eng.cfg.Search.CaseSensitive

			result := eng.eval.Evaluate(search.NewQuery(raw, caseSensitive))
			matches := search.FilterScope(result.Matches, scope, func(r rune) bool {
				return eng.track.Member(r, scope == search.ScopeCollection)
			})

			limit := c.Int("limit")
			if limit < 1 || limit > eng.cfg.Search.MaxResults {
				limit = eng.cfg.Search.MaxResults
			}
			if len(matches) > limit {
				matches = matches[:limit]
			}

			if len(result.Dropped) > 0 {
				log.Warnf("No matches for: %s", strings.Join(result.Dropped, ", "))
			}
			for _, m := range matches {
				fmt.Printf("%s  %s  %s  [%s]  %.2f\n",
					m.Record.Hex(), string(m.Record.Rune), m.Record.DisplayName(), m.Record.Category, m.Score)
			}
			if len(matches) == 0 {
				fmt.Println("no matches")
			}
			return nil
		},
	}
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show details for one glyph and mark it recently used",
		ArgsUsage: "<char | U+XXXX | hex>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one glyph argument")
			}
			eng, err := buildEngine(c)
			if err != nil {
				return err
			}
			defer eng.close()

			r, err := parseGlyphArg(c.Args().First())
			if err != nil {
				return err
			}
			rec, ok := eng.cat.Lookup(r)
			if !ok {
				return fmt.Errorf("codepoint %s is not in the catalog", catalog.Record{Rune: r}.Hex())
			}
			eng.track.Touch(r)
			eng.persist()

			fmt.Printf("Glyph:     %s\n", string(rec.Rune))
			fmt.Printf("Codepoint: %s\n", rec.Hex())
			fmt.Printf("Name:      %s\n", rec.DisplayName())
			fmt.Printf("Category:  %s (%s)\n", rec.Category, rec.Class())
			fmt.Printf("Block:     %s\n", rec.Block)
			fmt.Printf("UTF-8:     % X (%d bytes)\n", []byte(string(rec.Rune)), rec.UTF8Len)
			if aliases := eng.names.NamesFor(r); len(aliases) > 0 {
				fmt.Printf("Aliases:   %s\n", strings.Join(aliases, ", "))
			}
			if eng.track.Collected(r) {
				fmt.Println("Collected: yes")
			}
			return nil
		},
	}
}

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:      "collect",
		Usage:     "Add a glyph to the collection",
		ArgsUsage: "<char | U+XXXX | hex>",
		Action: func(c *cli.Context) error {
			return withGlyph(c, func(eng *engine, r rune) error {
				if eng.track.Collect(r) {
					eng.persist()
					fmt.Printf("collected %s\n", string(r))
				} else {
					fmt.Printf("%s already collected\n", string(r))
				}
				return nil
			})
		},
	}
}

func uncollectCmd() *cli.Command {
	return &cli.Command{
		Name:      "uncollect",
		Usage:     "Remove a glyph from the collection",
		ArgsUsage: "<char | U+XXXX | hex>",
		Action: func(c *cli.Context) error {
			return withGlyph(c, func(eng *engine, r rune) error {
				if eng.track.Uncollect(r) {
					eng.persist()
					fmt.Printf("removed %s\n", string(r))
				} else {
					fmt.Printf("%s was not collected\n", string(r))
				}
				return nil
			})
		},
	}
}

func collectionCmd() *cli.Command {
	return &cli.Command{
		Name:  "collection",
		Usage: "List collected glyphs in insertion order",
		Action: func(c *cli.Context) error {
			eng, err := buildEngine(c)
			if err != nil {
				return err
			}
			defer eng.close()
			printGlyphList(eng, eng.track.Collection())
			return nil
		},
	}
}

func recentCmd() *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently inspected glyphs, newest first",
		Action: func(c *cli.Context) error {
			eng, err := buildEngine(c)
			if err != nil {
				return err
			}
			defer eng.close()
			printGlyphList(eng, eng.track.Recent())
			return nil
		},
	}
}

func blocksCmd() *cli.Command {
	return &cli.Command{
		Name:  "blocks",
		Usage: "List known Unicode blocks",
		Action: func(c *cli.Context) error {
			for _, b := range unicodedata.Blocks() {
				fmt.Printf("U+%04X..U+%04X  %s\n", b.Lo, b.Hi, b.Name)
			}
			return nil
		},
	}
}

func setsCmd() *cli.Command {
	return &cli.Command{
		Name:      "sets",
		Usage:     "List character sets, or the members of one set",
		ArgsUsage: "[set name]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 64, Usage: "Maximum members to print"},
		},
		Action: func(c *cli.Context) error {
			sets := charsets.Defaults()
			if c.NArg() == 0 {
				for _, s := range sets {
					fmt.Println(s.Name())
				}
				return nil
			}

			name := strings.Join(c.Args().Slice(), " ")
			set, ok := charsets.ByName(sets, name)
			if !ok {
				return fmt.Errorf("unknown set %q", name)
			}
			eng, err := buildEngine(c)
			if err != nil {
				return err
			}
			defer eng.close()

			limit := c.Int("limit")
			printed := 0
			for r := range set.Runes() {
				rec, ok := eng.cat.Lookup(r)
				if !ok {
					continue
				}
				fmt.Printf("%s  %s  %s\n", rec.Hex(), string(rec.Rune), rec.DisplayName())
				printed++
				if printed >= limit {
					break
				}
			}
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the msgpack IPC server on stdin/stdout",
		Action: func(c *cli.Context) error {
			eng, err := buildEngine(c)
			if err != nil {
				return err
			}
			defer eng.close()
			defer eng.persist()

			srv := server.NewServer(eng.cat, eng.names, eng.eval, eng.track, server.Limits{
				MaxLimit:    eng.cfg.Server.MaxLimit,
				MaxQueryLen: eng.cfg.Server.MaxQueryLen,
			}, os.Stdin, os.Stdout)
			return srv.Start()
		},
	}
}

func replCmd() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Interactive query console",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 24, Usage: "Maximum results per query"},
			&cli.BoolFlag{Name: "case-sensitive", Aliases: []string{"c"}, Usage: "Match case exactly"},
		},
		Action: func(c *cli.Context) error {
			eng, err := buildEngine(c)
			if err != nil {
				return err
			}
			defer eng.close()

			handler := glyphcli.NewInputHandler(eng.eval,
				eng.cfg.Server.MaxQueryLen, c.Int("limit"),
				c.Bool("case-sensitive") || eng.cfg.Search.CaseSensitive)
			if err := handler.Start(); err != nil && err != io.EOF {
				return err
			}
			return nil
		},
	}
}

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Config file operations",
		Subcommands: []*cli.Command{
			{
				Name:  "path",
				Usage: "Print the active config path",
				Action: func(c *cli.Context) error {
					fmt.Println(config.GetActiveConfigPath(c.String("config")))
					return nil
				},
			},
			{
				Name:  "rebuild",
				Usage: "Overwrite config.toml with defaults",
				Action: func(c *cli.Context) error {
					return config.RebuildConfigFile()
				},
			},
			{
				Name:  "set",
				Usage: "Change search options and save them",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "fuzzy-threshold", Usage: "Fuzzy acceptance bound in (0,1]"},
					&cli.IntFlag{Name: "max-results", Usage: "Result cap per query"},
					&cli.IntFlag{Name: "max-terms", Usage: "Term cap per query"},
					&cli.BoolFlag{Name: "case-sensitive", Usage: "Match case exactly by default"},
				},
				Action: func(c *cli.Context) error {
					cfg, path, err := config.LoadConfigWithPriority(c.String("config"))
					if err != nil {
						return err
					}
					if path == "" {
						return fmt.Errorf("no writable config path")
					}
					var (
						threshold     *float64
						maxResults    *int
						maxTerms      *int
						caseSensitive *bool
					)
					if c.IsSet("fuzzy-threshold") {
						v := c.Float64("fuzzy-threshold")
						threshold = &v
					}
					if c.IsSet("max-results") {
						v := c.Int("max-results")
						maxResults = &v
					}
					if c.IsSet("max-terms") {
						v := c.Int("max-terms")
						maxTerms = &v
					}
					if c.IsSet("case-sensitive") {
						v := c.Bool("case-sensitive")
						caseSensitive = &v
					}
					return cfg.Update(path, threshold, maxResults, maxTerms, caseSensitive)
				},
			},
		},
	}
}

// withGlyph runs fn with a built engine and the parsed glyph argument.
func withGlyph(c *cli.Context, fn func(*engine, rune) error) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one glyph argument")
	}
	eng, err := buildEngine(c)
	if err != nil {
		return err
	}
	defer eng.close()

	r, err := parseGlyphArg(c.Args().First())
	if err != nil {
		return err
	}
	if _, ok := eng.cat.Lookup(r); !ok {
		return fmt.Errorf("codepoint %s is not in the catalog", catalog.Record{Rune: r}.Hex())
	}
	return fn(eng, r)
}

func printGlyphList(eng *engine, runes []rune) {
	for _, r := range runes {
		rec, ok := eng.cat.Lookup(r)
		if !ok {
			continue
		}
		fmt.Printf("%s  %s  %s\n", rec.Hex(), string(rec.Rune), rec.DisplayName())
	}
	if len(runes) == 0 {
		fmt.Println("empty")
	}
}

// parseGlyphArg accepts a literal character, a U+XXXX form, or bare hex.
func parseGlyphArg(arg string) (rune, error) {
	if utf8.RuneCountInString(arg) == 1 {
		r, _ := utf8.DecodeRuneInString(arg)
		return r, nil
	}
	hex := strings.ToLower(arg)
	hex = strings.TrimPrefix(hex, "u+")
	hex = strings.TrimPrefix(hex, "0x")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("cannot parse glyph argument %q", arg)
	}
	return rune(v), nil
}

func parseScope(raw string) (search.Scope, error) {
	switch raw {
	case "all":
		return search.ScopeAll, nil
	case "recent":
		return search.ScopeRecent, nil
	case "collection":
		return search.ScopeCollection, nil
	}
	return search.ScopeAll, fmt.Errorf("unknown scope %q", raw)
}
