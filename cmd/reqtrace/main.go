package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"reqtrace/config"
	"reqtrace/filter"
	"reqtrace/gitx"
	"reqtrace/output"
	"reqtrace/scan"
	"reqtrace/types"
)

func main() {
	app := &cli.Command{
		Name:  "reqtrace",
		Usage: "trace requirement markers in code comments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "root directory to scan (default: config dir or '.')",
			},
			&cli.StringSliceFlag{
				Name:    "slug",
				Aliases: []string{"s"},
				Usage:   "marker prefix to search for, e.g. 'REQ' matches 'REQ-123' (repeatable)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format: json or jsonl",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config file (default: search for reqtrace.toml)",
			},
			&cli.BoolFlag{
				Name:  "no-config",
				Usage: "disable config file loading",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write output to file (in addition to stdout)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress stdout output",
			},
			&cli.BoolFlag{
				Name:  "fail-on-empty",
				Usage: "exit with error if no matches found",
			},
			&cli.BoolFlag{
				Name:  "include-git-meta",
				Usage: "include git repository metadata in output",
			},
			&cli.BoolFlag{
				Name:  "include-blame",
				Usage: "include git blame metadata for each match",
			},
			&cli.BoolFlag{
				Name:  "include-vendored",
				Usage: "include vendored files",
			},
			&cli.BoolFlag{
				Name:  "include-generated",
				Usage: "include generated files",
			},
			&cli.BoolFlag{
				Name:  "include-submodules",
				Usage: "include submodules",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "only include paths matching this glob (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "exclude paths matching this glob (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging on stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		writeError(err)
		os.Exit(1)
	}
}

var errNoMatches = errors.New("no requirement markers found")

func run(_ context.Context, cmd *cli.Command) error {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	files, err := filter.Collect(opts.root, opts.filter)
	if err != nil {
		return err
	}
	slog.Debug("collected candidate files", "count", len(files), "root", opts.root)

	results, err := scan.Scan(opts.root, files, scan.Options{Slugs: opts.slugs})
	if err != nil {
		return err
	}
	slog.Debug("scan complete", "slug_ids", len(results))

	var meta *types.RepoMeta
	if opts.includeGitMeta {
		m, err := gitx.Meta(opts.root)
		if err != nil {
			return err
		}
		meta = m
	}

	if opts.includeBlame {
		if err := gitx.AddBlame(opts.root, results); err != nil {
			return err
		}
	}

	rendered, err := output.Render(opts.format, meta, results)
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Print(rendered)
	}
	if opts.outputPath != "" {
		if err := os.WriteFile(opts.outputPath, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
	}

	if opts.failOnEmpty && len(results) == 0 {
		return errNoMatches
	}
	return nil
}

type options struct {
	root           string
	slugs          []string
	format         output.Format
	outputPath     string
	quiet          bool
	failOnEmpty    bool
	includeGitMeta bool
	includeBlame   bool
	filter         filter.Options
}

// resolveOptions merges CLI flags over the config file. Flags win;
// booleans are OR'd so either surface can enable a behavior.
func resolveOptions(cmd *cli.Command) (*options, error) {
	var cfg config.Config
	var configDir string

	if !cmd.Bool("no-config") {
		path := cmd.String("config")
		if path == "" {
			path = config.Find(".")
		}
		if path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				return nil, err
			}
			cfg = *loaded
			configDir = filepath.Dir(path)
			slog.Debug("loaded config", "path", path)
		} else if cmd.String("config") != "" {
			return nil, fmt.Errorf("config file not found: %s", cmd.String("config"))
		}
	}

	root := cmd.String("root")
	if root == "" {
		switch {
		case cfg.Root != "":
			root = resolvePath(configDir, cfg.Root)
		case configDir != "":
			root = configDir
		default:
			root = "."
		}
	}

	formatName := cmd.String("format")
	if formatName == "" {
		formatName = cfg.Format
	}
	if formatName == "" {
		formatName = string(output.JSON)
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	outputPath := cmd.String("output")
	if outputPath == "" && cfg.Output != "" {
		outputPath = resolvePath(configDir, cfg.Output)
	}

	slugs := cmd.StringSlice("slug")
	if len(slugs) == 0 {
		slugs = cfg.Scan.Slugs
	}
	if len(slugs) == 0 {
		return nil, scan.ErrNoSlugs
	}

	include := cmd.StringSlice("include")
	if len(include) == 0 {
		include = cfg.Filter.Include
	}
	exclude := cmd.StringSlice("exclude")
	if len(exclude) == 0 {
		exclude = cfg.Filter.Exclude
	}

	return &options{
		root:           root,
		slugs:          slugs,
		format:         format,
		outputPath:     outputPath,
		quiet:          cmd.Bool("quiet") || cfg.Quiet,
		failOnEmpty:    cmd.Bool("fail-on-empty") || cfg.FailOnEmpty,
		includeGitMeta: cmd.Bool("include-git-meta") || cfg.IncludeGitMeta,
		includeBlame:   cmd.Bool("include-blame") || cfg.IncludeBlame,
		filter: filter.Options{
			IncludeVendored:   cmd.Bool("include-vendored") || cfg.Filter.IncludeVendored,
			IncludeGenerated:  cmd.Bool("include-generated") || cfg.Filter.IncludeGenerated,
			IncludeSubmodules: cmd.Bool("include-submodules") || cfg.Filter.IncludeSubmodules,
			Include:           include,
			Exclude:           exclude,
		},
	}, nil
}

func resolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func writeError(err error) {
	enc := json.NewEncoder(os.Stderr)
	enc.Encode(map[string]string{
		"error": err.Error(),
	})
}
