package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/codex/internal"
	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/export"
	"github.com/starford/codex/internal/index"
	pkgconfig "github.com/starford/codex/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.Root().String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", apperr.ErrConfig, err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func exportSnapshot(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Export(ctx, cmd.String("format"), cmd.String("out"), internal.WithConfig(cfg))
}

func snapshotFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "SQLite snapshot written by export --format sqlite",
		Required: true,
	}
}

func snapshotList(ctx context.Context, cmd *cli.Command) error {
	return internal.Snapshot(ctx, cmd.String("db"), func(s index.Snapshot) error {
		return export.PrintList(s, os.Stdout)
	})
}

func snapshotShow(ctx context.Context, cmd *cli.Command) error {
	slug := cmd.Args().First()
	if slug == "" {
		return fmt.Errorf("snapshot show: a manuscript slug is required")
	}
	return internal.Snapshot(ctx, cmd.String("db"), func(s index.Snapshot) error {
		return export.PrintManuscript(s, slug, os.Stdout)
	})
}

func snapshotSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("snapshot search: a query is required")
	}
	return internal.Snapshot(ctx, cmd.String("db"), func(s index.Snapshot) error {
		return export.PrintSearch(s, query, int(cmd.Int("limit")), os.Stdout)
	})
}

func render(ctx context.Context, cmd *cli.Command) error {
	slug := cmd.Args().First()
	if slug == "" {
		return fmt.Errorf("render: a manuscript slug is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Render(ctx, slug, os.Stdout, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "codex",
		Usage:  "Browse, search and render TEI P5 manuscripts through an XSLT stylesheet",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the catalog, manuscript pages and JSON API over HTTP",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the archive as MCP tools on stdin/stdout",
				Action: mcp,
			},
			{
				Name:   "export",
				Usage:  "Write a catalog snapshot as JSON or SQLite",
				Action: exportSnapshot,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Snapshot format: json or sqlite",
						Value:   export.FormatJSON,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output file",
						Required: true,
					},
				},
			},
			{
				Name:  "snapshot",
				Usage: "Read a SQLite snapshot without loading the archive",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Print every manuscript in the snapshot",
						Action: snapshotList,
						Flags:  []cli.Flag{snapshotFlag()},
					},
					{
						Name:      "show",
						Usage:     "Print one manuscript from the snapshot",
						ArgsUsage: "SLUG",
						Action:    snapshotShow,
						Flags:     []cli.Flag{snapshotFlag()},
					},
					{
						Name:      "search",
						Usage:     "Search titles, subtitles, authors and descriptions in the snapshot",
						ArgsUsage: "QUERY",
						Action:    snapshotSearch,
						Flags: []cli.Flag{
							snapshotFlag(),
							&cli.IntFlag{
								Name:    "limit",
								Aliases: []string{"n"},
								Usage:   "Maximum number of hits",
								Value:   20,
							},
						},
					},
				},
			},
			{
				Name:      "render",
				Usage:     "Print the rendered HTML of one manuscript",
				ArgsUsage: "SLUG",
				Action:    render,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
