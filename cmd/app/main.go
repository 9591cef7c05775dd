package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/stave/internal"
	"github.com/starford/stave/internal/annot"
	"github.com/starford/stave/internal/index"
	"github.com/starford/stave/internal/mcpserver"
	"github.com/starford/stave/internal/namespace"
	"github.com/starford/stave/internal/storage"
	pkgconfig "github.com/starford/stave/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func buildRegistry(cfg *internal.Config) (*namespace.Registry, error) {
	reg := namespace.Builtin()
	if cfg.Schemas.Path != "" {
		if err := reg.LoadDir(cfg.Schemas.Path); err != nil {
			return nil, fmt.Errorf("load schema catalogs: %w", err)
		}
	}
	return reg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	return mcpserver.New(store, db, reg).ServeStdio()
}

func runValidate(_ context.Context, cmd *cli.Command) error {
	// Standalone validation should work without a server config file.
	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(cmd.String("config")); err == nil {
		if cfg, err = loadConfig(cmd); err != nil {
			return err
		}
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("no files given")
	}

	invalid := 0
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		doc, err := annot.Decode(data)
		if err != nil {
			fmt.Printf("%s: %v\n", p, err)
			invalid++
			continue
		}
		problems := doc.Validate(reg)
		for _, prob := range problems {
			fmt.Printf("%s: %s\n", p, prob.String())
		}
		if !problems.Valid() {
			invalid++
		} else {
			fmt.Printf("%s: ok (%d warnings)\n", p, len(problems.Warnings()))
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d files invalid", invalid, len(paths))
	}
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "stave",
		Usage:  "Annotation vault server with namespace validation, full-text search, and SQLite indexing",
		Action: runServe,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:      "validate",
				Usage:     "Validate annotation documents and print their problems",
				ArgsUsage: "FILE...",
				Action:    runValidate,
				Flags:     []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
