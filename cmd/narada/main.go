// Copyright 2025 Narada AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	narada "github.com/AishSoni/Narada-AI"
	"github.com/AishSoni/Narada-AI/config"
	"github.com/AishSoni/Narada-AI/core"
	"github.com/AishSoni/Narada-AI/extract"
	"github.com/AishSoni/Narada-AI/research"
	"github.com/AishSoni/Narada-AI/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "narada",
		Usage: "Research assistant over private knowledge stacks and web search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the streaming search HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address (overrides NARADA_LISTEN_ADDR)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a single search and print the answer",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "stack",
						Aliases: []string{"s"},
						Usage:   "Knowledge stack name or id to search alongside the web",
					},
				},
			},
			{
				Name:  "stacks",
				Usage: "Manage knowledge stacks",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List all knowledge stacks",
						Action: stacksListCommand,
					},
					{
						Name:      "create",
						Usage:     "Create a knowledge stack",
						ArgsUsage: "<name>",
						Action:    stacksCreateCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "description",
								Aliases: []string{"d"},
								Usage:   "Stack description",
							},
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete a knowledge stack and all its documents",
						ArgsUsage: "<name-or-id>",
						Action:    stacksDeleteCommand,
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Add text or markdown files to a knowledge stack",
				ArgsUsage: "<file>...",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stack",
						Aliases:  []string{"s"},
						Usage:    "Knowledge stack name or id",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openApp() (*narada.App, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	app, err := narada.NewApp(settings)
	if err != nil {
		return nil, nil, err
	}
	return app, settings, nil
}

func serveCommand(c *cli.Context) error {
	app, settings, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	addr := c.String("addr")
	if addr == "" {
		addr = settings.ListenAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(app.Engine()).ListenAndServe(ctx, addr)
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	app, _, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := c.Context
	stackID := ""
	if name := c.String("stack"); name != "" {
		stack, err := resolveStack(ctx, app, name)
		if err != nil {
			return err
		}
		stackID = stack.ID
	}

	var failure error
	app.Engine().Search(ctx, query, nil, stackID, func(ev research.SearchEvent) {
		switch ev.Type {
		case research.EventPhaseUpdate, research.EventThinking:
			fmt.Fprintf(os.Stderr, "· %s\n", ev.Message)
		case research.EventFinalResult:
			fmt.Println(ev.Content)
			if len(ev.Sources) > 0 {
				fmt.Println("\nSources:")
				for _, src := range ev.Sources {
					fmt.Printf("  - %s (%s)\n", src.Title, src.URL)
				}
			}
		case research.EventError:
			failure = fmt.Errorf("search failed: %s", ev.Error)
		}
	})
	return failure
}

func stacksListCommand(c *cli.Context) error {
	app, _, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stacks, err := app.Knowledge().ListStacks(c.Context)
	if err != nil {
		return err
	}
	if len(stacks) == 0 {
		fmt.Println("No knowledge stacks.")
		return nil
	}
	for _, s := range stacks {
		fmt.Printf("%s  %s  (%d documents, %s)\n", s.ID, s.Name, s.DocumentsCount, s.Size)
	}
	return nil
}

func stacksCreateCommand(c *cli.Context) error {
	name := strings.TrimSpace(c.Args().First())
	if name == "" {
		return fmt.Errorf("stack name is required")
	}

	app, _, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stack, err := app.Knowledge().CreateStack(c.Context, name, c.String("description"))
	if err != nil {
		return err
	}
	fmt.Printf("Created stack %s (%s)\n", stack.Name, stack.ID)
	return nil
}

func stacksDeleteCommand(c *cli.Context) error {
	ref := strings.TrimSpace(c.Args().First())
	if ref == "" {
		return fmt.Errorf("stack name or id is required")
	}

	app, _, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stack, err := resolveStack(c.Context, app, ref)
	if err != nil {
		return err
	}
	if err := app.Knowledge().DeleteStack(c.Context, stack.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted stack %s (%s)\n", stack.Name, stack.ID)
	return nil
}

func ingestCommand(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	app, _, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stack, err := resolveStack(c.Context, app, c.String("stack"))
	if err != nil {
		return err
	}

	for _, path := range c.Args().Slice() {
		name := filepath.Base(path)
		if !extract.Supported(name) {
			fmt.Fprintf(os.Stderr, "skipping %s: unsupported file type\n", path)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content, meta, err := extract.FromFile(name, data)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}

		doc, err := app.Knowledge().AddDocument(c.Context, stack.ID, &core.Document{
			Name:     name,
			Type:     strings.TrimPrefix(filepath.Ext(name), "."),
			Content:  content,
			Metadata: meta,
		})
		if err != nil {
			if errors.Is(err, core.ErrDuplicateDocument) {
				fmt.Fprintf(os.Stderr, "skipping %s: already in stack\n", path)
				continue
			}
			return err
		}
		fmt.Printf("Added %s (%s)\n", doc.Name, doc.ID)
	}

	// Let queued embedding jobs finish before the process exits.
	app.Knowledge().Flush()
	return nil
}

// resolveStack accepts either a stack name or a stack id.
func resolveStack(ctx context.Context, app *narada.App, ref string) (*core.KnowledgeStack, error) {
	stack, err := app.Knowledge().GetStackByName(ctx, ref)
	if err == nil {
		return stack, nil
	}
	if !errors.Is(err, core.ErrKnowledgeStackNotFound) {
		return nil, err
	}
	return app.Knowledge().GetStack(ctx, ref)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
