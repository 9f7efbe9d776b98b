package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/reviewlane/reviewlane/internal/aiservice"
	"github.com/reviewlane/reviewlane/internal/config"
	"github.com/reviewlane/reviewlane/internal/logging"
	"github.com/reviewlane/reviewlane/internal/prcontext"
	"github.com/reviewlane/reviewlane/internal/providers/github"
)

const version = "0.1.0"

func main() {
	// Best-effort .env loading for local runs.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "reviewlane",
		Usage:   "Pull-request context pipeline for AI code review",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
		},
		Commands: []*cli.Command{
			buildCommand(),
			rateLimitCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the review context for a pull request",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo", Usage: "Repository in owner/name format", Required: true},
			&cli.IntFlag{Name: "pr", Usage: "Pull request number", Required: true},
			&cli.BoolFlag{Name: "json", Usage: "Print the machine-oriented review payload as JSON"},
			&cli.BoolFlag{Name: "submit", Usage: "Submit the payload to the configured AI service"},
			&cli.BoolFlag{Name: "no-contents", Usage: "Skip fetching file contents"},
			&cli.BoolFlag{Name: "no-commits", Usage: "Skip fetching the commit list"},
		},
		Action: runBuild,
	}
}

func rateLimitCommand() *cli.Command {
	return &cli.Command{
		Name:  "ratelimit",
		Usage: "Show the remaining API quota",
		Action: func(c *cli.Context) error {
			_, client, err := setup(c)
			if err != nil {
				return err
			}

			info, err := client.GetRateLimit(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("%d/%d remaining (resets %s)\n", info.Remaining, info.Limit, info.ResetTime.Format("15:04:05"))
			return nil
		},
	}
}

func runBuild(c *cli.Context) error {
	cfg, client, err := setup(c)
	if err != nil {
		return err
	}

	owner, repo, err := splitRepo(c.String("repo"))
	if err != nil {
		return err
	}

	opts := prcontext.BuildOptions{
		IncludeFileContents: cfg.Pipeline.IncludeFileContents && !c.Bool("no-contents"),
		IncludeCommits:      cfg.Pipeline.IncludeCommits && !c.Bool("no-commits"),
		ContextLines:        cfg.Pipeline.ContextLines,
		MaxFilesToFetch:     cfg.Pipeline.MaxFilesToFetch,
		SkipBinaryFiles:     cfg.Pipeline.SkipBinaryFiles,
		SkipGeneratedFiles:  cfg.Pipeline.SkipGeneratedFiles,
	}

	pc, err := prcontext.Build(c.Context, client, owner, repo, c.Int("pr"), opts)
	if err != nil {
		return err
	}

	payload := prcontext.PrepareForReview(pc)

	if c.Bool("json") {
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		fmt.Print(prcontext.GenerateSummary(pc))
	}

	if c.Bool("submit") {
		if cfg.AIService.BaseURL == "" {
			return errors.New("aiservice.base_url is not configured")
		}
		ai := aiservice.NewClient(cfg.AIService.BaseURL, cfg.AIService.APIKey)
		ack, err := ai.Ingest(context.WithoutCancel(c.Context), payload)
		if err != nil {
			return err
		}
		fmt.Printf("Submitted for review: %s\n", ack.ReviewID)
	}

	return nil
}

func setup(c *cli.Context) (*config.Config, *github.Client, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	token := cfg.GitHub.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, nil, errors.New("no GitHub token configured (set github.token or GITHUB_TOKEN)")
	}

	client := github.NewClient(token, github.WithBaseURL(cfg.GitHub.BaseURL))
	return cfg, client, nil
}

func splitRepo(full string) (string, string, error) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", full)
	}
	return parts[0], parts[1], nil
}
