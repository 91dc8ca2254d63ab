package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kevinmichaelchen/showcase/internal/cache"
	"github.com/kevinmichaelchen/showcase/internal/config"
	"github.com/kevinmichaelchen/showcase/internal/github"
	"github.com/kevinmichaelchen/showcase/internal/llm"
	"github.com/kevinmichaelchen/showcase/internal/models"
	"github.com/kevinmichaelchen/showcase/internal/pipeline"
	"github.com/kevinmichaelchen/showcase/internal/profile"
	"github.com/kevinmichaelchen/showcase/internal/projects"
	"github.com/kevinmichaelchen/showcase/internal/server"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	root := &cobra.Command{
		Use:   "showcase",
		Short: "GitHub repositories → portfolio project list",
	}

	root.AddCommand(serveCmd(), projectsCmd(), showCmd(), validateCmd(), suggestCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newFetcher wraps the GitHub client in the circuit breaker shared by every
// locale.
func newFetcher(cfg *config.Config) (*github.BreakerFetcher, error) {
	opts := []github.Option{github.WithToken(cfg.GitHubToken)}
	if cfg.GitHubAPIURL != "" {
		opts = append(opts, github.WithBaseURL(cfg.GitHubAPIURL))
	}
	client, err := github.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return github.NewBreakerFetcher(client), nil
}

func newEngine(cfg *config.Config, f github.Fetcher, locale string) (*pipeline.Engine, error) {
	p, err := profile.Load(cfg.ProfileDir, locale)
	if err != nil {
		return nil, err
	}
	return pipeline.New(f, p, cache.New[pipeline.Snapshot](), cfg.CacheTTL,
		pipeline.WithAccount(cfg.GitHubUsername)), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the project API for every locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f, err := newFetcher(cfg)
			if err != nil {
				return err
			}

			engines := make(map[string]*pipeline.Engine, len(profile.Locales))
			for _, locale := range profile.Locales {
				e, err := newEngine(cfg, f, locale)
				if err != nil {
					return err
				}
				engines[locale] = e
			}

			fmt.Printf("Listening on :%s\n", cfg.Port)
			return server.New(engines, f).Run(":" + cfg.Port)
		},
	}
}

func projectsCmd() *cobra.Command {
	var lang, category, sortBy, query string
	var limit int
	var latest bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects the way the site shows them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := projects.ParseCategory(category)
			if err != nil {
				return err
			}
			key, err := projects.ParseSortKey(sortBy)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f, err := newFetcher(cfg)
			if err != nil {
				return err
			}
			e, err := newEngine(cfg, f, lang)
			if err != nil {
				return err
			}

			state, err := e.Projects(cmd.Context())
			if err != nil {
				return err
			}
			if state.Source == models.SourceSample {
				fmt.Printf("WARN: %s (%s)\n", e.Profile().Labels.FallbackNotice, state.Error)
			}

			if latest {
				limit = e.Profile().LatestCount
			}
			list := projects.Filter(state.Projects, cat)
			list = projects.Search(list, query)
			list = projects.Sort(list, key, e.PinnedOrder())
			list = projects.Limit(list, limit)

			if len(list) == 0 {
				fmt.Println("No projects found")
				return nil
			}

			for i, p := range list {
				pin := " "
				if p.Pinned {
					pin = "*"
				}
				fmt.Printf("%s %d. %s  [%s]  ★ %s  updated %s\n", pin, i+1, p.DisplayName,
					e.Profile().CategoryLabel(p.Category), humanize.Comma(int64(p.Stars)), humanize.Time(p.UpdatedAt))
				fmt.Printf("     %s\n", p.Description)
				if len(p.Tags) > 0 {
					fmt.Printf("     Tags: %s\n", strings.Join(p.Tags, ", "))
				}
				fmt.Printf("     /%s\n", p.Slug)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", profile.Locales[0], "Locale ("+strings.Join(profile.Locales, ", ")+")")
	cmd.Flags().StringVar(&category, "category", "All", "Category filter")
	cmd.Flags().StringVar(&sortBy, "sort", string(projects.SortUpdated), "Sort by updated or stars")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search display name, name and tags")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of projects (0 for all)")
	cmd.Flags().BoolVar(&latest, "latest", false, "Only the profile's latest works")
	return cmd
}

func showCmd() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "show [slug]",
		Short: "Show one project by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f, err := newFetcher(cfg)
			if err != nil {
				return err
			}
			e, err := newEngine(cfg, f, lang)
			if err != nil {
				return err
			}

			p, ok, err := e.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				labels := e.Profile().Labels
				return fmt.Errorf("%s: %s", labels.ProjectNotFoundTitle, labels.ProjectNotFoundSubtitle)
			}

			fmt.Printf("%s (%s)\n", p.DisplayName, p.Name)
			fmt.Printf("%s\n\n", p.Description)
			fmt.Printf("Category: %s\n", e.Profile().CategoryLabel(p.Category))
			if p.Status != "" {
				fmt.Printf("Status:   %s (%s)\n", p.Status, p.StatusTone)
			}
			if p.Language != "" {
				fmt.Printf("Language: %s\n", p.Language)
			}
			fmt.Printf("Stars:    %s  Forks: %s\n", humanize.Comma(int64(p.Stars)), humanize.Comma(int64(p.Forks)))
			if p.UpdatedLabel != "" {
				fmt.Printf("Updated:  %s\n", p.UpdatedLabel)
			}
			fmt.Printf("Repo:     %s\n", p.URL)
			if p.DemoURL != "" {
				fmt.Printf("Demo:     %s\n", p.DemoURL)
			}
			if len(p.Tags) > 0 {
				fmt.Printf("Tags:     %s\n", strings.Join(p.Tags, ", "))
			}
			if p.LongDescription != "" {
				fmt.Printf("\n%s\n", strings.TrimSpace(p.LongDescription))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", profile.Locales[0], "Locale")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every locale profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			all, err := profile.LoadAll(cfg.ProfileDir)
			if err != nil {
				return err
			}
			for _, locale := range profile.Locales {
				p := all[locale]
				fmt.Printf("%s: %s, %d pinned, %d overrides, %d hidden, %d samples\n",
					locale, p.GitHubUsername, len(p.PinnedProjects), len(p.Overrides),
					len(p.HiddenProjects), len(p.SampleProjects))
			}
			fmt.Println("Profiles OK")
			return nil
		},
	}
}

func suggestCmd() *cobra.Command {
	var lang string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Draft overrides with AI for repos the profile does not describe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.LLMAPIKey == "" {
				return errors.New("LLM_API_KEY is not set")
			}
			p, err := profile.Load(cfg.ProfileDir, lang)
			if err != nil {
				return err
			}
			f, err := newFetcher(cfg)
			if err != nil {
				return err
			}

			llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
			overrides, err := pipeline.SuggestOverrides(cmd.Context(), f, p, p.Account(cfg.GitHubUsername), llmClient)
			if err != nil {
				return err
			}
			if interactive {
				if overrides, err = review(overrides); err != nil {
					return err
				}
			}
			if len(overrides) == 0 {
				return nil
			}

			out, err := yaml.Marshal(struct {
				ProjectOverrides []models.Override `yaml:"projectOverrides"`
			}{overrides})
			if err != nil {
				return fmt.Errorf("encoding overrides: %w", err)
			}
			fmt.Printf("\n%s", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", profile.Locales[0], "Locale whose profile is checked")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Review each suggestion before printing")
	return cmd
}
