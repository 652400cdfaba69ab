package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kovalyov-valentin/autoblog/internal/config"
)

// rewrite url|feed|batch: прогон пайплайна без сервера, результат в stdout как JSON
func newRewriteCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Run the AI rewriting pipeline and print the result as JSON",
	}
	cmd.PersistentFlags().StringVarP(&category, "category", "c", "", "article category (defaults to the configured one)")

	categoryOrDefault := func() string {
		if category != "" {
			return category
		}
		return config.Get().DefaultCategory
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "url <url>",
		Short: "Rewrite a single article page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return printJSON(newPipeline(config.Get()).ProcessURL(ctx, args[0], categoryOrDefault()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "feed <feed url>",
		Short: "Rewrite the newest items of an RSS or Atom feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return printJSON(newPipeline(config.Get()).ProcessFeed(ctx, args[0], categoryOrDefault()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "batch <url>...",
		Short: "Rewrite several article pages, one result per URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return printJSON(newPipeline(config.Get()).ProcessBatch(ctx, args, categoryOrDefault()))
		},
	})

	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
