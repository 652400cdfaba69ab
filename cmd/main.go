package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/autoblog/internal/config"
	"github.com/kovalyov-valentin/autoblog/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "autoblog",
		Short:        "Automotive blog with an AI rewriting pipeline",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		// Логгер нужен всем подкомандам
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Сломанный конфиг - ошибка старта
			cfg, err := config.Init()
			if err != nil {
				return err
			}

			if _, err := logger.New(cfg.LogLevel); err != nil {
				return errors.Wrap(err, "init logger")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newRewriteCommand())

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		zap.S().Info("use 'serve' to run the blog or 'rewrite' to process articles from the command line")
		_ = cmd.Help()
	}

	return rootCmd
}
