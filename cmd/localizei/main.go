package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/localizei/internal/app"
	"github.com/five82/localizei/internal/logging"
)

var version = "dev"

type rootFlags struct {
	configPath string
	prefsPath  string
	logLevel   string
	logFormat  string
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "localizei: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "localizei",
		Short: "Guia de lojas e serviços da Freguesia no terminal",
		Long: `localizei mostra o guia de lojas locais da Freguesia (Jacarepaguá - RJ):
categorias, destaques, busca e cashback, com login opcional.

Sem subcomando, abre a interface interativa.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				LogLevel:   flags.logLevel,
				LogFormat:  flags.logFormat,
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: $HOME/.config/localizei/config.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "console", "log format (console, json)")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "preferences file (default: $HOME/.config/localizei/prefs.toml)")

	root.AddCommand(storesCmd(flags))
	root.AddCommand(logoutCmd(flags))
	root.AddCommand(logsCmd(flags))
	root.AddCommand(versionCmd())
	return root
}

// setupStderrLogging routes logs to stderr for the non-interactive commands.
func setupStderrLogging(flags *rootFlags) error {
	if _, err := logging.Setup(logging.Options{Level: flags.logLevel, Format: flags.logFormat}); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	return nil
}

func storesCmd(flags *rootFlags) *cobra.Command {
	var q app.StoresQuery
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Lista as lojas (usa o cache offline se o servidor estiver fora)",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return setupStderrLogging(flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ListStores(cmd.Context(), flags.configPath, q, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", "", "filtra por categoria (id ou nome)")
	cmd.Flags().StringVar(&q.Search, "search", "", "texto de busca")
	return cmd
}

func logoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Encerra a sessão salva",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return setupStderrLogging(flags)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Logout(flags.configPath)
		},
	}
}

func logsCmd(flags *rootFlags) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Mostra o fim do log da interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ShowLogs(flags.configPath, lines, level, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "número de linhas (0 mostra tudo)")
	cmd.Flags().StringVar(&level, "level", "info", "nível mínimo (debug, info, warn, error)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "localizei %s\n", version)
		},
	}
}
