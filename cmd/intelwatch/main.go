package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/intelwatch/internal/app"
	"github.com/five82/intelwatch/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "intelwatch: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "intelwatch [log-dir]",
		Short: "Watch chat logs and sound an alert on watched systems and characters",
		Long: `intelwatch follows the newest chat log of every configured channel and
plays an alert when a new line mentions a watched system or character.

The watch lists are edited in the terminal UI and saved to the settings file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.LogDir = args[0]
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default ./.env)")
	flags.StringVar(&opts.SettingsPath, "settings", "", "settings file holding the watch lists")
	flags.DurationVar(&opts.PollEvery, "poll", 0, "scan interval (default 1s)")

	root.Flags().BoolVar(&opts.Headless, "headless", false, "run without the editor UI")
	root.Flags().BoolVar(&opts.Debug, "debug", false, "log at debug level")
	root.Flags().StringVar(&opts.PrefsPath, "prefs", "", "UI preferences file (default ~/.config/intelwatch/prefs.toml)")

	root.AddCommand(newFilesCommand(&opts))
	return root
}

func newFilesCommand(opts *app.Options) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "files [log-dir]",
		Short: "Print the chat logs that would be monitored and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listOpts := app.ListOptions{Options: *opts, Lines: lines}
			if len(args) == 1 {
				listOpts.LogDir = args[0]
			}
			return app.ListFiles(cmd.OutOrStdout(), listOpts)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "also print the last n lines of each file")
	return cmd
}
