package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/chart"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
	"github.com/AlharbiAbdullah/Cortex/internal/render"
	"github.com/AlharbiAbdullah/Cortex/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the Cortex backend.

The chat keeps the last 10 messages as context for each request. Replies
with chart data are drawn in place. Type /help for commands; Esc cancels a
pending request, and Esc or Ctrl+C on an idle screen exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	env, err := newBackendEnv(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	downloadDir, err := config.GetDownloadDir(env.cfg)
	if err != nil {
		return err
	}
	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = downloadDir
	}

	extractor := chart.NewExtractor(chart.Options{DisableSalesFallback: !env.cfg.Chart.SalesFallback}, env.logger)

	return deps.TUI.RunChat(tui.Options{
		Backend:        env.client,
		Session:        newSession(env.cfg, env.logger),
		Theme:          render.ThemeOrDefault(env.cfg.TUITheme),
		Markdown:       render.FromConfig(env.cfg.Markdown, getTerminalWidth()),
		Charts:         chart.NewCache(extractor, 0),
		WelcomePhrases: env.cfg.WelcomePhrases,
		ReducedMotion:  env.cfg.ReducedMotion,
		DownloadDir:    downloadDir,
		ExportDir:      exportDir,
		Clipboard:      deps.Clipboard,
		Logger:         env.logger,
	})
}
