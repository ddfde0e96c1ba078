package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

var expertsCmd = &cobra.Command{
	Use:     "experts",
	Aliases: []string{"personas"},
	Short:   "List the expert personas",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		aliases := make(map[string][]string)
		for alias, id := range models.PersonaAliases() {
			aliases[id] = append(aliases[id], alias)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tID\tNAME\tTIMEOUT\tALIASES")
		normal, heavy := cfg.ChatTimeouts()
		for _, p := range models.AllPersonas() {
			marker := ""
			if p.ID == cfg.DefaultExpert {
				marker = "*"
			}
			timeout := normal
			for _, id := range cfg.HeavyExperts {
				if id == p.ID {
					timeout = heavy
				}
			}
			names := aliases[p.ID]
			sort.Strings(names)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, p.ID, p.DisplayName, timeout, strings.Join(names, ", "))
		}
		return w.Flush()
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\tID\tNAME")
		for _, m := range models.AllModels() {
			marker := ""
			if m.ID == cfg.DefaultModel {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", marker, m.ID, m.DisplayName)
		}
		return w.Flush()
	},
}
