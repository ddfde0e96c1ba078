package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/api"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

var (
	reportFormatFlag   string
	reportNameFlag     string
	reportDownloadFlag bool
	reportDirFlag      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate reports from backend templates",
	Long: `List report templates, fill one with JSON data, and download the result.

Examples:
  cortex report templates
  cortex report generate weekly data.json --format pdf --download
  cortex report download weekly_20250106.pdf`,
}

var reportTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List report templates",
	Args:  cobra.NoArgs,
	RunE:  runReportTemplates,
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate <template-id> [data.json|-]",
	Short: "Generate a report from a template",
	Long: `Fill a template with a JSON object read from a file (or stdin) and
generate an html, pdf or docx report. The data is checked locally, including
the template's required fields, before anything is generated.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runReportGenerate,
}

var reportDownloadCmd = &cobra.Command{
	Use:   "download <filename>",
	Short: "Download a generated report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportDownload,
}

func init() {
	reportGenerateCmd.Flags().StringVarP(&reportFormatFlag, "format", "F", models.ReportHTML, "Output format (html, pdf, docx)")
	reportGenerateCmd.Flags().StringVar(&reportNameFlag, "name", "", "Custom report file name")
	reportGenerateCmd.Flags().BoolVarP(&reportDownloadFlag, "download", "d", false, "Download the report once generated")
	reportGenerateCmd.Flags().StringVar(&reportDirFlag, "dir", "", "Directory to save into")
	reportDownloadCmd.Flags().StringVar(&reportDirFlag, "dir", "", "Directory to save into")

	reportCmd.AddCommand(reportTemplatesCmd)
	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportDownloadCmd)
}

func runReportTemplates(cmd *cobra.Command, args []string) error {
	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	templates, err := env.client.ReportTemplates(ctx)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No report templates.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tREQUIRED FIELDS")
	for _, t := range templates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.TemplateID, truncate(t.Name, 40), t.Type, strings.Join(t.RequiredFields, ", "))
	}
	return w.Flush()
}

func runReportGenerate(cmd *cobra.Command, args []string) error {
	templateID := args[0]
	raw, err := readInput(cmd, args[1:])
	if err != nil {
		return err
	}

	// Reject bad input before touching the network
	data, err := api.ValidateReportData(raw)
	if err != nil {
		return err
	}
	format, err := api.ParseReportFormat(reportFormatFlag)
	if err != nil {
		return err
	}
	if reportNameFlag != "" {
		if err := api.ValidateFilename(reportNameFlag); err != nil {
			return err
		}
	}

	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	templates, err := env.client.ReportTemplates(ctx)
	if err != nil {
		return err
	}
	tmpl, ok := findTemplate(templates, templateID)
	if !ok {
		ids := make([]string, len(templates))
		for i, t := range templates {
			ids[i] = t.TemplateID
		}
		return fmt.Errorf("unknown report template %q (available: %s)", templateID, strings.Join(ids, ", "))
	}
	if missing := api.MissingReportFields(data, tmpl.RequiredFields); len(missing) > 0 {
		return fmt.Errorf("report data is missing required fields: %s", strings.Join(missing, ", "))
	}

	report, err := progress(cmd.ErrOrStderr(), deps.IsTTY(), "Generating "+tmpl.Name, "Generated", func() (*models.GeneratedReport, error) {
		return env.client.GenerateReport(ctx, tmpl.TemplateID, data, format, reportNameFlag)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\t%s\t%d bytes\n", report.Filename, report.Format, report.FileSize)
	if !reportDownloadFlag {
		return nil
	}

	dir, err := reportDir(env.cfg)
	if err != nil {
		return err
	}
	path, err := env.client.DownloadReport(ctx, report.Filename, dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}

func runReportDownload(cmd *cobra.Command, args []string) error {
	filename := args[0]
	if err := api.ValidateFilename(filename); err != nil {
		return err
	}

	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	dir, err := reportDir(env.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()

	path, err := progress(cmd.ErrOrStderr(), deps.IsTTY(), "Downloading "+filename, "Downloaded", func() (string, error) {
		return env.client.DownloadReport(ctx, filename, dir)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func findTemplate(templates []models.ReportTemplate, id string) (models.ReportTemplate, bool) {
	for _, t := range templates {
		if strings.EqualFold(t.TemplateID, strings.TrimSpace(id)) {
			return t, true
		}
	}
	return models.ReportTemplate{}, false
}

func reportDir(cfg config.Config) (string, error) {
	if reportDirFlag != "" {
		return reportDirFlag, nil
	}
	return config.GetDownloadDir(cfg)
}
