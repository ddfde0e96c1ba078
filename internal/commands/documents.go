package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/api"
	"github.com/AlharbiAbdullah/Cortex/internal/config"
	"github.com/AlharbiAbdullah/Cortex/internal/models"
)

var (
	uploadWaitFlag bool
	jobsLimitFlag  int
	downloadDirArg string
	docsLimitFlag  int
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload documents for ingestion",
	Long: `Upload documents to the backend. Each file is queued as a background
ingestion job; --wait polls the job until it completes or fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-id]",
	Short: "List upload jobs or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJobs,
}

var downloadCmd = &cobra.Command{
	Use:   "download <filename>",
	Short: "Download a generated report",
	Long: `Download a file the backend generated for a reply (the excel_file of a
data analytics answer). Files go to download_dir unless --dir is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List ingested documents",
	Long:    `List the documents the backend has processed, newest uploads first.`,
	Args:    cobra.NoArgs,
	RunE:    runDocuments,
}

func init() {
	documentsCmd.Flags().IntVarP(&docsLimitFlag, "limit", "n", 100, "Maximum number of documents")
	uploadCmd.Flags().BoolVarP(&uploadWaitFlag, "wait", "w", false, "Wait for ingestion to finish")
	jobsCmd.Flags().IntVarP(&jobsLimitFlag, "limit", "n", 20, "Number of jobs to list")
	downloadCmd.Flags().StringVarP(&downloadDirArg, "dir", "d", "", "Directory to save into")
}

func runUpload(cmd *cobra.Command, args []string) error {
	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	out := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	decorated := deps.IsTTY()
	timeout := time.Duration(env.cfg.UploadTimeout) * time.Second

	for _, path := range args {
		name := filepath.Base(path)

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		resp, err := progress(stderr, decorated, "Uploading "+name, "Uploaded "+name, func() (*models.UploadResponse, error) {
			return env.client.Upload(ctx, path, nil)
		})
		if err != nil {
			cancel()
			return fmt.Errorf("upload %s: %w", name, err)
		}
		fmt.Fprintf(out, "%s\tjob %s\t%s\n", resp.Filename, resp.JobID, resp.Status)

		if uploadWaitFlag {
			job, err := env.client.WaitForJob(ctx, resp.JobID, api.DefaultPollInterval, func(j models.UploadJob) {
				env.logger.Debug("job status", "job_id", j.JobID, "status", j.Status)
			})
			cancel()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\tjob %s\t%s\n", job.Filename, job.JobID, job.Status)
			continue
		}
		cancel()
	}
	return nil
}

func runJobs(cmd *cobra.Command, args []string) error {
	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	var jobs []models.UploadJob
	if len(args) == 1 {
		job, err := env.client.GetJob(ctx, args[0])
		if err != nil {
			return err
		}
		jobs = append(jobs, *job)
	} else {
		jobs, err = env.client.ListJobs(ctx, jobsLimitFlag)
		if err != nil {
			return err
		}
	}

	if len(jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No upload jobs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tSTATUS\tFILE\tCREATED\tERROR")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.JobID, j.Status, truncate(j.Filename, 40), j.CreatedAt, truncate(j.Error, 60))
	}
	return w.Flush()
}

func runDownload(cmd *cobra.Command, args []string) error {
	filename := args[0]
	if err := api.ValidateFilename(filename); err != nil {
		return err
	}

	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	dir := downloadDirArg
	if dir == "" {
		if dir, err = config.GetDownloadDir(env.cfg); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(env.cfg.UploadTimeout)*time.Second)
	defer cancel()

	path, err := progress(cmd.ErrOrStderr(), deps.IsTTY(), "Downloading "+filename, "Downloaded", func() (string, error) {
		return env.client.Download(ctx, filename, dir)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runDocuments(cmd *cobra.Command, args []string) error {
	env, err := newBackendEnv(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := requestContext(cmd)
	defer cancel()

	docs, err := env.client.Documents(ctx, docsLimitFlag)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tTYPE\tCATEGORY\tSTATUS\tUPLOADED\tRAG\tTABULAR")
	for _, d := range docs {
		uploaded := d.UploadDate
		if uploaded == "" {
			uploaded = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(d.Filename, 40), d.FileType, d.PrimaryCategory, d.Status, uploaded,
			yesNo(d.FeedTheBrain == 1), yesNo(d.Tableur == 1))
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
