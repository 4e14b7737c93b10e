package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/target/bayflow/internal/bootstrap"
	"github.com/target/bayflow/internal/data"
	"github.com/target/bayflow/internal/domain/model"
	"github.com/target/bayflow/internal/service"
)

type jobsOptions struct {
	JobID   string
	Tenant  string
	Status  model.JobStatus
	Limit   int
	RawJSON bool
}

func parseJobsFlags(args []string) (jobsOptions, error) {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		opts   jobsOptions
		status string
	)
	fs.StringVar(&opts.JobID, "job-id", "", "Show a single job")
	fs.StringVar(&opts.Tenant, "tenant", "", "Only list jobs for this tenant")
	fs.StringVar(&status, "status", "", "Only list jobs in this status (RUNNING, SUCCESS, FAILED)")
	fs.IntVar(&opts.Limit, "limit", service.DefaultJobListLimit, "Maximum number of jobs to read")
	fs.BoolVar(&opts.RawJSON, "json", false, "Print JSON instead of a table")

	if err := fs.Parse(args); err != nil {
		return jobsOptions{}, err
	}

	opts.JobID = strings.TrimSpace(opts.JobID)
	opts.Tenant = strings.TrimSpace(opts.Tenant)
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		opts.Status = model.JobStatus(status)
		if !opts.Status.Valid() {
			return jobsOptions{}, fmt.Errorf("invalid --status %q (valid options: RUNNING, SUCCESS, FAILED)", status)
		}
	}
	if opts.Limit <= 0 {
		return jobsOptions{}, errors.New("--limit must be greater than zero")
	}
	return opts, nil
}

func runJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseJobsFlags(args)
	if err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	svc, err := service.NewJobQueryService(service.JobQueryServiceOptions{
		Repo:          data.NewFileJobRepo(db, data.FileJobRepoConfig{Logger: cmdCtx.Logger}),
		LandingBucket: cmdCtx.Config.Storage.LandingBucket,
		TargetBucket:  cmdCtx.Config.Storage.TargetBucket,
	})
	if err != nil {
		return err
	}

	if opts.JobID != "" {
		view, err := svc.Get(cmdCtx.Ctx, opts.JobID)
		if err != nil {
			return err
		}
		if opts.RawJSON {
			return printJSON(cmdCtx, view)
		}
		return renderJobView(cmdCtx.Stdout, view)
	}

	jobs, err := svc.List(cmdCtx.Ctx, model.FileJobListOptions{
		Tenant: opts.Tenant,
		Status: opts.Status,
		Limit:  opts.Limit,
	})
	if err != nil {
		return err
	}
	if opts.RawJSON {
		return printJSON(cmdCtx, jobs)
	}
	return renderJobsTable(cmdCtx.Stdout, jobs)
}

func renderJobsTable(w io.Writer, jobs []*model.FileJob) error {
	if len(jobs) == 0 {
		return writeln(w, "No jobs found.")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "JOB ID\tFILE\tTENANT\tFLOW\tSTATUS\tUPDATED (UTC)\tERROR"); err != nil {
		return fmt.Errorf("write jobs header row: %w", err)
	}
	for _, j := range jobs {
		errMsg := ""
		if j.ErrorMessage != nil {
			errMsg = *j.ErrorMessage
		}
		if err := writef(
			tw,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.JobID,
			j.FileName,
			j.Tenant,
			j.FlowID,
			j.Status,
			j.UpdatedAt.UTC().Format(time.RFC3339),
			errMsg,
		); err != nil {
			return fmt.Errorf("write jobs row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush jobs table: %w", err)
	}
	return nil
}

func renderJobView(w io.Writer, v *model.FileJobView) error {
	lines := []struct {
		label string
		value string
	}{
		{"Job ID", v.JobID},
		{"File", v.FileName},
		{"Tenant", v.Tenant},
		{"Flow", v.FlowID},
		{"Status", string(v.Status)},
		{"Source", v.SourceS3.String()},
		{"Target", v.TargetS3.String()},
		{"Created", v.CreatedAt.UTC().Format(time.RFC3339)},
		{"Updated", v.UpdatedAt.UTC().Format(time.RFC3339)},
	}
	if v.ErrorMessage != nil {
		lines = append(lines, struct {
			label string
			value string
		}{"Error", *v.ErrorMessage})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range lines {
		if err := writef(tw, "%s:\t%s\n", l.label, l.value); err != nil {
			return fmt.Errorf("write job field: %w", err)
		}
	}
	return tw.Flush()
}
