package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/target/bayflow/internal/adapters/jobrunner"
	"github.com/target/bayflow/internal/bootstrap"
	"github.com/target/bayflow/internal/domain/model"
)

type arrivalOptions struct {
	Bucket      string
	Key         string
	ExecutionID string
}

func parseArrivalFlags(name string, args []string, defaultBucket string) (arrivalOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts arrivalOptions
	fs.StringVar(&opts.Bucket, "bucket", defaultBucket, "Landing bucket holding the file (defaults to LANDING_BUCKET)")
	fs.StringVar(&opts.Key, "key", "", "Object key of the landed file (required)")
	fs.StringVar(&opts.ExecutionID, "execution-id", "", "Execution id to record the job under (defaults to a new UUID)")

	if err := fs.Parse(args); err != nil {
		return arrivalOptions{}, err
	}

	opts.Bucket = strings.TrimSpace(opts.Bucket)
	opts.Key = strings.TrimSpace(opts.Key)
	opts.ExecutionID = strings.TrimSpace(opts.ExecutionID)
	if opts.Key == "" {
		return arrivalOptions{}, errors.New("--key is required")
	}
	if opts.Bucket == "" {
		return arrivalOptions{}, errors.New("--bucket is required when LANDING_BUCKET is unset")
	}
	if opts.ExecutionID == "" {
		opts.ExecutionID = uuid.NewString()
	}
	return opts, nil
}

func (o arrivalOptions) arrival() model.FileArrival {
	return model.FileArrival{Bucket: o.Bucket, Key: o.Key, ExecutionID: o.ExecutionID}
}

func runRoute(cmdCtx *commandContext, args []string) error {
	opts, err := parseArrivalFlags("route", args, cmdCtx.Config.Storage.LandingBucket)
	if err != nil {
		return err
	}
	if cmdCtx.Config.Storage.TargetBucket == "" {
		return errors.New("TARGET_BUCKET is required to route files")
	}

	infra, services, err := connectServices(cmdCtx)
	if err != nil {
		return err
	}
	defer closeInfra(cmdCtx, infra)

	res, err := services.Router.Handle(cmdCtx.Ctx, opts.arrival())
	if err != nil {
		return fmt.Errorf("route s3://%s/%s (job %s): %w", opts.Bucket, opts.Key, opts.ExecutionID, err)
	}
	return printJSON(cmdCtx, map[string]any{
		"job_id": opts.ExecutionID,
		"result": res,
	})
}

func runEnqueue(cmdCtx *commandContext, args []string) error {
	opts, err := parseArrivalFlags("enqueue", args, cmdCtx.Config.Storage.LandingBucket)
	if err != nil {
		return err
	}
	if err := requireRedisConfig(&cmdCtx.Config.Redis); err != nil {
		return err
	}

	redisOpt, err := bootstrap.QueueRedisOpt(cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	enqueuer := jobrunner.NewEnqueuer(redisOpt, jobrunner.EnqueuerOptions{
		Queue:    cmdCtx.Config.Queue.Name,
		MaxRetry: cmdCtx.Config.Queue.MaxRetry,
	})
	defer func() {
		if cerr := enqueuer.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close queue client failed", "error", cerr)
		}
	}()

	taskID, err := enqueuer.EnqueueFileArrival(cmdCtx.Ctx, opts.arrival())
	if err != nil {
		return err
	}
	return printJSON(cmdCtx, map[string]string{
		"task_id":      taskID,
		"execution_id": opts.ExecutionID,
		"queue":        cmdCtx.Config.Queue.Name,
	})
}

func printJSON(cmdCtx *commandContext, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return writeln(cmdCtx.Stdout, string(out))
}
