package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bayflow/config"
	"github.com/target/bayflow/internal/domain/model"
	"github.com/target/bayflow/internal/testutil"
)

func TestPrintUsageListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))

	out := buf.String()
	prev := -1
	for _, name := range []string{"config-put", "config-validate", "enqueue", "jobs", "migrate", "route"} {
		idx := strings.Index(out, "  "+name+" ")
		require.GreaterOrEqual(t, idx, 0, "usage is missing %s", name)
		assert.Greater(t, idx, prev, "%s out of order", name)
		prev = idx
	}
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	opts, err = parseMigrateFlags([]string{"--timeout", "30s"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Timeout)

	_, err = parseMigrateFlags([]string{"--timeout", "0s"})
	require.Error(t, err)
}

func TestParseArrivalFlags(t *testing.T) {
	opts, err := parseArrivalFlags("route", []string{"--key", "inbound/acme/inbox/a.csv"}, "landing")
	require.NoError(t, err)
	assert.Equal(t, "landing", opts.Bucket)
	assert.Equal(t, "inbound/acme/inbox/a.csv", opts.Key)
	assert.NotEmpty(t, opts.ExecutionID, "execution id defaults to a new uuid")

	opts, err = parseArrivalFlags("route", []string{
		"--bucket", "other", "--key", "k", "--execution-id", " exec-9 ",
	}, "landing")
	require.NoError(t, err)
	assert.Equal(t, model.FileArrival{Bucket: "other", Key: "k", ExecutionID: "exec-9"}, opts.arrival())

	_, err = parseArrivalFlags("route", nil, "landing")
	require.ErrorContains(t, err, "--key")

	_, err = parseArrivalFlags("enqueue", []string{"--key", "k"}, "")
	require.ErrorContains(t, err, "--bucket")
}

func TestParseJobsFlags(t *testing.T) {
	opts, err := parseJobsFlags([]string{"--tenant", "acme", "--status", "failed"})
	require.NoError(t, err)
	assert.Equal(t, "acme", opts.Tenant)
	assert.Equal(t, model.JobStatusFailed, opts.Status)
	assert.Equal(t, 50, opts.Limit)

	_, err = parseJobsFlags([]string{"--status", "DONE"})
	require.Error(t, err)

	_, err = parseJobsFlags([]string{"--limit", "0"})
	require.Error(t, err)
}

func TestRenderJobsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderJobsTable(&buf, nil))
	assert.Equal(t, "No jobs found.\n", buf.String())

	buf.Reset()
	ts := testutil.TestTime()
	jobs := []*model.FileJob{
		{JobID: "exec-1", FileName: "a.csv", Tenant: "acme", FlowID: "inbound-v1", Status: model.JobStatusSuccess, UpdatedAt: ts},
		{
			JobID: "exec-2", FileName: "b.csv", Tenant: "acme", FlowID: "inbound-v1", Status: model.JobStatusFailed,
			UpdatedAt: ts, ErrorMessage: testutil.StringPtr("copy failed"),
		},
	}
	require.NoError(t, renderJobsTable(&buf, jobs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "JOB ID"))
	assert.Contains(t, lines[1], "SUCCESS")
	assert.Contains(t, lines[2], "copy failed")
	assert.Contains(t, lines[2], ts.UTC().Format(time.RFC3339))
}

func TestRenderJobView(t *testing.T) {
	var buf bytes.Buffer
	view := &model.FileJobView{
		FileJob: &model.FileJob{
			JobID: "exec-1", FileName: "a.csv", Tenant: "acme", FlowID: "inbound-v1", Status: model.JobStatusSuccess,
		},
		SourceS3: model.ObjectLocation{Bucket: "landing", Key: "a.csv"},
		TargetS3: model.ObjectLocation{Bucket: "target", Key: "a.csv"},
	}
	require.NoError(t, renderJobView(&buf, view))
	assert.Contains(t, buf.String(), "s3://landing/a.csv")
	assert.Contains(t, buf.String(), "s3://target/a.csv")
	assert.NotContains(t, buf.String(), "Error:")
}

func TestConfigValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, testutil.AcmePartnerConfig().
		WithFlow("globex", "inbound-v2", "processed/globex/", "archive/globex/").
		WithArchiveEnabled(false).JSON(), 0o600))

	var buf bytes.Buffer
	cmdCtx := &commandContext{Ctx: context.Background(), Logger: slog.Default(), Stdout: &buf}
	require.NoError(t, runConfigValidate(cmdCtx, []string{"--file", good}))

	out := buf.String()
	assert.Contains(t, out, "is valid")
	assert.Less(t, strings.Index(out, "acme"), strings.Index(out, "globex"))
	assert.Contains(t, out, "processed/globex/")
	assert.Contains(t, out, "archive enabled: false")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"partners":{"acme":{"flows":{"inbound-v1":{"target_prefix":"p/"}}}}}`), 0o600))
	err := runConfigValidate(cmdCtx, []string{"--file", bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partners.acme.flows.inbound-v1.archive_prefix")

	require.Error(t, runConfigValidate(cmdCtx, nil))
	require.Error(t, runConfigValidate(cmdCtx, []string{"--file", filepath.Join(dir, "missing.json")}))
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, confirm(&out, strings.NewReader("yes\n"), "About to replace."))
	assert.Contains(t, out.String(), "Continue? [y/N]")

	require.Error(t, confirm(&out, strings.NewReader("n\n"), "About to replace."))
	require.Error(t, confirm(&out, strings.NewReader(""), "About to replace."))
}

func TestDescribeConfigTarget(t *testing.T) {
	assert.Equal(t, "s3://cfg/partners.json", describeConfigTarget(config.PartnerConfigStoreConfig{
		Backend: config.PartnerConfigBackendS3, Bucket: "cfg", Key: "partners.json",
	}))
	assert.Equal(t, "redis key bayflow:config:partners.json", describeConfigTarget(config.PartnerConfigStoreConfig{
		Backend: config.PartnerConfigBackendRedis, RedisKey: "bayflow:config:partners.json",
	}))
}

func TestHasRedisConfig(t *testing.T) {
	assert.False(t, hasRedisConfig(nil))
	assert.False(t, hasRedisConfig(&config.RedisConfig{}))
	assert.True(t, hasRedisConfig(&config.RedisConfig{URI: "localhost:6379"}))
	assert.False(t, hasRedisConfig(&config.RedisConfig{UseSentinel: true}))
	assert.True(t, hasRedisConfig(&config.RedisConfig{UseCluster: true, ClusterNodes: []string{"n1:7000"}}))
	require.ErrorIs(t, requireRedisConfig(&config.RedisConfig{}), errRedisNotConfigured)
}
