package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"

	"github.com/target/bayflow/config"
	"github.com/target/bayflow/internal/bootstrap"
	"github.com/target/bayflow/internal/core"
	"github.com/target/bayflow/internal/domain/model"
	apperrors "github.com/target/bayflow/internal/errors"
	"github.com/target/bayflow/internal/service"
)

type configFileOptions struct {
	File string
	Yes  bool
}

func parseConfigFileFlags(name string, args []string) (configFileOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts configFileOptions
	fs.StringVar(&opts.File, "file", "", "Path to the partner configuration JSON document, or - for stdin (required)")
	if name == "config-put" {
		fs.BoolVar(&opts.Yes, "yes", false, "Replace the stored document without prompting")
	}

	if err := fs.Parse(args); err != nil {
		return configFileOptions{}, err
	}
	if strings.TrimSpace(opts.File) == "" {
		return configFileOptions{}, errors.New("--file is required")
	}
	return opts, nil
}

func readConfigFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

// validatePartnerConfig applies the same strict checks as PUT /partners.
func validatePartnerConfig(raw []byte) (*model.PartnerConfig, error) {
	cfg, err := model.DecodePartnerConfigStrict(raw)
	if err != nil {
		if field := apperrors.GetField(err); field != "" {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return nil, err
	}
	return cfg, nil
}

func runConfigValidate(cmdCtx *commandContext, args []string) error {
	opts, err := parseConfigFileFlags("config-validate", args)
	if err != nil {
		return err
	}
	raw, err := readConfigFile(opts.File)
	if err != nil {
		return err
	}
	cfg, err := validatePartnerConfig(raw)
	if err != nil {
		return err
	}

	if err := writef(cmdCtx.Stdout, "%s is valid\n\n", opts.File); err != nil {
		return err
	}
	return renderPartnerConfig(cmdCtx.Stdout, cfg)
}

func runConfigPut(cmdCtx *commandContext, args []string) error {
	opts, err := parseConfigFileFlags("config-put", args)
	if err != nil {
		return err
	}
	raw, err := readConfigFile(opts.File)
	if err != nil {
		return err
	}
	if _, err := validatePartnerConfig(raw); err != nil {
		return err
	}

	target := describeConfigTarget(cmdCtx.Config.PartnerConfig)
	if !opts.Yes {
		if err := confirm(cmdCtx.Stdout, os.Stdin, "About to replace the partner configuration at "+target+"."); err != nil {
			return err
		}
	}

	store, closeStore, err := openPartnerConfigStore(cmdCtx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := service.NewPartnerConfigService(service.PartnerConfigServiceOptions{Store: store, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	cfg, err := svc.Replace(cmdCtx.Ctx, raw)
	if err != nil {
		return err
	}

	if err := writef(cmdCtx.Stdout, "partner configuration stored at %s\n\n", target); err != nil {
		return err
	}
	return renderPartnerConfig(cmdCtx.Stdout, cfg)
}

// openPartnerConfigStore connects only the backend the configured store needs.
//
//nolint:ireturn // the backend is chosen at runtime.
func openPartnerConfigStore(cmdCtx *commandContext) (core.PartnerConfigStore, func(), error) {
	cfg := cmdCtx.Config
	if err := cfg.PartnerConfig.Validate(); err != nil {
		return nil, nil, err
	}

	deps := bootstrap.PartnerConfigStoreDeps{Config: cfg.PartnerConfig}
	closeFn := func() {}

	switch cfg.PartnerConfig.Backend {
	case config.PartnerConfigBackendRedis:
		if err := requireRedisConfig(&cfg.Redis); err != nil {
			return nil, nil, err
		}
		client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: cfg.Redis, Logger: cmdCtx.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.Redis = client
		closeFn = closeRedis(cmdCtx, client)
	default:
		objects, err := bootstrap.ConnectObjectStore(cmdCtx.Ctx, cfg.Storage, cmdCtx.Logger)
		if err != nil {
			return nil, nil, err
		}
		deps.Objects = objects
	}

	store, err := bootstrap.NewPartnerConfigStore(deps)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}

func closeRedis(cmdCtx *commandContext, client redis.UniversalClient) func() {
	return func() {
		if err := client.Close(); err != nil {
			cmdCtx.Logger.Warn("close redis failed", "error", err)
		}
	}
}

func describeConfigTarget(cfg config.PartnerConfigStoreConfig) string {
	if cfg.Backend == config.PartnerConfigBackendRedis {
		return "redis key " + cfg.RedisKey
	}
	return "s3://" + cfg.Bucket + "/" + cfg.Key
}

func renderPartnerConfig(w io.Writer, cfg *model.PartnerConfig) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "TENANT\tFLOW\tTARGET PREFIX\tARCHIVE PREFIX"); err != nil {
		return fmt.Errorf("write partner config header row: %w", err)
	}

	tenants := make([]string, 0, len(cfg.Partners))
	for tenant := range cfg.Partners {
		tenants = append(tenants, tenant)
	}
	sort.Strings(tenants)

	for _, tenant := range tenants {
		flows := cfg.Partners[tenant].Flows
		ids := make([]string, 0, len(flows))
		for id := range flows {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			f := flows[id]
			if err := writef(tw, "%s\t%s\t%s\t%s\n", tenant, id, f.TargetPrefix, f.ArchivePrefix); err != nil {
				return fmt.Errorf("write partner config row: %w", err)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush partner config table: %w", err)
	}
	return writef(w, "\narchive enabled: %t\n", cfg.Defaults.ArchiveEnabledOrDefault())
}

func confirm(w io.Writer, r io.Reader, message string) error {
	if err := writeln(w, message); err != nil {
		return fmt.Errorf("print confirmation message: %w", err)
	}
	if err := writef(w, "Continue? [y/N]: "); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.New("aborted by user")
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}
