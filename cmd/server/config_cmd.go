package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/healthcover/service-approval-api/internal/configtypes"
	"github.com/healthcover/service-approval-api/internal/service"
)

var setDescription string

// configCmd provides commands for managing system configuration entries
func configCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage system configuration entries",
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "ensure-defaults",
		Short: "Create the default entries that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConfigService(cmd.Context(), func(ctx context.Context, svc *service.ConfigService) error {
				if svcErr := svc.EnsureDefaults(ctx); svcErr != nil {
					return fmt.Errorf("%s", svcErr.ErrorDescription)
				}
				fmt.Println("Default system config is in place")
				return nil
			})
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withConfigService(cmd.Context(), func(ctx context.Context, svc *service.ConfigService) error {
				configs, svcErr := svc.GetAll(ctx)
				if svcErr != nil {
					return fmt.Errorf("%s", svcErr.ErrorDescription)
				}
				return printJSON(configs)
			})
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfigService(cmd.Context(), func(ctx context.Context, svc *service.ConfigService) error {
				cfg, svcErr := svc.GetByKey(ctx, args[0])
				if svcErr != nil {
					return fmt.Errorf("%s", svcErr.ErrorDescription)
				}
				if cfg == nil {
					return fmt.Errorf("system config not found: %s", args[0])
				}
				return printJSON(cfg)
			})
		},
	})

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Create or update an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfigService(cmd.Context(), func(ctx context.Context, svc *service.ConfigService) error {
				cfg, svcErr := svc.Upsert(ctx, args[0], args[1], setDescription)
				if svcErr != nil {
					return fmt.Errorf("%s", svcErr.ErrorDescription)
				}
				return printJSON(cfg)
			})
		},
	}
	setCmd.Flags().StringVar(&setDescription, "description", "", "Description for the entry")
	cfgCmd.AddCommand(setCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			return withConfigService(cmd.Context(), func(ctx context.Context, svc *service.ConfigService) error {
				removed, svcErr := svc.Delete(ctx, id)
				if svcErr != nil {
					return fmt.Errorf("%s", svcErr.ErrorDescription)
				}
				if !removed {
					return fmt.Errorf("system config not found: %d", id)
				}
				fmt.Printf("Deleted system config %d\n", id)
				return nil
			})
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "List the value types entries can be checked against",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printJSON(valueTypeSpecs(configtypes.Default()))
		},
	})

	return cfgCmd
}

func valueTypeSpecs(registry *configtypes.Registry) []configtypes.ValueSpec {
	var specs []configtypes.ValueSpec
	for _, typeStr := range registry.GetAllTypes() {
		handler, err := registry.Get(typeStr)
		if err != nil {
			continue
		}
		specs = append(specs, handler.GetSpec())
	}
	return specs
}

func withConfigService(ctx context.Context, fn func(context.Context, *service.ConfigService) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.SetOutput(os.Stderr)

	svc, db, err := openConfigService(cfg, logger, false)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, svc)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
