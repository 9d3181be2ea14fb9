// Package cli - операторский CLI geosync: import, load-raw и sync.
// Аргументы передаются как key=value; итоговый отчёт печатается в stdout, логи идут в stderr.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/config"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/infrastructure/geojsonfile"
	"github.com/mappertrip/geosync/internal/pkg/validator"
	"github.com/mappertrip/geosync/internal/usecase"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// Коды завершения процесса
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Env - зависимости CLI
type Env struct {
	Config *config.Config
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer

	// Open по умолчанию DefaultOpener(Config, Logger)
	Open StoreOpener
	// Source по умолчанию geojsonfile.Reader с ключами из Config
	Source repository.FeatureSource
}

type app struct {
	Env
	settings usecase.Settings
}

// Execute запускает CLI и возвращает код завершения.
// Паника на любом уровне логируется со стеком и даёт ExitFailure.
func Execute(ctx context.Context, args []string, env Env) (code int) {
	defer func() {
		if r := recover(); r != nil {
			env.Logger.Error("Unhandled panic", zap.Any("panic", r), zap.Stack("stack"))
			fmt.Fprintf(env.Stderr, "fatal: %v\n", r)
			code = ExitFailure
		}
	}()

	if env.Open == nil {
		env.Open = DefaultOpener(env.Config, env.Logger)
	}
	if env.Source == nil {
		env.Source = geojsonfile.NewReader(env.Config.Sync.Properties, env.Logger)
	}

	rt := &app{
		Env: env,
		settings: usecase.Settings{
			BatchSize:   env.Config.Sync.BatchSize,
			CountryCode: env.Config.Sync.CountryCode,
			ZoneKind:    env.Config.Sync.ZoneKind,
		},
	}

	root := rt.newRootCommand()
	root.SetArgs(NormalizeArgs(args))
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	if ue, ok := asUsageError(err); ok {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", ue.err)
		fmt.Fprint(env.Stderr, ue.cmd.UsageString())
		return ExitFailure
	}

	env.Logger.Error("Run failed", zap.Error(err))
	fmt.Fprintf(env.Stderr, "error: %v\n", err)
	return ExitFailure
}

func (rt *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "geosync",
		Short: "Reconcile administrative boundaries with MapperTrip safety zones",
		Long: `geosync loads GeoJSON administrative boundaries and reconciles them with
curated safety zones. Arguments are key=value pairs, for example:

  geosync import file=barrios.geojson
  geosync load-raw file=barrios.geojson batch=200
  geosync sync field=name3 value="Ciudad Autónoma de Buenos Aires" dry_run=true`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return newUsageError(cmd, fmt.Errorf("unknown command %q", args[0]))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return newUsageError(cmd, errors.New("command is required"))
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return newUsageError(cmd, err)
	})
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(rt.newImportCmd(), rt.newRawLoadCmd(), rt.newSyncCmd())
	return root
}

func (rt *app) newImportCmd() *cobra.Command {
	var req dto.ImportRequest

	cmd := &cobra.Command{
		Use:   "import file=<path> [batch=N] [country=AR] [store=db|api] [dry_run=true]",
		Short: "Import a GeoJSON FeatureCollection directly as zones",
		Args:  noPositional,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateArgs(cmd, &req)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stores, err := rt.Open(ctx, Need{Zones: true, Store: req.Store, DryRun: req.DryRun})
			if err != nil {
				return err
			}
			defer stores.Close()

			uc := usecase.NewImportUseCase(stores.Zones, rt.Source, rt.events(stores), rt.reports(stores), rt.settings, rt.Logger)
			report, err := uc.Run(ctx, req, ProgressPrinter(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			PrintReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.File, "file", "", "GeoJSON FeatureCollection to import (required)")
	addBatchFlag(cmd, &req.Batch)
	cmd.Flags().StringVar(&req.Country, "country", "", "ISO country code for new zones (default SYNC_COUNTRY_CODE)")
	cmd.Flags().StringVar(&req.Store, "store", dto.StoreDB, "zone store: db or api")
	cmd.Flags().BoolVar(&req.DryRun, "dry_run", false, "run against an in-memory copy, nothing is written")
	return cmd
}

func (rt *app) newRawLoadCmd() *cobra.Command {
	var req dto.RawImportRequest

	cmd := &cobra.Command{
		Use:   "load-raw file=<path> [batch=N] [dry_run=true]",
		Short: "Load a GeoJSON FeatureCollection into the raw boundary table",
		Args:  noPositional,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateArgs(cmd, &req)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stores, err := rt.Open(ctx, Need{Boundaries: true, DryRun: req.DryRun})
			if err != nil {
				return err
			}
			defer stores.Close()

			uc := usecase.NewRawImportUseCase(stores.Boundaries, rt.Source, rt.reports(stores), rt.settings, rt.Logger)
			report, err := uc.Run(ctx, req, ProgressPrinter(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			PrintReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.File, "file", "", "GeoJSON FeatureCollection to load (required)")
	addBatchFlag(cmd, &req.Batch)
	cmd.Flags().BoolVar(&req.DryRun, "dry_run", false, "run against an in-memory overlay, nothing is written")
	return cmd
}

func (rt *app) newSyncCmd() *cobra.Command {
	var req dto.SyncRequest

	cmd := &cobra.Command{
		Use:   "sync field=<name1|name2|name3|region_tag> value=<text> [batch=N] [country=AR] [store=db|api] [dry_run=true]",
		Short: "Link zones to raw boundaries and insert the remaining boundaries as zones",
		Args:  noPositional,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateArgs(cmd, &req)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			markers, err := usecase.LoadRegionMarkers(rt.Config.Sync.RegionMarkersFile)
			if err != nil {
				return fmt.Errorf("%w: %v", usecase.ErrInvalidParams, err)
			}

			stores, err := rt.Open(ctx, Need{Zones: true, Boundaries: true, Store: req.Store, DryRun: req.DryRun})
			if err != nil {
				return err
			}
			defer stores.Close()

			uc := usecase.NewSyncUseCase(stores.Boundaries, stores.Zones, usecase.NewMatchResolver(markers),
				rt.events(stores), rt.reports(stores), rt.settings, rt.Logger)
			report, err := uc.Run(ctx, req, ProgressPrinter(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			PrintReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Field, "field", "", "raw boundary column to filter by (required)")
	cmd.Flags().StringVar(&req.Value, "value", "", "exact column value (required)")
	addBatchFlag(cmd, &req.Batch)
	cmd.Flags().StringVar(&req.Country, "country", "", "ISO country code for new zones (default SYNC_COUNTRY_CODE)")
	cmd.Flags().StringVar(&req.Store, "store", dto.StoreDB, "zone store: db or api")
	cmd.Flags().BoolVar(&req.DryRun, "dry_run", false, "run against an in-memory copy, nothing is written")
	return cmd
}

func addBatchFlag(cmd *cobra.Command, dst *int) {
	cmd.Flags().IntVar(dst, "batch", 0, "records per bulk insert (default SYNC_BATCH_SIZE)")
}

// validateArgs проверяет параметры до подключения к хранилищам
func validateArgs(cmd *cobra.Command, req interface{}) error {
	if err := validator.Validate(req); err != nil {
		return newUsageError(cmd, fmt.Errorf("%w: %s", usecase.ErrInvalidParams, validator.Describe(err)))
	}

	var err error
	switch r := req.(type) {
	case *dto.ImportRequest:
		err = dto.CheckStoreBatch(r.Store, r.Batch)
	case *dto.SyncRequest:
		err = dto.CheckStoreBatch(r.Store, r.Batch)
	}
	if err != nil {
		return newUsageError(cmd, fmt.Errorf("%w: %v", usecase.ErrInvalidParams, err))
	}
	return nil
}

func (rt *app) events(s *Stores) *usecase.EventPublisher {
	if s.Stream == nil {
		return nil
	}
	return usecase.NewEventPublisher(s.Stream, rt.Logger)
}

func (rt *app) reports(s *Stores) *usecase.RunReportUseCase {
	return usecase.NewRunReportUseCase(s.Cache, rt.Config.Cache.RunReportTTL, rt.Logger)
}
