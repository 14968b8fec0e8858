// Package container provides dependency injection for the product-intake
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/bankschema"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/batch"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/common"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/config"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/conversation"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/extraction"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/factory"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/filestore"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/reconciler"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/store"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/validation"
)

// Container holds all application dependencies and provides methods to access them.
// It acts as the central registry for dependency injection, ensuring that all
// components receive their required dependencies through constructors.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	registry *bankschema.Registry
	store    *store.SQLStore
	files    *filestore.LocalStore

	engine     *extraction.Engine
	validator  *validation.Validator
	reconciler *reconciler.Reconciler
	pipeline   *intake.Pipeline
	aggregator *batch.BatchAggregator

	machine *conversation.Machine
	driver  *conversation.Driver
}

// Option adjusts container construction.
type Option func(*options)

type options struct {
	logger logging.Logger
	pdf    factory.Options
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPDFAdapterOptions overrides the PDF adapter options derived from the
// configuration, e.g. to inject a text extractor.
func WithPDFAdapterOptions(opts factory.Options) Option {
	return func(o *options) { o.pdf = opts }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
// The database is opened and migrated; call Close to release it.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := options{
		pdf: factory.Options{
			PDFToTextPath: cfg.PDF.PdftotextPath,
			PDFTimeout:    cfg.PDFTimeout(),
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	if len(cfg.CSV.Delimiter) == 1 {
		common.SetDelimiter(rune(cfg.CSV.Delimiter[0]))
	}

	registry, err := LoadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	policy, err := extraction.ParseMatchPolicy(cfg.Extraction.MatchPolicy)
	if err != nil {
		return nil, err
	}
	engine := extraction.NewEngine(registry, extraction.Options{
		Policy:         policy,
		MinBlockLength: cfg.Extraction.MinBlockLength,
	}, logger)

	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	files := filestore.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.BaseURL, logger)
	validator := validation.NewValidator(logger)
	rec := reconciler.New(db, logger)

	pipeline := intake.New(registry, engine, validator, rec, db, intake.Options{
		MaxFileSize: cfg.MaxFileSizeBytes(),
		Adapters:    o.pdf,
	}, logger)

	machine := conversation.NewMachine(registry, db, files, pipeline, logger)
	driver := conversation.NewDriver(machine, conversation.NewMemorySessionStore(), logger)

	logger.Info("Container initialized successfully",
		logging.F("banks", len(registry.Schemas())),
		logging.F("database_driver", cfg.Database.Driver),
		logging.F("match_policy", policy.String()))

	return &Container{
		logger:     logger,
		config:     cfg,
		registry:   registry,
		store:      db,
		files:      files,
		engine:     engine,
		validator:  validator,
		reconciler: rec,
		pipeline:   pipeline,
		aggregator: batch.NewBatchAggregator(logger),
		machine:    machine,
		driver:     driver,
	}, nil
}

// LoadRegistry loads the built-in bank schemas or the configured override file.
func LoadRegistry(cfg *config.Config) (*bankschema.Registry, error) {
	if cfg.Banks.SchemaFile != "" {
		registry, err := bankschema.LoadFile(cfg.Banks.SchemaFile, cfg.Banks.Default)
		if err != nil {
			return nil, fmt.Errorf("failed to load bank schemas from %s: %w", cfg.Banks.SchemaFile, err)
		}
		return registry, nil
	}
	registry, err := bankschema.LoadDefault(cfg.Banks.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank schemas: %w", err)
	}
	return registry, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRegistry returns the bank schema registry.
func (c *Container) GetRegistry() *bankschema.Registry {
	return c.registry
}

// GetStore returns the SQL store.
func (c *Container) GetStore() *store.SQLStore {
	return c.store
}

// GetFileStore returns the upload store.
func (c *Container) GetFileStore() *filestore.LocalStore {
	return c.files
}

// GetEngine returns the extraction engine.
func (c *Container) GetEngine() *extraction.Engine {
	return c.engine
}

// GetValidator returns the record validator.
func (c *Container) GetValidator() *validation.Validator {
	return c.validator
}

// GetReconciler returns the reconciler.
func (c *Container) GetReconciler() *reconciler.Reconciler {
	return c.reconciler
}

// GetPipeline returns the intake pipeline.
func (c *Container) GetPipeline() *intake.Pipeline {
	return c.pipeline
}

// GetAggregator returns the batch aggregator.
func (c *Container) GetAggregator() *batch.BatchAggregator {
	return c.aggregator
}

// GetMachine returns the conversation state machine.
func (c *Container) GetMachine() *conversation.Machine {
	return c.machine
}

// GetDriver returns the conversation driver.
func (c *Container) GetDriver() *conversation.Driver {
	return c.driver
}

// Close releases the database.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Info("Container closed")
	return nil
}
