package main

import (
	"context"
	"errors"

	"github.com/OFFIS-RIT/catalog-graph/internal/config"
	"github.com/OFFIS-RIT/catalog-graph/internal/sinks"
	"github.com/OFFIS-RIT/catalog-graph/internal/storage"
	"github.com/OFFIS-RIT/catalog-graph/pkg/graph"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger/console"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger/file"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
)

func addConvertFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", "", "Catalog file (CSV or XLSX), local path or s3://bucket/key")
	f.StringP("output", "o", "", "Graph document path, s3://bucket/key or - for stdout")
	f.String("log", "", "Processing log file")
	f.StringP("format", "f", "grouped", "Output format: grouped or jsonl")
	f.String("collection", graph.DefaultCollectionName, "Name of the collection node")
	f.String("database-url", "", "PostgreSQL URL to store the graph in")
	f.String("neo4j-url", "", "Neo4j URL to store the graph in")
	f.String("neo4j-user", "", "Neo4j user")
	f.String("neo4j-password", "", "Neo4j password")
	f.String("neo4j-database", "", "Neo4j database")
	f.String("s3-bucket", "", "Default S3 bucket")
	f.Bool("debug", false, "Enable debug logging")
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	setupLogger(cfg)
	defer logger.Close()

	if err := runConvert(cmd.Context(), cfg); err != nil {
		logger.Error("Conversion failed", "err", err)
		return err
	}
	return nil
}

func setupLogger(cfg *config.Config) {
	instances := []logger.LoggerInstance{
		console.NewConsoleLogger(console.ConsoleLoggerParams{Debug: cfg.Debug}),
	}
	if cfg.LogFile != "" {
		instances = append(instances, file.NewFileLogger(file.FileLoggerParams{
			Path:  cfg.LogFile,
			Debug: cfg.Debug,
		}))
	}
	logger.Init(instances...)
}

func runConvert(ctx context.Context, cfg *config.Config) error {
	if cfg.Input == "" {
		return errors.New("no input file given, use --input")
	}
	format, err := jsonfile.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	var s3Client *s3.Client
	if cfg.S3.Enabled() || sinks.NeedsS3(cfg.Input, cfg.Output) {
		s3Client, err = storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return err
		}
	}

	output, err := sinks.OutputWriter(cfg.Output, format, s3Client)
	if err != nil {
		return err
	}
	writers, closeSinks, err := sinks.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	input, err := sinks.InputFile(cfg.Input, s3Client)
	if err != nil {
		return err
	}
	source, err := loader.RowsFromFile(ctx, input)
	if err != nil {
		return err
	}

	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
		CollectionName: cfg.Collection,
	})
	if err != nil {
		return err
	}
	doc, report, err := client.ProcessGraph(ctx, source)
	if err != nil {
		return err
	}

	if err := store.WriteAll(ctx, doc, output, writers...); err != nil {
		return err
	}

	logger.Info("Conversion finished",
		"run_id", report.RunID,
		"rows", report.TotalRows,
		"processed", report.ProcessedRows,
		"skipped", len(report.Skipped),
		"warnings", len(report.Warnings),
		"nodes", report.TotalNodes(),
		"relationships", report.TotalRelationships(),
	)
	return nil
}
