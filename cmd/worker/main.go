package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/catalog-graph/internal/config"
	"github.com/OFFIS-RIT/catalog-graph/internal/queue"
	"github.com/OFFIS-RIT/catalog-graph/internal/sinks"
	"github.com/OFFIS-RIT/catalog-graph/internal/storage"
	"github.com/OFFIS-RIT/catalog-graph/internal/util"
	"github.com/OFFIS-RIT/catalog-graph/pkg/graph"
	"github.com/OFFIS-RIT/catalog-graph/pkg/leaselock"
	s3loader "github.com/OFFIS-RIT/catalog-graph/pkg/loader/s3"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger/console"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	})
	logger.Init(consoleLogger)

	cfg, err := config.Load(nil)
	if err != nil {
		logger.Fatal("Failed to load configuration", "err", err)
	}
	if !cfg.S3.Enabled() {
		logger.Fatal("The worker needs an S3 bucket, set AWS_BUCKET")
	}
	if !cfg.RabbitMQ.Enabled() {
		logger.Fatal("The worker needs a broker, set RABBITMQ_HOST")
	}

	// Init s3 client
	client, err := storage.NewS3Client(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("Failed to create S3 client", "err", err)
	}

	graphClient, err := graph.NewGraphClient(graph.NewGraphClientParams{
		CollectionName: cfg.Collection,
	})
	if err != nil {
		logger.Fatal("Failed to create graph client", "err", err)
	}

	writers, closeSinks, err := sinks.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open graph sinks", "err", err)
	}
	defer closeSinks()

	handler := &queue.ConvertHandler{
		Client: graphClient,
		Loader: s3loader.NewS3GraphFileLoaderWithClient(cfg.S3.Bucket, client),
		NewOutput: func(key string, format jsonfile.Format) store.GraphWriter {
			return storage.NewGraphObjectWriter(client, cfg.S3.Bucket, key, format)
		},
		Sinks: writers,
	}

	// Lease outputs when a database is available
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		defer pool.Close()
		hostname, _ := os.Hostname()
		handler.Lock = leaselock.New(pool, leaselock.NewClientParams{
			TTL:   10 * time.Minute,
			Owner: hostname + "-",
		})
	}

	// Init rabbitmq
	conn, err := queue.Dial(ctx, cfg.RabbitMQ.URL())
	if err != nil {
		logger.Fatal("Failed to connect to queue", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.ConvertQueue}); err != nil {
		logger.Fatal("Failed to setup queues", "err", err)
	}

	// One message at a time
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := ch.Consume(
		queue.ConvertQueue,
		queue.ConvertQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.ConvertQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.ConvertQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down worker")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.ConvertQueue)
				return
			}

			startTime := time.Now()
			logger.Info("Received message", "queue", queue.ConvertQueue)

			if err := handler.ProcessConvertMessage(ctx, msg.Body); err != nil {
				logger.Error("Error processing message", "queue", queue.ConvertQueue, "err", err)
				queue.HandleProcessingError(ch, msg, queue.ConvertQueue)
				continue
			}
			if err := msg.Ack(false); err != nil {
				logger.Error("Failed to ack message", "err", err)
			}
			logger.Info("Message processed successfully", "queue", queue.ConvertQueue, "duration", time.Since(startTime))
		}
	}
}
