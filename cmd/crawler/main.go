// Command crawler runs one resumable crawl of the listing site. Seeds come
// from the command line, SEEDS_FILE or SEED_URLS; without any, regions are
// discovered from INDEX_URL. Interrupting the process checkpoints pending
// work so the next run resumes it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"relentless-househunter/common"
	"relentless-househunter/internal/browser"
	"relentless-househunter/internal/checkpoint"
	"relentless-househunter/internal/config"
	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/dataset"
	"relentless-househunter/internal/engine"
	"relentless-househunter/internal/fetch"
	"relentless-househunter/internal/graph"
	"relentless-househunter/internal/kafka"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/metrics"
	"relentless-househunter/internal/site/idealista"
	"relentless-househunter/internal/store"
	"relentless-househunter/internal/unblock"
)

func main() {
	logger := logging.NewLoggerWithService("crawler")
	config.LoadEnv(logger)
	cfg := config.Load()

	seedsFile := flag.String("seeds", cfg.SeedsFile, "YAML or JSON file listing navigation URLs")
	flag.Parse()
	cfg.SeedsFile = *seedsFile

	seeds, err := cfg.ResolveSeeds(flag.Args())
	if err != nil {
		logger.WithError(err).Fatal("failed to resolve seeds")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := common.GetEnv("RUN_ID", uuid.NewString())
	err = run(ctx, cfg, runID, seeds, logger)
	stop()
	switch {
	case err == nil:
		logger.WithField("run_id", runID).Info("crawl complete")
	case errors.Is(err, context.Canceled):
		logger.WithField("run_id", runID).Info("crawl interrupted, progress checkpointed")
	default:
		logger.WithError(err).WithField("run_id", runID).Error("crawl failed")
		os.Exit(1)
	}
}

// resources tracks what run opened so it can be released in reverse order.
type resources struct {
	closers []func() error
}

func (r *resources) add(fn func() error) {
	r.closers = append(r.closers, fn)
}

func (r *resources) close(logger logging.Logger) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			logger.WithError(err).Warn("failed to release resource")
		}
	}
}

func run(ctx context.Context, cfg config.Config, runID string, seeds []string, logger *logrus.Entry) error {
	res := &resources{}
	defer res.close(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	cpStore, err := buildCheckpointStore(cfg, res)
	if err != nil {
		return err
	}
	sink, err := buildSink(ctx, cfg, runID, logger, res)
	if err != nil {
		return err
	}
	failures := buildFailurePublisher(cfg, res)
	statusStore := buildStatusStore(cfg, res)

	transport := fetch.TransportConfig{ProxyURL: cfg.ProxyURL, ProxyPool: cfg.ProxyPool, Hostname: cfg.Hostname}
	proxy := fetch.ResolveProxy(transport)
	m.Proxy(proxy)
	client := fetch.NewHTTPClient(transport, logger)

	var robots *fetch.RobotsRules
	if cfg.RespectRobots {
		robots = fetch.LoadRobots(ctx, client, cfg.IndexURL, logger)
	}

	unblocker := unblock.NewManualUnblocker(unblock.Config{PollInterval: cfg.UnblockPoll, Timeout: cfg.UnblockTimeout}, logger)
	fetcher := fetch.NewFetcher(
		fetch.NewHTTPStatusChecker(client, userAgents(cfg)),
		unblocker,
		fetch.Config{MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff},
		logger, m,
	)
	sessions := browser.NewFactory(browser.Config{
		Headless:   cfg.Headless,
		UserAgent:  cfg.UserAgent,
		ProxyURL:   proxy,
		ProfileDir: cfg.ChromeProfileDir,
		WorkDir:    cfg.ChromeWorkDir,
	}, logger)

	coord := engine.New(engine.Deps{
		Sessions:    sessions,
		Extractor:   idealista.NewExtractor(cfg.ReadyTimeout, logger),
		Fetcher:     fetcher,
		Checkpoints: checkpoint.NewManager(cpStore, logger),
		Sink:        sink,
		Failures:    failures,
		Status:      statusStore,
		Robots:      robots,
		Metrics:     m,
		Logger:      logger,
	}, engine.Options{
		RunID:              runID,
		IndexURL:           cfg.IndexURL,
		ListingWorkers:     cfg.ListingWorkers,
		PopTimeout:         cfg.PopTimeout,
		CheckpointInterval: cfg.CheckpointInterval,
		CheckpointPermits:  cfg.CheckpointPermits,
		NavigationDelay:    cfg.NavigationDelay,
		ListingDelay:       cfg.ListingDelay,
		FinalFlushTimeout:  cfg.FinalFlushTimeout,
		SessionAttempts:    cfg.SessionAttempts,
		SessionRetryDelay:  cfg.SessionRetryDelay,
	})

	if cfg.MetricsAddr != "" {
		httpServer := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           newServer(coord, statusStore, reg).routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.WithField("addr", cfg.MetricsAddr).Info("status server listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("status server stopped")
			}
		}()
		res.add(func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	logger.WithFields(logging.Fields{
		"run_id":  runID,
		"seeds":   len(seeds),
		"workers": cfg.ListingWorkers,
		"proxy":   proxy != "",
		"robots":  cfg.RespectRobots,
	}).Info("starting crawl")
	return coord.Run(ctx, seeds)
}

func userAgents(cfg config.Config) []string {
	if cfg.UserAgent != "" {
		return []string{cfg.UserAgent}
	}
	return fetch.DefaultUserAgents
}

func buildCheckpointStore(cfg config.Config, res *resources) (checkpoint.Store, error) {
	switch cfg.CheckpointBackend {
	case "", "file":
		return checkpoint.NewFileStore(cfg.CheckpointDir)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, errors.New("CHECKPOINT_BACKEND=redis requires REDIS_ADDR")
		}
		s := checkpoint.NewRedisStore(cfg.RedisAddr, cfg.RedisPrefix+"checkpoint:")
		res.add(s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown checkpoint backend %q", cfg.CheckpointBackend)
	}
}

// buildSink always writes the CSV dataset and fans out to every configured
// downstream. Kafka is fronted by the Redis dedupe store when available, the
// other sinks upsert by id.
func buildSink(ctx context.Context, cfg config.Config, runID string, logger logging.Logger, res *resources) (crawler.Sink, error) {
	sinks := dataset.MultiSink{dataset.NewCSVSink(cfg.DatasetPath)}

	if cfg.PostgresDSN != "" {
		pg, err := dataset.NewPostgresSink(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		res.add(pg.Close)
		sinks = append(sinks, pg)
	}

	if cfg.Neo4jURI != "" {
		driver, err := graph.NewDriver(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return nil, err
		}
		res.add(func() error { return driver.Close(context.Background()) })
		sinks = append(sinks, dataset.NewNeo4jSink(driver, logger))
	}

	if cfg.KafkaBroker != "" && cfg.KafkaRecordsTopic != "" {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := kafka.Check(checkCtx, cfg.KafkaBroker, cfg.KafkaRecordsTopic)
		cancel()
		if err != nil {
			return nil, err
		}
		producer := kafka.NewProducer(cfg.KafkaBroker, cfg.KafkaRecordsTopic)
		res.add(producer.Close)
		var records crawler.Sink = producer
		if cfg.RedisAddr != "" {
			dedupe := store.NewRedisDedupeStore(cfg.RedisAddr, cfg.RedisPrefix+"seen:")
			res.add(dedupe.Close)
			records = dataset.NewDedupeSink(producer, dedupe, cfg.DedupeTTL, runID, logger)
		}
		sinks = append(sinks, records)
	}
	return sinks, nil
}

func buildFailurePublisher(cfg config.Config, res *resources) crawler.FailurePublisher {
	if cfg.KafkaBroker == "" || cfg.KafkaDLQTopic == "" {
		return nil
	}
	producer := kafka.NewProducer(cfg.KafkaBroker, cfg.KafkaDLQTopic)
	res.add(producer.Close)
	return producer
}

func buildStatusStore(cfg config.Config, res *resources) store.StatusStore {
	if cfg.RedisAddr == "" {
		return store.NewMemoryStatusStore()
	}
	s := store.NewRedisStatusStore(cfg.RedisAddr, cfg.RedisPrefix+"status:", cfg.StatusTTL)
	res.add(s.Close)
	return s
}
