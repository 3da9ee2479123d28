package di

import (
	"context"
	"fmt"
	"time"

	"PriceCast/internal/domain/repository"
	"PriceCast/internal/forecast"
	"PriceCast/internal/handler/api"
	internalrepo "PriceCast/internal/repository"
	"PriceCast/internal/service/alphavantage"
	"PriceCast/internal/usecase"
	"PriceCast/pkg/cache"
	pkgch "PriceCast/pkg/clickhouse"
	"PriceCast/pkg/config"
	xhttp "PriceCast/pkg/http"
	pkgkafka "PriceCast/pkg/kafka"
	applogger "PriceCast/pkg/logger"
	"PriceCast/pkg/metrics"
	"PriceCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisCache creates the Redis client, or nil when disabled.
func ProvideRedisCache(cfg *config.Config) *cache.RedisCache {
	if !cfg.Redis.Enabled {
		return nil
	}
	return cache.NewRedisCache(
		cache.WithAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithCredentials(cfg.Redis.Password, cfg.Redis.DB),
		cache.WithPrefix(cfg.Redis.Prefix),
	)
}

// ProvideModelStore creates the durable model store.
func ProvideModelStore(c *cache.RedisCache, cfg *config.Config) repository.ModelStore {
	if c == nil {
		return internalrepo.NewNopModelStore()
	}
	return internalrepo.NewRedisModelStore(c, cfg.Model.StorageKey)
}

// ProvidePrefStore creates the preference store.
func ProvidePrefStore(c *cache.RedisCache, cfg *config.Config) repository.PrefStore {
	if c == nil {
		return internalrepo.NewNopPrefStore()
	}
	return internalrepo.NewRedisPrefStore(c, cfg.Model.StorageKey+":prefs")
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// history archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	client, err := pkgch.Open(pkgch.Config{
		Host:             cfg.History.Host,
		Port:             cfg.History.Port,
		Database:         cfg.History.Database,
		User:             cfg.History.User,
		Password:         cfg.History.Password,
		UseHTTP:          cfg.History.UseHTTP,
		AsyncInsert:      cfg.History.AsyncInsert,
		WaitForAsync:     cfg.History.WaitForAsync,
		DialTimeout:      cfg.History.DialTimeout,
		ReadTimeout:      cfg.History.ReadTimeout,
		MaxExecutionTime: cfg.History.MaxExecutionTime,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.History.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".daily_bars (symbol String, day Date, close Float64, inserted_at DateTime DEFAULT now()) ENGINE=ReplacingMergeTree ORDER BY (symbol, day)",
		"CREATE TABLE IF NOT EXISTS " + db + ".forecasts (symbol String, day Date, close Float64, mock UInt8, inserted_at DateTime DEFAULT now()) ENGINE=MergeTree ORDER BY (symbol, inserted_at, day)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideHistoryStore creates the bars/forecast archive.
func ProvideHistoryStore(chClient *pkgch.Client, cfg *config.Config) repository.HistoryStore {
	if chClient == nil {
		return internalrepo.NewNopHistory()
	}
	db := cfg.History.Database
	return internalrepo.NewClickHouseHistory(chClient.DB(), db+".daily_bars", db+".forecasts")
}

// ProvideKafkaProducer creates a Kafka producer, or nil when events are disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Events.Linger),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithAsync(cfg.Events.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideForecastPublisher creates the forecast event publisher.
func ProvideForecastPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ForecastPublisher {
	if producer == nil {
		return internalrepo.NewNopForecastPublisher()
	}
	return internalrepo.NewKafkaForecastPublisher(producer, cfg.Events.Topic)
}

// ProvideMarketData creates the Alpha Vantage client.
func ProvideMarketData(cfg *config.Config) repository.MarketData {
	return alphavantage.New(
		cfg.Market.BaseURL,
		cfg.Market.APIKey,
		cfg.Market.Timeout,
		cfg.Market.CacheTTL,
	)
}

// ProvideModeSelector wires the mock and live engines behind the mode switch.
func ProvideModeSelector(cfg *config.Config) *usecase.ModeSelector {
	mock := forecast.NewMockEngine(cfg.Model.MockDelay, time.Now().UnixNano())
	return usecase.NewModeSelector(
		forecast.SelfTest,
		mock, mock,
		forecast.NewLiveTrainer(),
		forecast.NewLivePredictor(),
	)
}

// ProvideProgressHub creates the training progress fan-out.
func ProvideProgressHub() *usecase.ProgressHub {
	return usecase.NewProgressHub(64)
}

// ProvidePipeline creates the forecasting pipeline use case.
func ProvidePipeline(
	market repository.MarketData,
	store repository.ModelStore,
	prefs repository.PrefStore,
	history repository.HistoryStore,
	publisher repository.ForecastPublisher,
	m repository.Metrics,
	selector *usecase.ModeSelector,
	hub *usecase.ProgressHub,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Pipeline {
	return usecase.NewPipeline(market, store, prefs, history, publisher, m, selector, hub, log, usecase.Defaults{
		Symbol:    cfg.Market.Symbol,
		Lookback:  cfg.Model.Lookback,
		Horizon:   cfg.Model.Horizon,
		Epochs:    cfg.Model.Epochs,
		BatchSize: cfg.Model.BatchSize,
		Units:     cfg.Model.Units,
		LearnRate: cfg.Model.LearningRate,
	})
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(log *applogger.Logger, pipeline *usecase.Pipeline) xhttp.Handler {
	return api.NewForecastHandler(log, pipeline)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	redis *cache.RedisCache,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, log, handler, redis, chClient, producer)
}
