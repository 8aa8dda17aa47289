package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FinSight/internal/config"
	"FinSight/internal/etl"
	"FinSight/internal/insight"
	"FinSight/internal/llm"
	"FinSight/internal/marketdata"
	"FinSight/internal/notifier"
	"FinSight/internal/pipeline"
	"FinSight/internal/predictor"
	"FinSight/internal/recorder"
	"FinSight/internal/scheduler"
	"FinSight/internal/sentiment"
	"FinSight/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags)
	log.Println("[INFO] starting FinSight...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[FATAL] failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] invalid config: %v", err)
	}
	log.Printf("[INFO] tracking tickers: %v", cfg.Tickers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Data source: EODHD when configured, Yahoo otherwise.
	var fetcher marketdata.Fetcher
	if cfg.DataSource.Provider == "eodhd" {
		var opts []marketdata.EODHDOption
		if cfg.DataSource.BaseURL != "" {
			opts = append(opts, marketdata.WithBaseURL(cfg.DataSource.BaseURL))
		}
		fetcher = marketdata.NewEODHDFetcher(cfg.DataSource.APIKey, opts...)
	} else {
		fetcher = marketdata.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] using data source: %s", fetcher.Name())

	// Blob store: Azure when a connection string is set, embedded
	// Badger otherwise.
	var store storage.ObjectStore
	if cfg.Storage.ConnectionString != "" {
		azStore, err := storage.NewAzureStore(cfg.Storage.ConnectionString)
		if err != nil {
			log.Fatalf("[FATAL] failed to create azure store: %v", err)
		}
		if err := azStore.EnsureContainers(ctx, cfg.Storage.RawContainer, cfg.Storage.ProcessedContainer); err != nil {
			log.Fatalf("[FATAL] failed to ensure containers: %v", err)
		}
		store = azStore
		log.Println("[INFO] using Azure blob storage")
	} else {
		bStore, err := storage.NewBadgerStore(cfg.Storage.LocalPath)
		if err != nil {
			log.Fatalf("[FATAL] failed to open local store: %v", err)
		}
		store = bStore
		log.Printf("[INFO] using local blob storage at %s", cfg.Storage.LocalPath)
	}
	defer store.Close()

	// LLM client is optional: insights fall back to the template and
	// chat replies with the offline message.
	var llmClient llm.Client
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewAnthropicClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens)
		if err != nil {
			log.Printf("[WARN] failed to create LLM client, using template fallback: %v", err)
		} else {
			llmClient = client
		}
	} else {
		log.Println("[WARN] no LLM API key set, insights use the template fallback")
	}

	var rec recorder.Recorder
	sqlRec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] failed to open run recorder, using noop: %v", err)
		rec = recorder.NewNoopRecorder()
	} else {
		rec = sqlRec
		defer sqlRec.Close()
	}

	pipe := pipeline.New(cfg.Tickers,
		&etl.Stage{
			Fetcher:            fetcher,
			Store:              store,
			RawContainer:       cfg.Storage.RawContainer,
			ProcessedContainer: cfg.Storage.ProcessedContainer,
			FetchDelay:         cfg.Schedule.FetchDelay,
		},
		&insight.Stage{
			Store:              store,
			ProcessedContainer: cfg.Storage.ProcessedContainer,
			Client:             llmClient,
		},
		&predictor.Stage{
			Store:              store,
			ProcessedContainer: cfg.Storage.ProcessedContainer,
		},
		&sentiment.Stage{
			Fetcher:   fetcher,
			Store:     store,
			Container: cfg.Storage.ProcessedContainer,
			NewsLimit: cfg.Sentiment.NewsLimit,
		},
		rec,
	)

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] Telegram notifications enabled")
	}

	sched := scheduler.NewScheduler(ctx, pipe, store, cfg.Storage.ProcessedContainer, llmClient, tn, cfg.Tickers[0])
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] failed to register schedule: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	log.Printf("[INFO] pipeline scheduled: %s", cfg.Schedule.Cron)

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleMessage)
	}

	if os.Getenv("RUN_ON_START") == "true" {
		go sched.RunNow()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("[INFO] received signal %v, shutting down...", sig)
	cancel()
}
