package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/bleve"
	"github.com/fwojciec/tenk/composable"
	"github.com/fwojciec/tenk/dispatch"
	"github.com/fwojciec/tenk/etree"
	"github.com/fwojciec/tenk/fs"
	"github.com/fwojciec/tenk/fsnotify"
	"github.com/fwojciec/tenk/gemini"
	"github.com/fwojciec/tenk/gin"
	"github.com/fwojciec/tenk/goquery"
	"github.com/fwojciec/tenk/hnsw"
	"github.com/fwojciec/tenk/htmltomarkdown"
	"github.com/fwojciec/tenk/ingest"
	"github.com/fwojciec/tenk/lru"
	"github.com/fwojciec/tenk/openai"
	tenkprom "github.com/fwojciec/tenk/prometheus"
	"github.com/fwojciec/tenk/rate"
	"github.com/fwojciec/tenk/readability"
	tenkslog "github.com/fwojciec/tenk/slog"
	"github.com/fwojciec/tenk/sqlite"
	"github.com/fwojciec/tenk/textsplitter"
	"github.com/fwojciec/tenk/trafilatura"
)

// embeddingCacheSize bounds the number of query embeddings kept in memory.
const embeddingCacheSize = 1000

// app holds the wired services of one program run.
type app struct {
	Queries    tenk.QueryService
	Indexer    *ingest.Indexer
	Cache      *lru.IndexCache
	Aggregator *composable.Aggregator
	Metrics    *tenkprom.Metrics
	Server     *gin.Server

	// Watcher and DB are nil unless enabled by the config.
	Watcher *fsnotify.Watcher
	DB      *sqlite.DB
}

// Close releases the watcher and the database.
func (a *app) Close() error {
	var errs []error
	if a.Watcher != nil {
		errs = append(errs, a.Watcher.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// wire builds the service graph described by cfg.
func wire(cfg tenk.Config, logger *slog.Logger) (*app, error) {
	a := &app{Metrics: tenkprom.NewMetrics()}

	rps := cfg.LLM.RequestsPerSecond
	burst := max(1, int(rps))
	limiter := rate.NewLimiter(rps, burst)

	gen, emb, tokens := provider(cfg.LLM)

	rgen := rate.NewGenerator(gen, limiter, cfg.LLM.Provider)
	rgen.Logger = logger
	remb := rate.NewEmbedder(emb, limiter, cfg.LLM.Provider)
	remb.Logger = logger

	var generator tenk.Generator = tenkslog.NewLoggingGenerator(tenkprom.NewGenerator(rgen, a.Metrics), logger)
	var embedder tenk.Embedder = tenkslog.NewLoggingEmbedder(tenkprom.NewEmbedder(remb, a.Metrics), logger)
	queryEmbedder := lru.NewCachedEmbedder(embedder, embeddingCacheSize)

	var builder tenk.IndexBuilder
	switch cfg.Engine {
	case tenk.EngineLexical:
		builder = bleve.NewBuilder()
	default:
		b := hnsw.NewBuilder(embedder)
		b.QueryEmbedder = queryEmbedder
		builder = b
	}

	var extractor tenk.Extractor
	switch cfg.Extractor {
	case tenk.ExtractorTrafilatura:
		extractor = trafilatura.NewExtractor()
	case tenk.ExtractorReadability:
		extractor = readability.NewExtractor()
	default:
		extractor = goquery.NewExtractor()
	}

	parser := &ingest.Parser{
		Extractor: extractor,
		Converter: htmltomarkdown.NewConverter(),
		Splitter:  textsplitter.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
	}
	loader := &ingest.Loader{
		Parser:     parser,
		YearReader: etree.NewFiscalYearReader(),
		Ticker:     cfg.Ticker,
		Logger:     logger,
	}

	var (
		indexStore tenk.IndexStore
		graphStore tenk.GraphStore
	)
	switch cfg.Store {
	case tenk.StoreFS:
		store := fs.NewStore(cfg.StorePath)
		indexStore, graphStore = store, store
	case tenk.StoreSQLite:
		path := cfg.StorePath
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "tenk.db")
		}
		a.DB = sqlite.NewDB(path)
		if err := a.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		store := sqlite.NewStore(a.DB)
		indexStore, graphStore = store, store
	}

	a.Indexer = &ingest.Indexer{
		Loader:      tenkslog.NewLoggingFilingLoader(loader, logger),
		Builder:     builder,
		Store:       indexStore,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	}

	a.Cache = lru.NewIndexCache(a.Indexer, cfg.CacheSize)
	if err := a.Metrics.RegisterCache(a.Cache.Stats); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to register cache metrics: %w", err)
	}

	if cfg.Watch {
		w, err := fsnotify.NewWatcher(a.Cache)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		w.Ticker = cfg.Ticker
		w.Logger = logger
		a.Watcher = w
		a.Cache.OnBuild = w.Watch
	}

	synth := composable.NewSynthesizer(generator)
	synth.ContextTokens = cfg.LLM.ContextTokens
	synth.Concurrency = cfg.Concurrency
	if tokens != nil {
		synth.Tokens = tokens
	}

	router := composable.NewRouter(queryEmbedder)
	router.DefaultTopK = cfg.TopK
	router.RootTopK = cfg.GraphRootTopK

	a.Aggregator = composable.NewAggregator(router, synth)
	a.Aggregator.RootType = tenk.IndexStructType(cfg.GraphRoot)
	a.Aggregator.Embedder = queryEmbedder
	a.Aggregator.Graphs = graphStore
	a.Aggregator.Ticker = cfg.Ticker
	a.Aggregator.Logger = logger

	dispatcher := dispatch.NewDispatcher(tenkslog.NewLoggingIndexSetProvider(a.Cache, logger), a.Aggregator)
	dispatcher.TopK = cfg.TopK
	a.Queries = tenkslog.NewLoggingQueryService(dispatcher, logger)

	a.Server = gin.NewServer(a.Queries)
	a.Server.DataDir = cfg.DataDir
	a.Server.TopK = cfg.TopK
	a.Server.Metrics = a.Metrics.Handler()
	a.Server.Logger = logger

	return a, nil
}

// provider returns the generator and embedder of the configured provider.
// The token counter is nil when the provider offers no local tokenizer.
func provider(cfg tenk.LLMConfig) (tenk.Generator, tenk.Embedder, tenk.TokenCounter) {
	switch cfg.Provider {
	case tenk.ProviderGemini:
		gen := gemini.NewGenerator(cfg.Model)
		gen.BaseURL = cfg.BaseURL
		gen.Temperature = cfg.Temperature
		gen.MaxTokens = cfg.MaxTokens

		emb := gemini.NewEmbedder(cfg.EmbeddingModel)
		emb.BaseURL = cfg.BaseURL

		var tokens tenk.TokenCounter
		if tc, err := gemini.NewTokenCounter(cfg.Model); err == nil {
			tokens = tc
		}
		return gen, emb, tokens
	default:
		client := &http.Client{Timeout: cfg.Timeout}

		gen := openai.NewGenerator(cfg.Model)
		gen.BaseURL = cfg.BaseURL
		gen.Temperature = cfg.Temperature
		gen.MaxTokens = cfg.MaxTokens
		gen.HTTPClient = client

		emb := openai.NewEmbedder(cfg.EmbeddingModel)
		emb.BaseURL = cfg.BaseURL
		emb.HTTPClient = client
		return gen, emb, nil
	}
}
