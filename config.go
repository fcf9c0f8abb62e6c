package tenk

import "time"

// Providers of the language model and embedding services.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Extractors of the filing body.
const (
	ExtractorGoquery     = "goquery"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Index persistence backends.
const (
	StoreNone   = "none"
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
)

// Config holds application settings. Zero values are replaced by
// DefaultConfig values when loaded from a file.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	Ticker    string `yaml:"ticker"`
	Addr      string `yaml:"addr"`
	Engine    string `yaml:"engine"`
	Extractor string `yaml:"extractor"`
	Store     string `yaml:"store"`
	StorePath string `yaml:"store_path"`

	TopK         int  `yaml:"top_k"`
	ChunkSize    int  `yaml:"chunk_size"`
	ChunkOverlap int  `yaml:"chunk_overlap"`
	Concurrency  int  `yaml:"concurrency"`
	CacheSize    int  `yaml:"cache_size"`
	Watch        bool `yaml:"watch"`

	// GraphRoot is the root of the composable graph: "list" synthesizes
	// over every year, "dict" routes to the GraphRootTopK most relevant.
	GraphRoot     string `yaml:"graph_root"`
	GraphRootTopK int    `yaml:"graph_root_top_k"`

	LLM LLMConfig `yaml:"llm"`
}

// LLMConfig configures the external language model client.
type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	EmbeddingModel    string        `yaml:"embedding_model"`
	BaseURL           string        `yaml:"base_url"`
	Temperature       float32       `yaml:"temperature"`
	MaxTokens         int           `yaml:"max_tokens"`
	ContextTokens     int           `yaml:"context_tokens"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		DataDir:      "./data",
		Ticker:       DefaultTicker,
		Addr:         ":8501",
		Engine:       EngineVector,
		Extractor:    ExtractorGoquery,
		Store:        StoreFS,
		StorePath:    ".",
		TopK:         DefaultTopK,
		ChunkSize:    2000,
		ChunkOverlap: 200,
		Concurrency:  4,
		CacheSize:    8,

		GraphRoot:     string(IndexStructList),
		GraphRootTopK: 1,

		LLM: LLMConfig{
			Provider:          ProviderOpenAI,
			Temperature:       DefaultTemperature,
			MaxTokens:         DefaultMaxTokens,
			ContextTokens:     3000,
			RequestsPerSecond: 5,
			Timeout:           60 * time.Second,
		},
	}
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineVector, EngineLexical:
	default:
		return Errorf(EINVALID, "unknown engine %q", c.Engine)
	}
	switch c.Extractor {
	case ExtractorGoquery, ExtractorTrafilatura, ExtractorReadability:
	default:
		return Errorf(EINVALID, "unknown extractor %q", c.Extractor)
	}
	switch c.Store {
	case StoreNone, StoreFS, StoreSQLite:
	default:
		return Errorf(EINVALID, "unknown store %q", c.Store)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return Errorf(EINVALID, "unknown provider %q", c.LLM.Provider)
	}
	switch IndexStructType(c.GraphRoot) {
	case IndexStructList, IndexStructDict:
	default:
		return Errorf(EINVALID, "unknown graph root %q", c.GraphRoot)
	}
	if c.GraphRootTopK <= 0 {
		return Errorf(EINVALID, "graph root top k must be positive")
	}
	if c.TopK <= 0 {
		return Errorf(EINVALID, "top k must be positive")
	}
	if c.ChunkSize <= 0 {
		return Errorf(EINVALID, "chunk size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return Errorf(EINVALID, "chunk overlap must be between 0 and chunk size")
	}
	if c.LLM.MaxTokens <= 0 {
		return Errorf(EINVALID, "max tokens must be positive")
	}
	return nil
}
