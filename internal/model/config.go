package model

import "time"

// Config is the full process configuration. Values are resolved once at
// startup (defaults, config file, environment) and passed down; no component
// reads the environment per call.
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Evidence  EvidenceConfig  `yaml:"evidence" mapstructure:"evidence"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Bootstrap BootstrapConfig `yaml:"bootstrap" mapstructure:"bootstrap"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// LLMConfig selects and configures the generative backend.
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // "openai", "deepseek" or "" (disabled)
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// EvidenceConfig configures the literature search adapters.
type EvidenceConfig struct {
	ArxivURL          string        `yaml:"arxiv_url" mapstructure:"arxiv_url"`
	CnkiURL           string        `yaml:"cnki_url" mapstructure:"cnki_url"`
	CnkiKey           string        `yaml:"cnki_key" mapstructure:"cnki_key"`
	SearchLimit       int           `yaml:"search_limit" mapstructure:"search_limit"`
	TimeoutSeconds    int           `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	VerifyWorkers     int           `yaml:"verify_workers" mapstructure:"verify_workers"`
}

// StoreConfig configures the Neo4j graph store. An empty URI disables the
// write path and puts queries into offline snapshot mode.
type StoreConfig struct {
	URI            string `yaml:"uri" mapstructure:"uri"`
	User           string `yaml:"user" mapstructure:"user"`
	Password       string `yaml:"password" mapstructure:"password"`
	Database       string `yaml:"database" mapstructure:"database"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// BootstrapConfig configures the seeding orchestrator.
type BootstrapConfig struct {
	Seeds       []string      `yaml:"seeds" mapstructure:"seeds"`
	Disciplines []string      `yaml:"disciplines" mapstructure:"disciplines"`
	MinNodes    int           `yaml:"min_nodes" mapstructure:"min_nodes"`
	MinEdges    int           `yaml:"min_edges" mapstructure:"min_edges"`
	MaxCalls    int           `yaml:"max_calls" mapstructure:"max_calls"`
	Pacing      time.Duration `yaml:"pacing" mapstructure:"pacing"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OutputConfig configures mining artifact files.
type OutputConfig struct {
	Dir  string `yaml:"dir" mapstructure:"dir"`
	User string `yaml:"user" mapstructure:"user"`
}

// DefaultSeeds is the built-in seed concept list used when no override is
// configured.
func DefaultSeeds() []string {
	return []string{
		"集合论", "概率论", "微积分", "线性代数", "统计学",
		"牛顿力学", "热力学", "量子力学", "相对论",
		"信息熵", "香农定理", "算法", "数据结构",
		"机器学习", "神经网络", "优化", "博弈论",
		"进化论", "社会网络",
	}
}

// DefaultDisciplines are the discipline lenses the generator is asked to use
// when the caller supplies none.
func DefaultDisciplines() []string {
	return []string{"数学", "物理", "社会学", "生物学"}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			TimeoutSeconds: 30,
		},
		Evidence: EvidenceConfig{
			ArxivURL:          "http://export.arxiv.org/api/query",
			SearchLimit:       5,
			TimeoutSeconds:    10,
			CacheTTL:          15 * time.Minute,
			RequestsPerSecond: 1,
			Burst:             3,
			VerifyWorkers:     4,
		},
		Store: StoreConfig{
			User:           "neo4j",
			TimeoutSeconds: 10,
		},
		Bootstrap: BootstrapConfig{
			Seeds:       DefaultSeeds(),
			Disciplines: DefaultDisciplines(),
			MinNodes:    30,
			MinEdges:    20,
			MaxCalls:    60,
			Pacing:      300 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr: ":8001",
		},
		Output: OutputConfig{
			Dir:  ".",
			User: "user",
		},
	}
}
