package model

// ================ Config ================

type ExtractorModelConfig struct {
	Model         string  `envconfig:"EXTRACTOR_MODEL" default:"gemini-2.0-flash"`
	MaxTokens     int     `envconfig:"EXTRACTOR_MAX_TOKENS" default:"180"`
	Temperature   float32 `envconfig:"EXTRACTOR_TEMPERATURE" default:"0"`
	MaxInputChars int     `envconfig:"EXTRACTOR_MAX_INPUT_CHARS" default:"800"`
	Timeout       string  `envconfig:"EXTRACTOR_TIMEOUT" default:"10s"`
}

type GateConfig struct {
	// Threshold below which a message is not considered order-like enough to
	// justify the LLM path. Tuning constant, not a contract.
	Threshold      float64 `envconfig:"GATE_THRESHOLD" default:"0.6"`
	Prototypes     string  `envconfig:"GATE_PROTOTYPES" default:"start order,order food,see menu,confirm order"`
	EmbeddingModel string  `envconfig:"GATE_EMBEDDING_MODEL" default:"gemini-embedding-001"`
	Enabled        bool    `envconfig:"GATE_ENABLED" default:"true"`
}

type ConversationConfig struct {
	TTL         string `envconfig:"CONVERSATION_TTL" default:"24h"`
	MaxMessages int    `envconfig:"CONVERSATION_MAX_MESSAGES" default:"10"`
}

type CatalogConfig struct {
	// Path to a YAML catalog file; the built-in menu is used when empty.
	Path string `envconfig:"CATALOG_PATH"`
}
