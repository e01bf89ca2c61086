package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 500
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 50
	}
	if cfg.Chunking.Separator == "" {
		cfg.Chunking.Separator = "\n"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "cohere"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "embed-english-v3.0"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1024
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Summarize.Model == "" {
		cfg.Summarize.Model = "command-r-plus"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".docx", ".xlsx", ".txt", ".md", ".csv", ".log", ".json", ".yaml", ".yml"}
	}
}
