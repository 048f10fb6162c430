package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/eiga/data/db/movies.db"
	}
	if cfg.Storage.TitleIndexPath == "" {
		cfg.Storage.TitleIndexPath = "/usr/local/var/eiga/data/indices/titles"
	}
	if cfg.Pipeline.DefaultLimit == 0 {
		cfg.Pipeline.DefaultLimit = 10
	}
	if cfg.Pipeline.MaxLimit == 0 {
		cfg.Pipeline.MaxLimit = 50
	}
	if cfg.Pipeline.ProcessingCap == 0 {
		cfg.Pipeline.ProcessingCap = 20
	}
	if cfg.Pipeline.DisplayCap == 0 {
		cfg.Pipeline.DisplayCap = 5
	}
	// Display cap can never exceed the processing cap.
	if cfg.Pipeline.DisplayCap > cfg.Pipeline.ProcessingCap {
		cfg.Pipeline.DisplayCap = cfg.Pipeline.ProcessingCap
	}
	if cfg.Pipeline.TitlePreview == 0 {
		cfg.Pipeline.TitlePreview = 5
	}
	if cfg.Pipeline.QualityFloor == 0 {
		cfg.Pipeline.QualityFloor = 50
	}
	if cfg.Pipeline.FetchLimit == 0 {
		cfg.Pipeline.FetchLimit = 200
	}
	if cfg.Vocab.Genres == nil {
		cfg.Vocab.Genres = DefaultGenres()
	}
	if cfg.Vocab.NumberWords == nil {
		cfg.Vocab.NumberWords = DefaultNumberWords()
	}
	if cfg.Vocab.FillerWords == nil {
		cfg.Vocab.FillerWords = DefaultFillerWords()
	}
}
