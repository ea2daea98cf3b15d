package pool

// Config controls a Pool's worker count and job queue depth.
type Config struct {
	MaxWorkers int
	QueueDepth int
}

// defaultConfig keeps concurrency modest by default.
func defaultConfig() *Config {
	return &Config{
		MaxWorkers: 30,
		QueueDepth: 10000,
	}
}
