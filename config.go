package main

import "sync"

type Config struct {
	// Search budget. A node that sees the deadline elapsed returns its
	// static evaluation instead of recursing.
	AiTimeBudgetMs int `json:"ai_time_budget_ms"`

	// Depth table: wide frontiers get shallow searches, narrow ones deep.
	AiDepthWide          int `json:"ai_depth_wide"`
	AiDepthNarrow        int `json:"ai_depth_narrow"`
	AiWideCandidateCount int `json:"ai_wide_candidate_count"`

	AiTtSize         int  `json:"ai_tt_size"`
	AiTtBuckets      int  `json:"ai_tt_buckets"`
	AiLogSearchStats bool `json:"ai_log_search_stats"`

	// Optional remote move source. Empty URL disables it.
	RemoteMoveURL   string `json:"remote_move_url"`
	RemoteTimeoutMs int    `json:"remote_timeout_ms"`

	Heuristics HeuristicConfig `json:"heuristics"`
}

type HeuristicConfig struct {
	Open4   float64 `json:"open_4"`
	Closed4 float64 `json:"closed_4"`
	Broken4 float64 `json:"broken_4"`
	Open3   float64 `json:"open_3"`
	Broken3 float64 `json:"broken_3"`
	Closed3 float64 `json:"closed_3"`
	Open2   float64 `json:"open_2"`
	Broken2 float64 `json:"broken_2"`
	Closed2 float64 `json:"closed_2"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiTimeBudgetMs: 2200,

		AiDepthWide:          2,
		AiDepthNarrow:        4,
		AiWideCandidateCount: 20,

		AiTtSize:    1 << 17,
		AiTtBuckets: 4,

		AiLogSearchStats: false,

		RemoteMoveURL:   "",
		RemoteTimeoutMs: 2200,

		// Strictly ordered: an open four outranks everything but a five.
		Heuristics: HeuristicConfig{
			Open4:   100000.0,
			Closed4: 15000.0,
			Broken4: 12000.0,
			Open3:   2500.0,
			Broken3: 1200.0,
			Closed3: 400.0,
			Open2:   200.0,
			Broken2: 120.0,
			Closed2: 60.0,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
