// Package config 提供引擎的 YAML 配置加载。
// 配置只描述部署差异（连接地址、限额、开关），打分公式等契约常量不进配置。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig 是引擎的完整配置。
type EngineConfig struct {
	Redis   RedisConfig   `yaml:"redis"`
	Feast   FeastConfig   `yaml:"feast"`
	Cache   CacheConfig   `yaml:"cache"`
	Recall  RecallConfig  `yaml:"recall"`
	Cluster ClusterConfig `yaml:"cluster"`
	Talent  TalentConfig  `yaml:"talent"`
}

// RedisConfig 为空时引擎不用 Redis，热榜走 EventStore 兜底。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// FeastConfig 为空时聚类特征从画像派生。
type FeastConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Project string `yaml:"project"`
}

type CacheConfig struct {
	// TTLSeconds 结果缓存有效期（秒），默认 300
	TTLSeconds int `yaml:"ttl_seconds"`

	// MaxSize 触发清扫的条目数阈值，默认 100
	MaxSize int `yaml:"max_size"`
}

type RecallConfig struct {
	// TimeoutMillis 单个候选池超时（毫秒），默认 500
	TimeoutMillis int `yaml:"timeout_millis"`

	// MaxConcurrent 候选池最大并发，0 表示无限制
	MaxConcurrent int `yaml:"max_concurrent"`

	// PoolLimit 单池候选上限，默认 100
	PoolLimit int `yaml:"pool_limit"`
}

type ClusterConfig struct {
	K                 int     `yaml:"k"`
	MaxIterations     int     `yaml:"max_iterations"`
	MinProfiles       int     `yaml:"min_profiles"`
	MinListeningHours float64 `yaml:"min_listening_hours"`

	// Seed 固定随机种子保证批次可复现，0 表示用默认种子
	Seed int64 `yaml:"seed"`
}

type TalentConfig struct {
	LookbackDays int `yaml:"lookback_days"`
	MinStreams   int `yaml:"min_streams"`
}

// Load 从 YAML 文件加载配置。
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置。
func Parse(data []byte) (*EngineConfig, error) {
	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// CacheTTL 返回结果缓存有效期。
func (c *EngineConfig) CacheTTL() time.Duration {
	if c.Cache.TTLSeconds > 0 {
		return time.Duration(c.Cache.TTLSeconds) * time.Second
	}
	return 5 * time.Minute
}

// RecallTimeout 返回单池超时。
func (c *EngineConfig) RecallTimeout() time.Duration {
	if c.Recall.TimeoutMillis > 0 {
		return time.Duration(c.Recall.TimeoutMillis) * time.Millisecond
	}
	return 500 * time.Millisecond
}
