package core

import "github.com/go-redis/redis/v8"

type Config struct {
	App      App
	Chain    Chain
	Database Database
}

type App struct {
	Env  string `toml:"env"`
	Host string `toml:"host"`
}

type Chain struct {
	Owner           string   `toml:"owner"`           // owner address, hex
	LedgerId        string   `toml:"ledgerId"`        // instance identity; random when empty
	BlockInterval   int      `toml:"blockInterval"`   // seconds per block
	ExpiryThreshold uint64   `toml:"expiryThreshold"` // blocks
	ResultTTLDays   int      `toml:"resultTtlDays"`
	Operators       []string `toml:"operators"`
	Requesters      []string `toml:"requesters"`
}

type Database struct {
	RedisHost     string `toml:"redisHost"`
	RedisPassword string `toml:"redisPassword"`
	RedisDb       int    `toml:"redisDb"`
}

// ResponseRecord is what the respond handler pushes onto the relay queue
// for each committed result.
type ResponseRecord struct {
	Kind      string `json:"kind"`
	TaskId    uint64 `json:"taskId"`
	Operator  string `json:"operator"`
	Level     uint8  `json:"level"`
	Amount    uint64 `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

type Store struct {
	RedisConn *redis.Client
}
