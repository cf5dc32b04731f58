package core

type Config struct {
	Gateway Gateway
	Request Request
}

type Gateway struct {
	Url string `toml:"url"`
}

type Request struct {
	Kind      string `toml:"kind"` // identity or project
	Requester string `toml:"requester"`
	Subject   string `toml:"subject"`
	Level     uint8  `toml:"level"`
	Category  string `toml:"category"`
	Metadata  string `toml:"metadata"`
	Interval  int    `toml:"interval"` // seconds between tasks
}
