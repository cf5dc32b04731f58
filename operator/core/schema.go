package core

type Config struct {
	Gateway  Gateway
	Operator Operator
}

type Gateway struct {
	Url string `toml:"url"`
}

type Operator struct {
	PrivateKey    string `toml:"privateKey"`
	PollInterval  int    `toml:"pollInterval"`  // seconds
	SubmitTimeout int    `toml:"submitTimeout"` // seconds
	MetricsHost   string `toml:"metricsHost"`   // empty disables the listener
}
