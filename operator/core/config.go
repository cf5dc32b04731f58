package core

import (
	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

var C Config
var L *zap.SugaredLogger

// Load reads the TOML config at path into the package-global C and sets up
// the logger global L. Programs call it once at startup; a bad config is
// fatal.
func Load(path string) {
	if _, err := toml.DecodeFile(path, &C); err != nil {
		panic(err)
	}
	if C.Operator.PollInterval <= 0 {
		C.Operator.PollInterval = 5
	}
	if C.Operator.SubmitTimeout <= 0 {
		C.Operator.SubmitTimeout = 30
	}
	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	L = lg.Sugar()
}
