package core

import (
	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

var C Config
var L *zap.SugaredLogger

// Load reads the TOML config at path into the package-global C and sets up
// the logger global L. A bad config is fatal.
func Load(path string) {
	if _, err := toml.DecodeFile(path, &C); err != nil {
		panic(err)
	}
	if C.Chain.BlockInterval <= 0 {
		C.Chain.BlockInterval = 1
	}
	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	L = lg.Sugar()
}
