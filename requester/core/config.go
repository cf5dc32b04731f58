package core

import (
	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

var C Config
var L *zap.SugaredLogger

// Load reads the TOML config at path into the package-global C.
func Load(path string) {
	if _, err := toml.DecodeFile(path, &C); err != nil {
		panic(err)
	}
	if C.Request.Interval <= 0 {
		C.Request.Interval = 30
	}
	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	L = lg.Sugar()
}
