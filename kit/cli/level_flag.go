package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

var _ pflag.Value = (*levelFlag)(nil)

// levelFlag lets a zapcore.Level be set from a flag or an env var.
type levelFlag struct {
	dest *zapcore.Level
}

func (f levelFlag) String() string {
	if f.dest == nil {
		return zapcore.InfoLevel.String()
	}
	return f.dest.String()
}

func (f levelFlag) Set(s string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return fmt.Errorf("unknown log level %q; supported levels are debug, info, warn and error", s)
	}
	*f.dest = lvl
	return nil
}

func (levelFlag) Type() string {
	return "level"
}

// LevelVar defines a zapcore.Level flag that stores its value in p.
func LevelVar(fs *pflag.FlagSet, p *zapcore.Level, name string, value zapcore.Level, usage string) {
	LevelVarP(fs, p, name, "", value, usage)
}

// LevelVarP is like LevelVar, but takes a shorthand letter.
func LevelVarP(fs *pflag.FlagSet, p *zapcore.Level, name, shorthand string, value zapcore.Level, usage string) {
	*p = value
	fs.VarP(levelFlag{dest: p}, name, shorthand, usage)
}
