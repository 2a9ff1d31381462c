package stdlog

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type zapLog struct {
	sugar *zap.SugaredLogger
}

// NewZap returns a StdLog that writes info level entries to the given zap
// logger.
func NewZap(logger *zap.Logger) StdLog {
	return &zapLog{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (z *zapLog) Print(v ...interface{}) {
	z.sugar.Info(fmt.Sprint(v...))
}

func (z *zapLog) Println(v ...interface{}) {
	z.sugar.Info(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (z *zapLog) Printf(format string, v ...interface{}) {
	z.sugar.Infof(format, v...)
}
