package stdlog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var logger StdLog = NewZap(zap.New(core))

	logger.Print("hello", "world")
	logger.Println("denied", "client", 7)
	logger.Printf("realm %s", "realm1")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	require.Equal(t, "helloworld", entries[0].Message)
	require.Equal(t, "denied client 7", entries[1].Message)
	require.Equal(t, "realm realm1", entries[2].Message)
}
