/*
Stand-alone dynamic authenticator for anonymous authentication.

authd serves the authenticator procedure over NATS.  Routers configured with
a dynamic anonymous authenticator call it with (realm, authid, details) and
it answers with the principal of the first matching rule.

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wampkit/anonauth/client"
	"github.com/wampkit/anonauth/stdlog"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-c authd.yaml]\n", os.Args[0])
}

func newZapLogger(conf *Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if conf.Debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if conf.LogPath != "" {
		zc.OutputPaths = []string{conf.LogPath}
	}
	return zc.Build()
}

func main() {
	var cfgFile string
	fs := flag.NewFlagSet("authd", flag.ExitOnError)
	fs.StringVar(&cfgFile, "c", "etc/authd.yaml", "Path to config file")
	fs.Usage = usage
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	conf, err := LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zl, err := newZapLogger(conf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zl.Sync()
	logger := stdlog.NewZap(zl)

	nc, err := client.ConnectNATS(conf.NATS.URL, "authd", logger)
	if err != nil {
		zl.Error("cannot connect to NATS", zap.String("url", conf.NATS.URL), zap.Error(err))
		os.Exit(1)
	}
	defer nc.Close()

	athr := &authenticator{
		rules: conf.Rules,
		log:   logger,
		debug: conf.Debug,
	}
	sub, err := client.ServeNATS(nc, conf.Procedure, conf.NATS.Queue, athr.Authenticate, logger)
	if err != nil {
		zl.Error("cannot serve procedure", zap.String("procedure", string(conf.Procedure)), zap.Error(err))
		os.Exit(1)
	}
	zl.Info("serving authenticator",
		zap.String("procedure", string(conf.Procedure)),
		zap.String("queue", conf.NATS.Queue),
		zap.Int("rules", len(conf.Rules)))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	zl.Info("shutting down authd")
	if err = sub.Drain(); err != nil {
		zl.Warn("drain failed", zap.Error(err))
	}
}
