/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package serve

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/thm-tools/cellgrid/poi"
	"github.com/thm-tools/cellgrid/settings"
	"github.com/thm-tools/cellgrid/store"
	"github.com/thm-tools/cellgrid/x"
)

// Serve is the sub-command invoked when running "cellgrid serve".
var Serve x.SubCommand

func init() {
	Serve.Cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the cell, grid and point API over HTTP",
		Long: `
Serve answers cell and neighbour lookups, renders grid overlays and exports the points kept in
the store in --dir over HTTP. Prometheus metrics are served on /debug/prometheus_metrics.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			defer x.StartProfile(Serve.Conf).Stop()
			x.Check(run())
		},
	}
	Serve.EnvPrefix = "CELLGRID_SERVE"

	flag := Serve.Cmd.Flags()
	flag.String("addr", "localhost:8080", "Address to listen on.")
	flag.StringP("dir", "d", "p", "Directory of the point store.")
	flag.String("settings", "", "Settings file. Defaults are used when empty or missing.")
	flag.Int64("cache_keys", 1<<20, "Number of cell keys the classifier remembers.")
}

func run() error {
	conf := Serve.Conf
	s := settings.Default()
	if path := conf.GetString("settings"); path != "" {
		var err error
		if s, err = settings.LoadFile(path); err != nil {
			return err
		}
	}
	st, err := store.Open(conf.GetString("dir"))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			glog.Errorf("While closing store: %v", err)
		}
	}()
	counts, err := st.RecordCounts(x.MetricsContext())
	if err != nil {
		return err
	}
	for _, k := range poi.Kinds {
		glog.Infof("Serving %s %s", humanize.Comma(int64(counts[k])), k)
	}

	c, err := poi.NewClassifier(conf.GetInt64("cache_keys"))
	if err != nil {
		return err
	}
	defer c.Close()

	mux, err := newMux(&server{st: st, c: c, settings: s})
	if err != nil {
		return err
	}
	l, err := net.Listen("tcp", conf.GetString("addr"))
	if err != nil {
		return err
	}
	glog.Infof("Listening for HTTP requests at %s", l.Addr())

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}
	sdCh := make(chan os.Signal, 1)
	// sigint : Ctrl-C, sigterm : kill command.
	signal.Notify(sdCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sdCh)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		<-sdCh
		glog.Infoln("Caught Ctrl-C. Terminating now (this may take a few seconds)...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			glog.Errorf("Http shutdown err: %v", err)
		}
	}()

	if err := srv.Serve(l); err != http.ErrServerClosed {
		return err
	}
	<-closed
	glog.Infoln("Stopped taking more http requests.")
	return nil
}
