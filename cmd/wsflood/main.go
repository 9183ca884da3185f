// File: cmd/wsflood/main.go
// License: Apache-2.0
//
// wsflood command: parses flags (optionally overlaid on a YAML config
// file), wires the sinks and runs one load engine cycle against the first
// resolved endpoint. Individual connection failures never change the exit
// code; they show up as events and in the final counter summary.

package main

import (
	"fmt"
	"log"
	"net/netip"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kevinmiles/wsflood/api"
	"github.com/kevinmiles/wsflood/control"
	"github.com/kevinmiles/wsflood/loader"
	"github.com/kevinmiles/wsflood/protocol"
)

func main() {
	pflag.StringSlice("endpoint", nil, "resolved target ip:port; repeatable, only the first is dialed")
	pflag.Int("connections", loader.DefaultConnectionCount, "total connections to attempt")
	pflag.Int("threads", loader.DefaultThreadCount, "worker count (capped by CPUs and connections)")
	pflag.Duration("connect-timeout", 0, "per-connect timeout (0 = unbounded synchronous connect)")
	pflag.Duration("lifetime", 0, "how long workers hold established connections before teardown")
	pflag.Int("rcvbuf", loader.DefaultReceiveBufferSize, "socket receive buffer size in bytes")
	pflag.Int("sndbuf", loader.DefaultSendBufferSize, "socket send buffer size in bytes")
	pflag.Bool("nodelay", loader.DefaultNoDelay, "set TCP_NODELAY on each socket")
	pflag.Bool("websocket", false, "perform a WebSocket opening handshake on each connection")
	pflag.String("ws-host", "", "Host header for the handshake (default: the endpoint)")
	pflag.String("ws-path", "/", "request path for the handshake")
	pflag.String("ws-origin", "", "optional Origin header")
	pflag.String("ws-protocol", "", "optional Sec-WebSocket-Protocol header")
	cfgFile := pflag.String("config", "", "optional YAML config file; flags override it")
	pflag.Parse()

	v := viper.New()
	if *cfgFile != "" {
		v.SetConfigFile(*cfgFile)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("read config %s: %v", *cfgFile, err)
		}
	}
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		log.Fatalf("bind flags: %v", err)
	}

	rawEndpoints := v.GetStringSlice("endpoint")
	if len(rawEndpoints) == 0 {
		log.Fatal("at least one --endpoint is required")
	}
	endpoints := make([]netip.AddrPort, 0, len(rawEndpoints))
	for _, raw := range rawEndpoints {
		ap, err := netip.ParseAddrPort(raw)
		if err != nil {
			log.Fatalf("endpoint %q must be a resolved ip:port: %v", raw, err)
		}
		endpoints = append(endpoints, ap)
	}

	noDelay := v.GetBool("nodelay")
	cfg := loader.Config{
		ThreadCount:        v.GetInt("threads"),
		ConnectionCount:    v.GetInt("connections"),
		ConnectTimeout:     v.GetDuration("connect-timeout"),
		ConnectionLifetime: v.GetDuration("lifetime"),
		ReceiveBufferSize:  v.GetInt("rcvbuf"),
		SendBufferSize:     v.GetInt("sndbuf"),
		NoDelay:            &noDelay,
		Endpoints:          endpoints,
	}

	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	reg := control.NewMetricsRegistry()
	sink := control.NewAsyncSink(control.NewMetricsSink(api.SinkFunc(func(event string) {
		logger.Println(event)
	}), reg))

	opts := []loader.Option{loader.WithSink(sink)}
	if v.GetBool("websocket") {
		host := v.GetString("ws-host")
		if host == "" {
			host = endpoints[0].String()
		}
		opts = append(opts, loader.WithHandshake(host, v.GetString("ws-path"), &protocol.HandshakeOptions{
			Origin:   v.GetString("ws-origin"),
			Protocol: v.GetString("ws-protocol"),
		}))
	}

	eng, err := loader.NewEngine(cfg, opts...)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	plan := eng.Plan()
	logger.Printf("plan workers=%d per-worker=%d requested=%d scheduled=%d",
		plan.Workers, plan.PerWorker, plan.Requested, plan.Scheduled())

	eng.Start()
	sink.Close()

	summary := reg.GetSnapshot()
	classes := make([]string, 0, len(summary))
	for class := range summary {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		fmt.Printf("%s=%d\n", class, summary[class])
	}
}
