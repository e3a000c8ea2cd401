package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lob/internal/config"
	"lob/internal/engine"
	"lob/internal/itch"
	"lob/internal/metrics"
	"lob/internal/publish"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML/JSON/TOML config file (optional)")
	itchFile := flag.String("itch-file", "", "replay an ITCH-format file on startup (optional)")
	symbols := flag.String("symbols", "", "comma-separated symbols to expose on the metrics endpoint")
	flag.Parse()

	// ---------------- Configuration ----------------

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// ---------------- Engine ----------------

	eng := engine.New(cfg)
	eng.Start()
	defer eng.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---------------- Metrics ----------------

	reg := prometheus.NewRegistry()
	collectors := metrics.NewCollectors(reg)
	poller := metrics.NewPoller(eng, collectors, splitSymbols(*symbols))
	go poller.Run(ctx, time.Second)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	// ---------------- Publishers ----------------

	var auditPub *publish.AuditPublisher
	if len(cfg.KafkaBrokers) > 0 {
		reportPub, err := publish.NewReportPublisher(eng, cfg.KafkaBrokers, cfg.KafkaReportsTopic)
		if err != nil {
			log.Fatalf("report publisher init failed: %v", err)
		}
		defer reportPub.Close()
		go reportPub.Run(ctx, 100*time.Millisecond)

		auditPub = publish.NewAuditPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		defer auditPub.Close()
	}

	// ---------------- ITCH replay ----------------

	if *itchFile != "" {
		f, err := os.Open(*itchFile)
		if err != nil {
			log.Fatalf("open ITCH file failed: %v", err)
		}
		reader := itch.NewReader(eng)
		if auditPub != nil {
			reader.OnEvent(func(kind, symbol string, id uint64, quantity uint32) {
				now := time.Now().UnixNano()
				switch kind {
				case "submit":
					_ = auditPub.PublishSubmit(ctx, symbol, id, quantity, now)
				case "cancel":
					_ = auditPub.PublishCancel(ctx, symbol, id, now)
				case "modify":
					_ = auditPub.PublishModify(ctx, symbol, id, quantity, now)
				}
			})
		}
		if err := reader.Replay(f); err != nil {
			log.Fatalf("ITCH replay failed: %v", err)
		}
		f.Close()
		fmt.Printf("replayed %d ITCH messages (%d dropped)\n", reader.MessagesProcessed(), reader.MessagesDropped())
	}

	// ---------------- Shutdown ----------------

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Printf("shutting down: total_orders=%d total_matches=%d\n", eng.TotalOrders(), eng.TotalMatches())
}

func splitSymbols(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
