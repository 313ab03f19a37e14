// Command rowctl reads and writes table rows through the persistence engine.
//
//	rowctl -table accounts -op page -keyword acme -order name:asc -page 2 -size 20
//	rowctl -table accounts -op update -origin '{"id":7}' -row '{"name":"Acme"}'
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nexuscrm/persistence/internal/config"
	"github.com/nexuscrm/persistence/internal/infrastructure/database"
	"github.com/nexuscrm/persistence/internal/logging"
	"github.com/nexuscrm/persistence/pkg/dialect"
	"github.com/nexuscrm/persistence/pkg/metrics"
	"github.com/nexuscrm/persistence/pkg/persistence"
	"github.com/nexuscrm/persistence/pkg/sqlguard"
)

var (
	op        = flag.String("op", "query", "operation: get, query, page, sql, insert, update, delete")
	tableName = flag.String("table", "", "table name")
	keyword   = flag.String("keyword", "", "keyword matched against text columns")
	where     = flag.String("where", "", "raw SQL condition")
	filter    = flag.String("filter", "", "filter expression, e.g. amount > 1000 && stage != 'Lost'")
	orders    = flag.String("order", "", "comma separated orders, e.g. name:asc,created_at:desc")
	page      = flag.Int("page", 1, "page number for -op page")
	pageSize  = flag.Int("size", 20, "page size for -op page")
	rowJSON   = flag.String("row", "", "row JSON; a JSON array of rows for -op delete")
	originRow = flag.String("origin", "", "original row JSON for -op update")
	heuristic = flag.Bool("heuristic", true, "locate rows of keyless tables by their comparable columns")
	stats     = flag.Bool("stats", false, "print engine counters to stderr on exit")
	attempts  = flag.Int("attempts", 3, "attempts for write transactions that hit a deadlock")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run executes one invocation and returns the process exit code, so that deferred
// cleanup completes before the process exits
func run() int {
	if *tableName == "" {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("❌ Failed to load config: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Printf("❌ Failed to create logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return 1
	}
	defer db.Close()

	source, err := dialect.NewSource(cfg.DB.Dialect)
	if err != nil {
		logger.Error("invalid dialect", zap.Error(err))
		return 1
	}
	// transactions do not expose their driver, so resolve once against the pool
	d, err := source.GetDialect(db)
	if err != nil {
		logger.Error("failed to resolve dialect", zap.Error(err))
		return 1
	}

	registry := prometheus.NewRegistry()
	m := metrics.New()
	m.MustRegister(registry)

	engine := persistence.NewEngine(source,
		persistence.WithLogger(logger),
		persistence.WithMetrics(m),
		persistence.WithConditionValidator(sqlguard.New()),
		persistence.WithHeuristicUniqueColumns(*heuristic),
	)

	table, err := database.LoadTable(ctx, db, *tableName)
	if err != nil {
		logger.Error("failed to load table", zap.String("table", *tableName), zap.Error(err))
		return 1
	}

	cmd := command{
		Op:       *op,
		Keyword:  *keyword,
		Where:    *where,
		Filter:   *filter,
		Orders:   splitOrders(*orders),
		Page:     *page,
		PageSize: *pageSize,
		Row:      *rowJSON,
		Origin:   *originRow,
		Attempts: *attempts,
	}

	err = execute(ctx, engine, db, d, table, cmd, os.Stdout)

	if *stats {
		printStats(registry)
	}
	if err != nil {
		logger.Error("operation failed", zap.String("op", cmd.Op), zap.Error(err))
		return 1
	}
	return 0
}

func splitOrders(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printStats(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Printf("⚠️  Failed to gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, l := range metric.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				fmt.Fprintf(os.Stderr, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Fprintf(os.Stderr, "%s_count{%s} %d\n", mf.GetName(), strings.Join(labels, ","), metric.GetHistogram().GetSampleCount())
			}
		}
	}
}
