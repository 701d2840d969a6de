// Command reindex rebuilds the search index from the page store. It opens
// the database and the bleve index directly, walks every page, and prints a
// tally; pages that fail to index are reported and skipped.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	pagekit "github.com/goliatone/go-pagekit"
	"github.com/goliatone/go-pagekit/internal/di"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func main() {
	var (
		driver    = flag.String("driver", "sqlite3", "database driver: sqlite3 or postgres")
		dsn       = flag.String("dsn", "pagekit.db", "database path or DSN")
		indexPath = flag.String("index", "pagekit.bleve", "bleve index directory")
		timeout   = flag.Duration("timeout", 10*time.Minute, "overall run timeout")
		verbose   = flag.Bool("verbose", false, "print every failed page")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *driver, *dsn, *indexPath, *verbose); err != nil {
		log.Fatalf("reindex: %v", err)
	}
}

func run(ctx context.Context, driver, dsn, indexPath string, verbose bool) error {
	bunDB, err := openDB(driver, dsn)
	if err != nil {
		return err
	}
	defer bunDB.Close()

	cfg := pagekit.DefaultConfig()
	cfg.Search.IndexPath = indexPath

	module, err := pagekit.New(cfg, di.WithBunDB(bunDB))
	if err != nil {
		return fmt.Errorf("initialise module: %w", err)
	}
	defer module.Close()

	report, err := module.Search().ReindexAll(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("reindexed %d/%d pages, %d failed\n", report.Indexed, report.Total, report.Failed)
	if verbose {
		for _, failure := range report.Failures {
			fmt.Fprintf(os.Stderr, "  page %s: %v\n", failure.PageID, failure.Err)
		}
	}
	if report.Failed > 0 && !verbose {
		fmt.Fprintln(os.Stderr, "run with -verbose to list failed pages")
	}
	return nil
}

func openDB(driver, dsn string) (*bun.DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	switch driver {
	case "sqlite3":
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		sqlDB.Close()
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}
