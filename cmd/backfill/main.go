// Command backfill loads historical CEO purchase filings for a year
// through the query API and runs them through the same extraction and
// storage path as the live stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/trogers1052/insider-feed/internal/config"
	"github.com/trogers1052/insider-feed/internal/secapi"
	"github.com/trogers1052/insider-feed/internal/sector"
	"github.com/trogers1052/insider-feed/internal/service"
	"github.com/trogers1052/insider-feed/internal/store"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "Year of filings to backfill")
	pageSize := flag.Int("page-size", 50, "Query API page size")
	maxPages := flag.Int("max-pages", 0, "Stop after this many pages (0 = all)")
	dryRun := flag.Bool("dry-run", false, "Extract and print counts without inserting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	sectors, err := sector.Load(cfg.SectorDataPath)
	if err != nil {
		fmt.Printf("Sector data unavailable (%v), tickers will resolve to Unknown\n", err)
		sectors = sector.Empty()
	}

	var tradeStore *store.Store
	if !*dryRun {
		tradeStore, err = store.Open(cfg.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open trade store: %v\n", err)
			os.Exit(1)
		}
		defer tradeStore.Close()
	}

	client := secapi.NewClient(cfg.SECAPIKey, cfg.QueryAPIURL)
	filter := service.NewOfficerFilter(cfg.OfficerTitles)
	extractor := service.NewExtractor(sectors)
	ctx := context.Background()

	query := fmt.Sprintf(
		"reportingOwner.relationship.officerTitle:CEO* AND nonDerivativeTable.transactions.coding.code:P AND periodOfReport:[%d-01-01 TO %d-12-31]",
		*year, *year)

	fmt.Printf("Backfilling CEO purchase filings for %d (page size %d)...\n", *year, *pageSize)

	offset := 0
	pages := 0
	extracted := 0
	skipped := 0
	for {
		result, err := client.Search(ctx, query, offset, *pageSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed at offset %d: %v\n", offset, err)
			os.Exit(1)
		}
		if len(result.Transactions) == 0 {
			break
		}

		for i := range result.Transactions {
			doc := &result.Transactions[i]
			if ok, _ := filter.Accept(doc); !ok {
				skipped++
				continue
			}
			trades := extractor.ExtractTrades(doc)
			if len(trades) == 0 {
				skipped++
				continue
			}
			extracted += len(trades)
			if tradeStore != nil {
				if err := tradeStore.InsertTrades(ctx, trades); err != nil {
					fmt.Fprintf(os.Stderr, "Insert failed for accessionNo %s: %v\n", doc.AccessionNo, err)
				}
			}
		}

		pages++
		offset += *pageSize
		fmt.Printf("  page %d done (offset %d of %d total)\n", pages, offset, result.Total.Value)

		if *maxPages > 0 && pages >= *maxPages {
			break
		}
		if result.Total.Value <= *pageSize || result.Total.Value < offset {
			break
		}
	}

	fmt.Printf("Extracted %d trade(s), skipped %d filing(s).\n", extracted, skipped)
	if tradeStore != nil {
		if n, err := tradeStore.Count(ctx); err == nil {
			fmt.Printf("Store now holds %d trade(s).\n", n)
		}
	}
}
