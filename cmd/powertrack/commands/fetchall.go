package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/sunwatt-io/powertrack/internal/constants"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

// NewFetchAllCommand creates the fetch-all command: a resilient batch fetch
// of comprehensive site data across a whole site list.
func NewFetchAllCommand() *cobra.Command {
	var (
		siteListPath string
		outputDir    string
		customer     string
		workers      int
		retries      int
		timeout      time.Duration
		cacheType    string
		natsURL      string
	)

	cmd := &cobra.Command{
		Use:   "fetch-all",
		Short: "Fetch comprehensive data for every site in a site list",
		Long: `Fetch configuration, hardware, alerts, and modeling for every site in a
site list, in parallel, writing one snapshot file per site plus a summary.

Individual site failures never abort the run; they are retried with backoff
and reported in the summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if siteListPath == "" {
				return ErrSiteListRequired
			}

			if outputDir == "" {
				return ErrOutputDirRequired
			}

			siteList, err := powertrack.LoadSiteList(siteListPath)
			if err != nil {
				return err
			}

			err = os.MkdirAll(outputDir, constants.ConfigDirPerm)
			if err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			cache, err := buildCache(cacheType, natsURL)
			if err != nil {
				return err
			}

			runner := &fetchAllRunner{
				client:    client,
				cache:     cache,
				customer:  customer,
				outputDir: outputDir,
			}

			results := powertrack.ParallelMap(cmd.Context(), siteList.Keys(), runner.fetchSite, powertrack.BatchOptions{
				Workers: workers,
				Retries: retries,
				Timeout: timeout,
			})

			return writeSummary(outputDir, results)
		},
	}

	cmd.Flags().StringVar(&siteListPath, "site-list", "", "JSON site list file")
	cmd.Flags().StringVar(&outputDir, "out", "", "directory for snapshot files")
	cmd.Flags().StringVar(&customer, "customer", "", "customer key for portfolio context")
	cmd.Flags().IntVar(&workers, "workers", constants.DefaultBatchWorkers, "concurrent site fetches")
	cmd.Flags().IntVar(&retries, "retries", constants.DefaultOperationRetries, "retries per site")
	cmd.Flags().DurationVar(&timeout, "timeout", constants.ExtendedHTTPTimeout, "per-attempt timeout")
	cmd.Flags().StringVar(&cacheType, "cache", "memory", "cache backend (memory, nats, none)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL for the nats cache backend")

	return cmd
}

// buildCache creates the response cache for the run.
func buildCache(cacheType, natsURL string) (powertrack.Cache, error) {
	config := &powertrack.CacheConfig{Type: powertrack.CacheType(cacheType)}

	if config.Type == powertrack.CacheTypeNATS {
		config.NATS = &powertrack.NATSKVConfig{
			URL:    natsURL,
			Bucket: "powertrack-fetch",
		}
	}

	return powertrack.NewCacheFromConfig(config)
}

type fetchAllRunner struct {
	client    powertrack.Client
	cache     powertrack.Cache
	customer  string
	outputDir string
}

// fetchSite fetches one site's snapshot, serving unexpired cache entries
// when available, and writes it to the output directory.
func (r *fetchAllRunner) fetchSite(ctx context.Context, siteKey string) (string, error) {
	path := filepath.Join(r.outputDir, siteKey+".json")

	if entry, err := r.cache.Get(ctx, siteKey); err == nil {
		err = os.WriteFile(path, entry.Data, constants.SnapshotFilePerm)
		if err != nil {
			return "", fmt.Errorf("writing cached snapshot: %w", err)
		}

		return path, nil
	}

	data, err := r.client.Sites().GetData(ctx, siteKey, r.customer, nil)
	if err != nil {
		return "", err
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	err = os.WriteFile(path, encoded, constants.SnapshotFilePerm)
	if err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	_ = r.cache.Set(ctx, siteKey, &powertrack.CacheEntry{
		Data:      encoded,
		ExpiresAt: time.Now().Add(constants.DefaultCacheTTL),
	})

	return path, nil
}

// summaryEntry is one line of the run summary artifact.
type summaryEntry struct {
	Site     string `json:"site"`
	Success  bool   `json:"success"`
	File     string `json:"file,omitempty"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// writeSummary writes the run summary and prints failure counts.
func writeSummary(outputDir string, results []powertrack.ItemResult[string, string]) error {
	entries := make([]summaryEntry, 0, len(results))
	failures := 0

	for _, result := range results {
		entry := summaryEntry{
			Site:     result.Item,
			Success:  result.Success,
			File:     result.Value,
			Duration: result.Duration.String(),
		}

		if result.Err != nil {
			entry.Error = result.Err.Error()
			failures++
		}

		entries = append(entries, entry)
	}

	encoded, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	summaryPath := filepath.Join(outputDir, "summary.json")

	err = os.WriteFile(summaryPath, encoded, constants.SnapshotFilePerm)
	if err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	fmt.Printf("Fetched %d sites, %d failures. Summary: %s\n", len(results), failures, summaryPath)

	return nil
}
