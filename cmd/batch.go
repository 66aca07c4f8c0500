package main

import (
	"bufio"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	batchFile  string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze a batch of product URLs from a file",
	Long:  "Reads one product URL per line (blank lines and #-comments skipped) and analyzes them concurrently.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		urls, err := readURLFile(batchFile)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if len(urls) == 0 {
			zap.L().Info("no urls to process")
			return nil
		}
		if batchLimit > 0 && len(urls) > batchLimit {
			urls = urls[:batchLimit]
		}

		zap.L().Info("processing batch",
			zap.Int("urls", len(urls)),
			zap.Int("concurrency", cfg.Batch.MaxConcurrent),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrent)

		var succeeded, failed atomic.Int64

		for _, url := range urls {
			g.Go(func() error {
				log := zap.L().With(zap.String("url", url))

				report, err := env.Analyzer.Analyze(gctx, url)
				if err != nil {
					failed.Add(1)
					log.Error("analysis failed", zap.Error(err))
					return nil // don't abort the batch on individual failure
				}

				succeeded.Add(1)
				log.Info("analyzed",
					zap.Int("findings", len(report.Findings)),
					zap.String("grade", string(report.Trust.Grade)),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch")
		}

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open url file %s", path)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read url file %s", path)
	}
	return urls, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one product URL per line (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of urls to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
