package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/clearbuy/clearbuy-cli/internal/store"
)

var (
	historyURL   string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded price observations for a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		points, err := st.History(ctx, historyURL, historyLimit)
		if err != nil {
			return eris.Wrap(err, "load history")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyURL, "url", "", "product page URL (required)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 30, "max observations to show")
	_ = historyCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(historyCmd)
}
