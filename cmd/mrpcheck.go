package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	mrpCheckURL   string
	mrpCheckMRP   string
	mrpCheckPrice string
)

var mrpCheckCmd = &cobra.Command{
	Use:   "mrp-check",
	Short: "Check whether a product's listed MRP looks authentic",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		price, err := parseOptionalAmount(mrpCheckPrice)
		if err != nil {
			return eris.Wrap(err, "mrp check: invalid --price")
		}
		mrp, err := parseOptionalAmount(mrpCheckMRP)
		if err != nil {
			return eris.Wrap(err, "mrp check: invalid --mrp")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.Analyzer.MRPAuthenticity(ctx, mrpCheckURL, price, mrp)
		if err != nil {
			return eris.Wrap(err, "mrp check")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func parseOptionalAmount(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	if d.Sign() <= 0 {
		return nil, eris.New("amount must be positive")
	}
	return &d, nil
}

func init() {
	mrpCheckCmd.Flags().StringVar(&mrpCheckURL, "url", "", "product page URL (required)")
	mrpCheckCmd.Flags().StringVar(&mrpCheckMRP, "mrp", "", "listed MRP to verify instead of extracting it from the page")
	mrpCheckCmd.Flags().StringVar(&mrpCheckPrice, "price", "", "selling price to use instead of extracting it from the page")
	_ = mrpCheckCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(mrpCheckCmd)
}
