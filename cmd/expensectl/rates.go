package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/Dan9191/expense-service/internal/integrations/cbr"
	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates [CODE...]",
	Short: "Print today's exchange rates against the rouble",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		rates, err := cbr.NewCBRClient(cfg, newLogger()).Rates(cmd.Context())
		if err != nil {
			return err
		}

		codes := args
		if len(codes) == 0 {
			for code := range rates {
				codes = append(codes, code)
			}
			sort.Strings(codes)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "CODE\tRATE (%s)\n", cbr.BaseCurrency)
		for _, code := range codes {
			code = strings.ToUpper(code)
			rate, ok := rates[code]
			if !ok {
				return fmt.Errorf("%w: %s", cbr.ErrUnknownCurrency, code)
			}
			fmt.Fprintf(tw, "%s\t%s\n", code, rate.StringFixed(4))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}
