package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Get the current mid price for a symbol",
		Example: `  putscan quote AAPL
  putscan quote KO --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			mid, err := app.Provider.Spot(ctx, symbol)
			if err != nil {
				output.Error("Failed to get quote: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"symbol": symbol, "mid": mid})
			}

			output.Printf("%s  %s\n", output.BoldText(symbol), FormatPrice(mid))
			return nil
		},
	}
}
