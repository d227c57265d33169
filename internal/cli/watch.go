package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"put-screener/internal/marketdata"
	"put-screener/internal/models"
	"put-screener/internal/pricing"
	"put-screener/internal/ranking"
	"put-screener/internal/tracker"
)

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Manage watchlists of tracked put positions",
		Long: `Watchlists track sold puts from entry to a win/loss outcome.

A position freezes its expiration date when added; every display
re-values it against a fresh quote. Expired positions stay in the list
until removed.`,
	}

	cmd.PersistentFlags().StringP("user", "u", "", "Watchlist owner (defaults from config)")

	cmd.AddCommand(newWatchAddCmd(app))
	cmd.AddCommand(newWatchListCmd(app))
	cmd.AddCommand(newWatchRemoveCmd(app))
	cmd.AddCommand(newWatchSummaryCmd(app))
	cmd.AddCommand(newWatchListsCmd(app))

	return cmd
}

func watchKey(cmd *cobra.Command, app *App, list string) models.WatchlistKey {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		user = app.Config.Storage.DefaultUser
	}
	return models.WatchlistKey{User: user, List: list}
}

func requireStore(app *App, output *Output) error {
	if app.Store == nil {
		output.Error("Watchlist store is not available")
		return fmt.Errorf("store not initialized")
	}
	return nil
}

func newWatchAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list> <underlying> <contract>",
		Short: "Add a put contract to a watchlist",
		Long: `Add fetches the current chain for the underlying, locates the
contract, re-derives its metrics at the current spot price and stores
the position. Adding a contract that is already tracked is a no-op
error; the stored position is never overwritten.`,
		Example: `  putscan watch add income AAPL AAPL250919P00180000`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app, output); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			list := args[0]
			symbol := strings.ToUpper(args[1])
			contract := strings.ToUpper(args[2])

			spot, err := app.Provider.Spot(ctx, symbol)
			if err != nil {
				output.Error("Failed to get spot price: %v", err)
				return err
			}

			quotes, err := app.Provider.Chain(ctx, symbol, marketdata.ChainFilter{Side: models.SidePut})
			if err != nil {
				output.Error("Failed to get option chain: %v", err)
				return err
			}

			var quote *models.OptionQuote
			for i := range quotes {
				if quotes[i].Symbol == contract {
					quote = &quotes[i]
					break
				}
			}
			if quote == nil {
				output.Error("Contract %s not found in %s put chain", contract, symbol)
				return fmt.Errorf("contract not found: %s", contract)
			}

			cop, err := pricing.ProbabilityOfProfit(spot, quote.Strike, quote.DaysToExpiry, quote.ImpliedVol)
			if err != nil {
				output.Error("Cannot price contract: %v", err)
				return err
			}

			cand := models.NewTradeCandidate(*quote, spot, cop)
			pos := models.NewPosition(cand, today())

			key := watchKey(cmd, app, list)
			if err := app.Store.AddPosition(ctx, key, pos); err != nil {
				output.Error("Failed to add position: %v", err)
				return err
			}

			app.Logger.Info().
				Str("list", list).
				Str("contract", contract).
				Float64("roi", cand.ROI).
				Float64("cop", cand.COP).
				Msg("position added")
			output.Success("Added %s to %s (expires %s)",
				contract, list, FormatDate(pos.ExpirationDate))
			return nil
		},
	}
}

func newWatchListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list <list>",
		Short:   "Show a watchlist with current valuations",
		Example: `  putscan watch list income --sort roi`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app, output); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			key := watchKey(cmd, app, args[0])
			positions, err := app.Store.GetPositions(ctx, key)
			if err != nil {
				output.Error("Failed to load watchlist: %v", err)
				return err
			}
			if len(positions) == 0 {
				output.Println("Watchlist is empty.")
				return nil
			}

			snaps := evaluatePositions(ctx, app, positions, today())

			sortFlag, _ := cmd.Flags().GetString("sort")
			snaps = ranking.RankSnapshots(snaps, ranking.ParseSortKey(sortFlag))

			if output.IsJSON() {
				return output.JSON(snapshotsJSON(snaps))
			}

			displaySnapshots(output, args[0], snaps)
			return nil
		},
	}

	cmd.Flags().StringP("sort", "s", "score", "Sort key: roi, cop, score")
	return cmd
}

func newWatchRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <list> <contract>",
		Short:   "Remove a position from a watchlist",
		Example: `  putscan watch remove income AAPL250919P00180000`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app, output); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			key := watchKey(cmd, app, args[0])
			contract := strings.ToUpper(args[1])
			if err := app.Store.RemovePosition(ctx, key, contract); err != nil {
				output.Error("Failed to remove position: %v", err)
				return err
			}

			output.Success("Removed %s from %s", contract, args[0])
			return nil
		},
	}
}

func newWatchSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "summary <list>",
		Short:   "Aggregate win rate and P&L for a watchlist",
		Example: `  putscan watch summary income`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app, output); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			key := watchKey(cmd, app, args[0])
			positions, err := app.Store.GetPositions(ctx, key)
			if err != nil {
				output.Error("Failed to load watchlist: %v", err)
				return err
			}

			snaps := evaluatePositions(ctx, app, positions, today())
			sum := tracker.Summarize(snaps)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"positions": sum.Positions,
					"active":    sum.Active,
					"wins":      sum.Wins,
					"losses":    sum.Losses,
					"unknown":   sum.Unknown,
					"winRate":   sum.WinRate(),
					"totalPnl":  sum.TotalPnL,
				})
			}

			output.Bold("%s", args[0])
			output.Printf("  Positions: %d (%d active, %d unknown)\n",
				sum.Positions, sum.Active, sum.Unknown)
			output.Printf("  Wins: %s  Losses: %s  Win rate: %.0f%%\n",
				output.Green(fmt.Sprintf("%d", sum.Wins)),
				output.Red(fmt.Sprintf("%d", sum.Losses)),
				sum.WinRate()*100)
			output.Printf("  Realized P&L: %s\n",
				output.ColoredString(output.PnLColor(sum.TotalPnL), FormatPnL(sum.TotalPnL)))
			return nil
		},
	}
}

func newWatchListsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List the watchlists of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app, output); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, _ := cmd.Flags().GetString("user")
			if user == "" {
				user = app.Config.Storage.DefaultUser
			}

			lists, err := app.Store.ListWatchlists(ctx, user)
			if err != nil {
				output.Error("Failed to list watchlists: %v", err)
				return err
			}
			if len(lists) == 0 {
				output.Println("No watchlists yet.")
				return nil
			}
			for _, name := range lists {
				output.Println("  " + name)
			}
			return nil
		},
	}
}

// today returns the current date truncated to midnight UTC, the
// resolution position dates are kept at.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// evaluatePositions values each position against a fresh spot price.
// Spot prices are fetched once per underlying; positions whose
// underlying cannot be quoted are marked Unknown rather than Active.
func evaluatePositions(ctx context.Context, app *App, positions []models.Position, today time.Time) []models.Snapshot {
	type spotResult struct {
		price float64
		ok    bool
	}
	spots := make(map[string]spotResult)

	snaps := make([]models.Snapshot, 0, len(positions))
	for _, pos := range positions {
		res, seen := spots[pos.UnderlyingSymbol]
		if !seen {
			price, err := app.Provider.Spot(ctx, pos.UnderlyingSymbol)
			if err != nil {
				app.Logger.Warn().Err(err).Str("symbol", pos.UnderlyingSymbol).Msg("spot lookup failed")
			}
			res = spotResult{price: price, ok: err == nil}
			spots[pos.UnderlyingSymbol] = res
		}

		if !res.ok {
			snaps = append(snaps, tracker.EvaluateUnknown(pos, today))
			continue
		}
		snaps = append(snaps, tracker.Evaluate(pos, res.price, today))
	}
	return snaps
}

func displaySnapshots(output *Output, list string, snaps []models.Snapshot) {
	output.Bold("%s", list)
	output.Printf("  %-22s %8s %7s %5s %8s %10s %8s\n",
		"CONTRACT", "STRIKE", "BID", "DTE", "ROI", "P&L", "STATUS")

	for _, s := range snaps {
		pnl := "—"
		if s.PnL != nil {
			pnl = FormatPnL(*s.PnL)
		}
		output.Printf("  %-22s %8.2f %7.2f %5d %8s %10s %8s\n",
			s.Position.Symbol, s.Position.Strike, s.Position.Bid,
			s.RemainingDTE, FormatROI(s.Position.ROI), pnl,
			statusText(output, s.Status))
	}
}

func statusText(output *Output, status models.PositionStatus) string {
	switch status {
	case models.StatusWin:
		return output.Green(string(status))
	case models.StatusLoss:
		return output.Red(string(status))
	case models.StatusUnknown:
		return output.Yellow(string(status))
	default:
		return string(status)
	}
}

type snapshotJSON struct {
	candidateJSON
	AddedDate      string   `json:"addedDate"`
	ExpirationDate string   `json:"expirationDate"`
	RemainingDTE   int      `json:"remainingDte"`
	PnL            *float64 `json:"pnl"`
	Status         string   `json:"status"`
}

func snapshotsJSON(snaps []models.Snapshot) []snapshotJSON {
	out := make([]snapshotJSON, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, snapshotJSON{
			candidateJSON:  newCandidateJSON(s.Position.TradeCandidate),
			AddedDate:      s.Position.AddedDate.Format("2006-01-02"),
			ExpirationDate: s.Position.ExpirationDate.Format("2006-01-02"),
			RemainingDTE:   s.RemainingDTE,
			PnL:            s.PnL,
			Status:         string(s.Status),
		})
	}
	return out
}
