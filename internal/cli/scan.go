package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"put-screener/internal/marketdata"
	"put-screener/internal/models"
	"put-screener/internal/ranking"
	"put-screener/internal/scanner"
)

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [symbols...]",
		Short: "Scan put chains for cash-secured put candidates",
		Long: `Scan fetches the put chain for each symbol, prices every contract
with the probability model, and keeps candidates whose ROI and chance of
profit fall inside the configured ranges. Results are grouped per
underlying and ranked by the chosen key.

Without arguments the configured universe is scanned.`,
		Example: `  putscan scan
  putscan scan AAPL MSFT
  putscan scan KO --roi-min 0.25 --sort roi
  putscan scan AMD --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			symbols := args
			if len(symbols) == 0 {
				symbols = app.Config.Scan.Universe
			}
			if len(symbols) == 0 {
				output.Error("No symbols given and no universe configured")
				return fmt.Errorf("nothing to scan")
			}
			for i := range symbols {
				symbols[i] = strings.ToUpper(symbols[i])
			}

			filters := filtersFromFlags(cmd, app)
			sortKey := sortKeyFromFlags(cmd)

			underlyings, earnings, fetchWarnings := fetchScanInputs(ctx, app, symbols)

			eng := scanner.New(filters, app.Config.Scan.EarningsWindowDays)
			groups, scanWarnings := eng.Scan(underlyings, earnings, time.Now())
			groups = ranking.RankGroups(groups, sortKey)

			warnings := append(fetchWarnings, scanWarnings...)

			if output.IsJSON() {
				return output.JSON(scanResultJSON(groups, warnings))
			}

			displayScan(output, groups, warnings)
			return nil
		},
	}

	cmd.Flags().Float64("roi-min", 0, "Minimum ROI (defaults from config)")
	cmd.Flags().Float64("roi-max", 0, "Maximum ROI (defaults from config)")
	cmd.Flags().Float64("cop-min", 0, "Minimum chance of profit (defaults from config)")
	cmd.Flags().Float64("cop-max", 0, "Maximum chance of profit (defaults from config)")
	cmd.Flags().StringP("sort", "s", "score", "Sort key: roi, cop, score")

	return cmd
}

// filtersFromFlags overlays command-line overrides on the configured
// filter defaults.
func filtersFromFlags(cmd *cobra.Command, app *App) scanner.Filters {
	filters := scanner.Filters{
		ROIMin: app.Config.Scan.ROIMin,
		ROIMax: app.Config.Scan.ROIMax,
		COPMin: app.Config.Scan.COPMin,
		COPMax: app.Config.Scan.COPMax,
	}
	if cmd.Flags().Changed("roi-min") {
		filters.ROIMin, _ = cmd.Flags().GetFloat64("roi-min")
	}
	if cmd.Flags().Changed("roi-max") {
		filters.ROIMax, _ = cmd.Flags().GetFloat64("roi-max")
	}
	if cmd.Flags().Changed("cop-min") {
		filters.COPMin, _ = cmd.Flags().GetFloat64("cop-min")
	}
	if cmd.Flags().Changed("cop-max") {
		filters.COPMax, _ = cmd.Flags().GetFloat64("cop-max")
	}
	return filters
}

func sortKeyFromFlags(cmd *cobra.Command) ranking.SortKey {
	s, _ := cmd.Flags().GetString("sort")
	return ranking.ParseSortKey(s)
}

// fetchScanInputs retrieves spot, chain and earnings data for each
// symbol sequentially. A symbol whose data cannot be retrieved is
// dropped with a warning; the rest of the batch continues.
func fetchScanInputs(ctx context.Context, app *App, symbols []string) ([]scanner.Underlying, scanner.EarningsLookup, []scanner.Warning) {
	chainFilter := marketdata.ChainFilter{
		Side:   models.SidePut,
		MinDTE: app.Config.Scan.MinDTE,
		MaxDTE: app.Config.Scan.MaxDTE,
		MinBid: app.Config.Scan.MinBid,
	}

	var (
		underlyings []scanner.Underlying
		warnings    []scanner.Warning
		earnings    = make(map[string]time.Time)
	)

	for _, symbol := range symbols {
		spot, err := app.Provider.Spot(ctx, symbol)
		if err != nil {
			app.Logger.Warn().Err(err).Str("symbol", symbol).Msg("spot lookup failed")
			warnings = append(warnings, scanner.Warning{Symbol: symbol, Err: err})
			continue
		}

		quotes, err := app.Provider.Chain(ctx, symbol, chainFilter)
		if err != nil {
			app.Logger.Warn().Err(err).Str("symbol", symbol).Msg("chain lookup failed")
			warnings = append(warnings, scanner.Warning{Symbol: symbol, Err: err})
			continue
		}

		if date, ok, err := app.Provider.NextEarnings(ctx, symbol); err != nil {
			// A missing earnings date only degrades the conflict flag.
			app.Logger.Debug().Err(err).Str("symbol", symbol).Msg("earnings lookup failed")
		} else if ok {
			earnings[symbol] = date
		}

		underlyings = append(underlyings, scanner.Underlying{
			Symbol: symbol,
			Spot:   spot,
			Quotes: quotes,
		})
	}

	lookup := func(symbol string) (time.Time, bool) {
		date, ok := earnings[symbol]
		return date, ok
	}
	return underlyings, lookup, warnings
}

// candidateJSON is the record shape handed to storage and presentation
// collaborators.
type candidateJSON struct {
	OptionSymbol string  `json:"optionSymbol"`
	Underlying   string  `json:"underlying"`
	Strike       float64 `json:"strike"`
	Bid          float64 `json:"bid"`
	Side         string  `json:"side"`
	InTheMoney   bool    `json:"inTheMoney"`
	DTE          int     `json:"dte"`
	IV           float64 `json:"iv"`
	ROI          float64 `json:"roi"`
	COP          float64 `json:"cop"`
	Score        float64 `json:"score"`
}

type groupJSON struct {
	Symbol           string          `json:"symbol"`
	Spot             float64         `json:"spot"`
	EarningsConflict bool            `json:"earningsConflict"`
	EarningsDate     *string         `json:"earningsDate,omitempty"`
	Candidates       []candidateJSON `json:"candidates"`
}

func newCandidateJSON(c models.TradeCandidate) candidateJSON {
	return candidateJSON{
		OptionSymbol: c.Symbol,
		Underlying:   c.UnderlyingSymbol,
		Strike:       c.Strike,
		Bid:          c.Bid,
		Side:         string(c.Side),
		InTheMoney:   c.InTheMoney,
		DTE:          c.DaysToExpiry,
		IV:           c.ImpliedVol,
		ROI:          c.ROI,
		COP:          c.COP,
		Score:        c.Score(),
	}
}

func scanResultJSON(groups []scanner.Group, warnings []scanner.Warning) interface{} {
	out := struct {
		Groups   []groupJSON `json:"groups"`
		Warnings []string    `json:"warnings,omitempty"`
	}{Groups: make([]groupJSON, 0, len(groups))}

	for _, g := range groups {
		gj := groupJSON{
			Symbol:           g.Header.Symbol,
			Spot:             g.Header.Spot,
			EarningsConflict: g.Header.EarningsConflict,
			Candidates:       make([]candidateJSON, 0, len(g.Candidates)),
		}
		if g.Header.EarningsDate != nil {
			s := g.Header.EarningsDate.Format("2006-01-02")
			gj.EarningsDate = &s
		}
		for _, c := range g.Candidates {
			gj.Candidates = append(gj.Candidates, newCandidateJSON(c))
		}
		out.Groups = append(out.Groups, gj)
	}
	for _, w := range warnings {
		out.Warnings = append(out.Warnings, warningString(w))
	}
	return out
}

func warningString(w scanner.Warning) string {
	if w.ContractSymbol != "" {
		return fmt.Sprintf("%s %s: %v", w.Symbol, w.ContractSymbol, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Symbol, w.Err)
}

func displayScan(output *Output, groups []scanner.Group, warnings []scanner.Warning) {
	total := 0
	for _, g := range groups {
		displayGroupHeader(output, g.Header)

		if len(g.Candidates) == 0 {
			output.Printf("  %s\n\n", output.DimText("no candidates in range"))
			continue
		}

		output.Printf("  %-22s %8s %7s %5s %8s %7s %8s\n",
			"CONTRACT", "STRIKE", "BID", "DTE", "ROI", "COP", "SCORE")
		for _, c := range g.Candidates {
			output.Printf("  %-22s %8.2f %7.2f %5d %8s %7s %8.3f\n",
				c.Symbol, c.Strike, c.Bid, c.DaysToExpiry,
				FormatROI(c.ROI), FormatCOP(c.COP), c.Score())
			total++
		}
		output.Println()
	}

	displayWarnings(output, warnings)
	output.Printf("%d candidate(s) across %d underlying(s)\n", total, len(groups))
}

func displayGroupHeader(output *Output, h scanner.Header) {
	line := fmt.Sprintf("%s  %s", h.Symbol, FormatPrice(h.Spot))
	if h.EarningsConflict {
		when := ""
		if h.EarningsDate != nil {
			when = " " + FormatDate(*h.EarningsDate)
		}
		line += "  " + fmt.Sprintf("[earnings%s]", when)
		output.Printf("%s %s\n", output.BoldText(line), output.Yellow("⚠"))
		return
	}
	output.Bold("%s", line)
}

func displayWarnings(output *Output, warnings []scanner.Warning) {
	for _, w := range warnings {
		output.Warning("skipped %s", warningString(w))
	}
}
