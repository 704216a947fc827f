package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kthandra777/hotelfinder-pro/internal/config"
	"github.com/kthandra777/hotelfinder-pro/internal/export"
	"github.com/kthandra777/hotelfinder-pro/internal/format"
	"github.com/kthandra777/hotelfinder-pro/internal/narrative"
	"github.com/kthandra777/hotelfinder-pro/internal/obs"
	"github.com/kthandra777/hotelfinder-pro/internal/providers"
	"github.com/kthandra777/hotelfinder-pro/internal/search"
)

var (
	searchLocation   string
	searchCheckIn    string
	searchCheckOut   string
	searchAdults     int
	searchRounds     int
	searchSource     string
	searchCSV        string
	searchRecommend  bool
	searchSummaries  int
	searchBudget     string
	searchPriorities []string
	searchConfig     string
	searchVerbose    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for hotels",
	Long: `Searches all providers, merges the results and prints them ranked by
rating then price. After the first round you are asked whether to keep
searching; each extra round re-fetches and folds in hotels not seen
before.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "destination city (required)")
	searchCmd.Flags().StringVar(&searchCheckIn, "check-in", "", "check-in date, YYYY-MM-DD (required)")
	searchCmd.Flags().StringVar(&searchCheckOut, "check-out", "", "check-out date, YYYY-MM-DD (required)")
	searchCmd.Flags().IntVarP(&searchAdults, "adults", "a", 2, "number of adults")
	searchCmd.Flags().IntVar(&searchRounds, "rounds", 0, "fetch rounds to run without prompting (0 = ask interactively)")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "only list hotels from this source")
	searchCmd.Flags().StringVar(&searchCSV, "csv", "", "also write results to this CSV file")
	searchCmd.Flags().BoolVar(&searchRecommend, "recommend", false, "generate a personalized recommendation")
	searchCmd.Flags().IntVar(&searchSummaries, "summaries", 0, "generate review summaries for the top N hotels")
	searchCmd.Flags().StringVar(&searchBudget, "budget", "", "budget preference for recommendations")
	searchCmd.Flags().StringSliceVar(&searchPriorities, "priority", nil, "priorities for recommendations (repeatable)")
	searchCmd.Flags().StringVar(&searchConfig, "config", "", "path to YAML config file")
	searchCmd.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "log provider activity")

	_ = searchCmd.MarkFlagRequired("location")
	_ = searchCmd.MarkFlagRequired("check-in")
	_ = searchCmd.MarkFlagRequired("check-out")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(searchConfig)
	if err != nil {
		return err
	}

	params, err := parseParams()
	if err != nil {
		return err
	}

	logger := cliLogger()
	metrics := obs.NewMetrics(logger)

	booking := providers.NewBookingProvider(providers.BookingOptions{
		Headless:          cfg.Scrape.Headless,
		PageWait:          cfg.Scrape.PageWait.Std(),
		ScrollCount:       cfg.Scrape.ScrollCount,
		ScrollPause:       cfg.Scrape.ScrollPause.Std(),
		RequestsPerMinute: cfg.Scrape.RequestsPerMinute,
	}, logger)

	providersList := []providers.Provider{
		booking,
		providers.NewKayakProvider(),
	}
	for _, p := range cfg.Providers {
		timeout := p.Timeout.Std()
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		providersList = append(providersList, providers.NewHTTPProvider(p.Name, p.URL, timeout))
	}

	aggregator := search.NewAggregator(providersList, cfg.Search.Timeout.Std(), metrics, logger)

	decide := promptDecision(cmd.InOrStdin(), cmd.OutOrStdout())
	if searchRounds > 0 {
		decide = fixedRoundsDecision(searchRounds)
	}

	sess := search.NewSession(aggregator, booking, decide, cfg.Search.MaxRounds, logger)

	cmd.Printf("Searching hotels in %s (%s to %s, %d adults)...\n\n",
		params.Location, params.CheckInDate(), params.CheckOutDate(), params.Adults)

	result, err := sess.Run(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	cmd.Println(format.Digest(result.Hotels))
	cmd.Println(format.Listing(result.Hotels, searchSource))
	cmd.Printf("Providers: %d succeeded, %d failed. Rounds: %d.\n",
		result.ProvidersSucceeded, result.ProvidersFailed, result.Rounds)

	if searchCSV != "" {
		if err := export.NewCSVWriter(searchCSV).WriteRecords(result.Hotels); err != nil {
			return err
		}
		cmd.Printf("Wrote %d hotels to %s\n", len(result.Hotels), searchCSV)
	}

	if searchRecommend || searchSummaries > 0 {
		gen := narrative.New(narrative.Options{
			APIKey:  cfg.Narrative.APIKey,
			BaseURL: cfg.Narrative.BaseURL,
			Model:   cfg.Narrative.Model,
			Timeout: cfg.Narrative.Timeout.Std(),
		}, metrics, logger)

		for i, rec := range result.Hotels {
			if i >= searchSummaries {
				break
			}
			cmd.Printf("\n%s:\n%s\n", rec.Name, gen.SummarizeReviews(cmd.Context(), rec))
		}

		if searchRecommend {
			prefs := narrative.Preferences{Budget: searchBudget, Priorities: searchPriorities}
			cmd.Println("\nRecommendation:")
			cmd.Println(gen.Recommend(cmd.Context(), result.Hotels, prefs))
		}
	}

	return nil
}

func parseParams() (providers.Params, error) {
	checkIn, err := time.Parse("2006-01-02", searchCheckIn)
	if err != nil {
		return providers.Params{}, fmt.Errorf("check-in must be in YYYY-MM-DD format")
	}
	checkOut, err := time.Parse("2006-01-02", searchCheckOut)
	if err != nil {
		return providers.Params{}, fmt.Errorf("check-out must be in YYYY-MM-DD format")
	}

	params := providers.Params{
		Location: strings.TrimSpace(searchLocation),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   searchAdults,
		Credentials: providers.Credentials{
			APIKey:    os.Getenv("PROVIDER_API_KEY"),
			ProjectID: os.Getenv("PROVIDER_PROJECT_ID"),
		},
	}
	if err := params.Validate(); err != nil {
		return providers.Params{}, err
	}
	return params, nil
}

// promptDecision asks on the terminal whether to run another round.
func promptDecision(in io.Reader, out io.Writer) search.DecisionFunc {
	reader := bufio.NewReader(in)
	return func(ctx context.Context) (string, error) {
		fmt.Fprint(out, "Would you like to search for more hotels? (yes/no): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

// fixedRoundsDecision continues until the requested round count is
// reached, for non-interactive use.
func fixedRoundsDecision(rounds int) search.DecisionFunc {
	remaining := rounds - 1
	return func(ctx context.Context) (string, error) {
		if remaining > 0 {
			remaining--
			return "yes", nil
		}
		return "no", nil
	}
}

func cliLogger() *slog.Logger {
	if searchVerbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
