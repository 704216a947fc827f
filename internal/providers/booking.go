package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

const bookingUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// BookingOptions tune the Booking.com scrape.
type BookingOptions struct {
	// Headless runs Chrome without a visible window. Disable for
	// debugging selector breakage.
	Headless bool
	// PageWait is how long to let the results page settle before
	// reading it; prices load late.
	PageWait time.Duration
	// ScrollCount and ScrollPause drive the incremental scrolls that
	// trigger lazy-loaded cards.
	ScrollCount int
	ScrollPause time.Duration
	// RequestsPerMinute caps how often we hit Booking.com.
	RequestsPerMinute int
}

// DefaultBookingOptions returns the scrape tuning used in production.
func DefaultBookingOptions() BookingOptions {
	return BookingOptions{
		Headless:          true,
		PageWait:          6 * time.Second,
		ScrollCount:       4,
		ScrollPause:       2 * time.Second,
		RequestsPerMinute: 6,
	}
}

// BookingProvider scrapes hotel results from Booking.com with a
// scripted headless browser. The page fetch and the HTML parse are kept
// separate so the parse can be tested against static fixtures.
type BookingProvider struct {
	opts    BookingOptions
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewBookingProvider creates a new BookingProvider.
func NewBookingProvider(opts BookingOptions, logger *slog.Logger) *BookingProvider {
	rpm := opts.RequestsPerMinute
	if rpm <= 0 {
		rpm = 6
	}
	return &BookingProvider{
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		logger:  logger,
	}
}

// Name returns the provider name.
func (p *BookingProvider) Name() string { return "Booking.com" }

// SearchURL builds the Booking.com search results URL.
func (p *BookingProvider) SearchURL(params Params) string {
	loc := strings.ToLower(strings.ReplaceAll(params.Location, " ", "-"))
	return fmt.Sprintf(
		"https://www.booking.com/searchresults.html?ss=%s&checkin_year_month_monthday=%s&checkout_year_month_monthday=%s&group_adults=%d",
		loc, params.CheckInDate(), params.CheckOutDate(), params.Adults)
}

// Fetch drives the browser through the search results page and extracts
// raw hotel records from the rendered HTML.
func (p *BookingProvider) Fetch(ctx context.Context, params Params) ([]any, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := p.SearchURL(params)
	p.logger.Info("scraping booking.com", "url", url)

	html, err := p.fetchHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("booking.com page fetch: %w", err)
	}

	records := parseBookingResults(html, url)
	if len(records) == 0 {
		p.logger.Warn("no hotels found on booking.com", "url", url)
	} else {
		p.logger.Info("booking.com scrape complete", "hotels", len(records))
	}
	return records, nil
}

func (p *BookingProvider) fetchHTML(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", p.opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(bookingUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.Sleep(p.opts.PageWait),
	}
	// Scroll in small steps so lazy-loaded property cards render.
	for i := 0; i < p.opts.ScrollCount; i++ {
		tasks = append(tasks,
			chromedp.Evaluate(`window.scrollBy(0, 300)`, nil),
			chromedp.Sleep(p.opts.ScrollPause),
		)
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return "", err
	}
	return html, nil
}
