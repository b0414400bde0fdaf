// Package runner holds the process-level wiring: configuration
// parsing, run mode selection, telemetry setup and the startup banner.
package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/gosom/submitmyurl/tlmt"
	"github.com/gosom/submitmyurl/tlmt/gonoop"
	"github.com/gosom/submitmyurl/tlmt/goposthog"
	"github.com/gosom/submitmyurl/wizard"
)

const (
	RunModeWeb = iota + 1
	RunModeSeed
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var ErrInvalidRunMode = errors.New("invalid run mode")

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type Config struct {
	Addr             string
	DataFolder       string
	Backend          string
	AdminPassword    string
	SubmitDelay      time.Duration
	SessionTTL       time.Duration
	Debug            bool
	DisableTelemetry bool
	RunMode          int
}

func ParseConfig() *Config {
	cfg := Config{}

	var seed bool

	flag.StringVar(&cfg.Addr, "addr", ":8080", "address to listen on")
	flag.StringVar(&cfg.DataFolder, "data-folder", "webdata", "folder for the sqlite data store")
	flag.StringVar(&cfg.Backend, "backend", BackendSQLite, "storage backend: sqlite or memory")
	flag.DurationVar(&cfg.SubmitDelay, "submit-delay", wizard.DefaultSubmitDelay, "artificial delay before the final submit (e.g., '1.5s')")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", 24*time.Hour, "lifetime of login sessions")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	flag.BoolVar(&seed, "seed", false, "write the demo seed data and exit")

	flag.Parse()

	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}

	cfg.DisableTelemetry = os.Getenv("DISABLE_TELEMETRY") == "1"

	if cfg.Backend != BackendSQLite && cfg.Backend != BackendMemory {
		panic("Backend must be sqlite or memory")
	}

	if cfg.Backend == BackendSQLite && cfg.DataFolder == "" {
		panic("DataFolder must be provided when using the sqlite backend")
	}

	if seed {
		cfg.RunMode = RunModeSeed
	} else {
		cfg.RunMode = RunModeWeb
	}

	return &cfg
}

var (
	telemetryOnce sync.Once
	telemetry     tlmt.Telemetry
)

func Telemetry() tlmt.Telemetry {
	telemetryOnce.Do(func() {
		if os.Getenv("DISABLE_TELEMETRY") == "1" {
			telemetry = gonoop.New()

			return
		}

		apiKey := os.Getenv("POSTHOG_API_KEY")
		if apiKey == "" {
			telemetry = gonoop.New()

			return
		}

		val, err := goposthog.New(apiKey, "https://eu.i.posthog.com")
		if err != nil || val == nil {
			telemetry = gonoop.New()

			return
		}

		telemetry = val
	})

	return telemetry
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = runeWidth
		} else {
			currentLine += string(r)
			currentWidth += runeWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(0)
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrappedLines []string
	for _, message := range messages {
		wrappedLines = append(wrappedLines, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrappedLines {
		lineWidth := runewidth.StringWidth(line)
		paddingRight := contentWidth - lineWidth

		if paddingRight < 0 {
			paddingRight = 0
		}

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", paddingRight)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

func Banner() {
	message1 := "🚀 SubmitMyURL directory service"
	message2 := "📝 Submit your website, track its review status, manage listings from the admin panel"

	fmt.Fprintln(os.Stderr, banner([]string{message1, message2}, 0))
}
