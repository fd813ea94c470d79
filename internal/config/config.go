package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SerialPort        string
	BaudRate          int
	ReadTimeout       time.Duration // Serial read timeout, also the worst-case quit latency
	CanvasWidth       int
	CanvasHeight      int
	SourceWidth       int // Width of the device coordinate space
	DividerX          int
	WindowTitle       string
	QuitKey           string
	IndicatorDuration time.Duration
	DisplayEnabled    bool

	BoxColor       string
	MarkerColor    string
	DividerColor   string
	TextColor      string
	IndicatorColor string

	HTTPAddr    string // Empty disables the viewer feed
	ViewerToken string

	HistoryDB            string // Empty disables batch history
	HistoryFlushInterval time.Duration
	HistoryBufferLimit   int

	LogDirectory string // Empty logs to the console only
}

// Load reads .env from the working directory when present and builds the
// configuration from the environment. A missing .env is not an error; an
// unreadable or malformed one is.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return &Config{
		SerialPort:        getEnv("SERIAL_PORT", "/dev/ttyACM0"),
		BaudRate:          getEnvAsInt("BAUD_RATE", 115200),
		ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 100*time.Millisecond),
		CanvasWidth:       getEnvAsInt("CANVAS_WIDTH", 320),
		CanvasHeight:      getEnvAsInt("CANVAS_HEIGHT", 320),
		SourceWidth:       getEnvAsInt("SOURCE_WIDTH", 80),
		DividerX:          getEnvAsInt("DIVIDER_X", 260),
		WindowTitle:       getEnv("WINDOW_TITLE", "Bounding Boxes"),
		QuitKey:           getEnv("QUIT_KEY", "q"),
		IndicatorDuration: getEnvAsDuration("INDICATOR_DURATION", 250*time.Millisecond),
		DisplayEnabled:    getEnvAsBool("DISPLAY_ENABLED", true),

		BoxColor:       getEnv("BOX_COLOR", "#00FF00"),
		MarkerColor:    getEnv("MARKER_COLOR", "#EBB434"),
		DividerColor:   getEnv("DIVIDER_COLOR", "#FF0000"),
		TextColor:      getEnv("TEXT_COLOR", "#FFFFFF"),
		IndicatorColor: getEnv("INDICATOR_COLOR", "#00FF00"),

		HTTPAddr:    getEnv("HTTP_ADDR", ""),
		ViewerToken: getEnv("VIEWER_TOKEN", ""),

		HistoryDB:            getEnv("HISTORY_DB", ""),
		HistoryFlushInterval: getEnvAsDuration("HISTORY_FLUSH_INTERVAL", 10*time.Second),
		HistoryBufferLimit:   getEnvAsInt("HISTORY_BUFFER_LIMIT", 50),

		LogDirectory: getEnv("LOG_DIR", ""),
	}, nil
}

// QuitKeyCode returns the key code the display reports for QuitKey.
func (c *Config) QuitKeyCode() int {
	if c.QuitKey == "" {
		return 'q'
	}
	return int(c.QuitKey[0])
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
