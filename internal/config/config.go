package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// DefaultDataFile is the input file name looked up in the user's home directory.
const DefaultDataFile = "heathrowdata.txt"

const (
	minChartWidth  = 320
	minChartHeight = 200
)

// Config holds all settings, populated from environment variables.
type Config struct {
	DataPath     string
	GroupKey     domain.GroupKey
	Aggregations []domain.ColumnAggregation

	OutputPath        string
	ChartWidth        int
	ChartHeight       int
	HistogramBinWidth float64

	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory, applying defaults where unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", domain.ErrConfig, err)
	}

	dataPath, err := ExpandHome(sharedcfg.EnvOrDefault("HEATHROW_DATA_FILE", "~/"+DefaultDataFile))
	if err != nil {
		return nil, fmt.Errorf("%w: HEATHROW_DATA_FILE: %v", domain.ErrConfig, err)
	}

	groupKey, err := domain.ParseGroupKey(sharedcfg.EnvOrDefault("GROUP_BY", domain.ByMonth.Name))
	if err != nil {
		return nil, fmt.Errorf("%w: GROUP_BY: %v", domain.ErrConfig, err)
	}

	aggs, err := domain.ParseAggregations(sharedcfg.EnvOrDefault("AGGREGATIONS", domain.DefaultAggregations))
	if err != nil {
		return nil, fmt.Errorf("%w: AGGREGATIONS: %v", domain.ErrConfig, err)
	}

	outputPath := sharedcfg.EnvOrDefault("PLOT_OUTPUT", "heathrow.png")
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".png", ".svg":
	default:
		return nil, fmt.Errorf("%w: PLOT_OUTPUT must end in .png or .svg", domain.ErrConfig)
	}

	width, err := parsePositiveInt("CHART_WIDTH", 1024, minChartWidth)
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveInt("CHART_HEIGHT", 576, minChartHeight)
	if err != nil {
		return nil, err
	}

	binWidth, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("HISTOGRAM_BIN_WIDTH", "0.5"), 64)
	if err != nil || math.IsNaN(binWidth) || math.IsInf(binWidth, 0) || binWidth <= 0 {
		return nil, fmt.Errorf("%w: invalid HISTOGRAM_BIN_WIDTH (want a finite number > 0)", domain.ErrConfig)
	}

	return &Config{
		DataPath:          dataPath,
		GroupKey:          groupKey,
		Aggregations:      aggs,
		OutputPath:        outputPath,
		ChartWidth:        width,
		ChartHeight:       height,
		HistogramBinWidth: binWidth,
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		MetricsTextfile:   os.Getenv("METRICS_TEXTFILE"),
	}, nil
}

func parsePositiveInt(key string, def, minimum int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minimum {
		return 0, fmt.Errorf("%w: invalid %s (want an integer >= %d)", domain.ErrConfig, key, minimum)
	}
	return n, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
