package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// twelveDataAPIKeyEnv is the conventional Twelve Data api key environment variable.
	twelveDataAPIKeyEnv = "TWELVEDATA_API_KEY"
)

// Config is the configuration struct for the service.
type Config struct {
	// Source is the market data source, one of sample, csv or twelvedata.
	Source string
	// CSV is the csv data path when sourcing from csv.
	CSV string
	// TwelveDataAPIKey is the Twelve Data API key.
	TwelveDataAPIKey string
	// Bars is the number of sample candles generated or candles requested.
	Bars int
	// OutputDir is the directory outputs are written to.
	OutputDir string
	// DBEndpoint is the rqlite endpoint, runs are not persisted when empty.
	DBEndpoint string
	// DBUser is the database user.
	DBUser string
	// DBPass is the database user pass.
	DBPass string
	// Interval is the number of minutes between scheduled runs, zero runs once.
	Interval int
	// Seed is the sample data generator seed.
	Seed int64

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	switch cfg.Source {
	case "sample":
	case "csv":
		if cfg.CSV == "" {
			errs = errors.Join(errs, fmt.Errorf("csv path is required when source is csv"))
		}
	case "twelvedata":
		if cfg.TwelveDataAPIKey == "" {
			errs = errors.Join(errs, fmt.Errorf("twelvedata api key cannot be an empty string when source is twelvedata"))
		}
	default:
		errs = errors.Join(errs, fmt.Errorf("source must be one of sample, csv or twelvedata, got '%s'", cfg.Source))
	}
	if cfg.Bars < 1 {
		errs = errors.Join(errs, fmt.Errorf("bars must be at least 1, got %d", cfg.Bars))
	}
	if cfg.OutputDir == "" {
		errs = errors.Join(errs, fmt.Errorf("output directory cannot be an empty string"))
	}
	if cfg.Interval < 0 {
		errs = errors.Join(errs, fmt.Errorf("interval cannot be negative, got %d", cfg.Interval))
	}
	if cfg.DBEndpoint == "" && cfg.DBUser != "" {
		errs = errors.Join(errs, fmt.Errorf("database user provided without a database endpoint"))
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
// Defaults are taken from the environment variable of the same name, then the provided fallback.
func (cfg *Config) registerFlag(name string, value interface{}, fallback string, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	if defValue == "" {
		defValue = fallback
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Int64:
		var def int64
		if defValue != "" {
			def, _ = strconv.ParseInt(defValue, 10, 64)
		}
		flag.Int64Var(value.(*int64), name, def, usage)
	case reflect.Float64:
		var def float64
		if defValue != "" {
			def, _ = strconv.ParseFloat(defValue, 64)
		}
		flag.Float64Var(value.(*float64), name, def, usage)
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	flags := []struct {
		name     string
		value    interface{}
		fallback string
		usage    string
	}{
		{"source", &cfg.Source, "sample", "the data source, one of sample, csv or twelvedata"},
		{"csv", &cfg.CSV, "", "the csv path when source is csv"},
		{"twelvedataapikey", &cfg.TwelveDataAPIKey, "", "the twelvedata api key when source is twelvedata"},
		{"bars", &cfg.Bars, "1200", "the bars for sample data or the api output size"},
		{"outputdir", &cfg.OutputDir, "data", "the folder for outputs"},
		{"dbendpoint", &cfg.DBEndpoint, "", "the rqlite endpoint runs are persisted to"},
		{"dbuser", &cfg.DBUser, "", "the database user"},
		{"dbpass", &cfg.DBPass, "", "the database user pass"},
		{"interval", &cfg.Interval, "0", "the minutes between scheduled runs, 0 runs once"},
		{"seed", &cfg.Seed, "42", "the sample data generator seed"},
	}
	for _, f := range flags {
		err = cfg.registerFlag(f.name, f.value, f.fallback, f.usage)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	if cfg.TwelveDataAPIKey == "" {
		cfg.TwelveDataAPIKey = os.Getenv(twelveDataAPIKeyEnv)
	}

	return cfg.Validate()
}
