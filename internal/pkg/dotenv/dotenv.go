package dotenv

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// флаги командной строки, которые перекрывают переменные окружения
var flagEnv = []struct {
	name  string
	env   string
	usage string
}{
	{name: "port", env: "PORT", usage: "Server port (overrides PORT)"},
	{name: "config", env: "TRACKING_CONFIG_FILE", usage: "Tracking YAML file (overrides TRACKING_CONFIG_FILE)"},
}

// Load подхватывает .env из рабочей директории, затем применяет флаги из args.
// Уже выставленные переменные окружения .env не перетирает, флаги перетирают.
// found=false, если .env нет.
func Load(args []string) (found bool, err error) {
	found = true
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("load .env: %w", err)
		}
		found = false
	}

	if err := applyFlags(args); err != nil {
		return found, err
	}
	return found, nil
}

func applyFlags(args []string) error {
	set := flag.NewFlagSet("tracking-service", flag.ContinueOnError)
	values := make([]*string, len(flagEnv))
	for i, f := range flagEnv {
		values[i] = set.String(f.name, "", f.usage)
	}

	if err := set.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	for i, f := range flagEnv {
		if *values[i] == "" {
			continue
		}
		if err := os.Setenv(f.env, *values[i]); err != nil {
			return fmt.Errorf("failed to set %s environment variable: %w", f.env, err)
		}
	}
	return nil
}
