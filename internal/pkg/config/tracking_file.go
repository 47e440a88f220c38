package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var structValidator = validator.New()

// trackingFile YAML-файл настройки отслеживания. Отсутствующие ключи
// сохраняют значения из окружения.
//
//	tracking:
//	  pickup_radius_meters: 60
//	  eta_refresh_interval: 45s
//	dispatcher:
//	  workers: 16
type trackingFile struct {
	Tracking   Tracking   `yaml:"tracking"`
	Dispatcher Dispatcher `yaml:"dispatcher"`
}

func applyTrackingFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	file := trackingFile{
		Tracking:   cfg.Tracking,
		Dispatcher: cfg.Dispatcher,
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Tracking = file.Tracking
	cfg.Dispatcher = file.Dispatcher
	return nil
}

func validateTracking(cfg *Config) error {
	if err := structValidator.Struct(cfg.Tracking); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}
	if err := structValidator.Struct(cfg.Dispatcher); err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}

	// задача маршрута должна успеть все попытки провайдера
	minJobTimeout := time.Duration(cfg.Tracking.RouteMaxAttempts) * cfg.Maps.Timeout
	if cfg.Dispatcher.JobTimeout < minJobTimeout {
		return fmt.Errorf("dispatcher: job_timeout %s is shorter than %d maps calls of %s",
			cfg.Dispatcher.JobTimeout, cfg.Tracking.RouteMaxAttempts, cfg.Maps.Timeout)
	}
	return nil
}
