// Package config provides configuration management for the NBA Edge application.
package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var seasonPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("season", validateSeason)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSeason validates NBA season identifiers, e.g. "2025-26"
func validateSeason(fl validator.FieldLevel) bool {
	return seasonPattern.MatchString(fl.Field().String())
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Model.ProbabilityFloor >= cfg.Model.ProbabilityCeiling {
		return fmt.Errorf("model probability_floor must be below probability_ceiling")
	}

	if cfg.Storage.Enabled {
		if cfg.Storage.Host == "" || cfg.Storage.Name == "" || cfg.Storage.User == "" {
			return fmt.Errorf("storage host, name and user are required when storage is enabled")
		}
		if cfg.Storage.MaxIdleConnections > cfg.Storage.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
	}

	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when the cache backend is redis")
	}

	if cfg.Scheduler.Enabled && cfg.Scheduler.RefreshSpec == "" {
		return fmt.Errorf("scheduler.refresh_spec is required when the scheduler is enabled")
	}

	if cfg.IsProduction() {
		if cfg.Storage.Enabled && cfg.Storage.SSLMode == "disable" {
			return fmt.Errorf("production environment requires storage SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Provider.APIKey != "" && isTestCredential(cfg.Provider.APIKey) {
			return fmt.Errorf("production environment should not use a placeholder provider API key")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "season":
			errMsg += fmt.Sprintf("- Field '%s' must look like '2025-26', got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// isTestCredential checks if a credential looks like a placeholder
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
