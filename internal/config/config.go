package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "spherecam.cfg.json"

// SessionConfig holds the settings fixed before a capture session starts.
type SessionConfig struct {
	Resolution  string  `json:"resolution" mapstructure:"resolution"` // index into the list or "WxH"
	Preset      string  `json:"preset" mapstructure:"preset"`
	ImageFormat string  `json:"imageFormat" mapstructure:"imageFormat"`
	CropRatio   float64 `json:"cropRatio" mapstructure:"cropRatio"`
	OutputDir   string  `json:"outputDir" mapstructure:"outputDir"`
}

// LayoutConfig holds marker generator parameters.
type LayoutConfig struct {
	Radius           float64 `json:"radius" mapstructure:"radius"`
	EquatorialCount  int     `json:"equatorialCount" mapstructure:"equatorialCount"`
	PolarCount       int     `json:"polarCount" mapstructure:"polarCount"`
	CircleCount      int     `json:"circleCount" mapstructure:"circleCount"`
	VerticalRings    int     `json:"verticalRings" mapstructure:"verticalRings"`
	VerticalSegments int     `json:"verticalSegments" mapstructure:"verticalSegments"`
}

// StorageConfig selects the capture journal backend.
type StorageConfig struct {
	Type string `json:"type" mapstructure:"type"` // memory or sqlite
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	// LogLevel is the floor for records exported through OTel.
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers every default value. Load calls it; callers that skip
// the config file call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./spherecamlogs")

	viper.SetDefault("session.resolution", "2")
	viper.SetDefault("session.preset", "default")
	viper.SetDefault("session.imageFormat", "png")
	viper.SetDefault("session.cropRatio", 1.0)
	viper.SetDefault("session.outputDir", ".")

	viper.SetDefault("layout.radius", 5.0)
	viper.SetDefault("layout.equatorialCount", 24)
	viper.SetDefault("layout.polarCount", 1)
	viper.SetDefault("layout.circleCount", 5)
	viper.SetDefault("layout.verticalRings", 3)
	viper.SetDefault("layout.verticalSegments", 8)

	viper.SetDefault("storage.type", "memory")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "spherecam")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.logLevel", "info")
}

// BindFlags lets command line flags override config keys. Flag names are the
// config keys themselves, e.g. --session.preset.
func BindFlags(flags *pflag.FlagSet) error {
	if err := viper.BindPFlags(flags); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// GetSessionConfig returns the session settings.
func GetSessionConfig() SessionConfig {
	return SessionConfig{
		Resolution:  viper.GetString("session.resolution"),
		Preset:      viper.GetString("session.preset"),
		ImageFormat: viper.GetString("session.imageFormat"),
		CropRatio:   viper.GetFloat64("session.cropRatio"),
		OutputDir:   viper.GetString("session.outputDir"),
	}
}

// GetLayoutConfig returns the marker generator parameters.
func GetLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Radius:           viper.GetFloat64("layout.radius"),
		EquatorialCount:  viper.GetInt("layout.equatorialCount"),
		PolarCount:       viper.GetInt("layout.polarCount"),
		CircleCount:      viper.GetInt("layout.circleCount"),
		VerticalRings:    viper.GetInt("layout.verticalRings"),
		VerticalSegments: viper.GetInt("layout.verticalSegments"),
	}
}

// GetStorageConfig returns the journal backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		LogLevel:     viper.GetString("otel.logLevel"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
