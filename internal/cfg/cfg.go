// Package cfg loads compiler settings from a YAML file with
// environment-variable overrides. Hyperparameters left at zero are
// filled from the embedded policy for the observed class count at
// training time.
package cfg

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"emg-forest/internal/common"
)

// Settings is the resolved runtime configuration of the compiler.
type Settings struct {
	ModelName      string
	DataPath       string
	HeaderPath     string
	ModelStorePath string
	SampleRate     float64
	Seed           int64

	// Hyperparameter overrides; zero means "use the class-count policy".
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int

	// Deployment budgets in bytes; zero means unconstrained.
	FlashBudget int
	RAMBudget   int

	MetricsPort int
}

// ConfigFile is the YAML schema.
type ConfigFile struct {
	Model struct {
		Name      string `yaml:"name"`
		StorePath string `yaml:"storePath"`
	} `yaml:"model"`

	Training struct {
		DataPath        string  `yaml:"dataPath"`
		SampleRate      float64 `yaml:"sampleRate"`
		Seed            int64   `yaml:"seed"`
		NumTrees        int     `yaml:"numTrees"`
		MaxDepth        int     `yaml:"maxDepth"`
		MinSamplesSplit int     `yaml:"minSamplesSplit"`
		MinSamplesLeaf  int     `yaml:"minSamplesLeaf"`
	} `yaml:"training"`

	Export struct {
		HeaderPath  string `yaml:"headerPath"`
		FlashBudget int    `yaml:"flashBudget"`
		RAMBudget   int    `yaml:"ramBudget"`
	} `yaml:"export"`

	System struct {
		MetricsPort int `yaml:"metricsPort"`
	} `yaml:"system"`
}

// Load resolves settings: CONFIG_FILE YAML first when set, then
// environment variables, then defaults.
func Load() (Settings, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv(), nil
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	s := Settings{
		ModelName:       config.Model.Name,
		ModelStorePath:  config.Model.StorePath,
		DataPath:        config.Training.DataPath,
		SampleRate:      config.Training.SampleRate,
		Seed:            config.Training.Seed,
		NumTrees:        config.Training.NumTrees,
		MaxDepth:        config.Training.MaxDepth,
		MinSamplesSplit: config.Training.MinSamplesSplit,
		MinSamplesLeaf:  config.Training.MinSamplesLeaf,
		HeaderPath:      config.Export.HeaderPath,
		FlashBudget:     config.Export.FlashBudget,
		RAMBudget:       config.Export.RAMBudget,
		MetricsPort:     config.System.MetricsPort,
	}
	applyEnvOverrides(&s)
	applyDefaults(&s)
	return s, s.validate()
}

func loadFromEnv() Settings {
	var s Settings
	applyEnvOverrides(&s)
	applyDefaults(&s)
	return s
}

func applyEnvOverrides(s *Settings) {
	s.ModelName = getEnvOrDefault(common.EnvModelName, s.ModelName)
	s.DataPath = getEnvOrDefault(common.EnvDataPath, s.DataPath)
	s.HeaderPath = getEnvOrDefault(common.EnvHeaderPath, s.HeaderPath)
	s.ModelStorePath = getEnvOrDefault(common.EnvModelStorePath, s.ModelStorePath)
	s.SampleRate = getEnvFloat(common.EnvSampleRate, s.SampleRate)
	s.Seed = int64(getEnvInt(common.EnvSeed, int(s.Seed)))
	s.NumTrees = getEnvInt(common.EnvNumTrees, s.NumTrees)
	s.MaxDepth = getEnvInt(common.EnvMaxDepth, s.MaxDepth)
	s.MinSamplesSplit = getEnvInt(common.EnvMinSamplesSplit, s.MinSamplesSplit)
	s.MinSamplesLeaf = getEnvInt(common.EnvMinSamplesLeaf, s.MinSamplesLeaf)
	s.FlashBudget = getEnvInt(common.EnvFlashBudget, s.FlashBudget)
	s.RAMBudget = getEnvInt(common.EnvRAMBudget, s.RAMBudget)
	s.MetricsPort = getEnvInt(common.EnvMetricsPort, s.MetricsPort)
}

func applyDefaults(s *Settings) {
	if s.ModelName == "" {
		s.ModelName = common.DefaultModelName
	}
	if s.HeaderPath == "" {
		s.HeaderPath = common.DefaultHeaderPath
	}
	if s.ModelStorePath == "" {
		s.ModelStorePath = common.DefaultModelStorePath
	}
	if s.SampleRate == 0 {
		s.SampleRate = common.DefaultSampleRate
	}
	if s.Seed == 0 {
		s.Seed = common.DefaultSeed
	}
	if s.MetricsPort == 0 {
		s.MetricsPort = common.DefaultMetricsPort
	}
}

func (s Settings) validate() error {
	if s.MetricsPort < common.MinMetricsPort || s.MetricsPort > common.MaxMetricsPort {
		return fmt.Errorf("metrics port %d outside valid range [%d,%d]",
			s.MetricsPort, common.MinMetricsPort, common.MaxMetricsPort)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %v", s.SampleRate)
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
