package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/padsim/internal/calib"
	"github.com/san-kum/padsim/internal/filter"
)

const (
	DefaultCalibrationDir = "data"
	DefaultOutputDir      = "results"
	DefaultDBPath         = "results/padsim.db"
	DefaultWorkers        = 1
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	filter.SimConfig `yaml:",inline"`

	Data           DataConfig `yaml:"data"`
	Subjects       []string   `yaml:"subjects"`
	Angles         []float64  `yaml:"angles"`
	ResetEachAngle bool       `yaml:"reset_each_angle"`
	Workers        int        `yaml:"workers"`
	LogLevel       string     `yaml:"log_level"`
}

type DataConfig struct {
	CalibrationDir string `yaml:"calibration_dir"`
	OutputDir      string `yaml:"output_dir"`
	DBPath         string `yaml:"db_path"`
	InitialPattern string `yaml:"initial_pattern"`
	TablePattern   string `yaml:"table_pattern"`
}

func DefaultConfig() *Config {
	return &Config{
		SimConfig: filter.DefaultSimConfig(),
		Data: DataConfig{
			CalibrationDir: DefaultCalibrationDir,
			OutputDir:      DefaultOutputDir,
			DBPath:         DefaultDBPath,
			InitialPattern: calib.DefaultInitialPattern,
			TablePattern:   calib.DefaultTablePattern,
		},
		Subjects:       []string{"Subject1"},
		Angles:         []float64{-90, 10, 30, 45, 60, 90},
		ResetEachAngle: true,
		Workers:        DefaultWorkers,
		LogLevel:       "warn",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything a sweep needs before the first step runs.
func (c *Config) Validate() error {
	errs := []error{c.SimConfig.Validate()}
	if len(c.Subjects) == 0 {
		errs = append(errs, fmt.Errorf("%w: no subjects", ErrInvalidConfig))
	}
	seen := make(map[string]bool, len(c.Subjects))
	for _, s := range c.Subjects {
		if s == "" {
			errs = append(errs, fmt.Errorf("%w: empty subject name", ErrInvalidConfig))
		}
		if seen[s] {
			errs = append(errs, fmt.Errorf("%w: subject %q listed twice", ErrInvalidConfig, s))
		}
		seen[s] = true
	}
	if len(c.Angles) == 0 {
		errs = append(errs, fmt.Errorf("%w: no angles", ErrInvalidConfig))
	}
	for _, a := range c.Angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			errs = append(errs, fmt.Errorf("%w: angle %v is not finite", ErrInvalidConfig, a))
		}
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers))
	}
	return errors.Join(errs...)
}

// Source returns the calibration source described by the data section.
func (c *Config) Source() *calib.DirSource {
	src := calib.NewDirSource(c.Data.CalibrationDir)
	if c.Data.InitialPattern != "" {
		src.InitialPattern = c.Data.InitialPattern
	}
	src.TablePattern = c.Data.TablePattern
	return src
}

func (c *Config) Clone() *Config {
	out := *c
	out.Subjects = append([]string(nil), c.Subjects...)
	out.Angles = append([]float64(nil), c.Angles...)
	return &out
}
