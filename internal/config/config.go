package config

import (
	"fmt"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/qlearning"
)

const (
	OpponentHuman = "human"
	OpponentBot   = "bot"
	OpponentAgent = "agent"

	defaultSeed = 1
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string     `yaml:"http-port" env:"HTTP_PORT" env-default:""`
	Redis      Redis      `yaml:"redis"`
	Agent      Agent      `yaml:"agent"`
	Training   Training   `yaml:"training"`
	Evaluation Evaluation `yaml:"evaluation"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Agent holds the hyperparameters shared by both learning agents. Defaults are
// set before the file is read, so an explicit 0 is kept.
type Agent struct {
	Alpha   float64 `yaml:"alpha"`
	Gamma   float64 `yaml:"gamma"`
	Epsilon float64 `yaml:"epsilon"`
}

type Training struct {
	Episodes    int    `yaml:"episodes" env:"TRAINING_EPISODES" env-default:"20000"`
	Workers     int    `yaml:"workers" env-default:"1"`
	Seed        uint64 `yaml:"seed" env:"TRAINING_SEED"`
	ReportEvery int    `yaml:"report-every" env-default:"1000"`
	StopOnError bool   `yaml:"stop-on-error" env-default:"false"`
}

type Evaluation struct {
	// Games is the number of evaluation games, 0 plays until input ends or the process is stopped.
	Games      int    `yaml:"games" env:"EVALUATION_GAMES" env-default:"0"`
	Opponent   string `yaml:"opponent" env:"EVALUATION_OPPONENT" env-default:"human"`
	PrintTable bool   `yaml:"print-table" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{
		Agent: Agent{
			Alpha:   qlearning.DefaultAlpha,
			Gamma:   qlearning.DefaultGamma,
			Epsilon: qlearning.DefaultEpsilon,
		},
		Training: Training{Seed: defaultSeed},
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if _, ok := logLevels[config.LogLevel]; !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownLogLevel, config.LogLevel)
	}

	return config, nil
}

func (that *Config) SlogLevel() slog.Level {
	return logLevels[that.LogLevel]
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
