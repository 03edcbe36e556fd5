package main

import (
	"flag"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hireloop/interviewd/internal/api"
	"github.com/hireloop/interviewd/internal/directory"
	"github.com/hireloop/interviewd/internal/metrics"
	"github.com/hireloop/interviewd/internal/notify"
	"github.com/hireloop/interviewd/internal/repo"
	"github.com/hireloop/interviewd/pkg/environment"
	"github.com/hireloop/interviewd/pkg/errors"
)

type Config struct {
	Environment environment.Env  `yaml:"Environment"`
	API         api.Config       `yaml:"API"`
	Mongo       repo.Config      `yaml:"Mongo"`
	Directory   directory.Config `yaml:"Directory"`
	Notify      notify.Config    `yaml:"Notify"`
	Metrics     metrics.Config   `yaml:"Metrics"`
}

func loadConfig() (*Config, error) {
	path, err := filepath.Abs("config.yaml")
	if err != nil {
		return nil, errors.WrapFail(err, "build path to config")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFail(err, "read \"config.yaml\"")
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.WrapFail(err, "parse yaml")
	}

	if envFromFlags := getEnvFromFlags(); envFromFlags != nil {
		cfg.Environment = *envFromFlags
	}

	return &cfg, nil
}

func getEnvFromFlags() *environment.Env {
	raw := flag.String("env", "", "environment (dev, prod)")
	flag.Parse()
	if raw == nil {
		return nil
	}

	env := environment.FromString(*raw)
	return &env
}
