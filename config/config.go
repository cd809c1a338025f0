package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `default:"8080"`

	// HumanizeMode is "seeded" (deterministic, default) or "live".
	HumanizeMode string `default:"seeded" split_words:"true"`

	OpenAIKey          string `split_words:"true"`
	EnhancerModel      string `default:"gpt-4o-mini" split_words:"true"`
	EnhancerTimeoutSec int    `default:"20" split_words:"true"`
	EnhancerBPMMin     int    `default:"40" split_words:"true"`
	EnhancerBPMMax     int    `default:"220" split_words:"true"`
}

func ProvideConfig() Config {
	var cfg Config
	err := envconfig.Process("codetune", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
