package repo

import "time"

type Config struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`

	Database string `yaml:"database"`

	Auth struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`

	Collections struct {
		Processes    string `yaml:"processes"`
		Slots        string `yaml:"slots"`
		Interviewees string `yaml:"interviewees"`
	} `yaml:"collections"`
}

func (c *Config) withDefaults() {
	if c.Collections.Processes == "" {
		c.Collections.Processes = "processes"
	}
	if c.Collections.Slots == "" {
		c.Collections.Slots = "slots"
	}
	if c.Collections.Interviewees == "" {
		c.Collections.Interviewees = "interviewees"
	}
}
