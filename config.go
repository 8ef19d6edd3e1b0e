package main

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// maxTableSize bounds the bucket count a configuration may ask for.
const maxTableSize = math.MaxInt32

// Config is the configuration of a single coursedb process.
type Config struct {
	ExpectedCourses int          `json:"expected_courses"`
	LoadFactor      float64      `json:"load_factor"`
	ListenAddress   string       `json:"listen_address"`
	InputFile       string       `json:"input_file"`
	LogLevel        string       `json:"log_level"`
	Gossip          GossipConfig `json:"gossip"`
}

// GossipConfig controls replication of courses between processes.
type GossipConfig struct {
	Enabled     bool     `json:"enabled"`
	NodeName    string   `json:"node_name"`
	BindAddress string   `json:"bind_address"`
	BindPort    int      `json:"bind_port"`
	Seeds       []string `json:"seeds"`
}

func DefaultConfig() *Config {
	return &Config{
		ExpectedCourses: DefaultExpectedCourses,
		LoadFactor:      DefaultLoadFactor,
		ListenAddress:   ":8080",
		LogLevel:        "info",
		Gossip: GossipConfig{
			BindAddress: "0.0.0.0",
			BindPort:    7946,
		},
	}
}

// LoadConfig reads the JSON document at path on top of DefaultConfig and
// then applies COURSEDB_* environment variables, optionally read from a
// .env file in the working directory. An empty path skips the JSON step.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read configuration")
		}
		if err := json.Unmarshal(b, c); err != nil {
			return nil, errors.Wrapf(err, "failed to parse configuration %s", path)
		}
	}

	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment variables from .env")
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", name)
			}
			*dst = n
		}
		return nil
	}

	if err := num("COURSEDB_EXPECTED_COURSES", &c.ExpectedCourses); err != nil {
		return err
	}
	if v, ok := lookup("COURSEDB_LOAD_FACTOR"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, "invalid COURSEDB_LOAD_FACTOR")
		}
		c.LoadFactor = f
	}
	str("COURSEDB_LISTEN_ADDRESS", &c.ListenAddress)
	str("COURSEDB_INPUT_FILE", &c.InputFile)
	str("COURSEDB_LOG_LEVEL", &c.LogLevel)
	if v, ok := lookup("COURSEDB_GOSSIP_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "invalid COURSEDB_GOSSIP_ENABLED")
		}
		c.Gossip.Enabled = b
	}
	str("COURSEDB_GOSSIP_NODE_NAME", &c.Gossip.NodeName)
	str("COURSEDB_GOSSIP_BIND_ADDRESS", &c.Gossip.BindAddress)
	if err := num("COURSEDB_GOSSIP_BIND_PORT", &c.Gossip.BindPort); err != nil {
		return err
	}
	if v, ok := lookup("COURSEDB_GOSSIP_SEEDS"); ok {
		c.Gossip.Seeds = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Gossip.Seeds = append(c.Gossip.Seeds, s)
			}
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.ExpectedCourses < 0 {
		return errors.Errorf("expected course count must not be negative, got %d", c.ExpectedCourses)
	}
	if math.IsNaN(c.LoadFactor) || math.IsInf(c.LoadFactor, 0) || c.LoadFactor <= 0 {
		return errors.Errorf("load factor must be a finite number greater than 0, got %v", c.LoadFactor)
	}
	if float64(c.ExpectedCourses)/c.LoadFactor > maxTableSize {
		return errors.Errorf("%d expected courses at load factor %v need more than %d buckets",
			c.ExpectedCourses, c.LoadFactor, maxTableSize)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	if c.Gossip.Enabled && (c.Gossip.BindPort <= 0 || c.Gossip.BindPort > 65535) {
		return errors.Errorf("gossip bind port %d out of range", c.Gossip.BindPort)
	}
	return nil
}

// TableSize returns the bucket count for the configured expected course
// count and load factor.
func (c *Config) TableSize() int {
	return TableSize(c.ExpectedCourses, c.LoadFactor)
}

func (c *Config) SerializeConfig() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal configuration")
	}
	return b, nil
}
