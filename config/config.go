// Package config loads and validates the eraser configuration.
package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/ShivamB25/undiscord-cli/model"
)

// Pacing defaults in milliseconds.
const (
	DefaultSearchDelayMS = 30000
	DefaultDeleteDelayMS = 1000
)

// Config is the full eraser configuration. Values come from the TOML
// config file with command line flags layered on top.
type Config struct {
	AuthToken string `toml:"auth_token"`
	ChannelID string `toml:"channel_id"`

	AuthorID      string `toml:"author_id"`
	Content       string `toml:"content"`
	HasLink       bool   `toml:"has_link"`
	HasFile       bool   `toml:"has_file"`
	MinID         string `toml:"min_id"`
	MaxID         string `toml:"max_id"`
	After         string `toml:"after"`
	Before        string `toml:"before"`
	IncludeNSFW   bool   `toml:"include_nsfw"`
	IncludePinned bool   `toml:"include_pinned"`
	Pattern       string `toml:"pattern"`

	SearchDelayMS int `toml:"search_delay"`
	DeleteDelayMS int `toml:"delete_delay"`
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (*Config, error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config
	if _, err := toml.Decode(string(configFile), &config); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	return config, nil
}

// Normalize fills in defaults for unset pacing values.
func (c *Config) Normalize() {
	if c.SearchDelayMS <= 0 {
		c.SearchDelayMS = DefaultSearchDelayMS
	}
	if c.DeleteDelayMS <= 0 {
		c.DeleteDelayMS = DefaultDeleteDelayMS
	}
}

// Validate checks the configuration before a run starts.
func (c *Config) Validate() error {
	if c.AuthToken == "" {
		return errors.New("auth_token is required")
	}
	if c.ChannelID == "" {
		return errors.New("channel_id is required")
	}
	if c.HasLink && c.HasFile {
		// The search endpoint takes a single "has" value; requesting both
		// would silently drop one filter.
		return errors.New("has_link and has_file cannot be combined")
	}
	if c.MinID != "" && c.After != "" {
		return errors.New("min_id and after cannot be combined")
	}
	if c.MaxID != "" && c.Before != "" {
		return errors.New("max_id and before cannot be combined")
	}
	return nil
}

// Criteria builds the immutable filter set for the run, compiling the
// content pattern case-insensitively and converting the after/before
// timestamps into snowflake bounds.
func (c *Config) Criteria() (model.Criteria, error) {
	criteria := model.Criteria{
		AuthorID:      c.AuthorID,
		Content:       c.Content,
		HasLink:       c.HasLink,
		HasFile:       c.HasFile,
		MinID:         c.MinID,
		MaxID:         c.MaxID,
		IncludeNSFW:   c.IncludeNSFW,
		IncludePinned: c.IncludePinned,
	}

	if c.Pattern != "" {
		re, err := regexp.Compile("(?i)" + c.Pattern)
		if err != nil {
			return model.Criteria{}, errors.Wrap(err, "compile pattern")
		}
		criteria.Pattern = re
	}

	if c.After != "" {
		id, err := model.ToSnowflake(c.After)
		if err != nil {
			return model.Criteria{}, errors.Wrap(err, "after")
		}
		criteria.MinID = strconv.FormatUint(id, 10)
	}
	if c.Before != "" {
		id, err := model.ToSnowflake(c.Before)
		if err != nil {
			return model.Criteria{}, errors.Wrap(err, "before")
		}
		criteria.MaxID = strconv.FormatUint(id, 10)
	}

	return criteria, nil
}

// SearchDelay is the pause between search requests.
func (c *Config) SearchDelay() time.Duration {
	return time.Duration(c.SearchDelayMS) * time.Millisecond
}

// DeleteDelay is the pause between delete requests.
func (c *Config) DeleteDelay() time.Duration {
	return time.Duration(c.DeleteDelayMS) * time.Millisecond
}
