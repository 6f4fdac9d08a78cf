package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/ShivamB25/undiscord-cli/config"
	"github.com/ShivamB25/undiscord-cli/discord"
	"github.com/ShivamB25/undiscord-cli/purge"
)

const defaultConfigPath = "etc/config.toml"

var (
	configPath = kingpin.Flag("config", "config file path.").Default(defaultConfigPath).String()
	authToken  = kingpin.Flag("auth-token", "authorization token.").String()
	channelID  = kingpin.Flag("channel-id", "channel id to purge.").String()

	authorID      = kingpin.Flag("author-id", "only messages by this author id.").String()
	content       = kingpin.Flag("content", "only messages containing this text.").String()
	hasLink       = kingpin.Flag("has-link", "only messages containing a link.").Bool()
	hasFile       = kingpin.Flag("has-file", "only messages containing a file.").Bool()
	minID         = kingpin.Flag("min-id", "only messages after this id.").String()
	maxID         = kingpin.Flag("max-id", "only messages before this id.").String()
	after         = kingpin.Flag("after", `only messages after this time ("2006-01-02 15:04:05" UTC).`).String()
	before        = kingpin.Flag("before", `only messages before this time ("2006-01-02 15:04:05" UTC).`).String()
	includeNSFW   = kingpin.Flag("include-nsfw", "search nsfw channels.").Bool()
	includePinned = kingpin.Flag("include-pinned", "delete pinned messages too.").Bool()
	pattern       = kingpin.Flag("pattern", "only messages matching this regex (case-insensitive).").String()

	searchDelay = kingpin.Flag("search-delay", "delay between search requests in milliseconds.").Int()
	deleteDelay = kingpin.Flag("delete-delay", "delay between delete requests in milliseconds.").Int()
)

func main() {
	kingpin.Parse()
	os.Exit(run())
}

func run() int {
	conf, err := loadConfig()
	if err != nil {
		log.Error(err)
		return 1
	}

	criteria, err := conf.Criteria()
	if err != nil {
		log.Error(err)
		return 1
	}

	client := discord.New(&http.Client{Timeout: 30 * time.Second}, conf.AuthToken, conf.ChannelID)
	p := purge.New(client, criteria, conf.SearchDelay(), conf.DeleteDelay(),
		log.WithField("channel_id", conf.ChannelID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counters, err := p.Run(ctx)

	summary := log.WithFields(log.Fields{
		"deleted": counters.Deleted,
		"failed":  counters.Failed,
	})
	switch {
	case err == nil:
		summary.Info("Purge completed.")
		return 0
	case errors.Is(err, purge.ErrForbiddenCeiling):
		summary.Error("Aborted: too many consecutive forbidden responses.")
		return 2
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		summary.Info("Interrupted. Exiting...")
		return 0
	default:
		summary.Errorf("Fail purge: %s.", err)
		return 1
	}
}

// loadConfig reads the config file when present and layers set flags on
// top, so a bare flag invocation works without any file.
func loadConfig() (*config.Config, error) {
	conf := &config.Config{}

	if _, err := os.Stat(*configPath); err == nil {
		conf, err = config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	} else if *configPath != defaultConfigPath {
		// An explicitly requested file must exist.
		return nil, err
	}

	applyFlags(conf)
	conf.Normalize()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func applyFlags(conf *config.Config) {
	setString(&conf.AuthToken, *authToken)
	setString(&conf.ChannelID, *channelID)
	setString(&conf.AuthorID, *authorID)
	setString(&conf.Content, *content)
	setString(&conf.MinID, *minID)
	setString(&conf.MaxID, *maxID)
	setString(&conf.After, *after)
	setString(&conf.Before, *before)
	setString(&conf.Pattern, *pattern)

	conf.HasLink = conf.HasLink || *hasLink
	conf.HasFile = conf.HasFile || *hasFile
	conf.IncludeNSFW = conf.IncludeNSFW || *includeNSFW
	conf.IncludePinned = conf.IncludePinned || *includePinned

	if *searchDelay > 0 {
		conf.SearchDelayMS = *searchDelay
	}
	if *deleteDelay > 0 {
		conf.DeleteDelayMS = *deleteDelay
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
