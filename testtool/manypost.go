package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ShivamB25/undiscord-cli/config"
	"github.com/ShivamB25/undiscord-cli/discord"
)

// Posts a batch of throwaway messages to the configured channel so a purge
// run has something to chew on.

const (
	configFilePath = "../etc/config.toml"
	postCnt        = 10
)

func main() {
	conf, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal(err)
	}
	if conf.AuthToken == "" || conf.ChannelID == "" {
		log.Fatal("auth_token and channel_id are required.")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	for i := 0; i < postCnt; i++ {
		if err := postMessage(client, conf, uuid.NewString()); err != nil {
			log.Fatal(err)
		}

		time.Sleep(time.Second)
	}

	log.Infof("Posted %d messages.", postCnt)
}

func postMessage(client *http.Client, conf *config.Config, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/channels/%s/messages", discord.DefaultBaseURL, conf.ChannelID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", conf.AuthToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post returned status %d", resp.StatusCode)
	}

	log.WithField("content", content).Info("Posted!")
	return nil
}
