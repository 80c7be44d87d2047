package whatsapp

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultGraphAPIBaseURL = "https://graph.facebook.com"
	DefaultAPIVersion      = "v21.0"
	DefaultMaxMediaBytes   = 25 * 1024 * 1024
)

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(accessToken, phoneNumberID, graphAPIBaseURL, apiVersion string, maxMediaBytes int64, httpClient http.Client) Client {
	if graphAPIBaseURL == "" {
		graphAPIBaseURL = DefaultGraphAPIBaseURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if maxMediaBytes <= 0 {
		maxMediaBytes = DefaultMaxMediaBytes
	}

	client := Client{
		config: Config{
			AccessToken:     accessToken,
			PhoneNumberID:   phoneNumberID,
			GraphAPIBaseURL: strings.TrimRight(graphAPIBaseURL, "/"),
			APIVersion:      apiVersion,
			MaxMediaBytes:   maxMediaBytes,
		},
		httpClient: &httpClient,
	}

	return client
}

func (c *Client) messagesURL() string {
	return fmt.Sprintf("%s/%s/%s/messages", c.config.GraphAPIBaseURL, c.config.APIVersion, c.config.PhoneNumberID)
}

func (c *Client) mediaURL(mediaID string) string {
	return fmt.Sprintf("%s/%s/%s", c.config.GraphAPIBaseURL, c.config.APIVersion, mediaID)
}
