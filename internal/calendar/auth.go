package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoCredentials is returned by every call when no credentials are configured.
var ErrNoCredentials = errors.New("calendar credentials not configured")

const calendarScope = "https://www.googleapis.com/auth/calendar"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Credentials lists the supported ways to authorize calendar requests.
// The first usable source wins: AccessToken, then ClientID/ClientSecret with
// RefreshToken, then CredentialsFile with TokenFile.
type Credentials struct {
	AccessToken     string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	CredentialsFile string // OAuth client JSON as downloaded from the cloud console
	TokenFile       string // stored token JSON
}

// clientFile is the OAuth client JSON layout ("installed" or "web" app).
type clientFile struct {
	Installed *clientSecrets `json:"installed"`
	Web       *clientSecrets `json:"web"`
}

type clientSecrets struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TokenURI     string `json:"token_uri"`
}

// tokenFile accepts both an oauth2.Token dump and an "authorized_user" file.
type tokenFile struct {
	Type         string    `json:"type"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

// tokenSource resolves c into an oauth2.TokenSource. tokenURL overrides the
// Google token endpoint when non-empty.
func (c Credentials) tokenSource(tokenURL string) (oauth2.TokenSource, error) {
	endpoint := googleEndpoint
	if tokenURL != "" {
		endpoint.TokenURL = tokenURL
	}

	switch {
	case c.AccessToken != "":
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.AccessToken, TokenType: "Bearer"}), nil

	case c.RefreshToken != "" && c.ClientID != "":
		cfg := oauthConfig(c.ClientID, c.ClientSecret, endpoint)
		return cfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: c.RefreshToken}), nil

	case c.TokenFile != "":
		return fileTokenSource(c.CredentialsFile, c.TokenFile, endpoint)
	}
	return nil, ErrNoCredentials
}

func fileTokenSource(credentialsPath, tokenPath string, endpoint oauth2.Endpoint) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", tokenPath, err)
	}

	clientID, clientSecret := tf.ClientID, tf.ClientSecret
	if credentialsPath != "" {
		secrets, err := readClientFile(credentialsPath)
		if err != nil {
			return nil, err
		}
		clientID, clientSecret = secrets.ClientID, secrets.ClientSecret
		if secrets.TokenURI != "" && endpoint.TokenURL == googleEndpoint.TokenURL {
			endpoint.TokenURL = secrets.TokenURI
		}
	}

	tok := &oauth2.Token{
		AccessToken:  tf.AccessToken,
		TokenType:    tf.TokenType,
		RefreshToken: tf.RefreshToken,
		Expiry:       tf.Expiry,
	}
	if tok.RefreshToken == "" || clientID == "" {
		if tok.AccessToken == "" {
			return nil, fmt.Errorf("token file %s has no usable token", tokenPath)
		}
		return oauth2.StaticTokenSource(tok), nil
	}
	cfg := oauthConfig(clientID, clientSecret, endpoint)
	return cfg.TokenSource(context.Background(), tok), nil
}

func readClientFile(path string) (*clientSecrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	var cf clientFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse credentials file %s: %w", path, err)
	}
	switch {
	case cf.Installed != nil:
		return cf.Installed, nil
	case cf.Web != nil:
		return cf.Web, nil
	}
	return nil, fmt.Errorf("credentials file %s has no installed or web client", path)
}

func oauthConfig(clientID, clientSecret string, endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{calendarScope},
	}
}
