package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const facebookGraphURL = "https://graph.facebook.com"

// FacebookVerifier validates Facebook access tokens through the Graph API
// debug_token endpoint and fetches the profile from /me.
type FacebookVerifier struct {
	appID     string
	appSecret string
	baseURL   string
	client    *http.Client
}

// NewFacebookVerifier requires the app credentials used to build the app
// access token for introspection.
func NewFacebookVerifier(appID, appSecret string, client *http.Client) (*FacebookVerifier, error) {
	appID = strings.TrimSpace(appID)
	appSecret = strings.TrimSpace(appSecret)
	if appID == "" || appSecret == "" {
		return nil, errors.New("auth: facebook app id and secret are required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &FacebookVerifier{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   facebookGraphURL,
		client:    client,
	}, nil
}

type facebookDebugResponse struct {
	Data struct {
		AppID   string `json:"app_id"`
		IsValid bool   `json:"is_valid"`
	} `json:"data"`
}

type facebookUserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// ValidateToken introspects the token and, once valid, retrieves the
// verified profile. One attempt is made; any failure maps to ErrInvalidToken.
func (v *FacebookVerifier) ValidateToken(ctx context.Context, token string) (Profile, error) {
	if strings.TrimSpace(token) == "" {
		return Profile{}, ErrInvalidToken
	}
	var debug facebookDebugResponse
	debugQuery := url.Values{
		"input_token":  {token},
		"access_token": {v.appID + "|" + v.appSecret},
	}
	if err := v.getJSON(ctx, "/debug_token", debugQuery, &debug); err != nil {
		return Profile{}, ErrInvalidToken
	}
	if !debug.Data.IsValid || debug.Data.AppID != v.appID {
		return Profile{}, ErrInvalidToken
	}

	user, err := v.getUserData(ctx, token)
	if err != nil {
		return Profile{}, ErrInvalidToken
	}
	if strings.TrimSpace(user.Email) == "" {
		return Profile{}, ErrInvalidToken
	}
	return Profile{
		Email:      user.Email,
		Name:       user.FirstName,
		PictureURL: user.Picture.Data.URL,
	}, nil
}

func (v *FacebookVerifier) getUserData(ctx context.Context, token string) (facebookUserResponse, error) {
	var user facebookUserResponse
	userQuery := url.Values{
		"fields":       {"first_name,last_name,picture,email"},
		"access_token": {token},
	}
	err := v.getJSON(ctx, "/me", userQuery, &user)
	return user, err
}

func (v *FacebookVerifier) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("facebook: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
