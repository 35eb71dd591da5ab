package sheetsclient

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mlombardi/casa-rota/internal/config"
	"github.com/mlombardi/casa-rota/pkg/utils"
)

// Client wraps the Google Sheets API client used as a roster provider.
// The hostel keeps its staff/volunteer roster in a spreadsheet.
type Client struct {
	service *sheets.Service
	cfg     *config.Config
}

// NewClient creates a new Sheets client using OAuth credentials and performs
// the OAuth flow if needed
func NewClient(ctx context.Context, cfg *config.Config, oauthCfg *config.OAuthClientConfig) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg, []string{utils.ScopeSheets})
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	return newClient(ctx, cfg, oauthConfig, token)
}

// NewClientWithToken creates a new Sheets client using an existing token
func NewClientWithToken(ctx context.Context, cfg *config.Config, oauthCfg *config.OAuthClientConfig, token *oauth2.Token) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg, []string{utils.ScopeSheets})
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	return newClient(ctx, cfg, oauthConfig, token)
}

func newClient(ctx context.Context, cfg *config.Config, oauthConfig *oauth2.Config, token *oauth2.Token) (*Client, error) {
	httpClient := oauthConfig.Client(ctx, token)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service, cfg: cfg}, nil
}

// GetValues reads values from a spreadsheet range
func (c *Client) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	return resp.Values, nil
}
