package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Credentials selects how Drive requests are authorised.
// AccessToken wins over APIKey when both are set.
type Credentials struct {
	APIKey      string
	AccessToken string
}

// ClientOptions converts credentials into API client options.
func (c Credentials) ClientOptions() []option.ClientOption {
	switch {
	case c.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.AccessToken,
			TokenType:   "Bearer",
		})
		return []option.ClientOption{option.WithTokenSource(ts)}
	case c.APIKey != "":
		return []option.ClientOption{option.WithAPIKey(c.APIKey)}
	default:
		return []option.ClientOption{option.WithoutAuthentication()}
	}
}

// NewDriveService creates a Google Drive API service.
// Extra options are appended after the credential options.
func NewDriveService(ctx context.Context, creds Credentials, opts ...option.ClientOption) (*drive.Service, error) {
	all := append(creds.ClientOptions(), opts...)
	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}
