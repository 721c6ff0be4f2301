package ga

import (
	"fmt"

	"github.com/goccy/go-json"
)

// serviceAccountType is the only credential type the Data API accepts for
// server-to-server reporting calls.
const serviceAccountType = "service_account"

// Credentials is the service-account bundle parsed from the JSON-encoded
// secret. All listed fields are required.
type Credentials struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	AuthURI      string `json:"auth_uri"`
	TokenURI     string `json:"token_uri"`
}

// ValidateCredentials checks a raw credential bundle without making a network
// call, so setup tooling can verify configuration before the first report.
func ValidateCredentials(raw []byte) error {
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return fmt.Errorf("credentials are not valid JSON: %w", err)
	}

	required := []struct {
		key   string
		value string
	}{
		{"type", creds.Type},
		{"project_id", creds.ProjectID},
		{"private_key_id", creds.PrivateKeyID},
		{"private_key", creds.PrivateKey},
		{"client_email", creds.ClientEmail},
		{"client_id", creds.ClientID},
		{"auth_uri", creds.AuthURI},
		{"token_uri", creds.TokenURI},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("credentials missing required key %q", field.key)
		}
	}

	if creds.Type != serviceAccountType {
		return fmt.Errorf("credentials type must be %q, got %q", serviceAccountType, creds.Type)
	}
	return nil
}
