package push

import (
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"
)

// Credentials identify the operator's APNs signing key. All four fields are
// required; a missing key disables the delivery engine entirely while the
// daemon keeps serving everything else.
type Credentials struct {
	KeyPath  string `json:"key_path"`
	KeyID    string `json:"key_id"`
	TeamID   string `json:"team_id"`
	BundleID string `json:"bundle_id"`
}

// Configured reports whether every credential field is present.
func (c Credentials) Configured() bool {
	return c.KeyPath != "" && c.KeyID != "" && c.TeamID != "" && c.BundleID != ""
}

// newClients builds the two long-lived APNs connections, one per environment.
func newClients(creds Credentials) (sandbox, production *apns2.Client, err error) {
	authKey, err := token.AuthKeyFromFile(creds.KeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load APNs key %s: %w", creds.KeyPath, err)
	}

	sandbox = apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   creds.KeyID,
		TeamID:  creds.TeamID,
	}).Development()

	production = apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   creds.KeyID,
		TeamID:  creds.TeamID,
	}).Production()

	return sandbox, production, nil
}
