package azure

import (
	"context"
)

// TokenFetcher obtains a management API bearer token.
type TokenFetcher interface {
	FetchToken(ctx context.Context, tenantID, clientID, clientSecret string) (string, error)
}

// PowerStateFetcher reads a VM power state with a bearer token.
type PowerStateFetcher interface {
	FetchPowerState(ctx context.Context, token, subscriptionID, resourceGroup, vmName string) (string, error)
}

// Credentials identify the service principal and the watched virtual machine.
type Credentials struct {
	TenantID       string
	ClientID       string
	ClientSecret   string
	SubscriptionID string
	ResourceGroup  string
	VMName         string
}

// StatusChecker authenticates and then reads the power state, in that order.
// A failed token fetch never reaches the compute API.
type StatusChecker struct {
	tokens TokenFetcher
	vms    PowerStateFetcher
	creds  Credentials
}

// NewStatusChecker creates a StatusChecker bound to one VM.
func NewStatusChecker(tokens TokenFetcher, vms PowerStateFetcher, creds Credentials) *StatusChecker {
	return &StatusChecker{tokens: tokens, vms: vms, creds: creds}
}

func (s *StatusChecker) PowerState(ctx context.Context) (string, error) {
	token, err := s.tokens.FetchToken(ctx, s.creds.TenantID, s.creds.ClientID, s.creds.ClientSecret)
	if err != nil {
		return "", err
	}
	return s.vms.FetchPowerState(ctx, token, s.creds.SubscriptionID, s.creds.ResourceGroup, s.creds.VMName)
}
