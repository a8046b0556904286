package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/IntergalacticCampervan/MischiefManagerBot/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	DefaultManagementURL = "https://management.azure.com"
	ComputeAPIVersion    = "2023-09-01"

	// UnknownPowerState is reported when the instance view has no power state.
	UnknownPowerState = "Unknown"

	powerStatePrefix = "PowerState/"
)

type instanceView struct {
	Statuses []instanceStatus `json:"statuses"`
}

type instanceStatus struct {
	Code          string `json:"code"`
	DisplayStatus string `json:"displayStatus"`
}

// VMClient reads virtual machine power state from the compute instance view.
// One HTTP call per lookup; no retries, no pagination.
type VMClient struct {
	managementURL string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewVMClient creates a VMClient. Empty managementURL uses the public cloud endpoint.
func NewVMClient(managementURL string, httpClient *http.Client, logger *zap.Logger) *VMClient {
	if managementURL == "" {
		managementURL = DefaultManagementURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VMClient{
		managementURL: strings.TrimRight(managementURL, "/"),
		httpClient:    httpClient,
		logger:        logger,
	}
}

func (c *VMClient) instanceViewURL(subscriptionID, resourceGroup, vmName string) string {
	return fmt.Sprintf("%s/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Compute/virtualMachines/%s/instanceView?api-version=%s",
		c.managementURL,
		url.PathEscape(subscriptionID),
		url.PathEscape(resourceGroup),
		url.PathEscape(vmName),
		ComputeAPIVersion,
	)
}

// FetchPowerState returns the displayStatus of the first PowerState/* status,
// or UnknownPowerState when there is none. Non-200 replies return *StatusError.
func (c *VMClient) FetchPowerState(ctx context.Context, token, subscriptionID, resourceGroup, vmName string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "azure.fetch_power_state",
		attribute.String("azure.resource_group", resourceGroup),
		attribute.String("azure.vm_name", vmName),
	)
	defer span.End()

	state, err := c.fetchPowerState(ctx, token, subscriptionID, resourceGroup, vmName)
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn("vm instance view request failed", zap.String("vm_name", vmName), zap.Error(err))
		return "", err
	}
	span.SetAttributes(attribute.String("azure.power_state", state))
	return state, nil
}

func (c *VMClient) fetchPowerState(ctx context.Context, token, subscriptionID, resourceGroup, vmName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.instanceViewURL(subscriptionID, resourceGroup, vmName), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var view instanceView
	if err := json.Unmarshal(body, &view); err != nil {
		return "", fmt.Errorf("decode instance view: %w", err)
	}
	return powerStateOf(view.Statuses), nil
}

func powerStateOf(statuses []instanceStatus) string {
	for _, s := range statuses {
		if !strings.HasPrefix(s.Code, powerStatePrefix) {
			continue
		}
		if s.DisplayStatus == "" {
			return UnknownPowerState
		}
		return s.DisplayStatus
	}
	return UnknownPowerState
}
