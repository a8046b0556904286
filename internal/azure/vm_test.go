package azure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newComputeServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		wantPath := "/subscriptions/sub-1/resourceGroups/rg-1/providers/Microsoft.Compute/virtualMachines/vm-1/instanceView"
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		if v := r.URL.Query().Get("api-version"); v != ComputeAPIVersion {
			t.Errorf("api-version = %q, want %q", v, ComputeAPIVersion)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-1" {
			t.Errorf("Authorization = %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestFetchPowerState(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "running",
			body: `{"statuses":[
				{"code":"ProvisioningState/succeeded","displayStatus":"Provisioning succeeded"},
				{"code":"PowerState/running","displayStatus":"VM running"}
			]}`,
			want: "VM running",
		},
		{
			name: "first power state wins",
			body: `{"statuses":[
				{"code":"PowerState/deallocated","displayStatus":"VM deallocated"},
				{"code":"PowerState/running","displayStatus":"VM running"}
			]}`,
			want: "VM deallocated",
		},
		{
			name: "no power state",
			body: `{"statuses":[{"code":"ProvisioningState/updating","displayStatus":"Updating"}]}`,
			want: UnknownPowerState,
		},
		{
			name: "missing statuses",
			body: `{"computerName":"realm"}`,
			want: UnknownPowerState,
		},
		{
			name: "power state without display status",
			body: `{"statuses":[{"code":"PowerState/starting"}]}`,
			want: UnknownPowerState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := newComputeServer(t, http.StatusOK, tt.body)
			client := NewVMClient(server.URL, nil, nil)

			got, err := client.FetchPowerState(context.Background(), "tok-1", "sub-1", "rg-1", "vm-1")
			if err != nil {
				t.Fatalf("FetchPowerState() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FetchPowerState() = %q, want %q", got, tt.want)
			}
			if hits.Load() != 1 {
				t.Errorf("expected exactly one request, got %d", hits.Load())
			}
		})
	}
}

func TestFetchPowerStateNonOK(t *testing.T) {
	body := `{"error":{"code":"ResourceNotFound","message":"The Resource 'vm-1' was not found."}}`
	server, hits := newComputeServer(t, http.StatusNotFound, body)
	client := NewVMClient(server.URL, nil, nil)

	_, err := client.FetchPowerState(context.Background(), "tok-1", "sub-1", "rg-1", "vm-1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Body != body {
		t.Errorf("unexpected status error %+v", statusErr)
	}
	if statusErr.Error() != "vm query failed: 404 "+body {
		t.Errorf("unexpected message %q", statusErr.Error())
	}
	if hits.Load() != 1 {
		t.Errorf("expected no retries, got %d requests", hits.Load())
	}
}

func TestFetchPowerStateMalformedBody(t *testing.T) {
	server, _ := newComputeServer(t, http.StatusOK, `not json`)
	client := NewVMClient(server.URL, nil, nil)

	_, err := client.FetchPowerState(context.Background(), "tok-1", "sub-1", "rg-1", "vm-1")
	if err == nil {
		t.Fatal("expected decode error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("decode failure should not be a StatusError: %v", err)
	}
}

func TestInstanceViewURLEscapesSegments(t *testing.T) {
	client := NewVMClient("https://management.example.com/", nil, nil)
	got := client.instanceViewURL("sub", "my rg", "vm/1")
	want := "https://management.example.com/subscriptions/sub/resourceGroups/my%20rg/providers/Microsoft.Compute/virtualMachines/vm%2F1/instanceView?api-version=2023-09-01"
	if got != want {
		t.Errorf("instanceViewURL() = %q, want %q", got, want)
	}
}
