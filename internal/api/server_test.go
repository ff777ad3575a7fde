package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	"github.com/NeedsSoySauce/Packet-Browser/internal/report"
	"github.com/NeedsSoySauce/Packet-Browser/internal/simulator"
)

var fixture = []string{
	"1\t0.5\t10.0.0.1\t1000\t192.168.1.1\t80\t60\t40",
	"2\t1.0\t10.0.0.2\t1001\t192.168.1.1\t80\t70\t50",
	"3\t1.5\t192.168.1.1\t80\t10.0.0.1\t1000\t80\t60",
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.txt")
	if err := os.WriteFile(path, []byte(strings.Join(fixture, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	session, err := app.Open(path, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ts := httptest.NewServer(NewServer(session, nil).Handler())
	t.Cleanup(ts.Close)
	return ts, path
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func put(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHostsAndPorts(t *testing.T) {
	ts, _ := newTestServer(t)

	var hosts []string
	getJSON(t, ts.URL+"/api/v1/hosts?side=destination", http.StatusOK, &hosts)
	if !slices.Equal(hosts, []string{"10.0.0.1", "192.168.1.1"}) {
		t.Errorf("hosts = %v", hosts)
	}

	var ports []int
	getJSON(t, ts.URL+"/api/v1/ports", http.StatusOK, &ports)
	if !slices.Equal(ports, []int{80, 1000, 1001}) {
		t.Errorf("source ports = %v", ports)
	}

	getJSON(t, ts.URL+"/api/v1/hosts?side=sideways", http.StatusBadRequest, nil)
}

func TestStats(t *testing.T) {
	ts, _ := newTestServer(t)
	var st simulator.Stats
	getJSON(t, ts.URL+"/api/v1/stats", http.StatusOK, &st)
	if st.Lines != 3 || st.ValidPort != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestPackets(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
		lines []int
		sum   float64
	}{
		{"browse destination port", "mode=browse&filter=port&side=destination&port=80", []int{1, 2}, 90},
		{"browse source ip", "ip=192.168.1.1", []int{3}, 60},
		{"ip flow", "mode=flow&src=10.0.0.2&dest=192.168.1.1", []int{2}, 50},
		{"port flow", "mode=flow&filter=port&src=80&dest=1000", []int{3}, 60},
		{"nothing selected", "mode=flow", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got report.Table
			getJSON(t, ts.URL+"/api/v1/packets?"+tt.query, http.StatusOK, &got)
			var lines []int
			for _, r := range got.Rows {
				lines = append(lines, r.Line)
			}
			if !slices.Equal(lines, tt.lines) {
				t.Errorf("lines = %v, want %v", lines, tt.lines)
			}
			if got.Aggregates[0].Value != tt.sum {
				t.Errorf("sum = %v, want %v", got.Aggregates[0].Value, tt.sum)
			}
		})
	}

	getJSON(t, ts.URL+"/api/v1/packets?mode=sideways", http.StatusBadRequest, nil)
	getJSON(t, ts.URL+"/api/v1/packets?filter=port&port=abc", http.StatusBadRequest, nil)
}

func TestEditSize(t *testing.T) {
	ts, path := newTestServer(t)

	resp := put(t, ts.URL+"/api/v1/packets/2/size", `{"value":"150"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got EditResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Result != "applied" || got.Size == nil || *got.Size != 150 {
		t.Errorf("response = %+v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "2\t1.0\t10.0.0.2\t1001\t192.168.1.1\t80\t70\t150\n") {
		t.Errorf("file not updated:\n%s", data)
	}

	resp = put(t, ts.URL+"/api/v1/packets/2/size", `{"value":"150"}`)
	got = EditResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Result != "unchanged" {
		t.Errorf("repeat result = %q", got.Result)
	}

	var st StatsResponse
	getJSON(t, ts.URL+"/api/v1/stats", http.StatusOK, &st)
	if st.Saves != 1 {
		t.Errorf("saves after repeated edit = %d, want 1", st.Saves)
	}

	tests := []struct {
		url    string
		body   string
		status int
	}{
		{"/api/v1/packets/2/size", `{"value":"-1"}`, http.StatusUnprocessableEntity},
		{"/api/v1/packets/2/size", `{"value":"big"}`, http.StatusUnprocessableEntity},
		{"/api/v1/packets/99/size", `{"value":"1"}`, http.StatusNotFound},
		{"/api/v1/packets/2/size", `not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if resp := put(t, ts.URL+tt.url, tt.body); resp.StatusCode != tt.status {
			t.Errorf("PUT %s %s status = %d, want %d", tt.url, tt.body, resp.StatusCode, tt.status)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/api/v1/hosts", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/v1/stats", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/packets/1/size", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nothing", http.StatusNotFound},
		{http.MethodGet, "/hosts", http.StatusNotFound},
	}
	for _, tt := range tests {
		req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.status)
		}
	}
}
