// Package observability ships structured request/tool-call events to
// Grafana Loki. Logging stays disabled unless the GRAFANA_LOKI_* env
// variables are configured, so local runs cost nothing.
package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

type lokiClient struct {
	url        string
	username   string
	apiKey     string
	httpClient *http.Client
	enabled    bool
	appName    string
}

// Loki Push API format
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

var defaultClient *lokiClient

// Init configures the Loki client from the environment.
func Init() {
	url := os.Getenv("GRAFANA_LOKI_URL")
	username := os.Getenv("GRAFANA_LOKI_USER")
	apiKey := os.Getenv("GRAFANA_LOKI_API_KEY")

	appName := os.Getenv("APP_ENV")
	if appName == "" {
		appName = "xmcp-dev"
	}

	if url == "" || username == "" || apiKey == "" {
		log.Println("Loki not configured, structured logging disabled")
		defaultClient = &lokiClient{enabled: false, appName: appName}
		return
	}

	defaultClient = &lokiClient{
		url:        url + "/loki/api/v1/push",
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		enabled:    true,
		appName:    appName,
	}
	log.Println("Loki client initialized")
}

func push(labels map[string]string, data map[string]any) {
	if defaultClient == nil || !defaultClient.enabled {
		return
	}
	go defaultClient.push(labels, data)
}

func (c *lokiClient) push(labels map[string]string, data map[string]any) {
	if labels == nil {
		labels = make(map[string]string)
	}
	labels["app"] = c.appName

	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Printf("Loki: failed to marshal data: %v", err)
		return
	}

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	req := lokiPushRequest{
		Streams: []lokiStream{
			{
				Stream: labels,
				Values: [][]string{{timestamp, string(dataJSON)}},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Printf("Loki: failed to marshal request: %v", err)
		return
	}

	httpReq, err := http.NewRequest("POST", c.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Loki: failed to create request: %v", err)
		return
	}
	httpReq.SetBasicAuth(c.username, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("Loki: failed to send: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Loki: unexpected status code: %d", resp.StatusCode)
	}
}

// LogToolCall logs a tool execution.
func LogToolCall(requestID, module, tool string, durationMs int64, status string, errMsg string) {
	level := "info"
	if status == "error" {
		level = "error"
	}
	labels := map[string]string{
		"module": module,
		"status": status,
		"level":  level,
	}
	data := map[string]any{
		"request_id":  requestID,
		"module":      module,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	push(labels, data)
}

// LogRequest logs an inbound JSON-RPC request.
func LogRequest(method, path string, statusCode int, durationMs int64) {
	labels := map[string]string{
		"type":   "request",
		"method": method,
		"level":  "info",
	}
	data := map[string]any{
		"method":      method,
		"path":        path,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}
	push(labels, data)
}

// LogError logs an error event.
func LogError(context string, err error) {
	labels := map[string]string{
		"type":  "error",
		"level": "error",
	}
	data := map[string]any{
		"context": context,
		"error":   fmt.Sprintf("%v", err),
	}
	push(labels, data)
}
