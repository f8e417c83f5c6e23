// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/condosense/CondoSenseHub/pkg/logging"
)

const defaultHubURL = "http://localhost:12310"

// hubClient is a thin HTTP client for the hub's v1 API. Identity
// travels as headers; the hub trusts its local callers.
type hubClient struct {
	baseURL  string
	http     *http.Client
	role     string
	resident string
	logger   *logging.Logger
}

func newHubClient() *hubClient {
	base := hubURL
	if base == "" {
		base = os.Getenv("CONDOSENSE_HUB_URL")
	}
	if base == "" {
		base = defaultHubURL
	}

	resident := residentID
	if resident == "" {
		resident = os.Getenv("CONDOSENSE_RESIDENT")
	}
	if resident == "" {
		if u, err := user.Current(); err == nil {
			resident = u.Username
		} else {
			resident = "local-resident"
		}
	}

	role := "morador"
	if asAdmin {
		role = "admin"
	}

	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	logger, err := logging.New(logging.Config{Level: level, Service: "cli"})
	if err != nil {
		logger = logging.Default()
	}

	return &hubClient{
		baseURL: strings.TrimSuffix(base, "/"),
		// Analysis calls can take minutes; everything else is local.
		http:     &http.Client{Timeout: 10 * time.Minute},
		role:     role,
		resident: resident,
		logger:   logger,
	}
}

func (c *hubClient) do(method, path string, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Condo-Role", c.role)
	req.Header.Set("X-Resident-Id", c.resident)

	c.logger.Debug("calling hub", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hub request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read hub response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("hub returned %d: %s", resp.StatusCode, errBody.Error)
		}
		return fmt.Errorf("hub returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode hub response: %w", err)
	}
	return nil
}

func (c *hubClient) getJSON(path string, out interface{}) error {
	return c.do(http.MethodGet, path, "", nil, out)
}

func (c *hubClient) postJSON(path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}
