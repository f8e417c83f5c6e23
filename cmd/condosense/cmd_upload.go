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
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type changeEntry struct {
	Type        string `json:"type"`
	ItemTitle   string `json:"itemTitle"`
	Description string `json:"description"`
}

type regulationUpdate struct {
	Version string        `json:"version"`
	Date    string        `json:"date"`
	Reason  string        `json:"reason"`
	Changes []changeEntry `json:"changes"`
}

type regulationItem struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Content    string   `json:"content"`
	Summary    string   `json:"summary"`
	Importance string   `json:"importance"`
	Tags       []string `json:"tags"`
}

type analyzeOutcome struct {
	Items  []regulationItem  `json:"items"`
	Update *regulationUpdate `json:"update,omitempty"`
}

func runUploadCommand(cmd *cobra.Command, args []string) {
	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build upload: %v\n", err)
		os.Exit(1)
	}
	if _, err := io.Copy(part, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build upload: %v\n", err)
		os.Exit(1)
	}

	client := newHubClient()
	fmt.Printf("Uploading %s for analysis (this can take a few minutes)...\n", filepath.Base(path))

	var outcome analyzeOutcome
	err = client.do(http.MethodPost, "/v1/regulations/analyze", writer.FormDataContentType(), &buf, &outcome)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Analysis complete: %d regulation item(s) in effect.\n", len(outcome.Items))
	if outcome.Update == nil {
		fmt.Println("No changes detected against the previous regulation set.")
		return
	}

	fmt.Printf("\nUpdate %s (%s): %s\n", outcome.Update.Version, outcome.Update.Date, outcome.Update.Reason)
	for _, change := range outcome.Update.Changes {
		fmt.Printf("  [%s] %s — %s\n", change.Type, change.ItemTitle, change.Description)
	}
}
