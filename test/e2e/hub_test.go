// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestSuggestionWorkflow verifies the full loop against a running hub:
// Suggest -> List -> Vote -> Vote again (withdraw).
func TestSuggestionWorkflow(t *testing.T) {
	requireHub(t)

	uniqueID := time.Now().Unix()
	title := fmt.Sprintf("Cobertura do bicicletario %d", uniqueID)
	resident := fmt.Sprintf("e2e-apt-%d", uniqueID)

	// 1. Submit
	suggestCmd := exec.Command(cliBinary, "suggest", title,
		"--description", "Teste automatizado.", "--resident", resident)
	out, err := suggestCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("suggest failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(string(out), "Suggestion submitted") {
		t.Fatalf("unexpected suggest output:\n%s", out)
	}

	// 2. Find it in the listing and grab the id
	listCmd := exec.Command(cliBinary, "suggestions", "--resident", resident)
	out, err = listCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("suggestions failed: %v\nOutput: %s", err, out)
	}
	var suggestionID string
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, title) {
			continue
		}
		fields := strings.Fields(line)
		// layout: mark, votes, "votes", status, id, title...
		for i, f := range fields {
			if f == title || strings.HasPrefix(title, f) {
				if i > 0 {
					suggestionID = fields[i-1]
				}
				break
			}
		}
	}
	if suggestionID == "" {
		t.Fatalf("submitted suggestion not found in listing:\n%s", out)
	}

	// 3. Vote from another resident
	voter := resident + "-voter"
	voteCmd := exec.Command(cliBinary, "vote", suggestionID, "--resident", voter)
	out, err = voteCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("vote failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(string(out), "Vote added") {
		t.Fatalf("expected vote to be added:\n%s", out)
	}

	// 4. Vote again: must withdraw
	voteCmd = exec.Command(cliBinary, "vote", suggestionID, "--resident", voter)
	out, err = voteCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("second vote failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(string(out), "Vote removed") {
		t.Fatalf("expected vote to be withdrawn:\n%s", out)
	}
}

// TestRegulationBrowsing verifies the read surface end to end. It
// works against whatever regulation set the hub currently holds.
func TestRegulationBrowsing(t *testing.T) {
	requireHub(t)

	listCmd := exec.Command(cliBinary, "regulations")
	out, err := listCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("regulations failed: %v\nOutput: %s", err, out)
	}
	output := string(out)
	if !strings.Contains(output, "item(s).") && !strings.Contains(output, "No regulations found.") {
		t.Fatalf("unexpected regulations output:\n%s", output)
	}

	alertCmd := exec.Command(cliBinary, "alert", "--resident", "e2e-reader")
	out, err = alertCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("alert failed: %v\nOutput: %s", err, out)
	}
}

// TestAdminOnlyUploadIsRejectedForResidents uploads without --admin
// and expects a role error from the hub.
func TestAdminOnlyUploadIsRejectedForResidents(t *testing.T) {
	requireHub(t)

	doc := filepath.Join(t.TempDir(), "regimento.txt")
	if err := os.WriteFile(doc, []byte("Artigo 1: teste."), 0644); err != nil {
		t.Fatal(err)
	}

	uploadCmd := exec.Command(cliBinary, "upload", doc)
	out, err := uploadCmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected upload without --admin to fail:\n%s", out)
	}
	if !strings.Contains(string(out), "403") && !strings.Contains(string(out), "administrator") {
		t.Fatalf("expected a role error, got:\n%s", out)
	}
}
