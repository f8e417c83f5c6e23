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
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func runUpdatesCommand(cmd *cobra.Command, args []string) {
	client := newHubClient()

	var body struct {
		Updates []regulationUpdate `json:"updates"`
	}
	if err := client.getJSON("/v1/updates", &body); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(body.Updates) == 0 {
		fmt.Println("No regulation updates recorded yet.")
		return
	}

	for _, update := range body.Updates {
		fmt.Printf("%s (%s): %s\n", update.Version, update.Date, update.Reason)
		for _, change := range update.Changes {
			fmt.Printf("  [%s] %s — %s\n", change.Type, change.ItemTitle, change.Description)
		}
	}
}

func runAlertCommand(cmd *cobra.Command, args []string) {
	client := newHubClient()

	var body struct {
		Alert  bool              `json:"alert"`
		Update *regulationUpdate `json:"update,omitempty"`
	}
	if err := client.getJSON("/v1/updates/alert", &body); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !body.Alert {
		fmt.Println("You are up to date.")
		return
	}

	fmt.Printf("New regulation update %s (%s): %s\n", body.Update.Version, body.Update.Date, body.Update.Reason)
	for _, change := range body.Update.Changes {
		fmt.Printf("  [%s] %s — %s\n", change.Type, change.ItemTitle, change.Description)
	}
	fmt.Printf("\nRun 'condosense ack %s' to dismiss this alert.\n", body.Update.Version)
}

func runAckCommand(cmd *cobra.Command, args []string) {
	client := newHubClient()

	version := args[0]
	if err := client.postJSON("/v1/updates/"+version+"/ack", struct{}{}, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Acknowledged update %s.\n", version)
}
