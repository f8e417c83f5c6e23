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
	"strings"

	"github.com/spf13/cobra"
)

var (
	suggestDescription string
	suggestCategory    string
)

type suggestionView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	Status      string `json:"status"`
	Votes       int    `json:"votes"`
	CreatedAt   string `json:"createdAt"`
	VotedByMe   bool   `json:"votedByMe"`
}

type categoryVotes struct {
	Category string `json:"category"`
	Votes    int    `json:"votes"`
}

func runSuggestCommand(cmd *cobra.Command, args []string) {
	client := newHubClient()

	payload := map[string]string{
		"title":       strings.Join(args, " "),
		"description": suggestDescription,
		"category":    suggestCategory,
	}

	var created suggestionView
	if err := client.postJSON("/v1/suggestions", payload, &created); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Suggestion submitted: %s (%s)\n", created.Title, created.ID)
}

func runSuggestionsCommand(cmd *cobra.Command, args []string) {
	client := newHubClient()

	var body struct {
		Suggestions []suggestionView `json:"suggestions"`
		Ranking     []categoryVotes  `json:"ranking"`
	}
	if err := client.getJSON("/v1/suggestions", &body); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(body.Suggestions) == 0 {
		fmt.Println("No suggestions yet. Submit one with 'condosense suggest'.")
		return
	}

	for _, s := range body.Suggestions {
		mark := " "
		if s.VotedByMe {
			mark = "*"
		}
		fmt.Printf("%s %3d votes  %-12s %s  %s\n", mark, s.Votes, s.Status, s.ID, s.Title)
		if s.Description != "" {
			fmt.Printf("             %s\n", s.Description)
		}
	}

	if len(body.Ranking) > 0 {
		fmt.Println("\nMost-voted categories:")
		for _, entry := range body.Ranking {
			fmt.Printf("  %-20s %d\n", entry.Category, entry.Votes)
		}
	}
}

func runVoteCommand(cmd *cobra.Command, args []string) {
	client := newHubClient()

	var updated struct {
		Title  string   `json:"title"`
		Votes  int      `json:"votes"`
		Voters []string `json:"voters"`
	}
	if err := client.postJSON("/v1/suggestions/"+args[0]+"/vote", struct{}{}, &updated); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	voted := false
	for _, v := range updated.Voters {
		if v == client.resident {
			voted = true
			break
		}
	}
	if voted {
		fmt.Printf("Vote added to %q (now %d votes).\n", updated.Title, updated.Votes)
	} else {
		fmt.Printf("Vote removed from %q (now %d votes).\n", updated.Title, updated.Votes)
	}
}
