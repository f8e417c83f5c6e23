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
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var regulationsCategory string

func runRegulationsCommand(cmd *cobra.Command, args []string) {
	client := newHubClient()

	path := "/v1/regulations"
	query := url.Values{}
	if len(args) > 0 {
		query.Set("q", strings.Join(args, " "))
	}
	if regulationsCategory != "" {
		query.Set("category", regulationsCategory)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var body struct {
		Regulations []regulationItem `json:"regulations"`
		Total       int              `json:"total"`
	}
	if err := client.getJSON(path, &body); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(body.Regulations) == 0 {
		fmt.Println("No regulations found.")
		return
	}

	for _, item := range body.Regulations {
		fmt.Printf("%s [%s] %s\n", item.ID, item.Category, item.Title)
		fmt.Printf("    %s\n", item.Summary)
		if len(item.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(item.Tags, ", "))
		}
	}
	fmt.Printf("\n%d item(s).\n", body.Total)
}
