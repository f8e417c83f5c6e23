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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	hubURL     string
	asAdmin    bool
	residentID string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "condosense",
		Short: "A cli to manage the CondoSense regulation hub",
		Long: `CondoSense is the operator tool for the condominium regulation hub.
Administrators upload new regulation documents and manage suggestion
statuses; residents can browse rules, check update alerts and vote.`,
	}

	uploadCmd = &cobra.Command{
		Use:   "upload [document path]",
		Short: "Upload a regulation document for AI analysis and versioning",
		Args:  cobra.ExactArgs(1),
		Run:   runUploadCommand, // Defined in cmd_upload.go
	}

	regulationsCmd = &cobra.Command{
		Use:     "regulations [search query]",
		Short:   "List the current regulation set, optionally filtered",
		Aliases: []string{"rules"},
		Run:     runRegulationsCommand, // Defined in cmd_regulations.go
	}

	updatesCmd = &cobra.Command{
		Use:   "updates",
		Short: "Show the regulation update history",
		Run:   runUpdatesCommand, // Defined in cmd_updates.go
	}

	alertCmd = &cobra.Command{
		Use:   "alert",
		Short: "Check whether there is an unacknowledged regulation update",
		Run:   runAlertCommand, // Defined in cmd_updates.go
	}

	ackCmd = &cobra.Command{
		Use:   "ack [version]",
		Short: "Acknowledge a regulation update version",
		Args:  cobra.ExactArgs(1),
		Run:   runAckCommand, // Defined in cmd_updates.go
	}

	suggestCmd = &cobra.Command{
		Use:   "suggest [title]",
		Short: "Submit an improvement suggestion",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSuggestCommand, // Defined in cmd_suggestions.go
	}

	suggestionsCmd = &cobra.Command{
		Use:   "suggestions",
		Short: "List suggestions sorted by community votes",
		Run:   runSuggestionsCommand, // Defined in cmd_suggestions.go
	}

	voteCmd = &cobra.Command{
		Use:   "vote [suggestion id]",
		Short: "Toggle your vote on a suggestion",
		Args:  cobra.ExactArgs(1),
		Run:   runVoteCommand, // Defined in cmd_suggestions.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&hubURL, "hub-url", "",
		"Hub base URL (defaults to CONDOSENSE_HUB_URL or http://localhost:12310)")
	rootCmd.PersistentFlags().BoolVar(&asAdmin, "admin", false,
		"Act as the administrator role")
	rootCmd.PersistentFlags().StringVar(&residentID, "resident", "",
		"Resident identifier (defaults to CONDOSENSE_RESIDENT or the OS user)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(regulationsCmd)
	rootCmd.AddCommand(updatesCmd)
	rootCmd.AddCommand(alertCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(suggestionsCmd)
	rootCmd.AddCommand(voteCmd)

	regulationsCmd.Flags().StringVar(&regulationsCategory, "category", "", "Filter by category label")

	suggestCmd.Flags().StringVar(&suggestDescription, "description", "", "Longer description of the idea")
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "Category label for the idea")
}
