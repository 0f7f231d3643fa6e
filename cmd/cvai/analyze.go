package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cvai-core/internal/analyses"
	"cvai-core/internal/uploads"
)

var (
	reviewCVID string
	reviewFile string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a stored CV or an uploaded document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := analyses.ReviewRequest{CVID: reviewCVID}
		if reviewFile != "" {
			doc, err := uploads.FromFile(reviewFile)
			if err != nil {
				return err
			}
			if err := doc.CheckAdvisory(); err != nil {
				return err
			}
			req.Upload = doc
		}
		review, err := app.Engine.ReviewCV(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), review)
	},
}

var (
	matchCVID    string
	matchJob     string
	matchJobFile string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a stored CV against a job description",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		jd, err := jobDescription(matchJob, matchJobFile)
		if err != nil {
			return err
		}
		match, err := app.Engine.MatchJob(cmd.Context(), matchCVID, jd)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), match)
	},
}

var (
	letterTitle   string
	letterCompany string
	letterJob     string
	letterJobFile string
	letterCVID    string
	letterName    string
	letterSave    bool
)

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Draft a cover letter and optionally save it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		jd, err := jobDescription(letterJob, letterJobFile)
		if err != nil {
			return err
		}
		w := app.Engine.NewCoverLetter()
		letter, err := w.Generate(cmd.Context(), analyses.LetterFields{
			CVID:           letterCVID,
			Name:           letterName,
			JobTitle:       letterTitle,
			CompanyName:    letterCompany,
			JobDescription: jd,
		})
		if err != nil {
			return err
		}
		if letterSave {
			if letter, err = w.Save(cmd.Context(), letter); err != nil {
				return err
			}
		}
		return printJSON(cmd.OutOrStdout(), letter)
	},
}

func jobDescription(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	if strings.TrimSpace(inline) != "" {
		return "", fmt.Errorf("use either --job or --job-file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return string(data), nil
}

func init() {
	reviewCmd.Flags().StringVar(&reviewCVID, "cv", "", "Stored CV id")
	reviewCmd.Flags().StringVar(&reviewFile, "file", "", "Path to a .pdf, .doc, .docx or .txt document")
	reviewCmd.MarkFlagsOneRequired("cv", "file")

	matchCmd.Flags().StringVar(&matchCVID, "cv", "", "Stored CV id (required)")
	matchCmd.Flags().StringVar(&matchJob, "job", "", "Job description text")
	matchCmd.Flags().StringVar(&matchJobFile, "job-file", "", "Path to a job description file")
	_ = matchCmd.MarkFlagRequired("cv")
	matchCmd.MarkFlagsOneRequired("job", "job-file")

	letterCmd.Flags().StringVar(&letterTitle, "title", "", "Job title (required)")
	letterCmd.Flags().StringVar(&letterCompany, "company", "", "Company name (required)")
	letterCmd.Flags().StringVar(&letterJob, "job", "", "Job description text")
	letterCmd.Flags().StringVar(&letterJobFile, "job-file", "", "Path to a job description file")
	letterCmd.Flags().StringVar(&letterCVID, "cv", "", "Stored CV id to tailor the letter to")
	letterCmd.Flags().StringVar(&letterName, "name", "", "Letter name")
	letterCmd.Flags().BoolVar(&letterSave, "save", false, "Save the drafted letter")
	_ = letterCmd.MarkFlagRequired("title")
	_ = letterCmd.MarkFlagRequired("company")
	letterCmd.MarkFlagsOneRequired("job", "job-file")

	rootCmd.AddCommand(reviewCmd, matchCmd, letterCmd)
}
