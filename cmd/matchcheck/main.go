package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"match-engine/internal/extract"
	"match-engine/internal/lexicon"
	"match-engine/internal/match"
	"match-engine/internal/profile"
	"match-engine/internal/provider"
)

func main() {
	resumePath := flag.String("resume", "", "Path to resume file (pdf, docx or txt)")
	jobPath := flag.String("job", "", "Path to job description file (pdf, docx or txt)")
	skills := flag.String("skills", "", "Comma-separated required skills (optional, defaults to a scan of the job text)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if strings.TrimSpace(*jobPath) == "" {
		exitErr("job path is required")
	}

	resumeText, err := readDocument(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	jobText, err := readDocument(*jobPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}

	lex := lexicon.Default()
	extractor := profile.NewExtractor(lex)
	offline := provider.NewOffline(extractor, match.NewAggregator(lex))

	prof := extractor.Extract(resumeText)
	result, _ := offline.Match(context.Background(), provider.MatchRequest{
		ResumeText:     resumeText,
		ResumeSkills:   prof.Skills,
		JobText:        jobText,
		RequiredSkills: splitSkills(*skills),
	})

	out, err := json.MarshalIndent(map[string]any{
		"profile": prof,
		"result":  result,
	}, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode output: %v", err))
	}
	fmt.Println(string(out))
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return extract.Text(data, extract.NormalizeFormat(format))
}

func splitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, "error:", msg)
	os.Exit(1)
}
