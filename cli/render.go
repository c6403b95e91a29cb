package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"regrag/models"
)

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func newSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func printAnswer(result models.AnsweredQuery) {
	assistant := color.New(color.FgCyan).PrintfFunc()
	assistant("\nAssistant: ")
	fmt.Printf("%s\n", result.Answer)

	if len(result.Sources) == 0 {
		return
	}
	color.Cyan("\nSources (%d):", result.SourceCount)
	for i, src := range result.Sources {
		if src.Year != "" {
			color.Green("[%d] %s (%s, %s)", i+1, src.SourceFile, src.DocType, src.Year)
		} else {
			color.Green("[%d] %s (%s)", i+1, src.SourceFile, src.DocType)
		}
		fmt.Printf("    %s\n", src.ContentPreview)
	}
}

func printStats(stats models.CorpusStats) {
	color.Cyan("Corpus")
	fmt.Printf("  Documents:     %d\n", stats.TotalDocuments)
	fmt.Printf("  Total words:   %d\n", stats.TotalWords)
	fmt.Printf("  Avg words/doc: %.1f\n", stats.AvgWordsPerDoc)

	if len(stats.DocTypes) > 0 {
		color.Cyan("Document types")
		types := make([]string, 0, len(stats.DocTypes))
		for t := range stats.DocTypes {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-16s %d\n", t, stats.DocTypes[t])
		}
	}

	if len(stats.YearsAvailable) > 0 {
		color.Cyan("Years")
		fmt.Printf("  %s\n", strings.Join(stats.YearsAvailable, ", "))
	}

	color.Cyan("Pipeline")
	fmt.Printf("  Index ready: %v\n", stats.IndexReady)
	fmt.Printf("  LLM ready:   %v\n", stats.LLMReady)
}
