package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"regrag/models"
)

// LoadReport tallies what happened to every line of the corpus file.
type LoadReport struct {
	TotalLines    int
	Loaded        int
	FilteredShort int
	ParseErrors   int
}

// Loader reads a line-delimited corpus file into Documents. Records shorter
// than MinWordCount are dropped; malformed lines are logged and skipped so a
// single bad record never loses the rest of the corpus.
type Loader struct {
	path         string
	minWordCount int
}

func NewLoader(path string, minWordCount int) *Loader {
	return &Loader{path: path, minWordCount: minWordCount}
}

// Load reads the whole corpus file. It fails only on I/O errors (a missing
// file wraps fs.ErrNotExist); per-line failures are counted in the report.
func (l *Loader) Load() (*Corpus, error) {
	log.Printf("LOADER: Loading corpus from %s (min %d words per chunk)", l.path, l.minWordCount)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer file.Close()

	var (
		docs   []models.Document
		report LoadReport
	)

	// Chunk records routinely exceed bufio.Scanner's default token limit, so
	// read unbounded lines through a plain reader instead.
	reader := bufio.NewReaderSize(file, 256*1024)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			report.TotalLines++
			l.loadLine(line, report.TotalLines, &docs, &report)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading corpus file: %w", readErr)
		}
	}

	log.Printf("LOADER: Loaded %d documents (%d lines, %d filtered short, %d parse errors)",
		report.Loaded, report.TotalLines, report.FilteredShort, report.ParseErrors)
	return New(docs, report), nil
}

func (l *Loader) loadLine(line string, lineNum int, docs *[]models.Document, report *LoadReport) {
	var rec models.ChunkRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		report.ParseErrors++
		log.Printf("LOADER WARN: Skipping line %d: %v", lineNum, err)
		return
	}
	if strings.TrimSpace(rec.ChunkText) == "" {
		report.ParseErrors++
		log.Printf("LOADER WARN: Skipping line %d: record has empty chunk_text", lineNum)
		return
	}
	if rec.ChunkWordCount < l.minWordCount {
		report.FilteredShort++
		return
	}
	*docs = append(*docs, newDocument(rec))
	report.Loaded++
}

// newDocument normalizes one chunk record. DocType and Year are pure
// functions of the source path, computed here exactly once.
func newDocument(rec models.ChunkRecord) models.Document {
	return models.Document{
		Content: rec.ChunkText,
		Metadata: models.Metadata{
			SourcePath:    rec.OriginalPDFPath,
			ChunkID:       rec.ChunkID,
			ChunkIndex:    rec.ChunkIndex,
			WordCount:     rec.ChunkWordCount,
			CharCount:     rec.ChunkCharCount,
			DocType:       InferDocType(rec.OriginalPDFPath),
			Year:          ExtractYear(rec.OriginalPDFPath),
			QualityScore:  rec.ProcessingMetadata.OriginalQualityScore,
			FileSizeBytes: rec.OriginalFileSizeBytes,
		},
	}
}

// InferDocType classifies a source path by substring, first match wins.
// The master-circular marker carries no underscore in upstream filenames.
func InferDocType(sourcePath string) models.DocType {
	p := strings.ToLower(sourcePath)
	switch {
	case strings.Contains(p, "annual_report"):
		return models.DocTypeAnnualReport
	case strings.Contains(p, "mastercircular"):
		return models.DocTypeMasterCircular
	case strings.Contains(p, "faq"):
		return models.DocTypeFAQ
	default:
		return models.DocTypeOther
	}
}

// Year range forms before bare years, so "2020-21" yields "2020" rather
// than matching the leading four digits on a later pattern.
var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})-(\d{4})`),
	regexp.MustCompile(`(\d{4})-(\d{2})`),
	regexp.MustCompile(`(\d{4})`),
}

// ExtractYear pulls the publication year out of a source path. Empty when
// the path carries no recognizable year.
func ExtractYear(sourcePath string) string {
	for _, re := range yearPatterns {
		if m := re.FindStringSubmatch(sourcePath); m != nil {
			return m[1]
		}
	}
	return ""
}
