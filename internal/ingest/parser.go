package ingest

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"quizzler/internal/domain"
)

// ordinalPrefix matches a leading "12. " style numbering on an uploaded line.
var ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)

// ParseLines converts raw uploaded text into question records, one per
// qualifying line, in file order. Lines that are blank or carry no pipe
// delimiter are not questions and are skipped without error.
//
// The line format is:
//
//	Question text | Answer | Category | Points | option1,option2,...
//
// Trailing fields are optional. A malformed points or options field degrades
// to its default instead of rejecting the line.
func ParseLines(text string) []domain.QuestionCreate {
	var records []domain.QuestionCreate
	for _, line := range strings.Split(text, "\n") {
		if record, ok := parseLine(line); ok {
			records = append(records, record)
		}
	}
	return records
}

func parseLine(line string) (domain.QuestionCreate, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "|") {
		return domain.QuestionCreate{}, false
	}
	line = ordinalPrefix.ReplaceAllString(line, "")

	parts := strings.SplitN(line, "|", 5)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	points := 10
	if len(parts) > 3 {
		if parsed, err := strconv.Atoi(parts[3]); err == nil {
			points = parsed
		}
	}

	record := domain.QuestionCreate{Text: parts[0], Points: &points}
	if len(parts) > 1 {
		record.Answer = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		category := parts[2]
		record.Category = &category
	}
	if len(parts) > 4 && parts[4] != "" {
		record.Options = parseOptions(parts[4])
	}
	return record, true
}

// parseOptions accepts either a JSON array literal or a comma-separated list.
// Anything that fails the JSON path falls back to the CSV reading; the
// heuristic is intentionally kept as-is for upload-format compatibility.
func parseOptions(raw string) []string {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var options []string
		if err := json.Unmarshal([]byte(raw), &options); err == nil {
			return options
		}
	}
	var options []string
	for _, part := range strings.Split(raw, ",") {
		options = append(options, strings.TrimSpace(part))
	}
	return options
}
