package heuristics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/fundalyst/internal/models"
)

var (
	// FY21, FY 2024, FY'23
	fiscalYearPattern = regexp.MustCompile(`(?i)\bFY\s?'?(\d{4}|\d{2})\b`)
	roePattern        = regexp.MustCompile(`(?i)\bROE\b[^0-9%\n-]{0,40}(-?\d+(?:\.\d+)?)\s*%`)
	rocePattern       = regexp.MustCompile(`(?i)\bROCE\b[^0-9%\n-]{0,40}(-?\d+(?:\.\d+)?)\s*%`)
)

// ExtractDupont splits a Du Pont write-up into per-year components.
//
// Each distinct fiscal year mentioned yields one component, in ascending year
// order. The explanation is the text following the year's first mention up to
// the next fiscal-year token. ROE and ROCE are read from "ROE ... 18.2%" style
// phrases inside that text and stay 0 when absent.
func ExtractDupont(reply string) []models.DupontComponent {
	matches := fiscalYearPattern.FindAllStringSubmatchIndex(reply, -1)
	if len(matches) == 0 {
		return nil
	}

	type span struct {
		year  int
		start int
		end   int
	}

	firstSeen := make(map[int]span)
	for i, m := range matches {
		year := normalizeFiscalYear(reply[m[2]:m[3]])
		if _, ok := firstSeen[year]; ok {
			continue
		}
		end := len(reply)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		firstSeen[year] = span{year: year, start: m[1], end: end}
	}

	spans := make([]span, 0, len(firstSeen))
	for _, s := range firstSeen {
		spans = append(spans, s)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].year < spans[j].year })

	components := make([]models.DupontComponent, 0, len(spans))
	for _, s := range spans {
		desc := strings.TrimSpace(strings.TrimLeft(reply[s.start:s.end], ":-–) "))
		components = append(components, models.DupontComponent{
			Year:            fmt.Sprintf("FY%02d", s.year%100),
			ROE:             firstPercent(roePattern, desc),
			ROEExplanation:  desc,
			ROCE:            firstPercent(rocePattern, desc),
			ROCEExplanation: desc,
		})
	}

	return components
}

// normalizeFiscalYear maps "21" and "2021" to 2021.
func normalizeFiscalYear(digits string) int {
	n, _ := strconv.Atoi(digits)
	if n < 100 {
		n += 2000
	}
	return n
}

func firstPercent(pattern *regexp.Regexp, text string) float64 {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
