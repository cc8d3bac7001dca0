package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches the first amount on a line: "250", "12,5", "0.8"
	decimalTokenPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

	lineBreakPattern = regexp.MustCompile(`\r\n|\r|\n`)
)

// Header keywords. Written as printed on German/English labels; folded once at startup
// so they compare against folded lines.
var (
	energyKeywords       = foldAll("energie", "brennwert", "calorie")
	saturatedFatKeywords = foldAll("gesättigt", "gesaettigt", "davon gesättigte", "davon gesaettigte")
	fatKeyword           = foldText("fett")
	ofWhichKeyword       = foldText("davon")
	carbohydrateKeywords = foldAll("kohlenhydrat", "carbo")
	sugarKeyword         = foldText("zucker")
	fiberKeywords        = foldAll("ballaststoff", "fibre")
	proteinKeywords      = foldAll("eiwei", "protein")
	saltKeyword          = foldText("salz")
	containsKeywords     = foldAll("enthält", "enthaelt")
)

// servingReference is the "100 g enthält" amount printed above the table
const servingReference = "100 g"

// valueUnitSuffixes are the units a nutrient amount line must end with
var valueUnitSuffixes = []string{"g", "kcal", "kj"}

// foldText lower-cases s and strips combining marks, so "Gesättigte" and "gesattigte" compare equal
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func foldAll(words ...string) []string {
	folded := make([]string, len(words))
	for i, w := range words {
		folded[i] = foldText(w)
	}
	return folded
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// splitLabelLines splits OCR text into trimmed, non-empty lines
func splitLabelLines(text string) []string {
	var lines []string
	for _, line := range lineBreakPattern.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// classifyRow maps a header line to its row kind.
// Lines carrying an amount are value lines and are never classified (ok is false).
func classifyRow(line string) (kind domain.RowKind, ok bool) {
	if decimalTokenPattern.MatchString(line) {
		return "", false
	}

	folded := foldText(line)
	ofWhich := strings.Contains(folded, ofWhichKeyword)

	switch {
	case containsAny(folded, energyKeywords):
		return domain.RowEnergy, true
	case strings.Contains(folded, fatKeyword) && !ofWhich:
		return domain.RowFat, true
	case containsAny(folded, saturatedFatKeywords):
		// Only "davon" sub-rows get here; a bare "Gesättigte Fettsäuren" header is fat
		return domain.RowSaturatedFat, true
	case containsAny(folded, carbohydrateKeywords):
		return domain.RowCarbohydrate, true
	case strings.Contains(folded, sugarKeyword) && ofWhich:
		return domain.RowSugar, true
	case containsAny(folded, fiberKeywords):
		return domain.RowFiber, true
	case containsAny(folded, proteinKeywords):
		return domain.RowProtein, true
	case strings.Contains(folded, saltKeyword):
		return domain.RowSalt, true
	default:
		return domain.RowOther, true
	}
}

// extractValue reads the amount from a nutrient value line such as "12,5 g" or "250 kcal".
// Lines without a trailing unit and the "100 g enthält" reference line are rejected.
func extractValue(line string) (domain.ValueLine, bool) {
	token := decimalTokenPattern.FindString(line)
	if token == "" {
		return domain.ValueLine{}, false
	}

	folded := foldText(line)
	if strings.Contains(folded, servingReference) && containsAny(folded, containsKeywords) {
		return domain.ValueLine{}, false
	}

	if !hasUnitSuffix(folded) {
		return domain.ValueLine{}, false
	}

	value, err := strconv.ParseFloat(strings.Replace(token, ",", ".", 1), 64)
	if err != nil {
		return domain.ValueLine{}, false
	}

	return domain.ValueLine{
		Raw:    line,
		Value:  value,
		IsKcal: strings.Contains(folded, "kcal"),
	}, true
}

func hasUnitSuffix(folded string) bool {
	for _, suffix := range valueUnitSuffixes {
		if strings.HasSuffix(folded, suffix) {
			return true
		}
	}
	return false
}
