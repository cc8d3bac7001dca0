package usecase

import (
	"log"
	"math"

	"github.com/JoudMawad/Ignite-sub000/internal/domain"
)

// Field names reported in assignment traces
const (
	fieldCalories = "calories"
	fieldFat      = "fat"
	fieldCarbs    = "carbs"
	fieldProtein  = "protein"
)

// LabelParser reads calories and macronutrients out of OCR text from a nutrition facts label.
//
// Header lines ("Fett", "Kohlenhydrate") and value lines ("10 g") are collected separately in
// top-to-bottom order, then walked in lockstep: each header consumes one value. The parser is
// stateless and safe for concurrent use.
type LabelParser struct {
	enableDebugLogging bool
}

// NewLabelParser creates a new label parser
func NewLabelParser(enableDebugLogging bool) *LabelParser {
	return &LabelParser{
		enableDebugLogging: enableDebugLogging,
	}
}

// Parse returns the facts found in text. Fields the label did not yield stay nil.
func (p *LabelParser) Parse(text string) domain.LabelFacts {
	facts, _ := p.ParseWithTrace(text)
	return facts
}

// ParseWithTrace is Parse plus the detected rows, retained value lines and assignment steps
func (p *LabelParser) ParseWithTrace(text string) (domain.LabelFacts, *domain.LabelTrace) {
	trace := &domain.LabelTrace{}

	for _, line := range splitLabelLines(text) {
		if kind, ok := classifyRow(line); ok {
			trace.Rows = append(trace.Rows, kind)
			continue
		}
		if value, ok := extractValue(line); ok {
			trace.Values = append(trace.Values, value)
		}
	}

	if p.enableDebugLogging {
		log.Printf("[LABEL] Rows: %v", trace.Rows)
		for _, v := range trace.Values {
			log.Printf("[LABEL] Value line: %q → %.2f (kcal=%v)", v.Raw, v.Value, v.IsKcal)
		}
	}

	facts, steps := alignValues(trace.Rows, trace.Values)
	trace.Steps = steps

	if p.enableDebugLogging {
		for _, s := range steps {
			if s.Field == "" {
				log.Printf("[LABEL] %s consumed %q", s.Row, s.Raw)
			} else {
				log.Printf("[LABEL] %s → %s = %.2f (%q)", s.Row, s.Field, s.Value, s.Raw)
			}
		}
	}

	return facts, trace
}

// alignValues walks rows and values with a single cursor that only moves forward.
//
// Energy skips values not given in kcal (the kJ figure usually comes first) and takes the
// next one. Fat, carbohydrate and protein take the value under the cursor. Every other row,
// and any repeat of an already filled kind, consumes one value without keeping it so the
// cursor stays in step with the label. The walk stops once the values run out.
func alignValues(rows []domain.RowKind, values []domain.ValueLine) (domain.LabelFacts, []domain.AssignmentStep) {
	var facts domain.LabelFacts
	var steps []domain.AssignmentStep
	cursor := 0

	for _, row := range rows {
		if cursor >= len(values) {
			break
		}

		field := fieldForRow(row)
		if field != "" && isFilled(facts, field) {
			field = ""
		}

		if field == fieldCalories {
			for cursor < len(values) && !values[cursor].IsKcal {
				cursor++
			}
			if cursor >= len(values) {
				break
			}
		}

		v := values[cursor]
		cursor++

		switch field {
		case fieldCalories:
			calories := int(math.Round(v.Value))
			facts.Calories = &calories
		case fieldFat:
			fat := v.Value
			facts.Fat = &fat
		case fieldCarbs:
			carbs := v.Value
			facts.Carbs = &carbs
		case fieldProtein:
			protein := v.Value
			facts.Protein = &protein
		}

		steps = append(steps, domain.AssignmentStep{
			Row:   row,
			Field: field,
			Raw:   v.Raw,
			Value: v.Value,
		})
	}

	return facts, steps
}

func fieldForRow(row domain.RowKind) string {
	switch row {
	case domain.RowEnergy:
		return fieldCalories
	case domain.RowFat:
		return fieldFat
	case domain.RowCarbohydrate:
		return fieldCarbs
	case domain.RowProtein:
		return fieldProtein
	default:
		return ""
	}
}

func isFilled(facts domain.LabelFacts, field string) bool {
	switch field {
	case fieldCalories:
		return facts.Calories != nil
	case fieldFat:
		return facts.Fat != nil
	case fieldCarbs:
		return facts.Carbs != nil
	case fieldProtein:
		return facts.Protein != nil
	}
	return false
}
