package domain

import "time"

// LabelFacts is the best-effort macronutrient estimate read from a nutrition label.
// A nil field means the label did not yield a value for it; it is never defaulted to zero.
type LabelFacts struct {
	Calories *int     `json:"calories,omitempty" yaml:"calories,omitempty"` // kcal
	Protein  *float64 `json:"protein,omitempty" yaml:"protein,omitempty"`   // grams
	Carbs    *float64 `json:"carbs,omitempty" yaml:"carbs,omitempty"`       // grams
	Fat      *float64 `json:"fat,omitempty" yaml:"fat,omitempty"`           // grams
}

// Empty reports whether no field was extracted
func (f LabelFacts) Empty() bool {
	return f.Calories == nil && f.Protein == nil && f.Carbs == nil && f.Fat == nil
}

// Clone returns a copy that shares no pointers with f
func (f LabelFacts) Clone() LabelFacts {
	return LabelFacts{
		Calories: clonePtr(f.Calories),
		Protein:  clonePtr(f.Protein),
		Carbs:    clonePtr(f.Carbs),
		Fat:      clonePtr(f.Fat),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// RowKind is the semantic kind of a label header line
type RowKind string

const (
	RowEnergy       RowKind = "energy"
	RowFat          RowKind = "fat"
	RowSaturatedFat RowKind = "saturated-fat"
	RowCarbohydrate RowKind = "carbohydrate"
	RowSugar        RowKind = "sugar"
	RowFiber        RowKind = "fiber"
	RowProtein      RowKind = "protein"
	RowSalt         RowKind = "salt"
	RowOther        RowKind = "other"
)

// ValueLine is a label line carrying a nutrient amount
type ValueLine struct {
	Raw    string  `json:"raw" yaml:"raw"`
	Value  float64 `json:"value" yaml:"value"`
	IsKcal bool    `json:"isKcal" yaml:"isKcal"`
}

// AssignmentStep records what one header row did with the value cursor.
// Field is empty when the value was consumed without being kept.
type AssignmentStep struct {
	Row   RowKind `json:"row" yaml:"row"`
	Field string  `json:"field,omitempty" yaml:"field,omitempty"`
	Raw   string  `json:"raw" yaml:"raw"`
	Value float64 `json:"value" yaml:"value"`
}

// LabelTrace exposes the intermediate state of a label parse for troubleshooting
type LabelTrace struct {
	Rows   []RowKind        `json:"rows" yaml:"rows"`
	Values []ValueLine      `json:"values" yaml:"values"`
	Steps  []AssignmentStep `json:"steps" yaml:"steps"`
}

// LabelScanRequest carries OCR text recognized from a photographed label
type LabelScanRequest struct {
	Text  string `json:"text"`
	Debug bool   `json:"-"`
}

// LabelScanResult is the response for a label scan
type LabelScanResult struct {
	ScanID   string      `json:"scanId"`
	Facts    LabelFacts  `json:"facts"`
	Source   string      `json:"source"` // "Parser" or "Cache"
	ParsedAt time.Time   `json:"parsedAt"`
	Trace    *LabelTrace `json:"trace,omitempty"`
}
