package holiday

import (
	"fmt"

	"github.com/alpacahq/marketcal/utils/date"
)

// InvalidRuleError is returned for a rule that cannot be evaluated.
type InvalidRuleError struct {
	Rule   string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	if e.Rule == "" {
		return "invalid holiday rule: " + e.Reason
	}
	return fmt.Sprintf("invalid holiday rule %q: %s", e.Rule, e.Reason)
}

// EmptyWindowWarning flags a rule whose validity window never yields a date.
// It is a warning: a rule retired before it ever fired is legal.
type EmptyWindowWarning struct {
	Rule  string
	Start date.NullDate
	End   date.NullDate
}

func (w *EmptyWindowWarning) Error() string {
	return fmt.Sprintf("holiday rule %q never fires in window [%s, %s)", w.Rule, w.Start, w.End)
}

// WindowGapWarning flags two windowed variants of the same holiday that
// leave days uncovered between them.
type WindowGapWarning struct {
	Rule string
	From date.Date
	To   date.Date
}

func (w *WindowGapWarning) Error() string {
	return fmt.Sprintf("holiday %q has no active rule in [%s, %s)", w.Rule, w.From, w.To)
}

// WindowOverlapWarning flags two windowed variants of the same holiday that
// are both active on some days.
type WindowOverlapWarning struct {
	Rule   string
	First  string
	Second string
}

func (w *WindowOverlapWarning) Error() string {
	return fmt.Sprintf("holiday %q has overlapping windows %s and %s", w.Rule, w.First, w.Second)
}
