package template

import (
	"sync"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	businessTimezone = "Europe/Rome"
	dateLayout       = "02/01/2006"
)

var (
	printer = message.NewPrinter(language.Italian)

	romeOnce sync.Once
	rome     *time.Location
)

// formatEuro renders an amount the Italian way, e.g. "€ 1.234,50".
func formatEuro(v float64) string {
	return "€ " + printer.Sprintf("%.2f", v)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(location()).Format(dateLayout)
}

func location() *time.Location {
	romeOnce.Do(func() {
		loc, err := time.LoadLocation(businessTimezone)
		if err != nil {
			loc = time.UTC
		}
		rome = loc
	})
	return rome
}
