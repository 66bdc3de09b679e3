package cli

import (
	"fmt"
	"time"

	"github.com/roach88/cakeledger/internal/model"
)

func parseDateFlag(flag, s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, WrapExitError(ExitCommandError, "--"+flag, err)
	}
	return d, nil
}

// parseMonthFlag accepts YYYY-MM; "" and "current" mean the store's
// current month.
func parseMonthFlag(s string, app *App) (int, time.Month, error) {
	if s == "" || s == "current" {
		today := app.Store.Today()
		return today.Year, today.Month, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, NewExitError(ExitCommandError, fmt.Sprintf("--month: want YYYY-MM, got %q", s))
	}
	return t.Year(), t.Month(), nil
}
