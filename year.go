package tenk

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Year is a fiscal year covered by a 10-K filing.
type Year int

// DefaultTicker is the company whose filings are read when none is configured.
const DefaultTicker = "UBER"

// fiscalYears is the fixed set of years every Index Set covers, oldest first.
var fiscalYears = []Year{2019, 2020, 2021, 2022}

// FiscalYears returns the configured fiscal years in ascending order.
// The returned slice is a copy and may be modified by the caller.
func FiscalYears() []Year {
	years := make([]Year, len(fiscalYears))
	copy(years, fiscalYears)
	return years
}

// FiscalYearsDescending returns the configured fiscal years newest first,
// the order used by year pickers.
func FiscalYearsDescending() []Year {
	years := make([]Year, len(fiscalYears))
	for i, y := range fiscalYears {
		years[len(fiscalYears)-1-i] = y
	}
	return years
}

// String returns the year as a decimal string.
func (y Year) String() string {
	return strconv.Itoa(int(y))
}

// Validate returns EINVALID if the year is not one of the configured fiscal years.
func (y Year) Validate() error {
	for _, fy := range fiscalYears {
		if y == fy {
			return nil
		}
	}
	return Errorf(EINVALID, "fiscal year %d is not one of %v", int(y), fiscalYears)
}

// ParseYear parses s as a configured fiscal year.
func ParseYear(s string) (Year, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, Errorf(EINVALID, "invalid fiscal year %q", s)
	}
	y := Year(n)
	if err := y.Validate(); err != nil {
		return 0, err
	}
	return y, nil
}

// FilingPath returns the expected location of a year's filing:
// {dir}/{ticker}/{ticker}_{year}.html.
func FilingPath(dir, ticker string, year Year) string {
	if ticker == "" {
		ticker = DefaultTicker
	}
	return filepath.Join(dir, ticker, fmt.Sprintf("%s_%d.html", ticker, int(year)))
}

// SummaryText returns the default natural-language descriptor of a year's filing.
func SummaryText(ticker string, year Year) string {
	if ticker == "" {
		ticker = DefaultTicker
	}
	return fmt.Sprintf("%s 10-k Filing for %d fiscal year", ticker, int(year))
}

// CleanDir returns dir as a clean absolute path, the form under which Index
// Sets are cached and persisted. Equivalent spellings of one directory
// share a key.
func CleanDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}
