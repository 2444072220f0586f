package htmltopdf

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSize is a paper size name understood by wkhtmltopdf's --page-size.
type PageSize string

// Page size constants.
const (
	PageSizeA0        PageSize = "A0"
	PageSizeA1        PageSize = "A1"
	PageSizeA2        PageSize = "A2"
	PageSizeA3        PageSize = "A3"
	PageSizeA4        PageSize = "A4"
	PageSizeA5        PageSize = "A5"
	PageSizeA6        PageSize = "A6"
	PageSizeA7        PageSize = "A7"
	PageSizeA8        PageSize = "A8"
	PageSizeA9        PageSize = "A9"
	PageSizeB0        PageSize = "B0"
	PageSizeB1        PageSize = "B1"
	PageSizeB2        PageSize = "B2"
	PageSizeB3        PageSize = "B3"
	PageSizeB4        PageSize = "B4"
	PageSizeB5        PageSize = "B5"
	PageSizeB6        PageSize = "B6"
	PageSizeB7        PageSize = "B7"
	PageSizeB8        PageSize = "B8"
	PageSizeB9        PageSize = "B9"
	PageSizeB10       PageSize = "B10"
	PageSizeC5E       PageSize = "C5E"
	PageSizeComm10E   PageSize = "Comm10E"
	PageSizeDLE       PageSize = "DLE"
	PageSizeExecutive PageSize = "Executive"
	PageSizeFolio     PageSize = "Folio"
	PageSizeLedger    PageSize = "Ledger"
	PageSizeLegal     PageSize = "Legal"
	PageSizeLetter    PageSize = "Letter"
	PageSizeTabloid   PageSize = "Tabloid"
)

// DefaultPageSize is used when PageSize is given an empty name.
const DefaultPageSize = PageSizeA4

var pageSizes = func() map[string]PageSize {
	all := []PageSize{
		PageSizeA0, PageSizeA1, PageSizeA2, PageSizeA3, PageSizeA4,
		PageSizeA5, PageSizeA6, PageSizeA7, PageSizeA8, PageSizeA9,
		PageSizeB0, PageSizeB1, PageSizeB2, PageSizeB3, PageSizeB4,
		PageSizeB5, PageSizeB6, PageSizeB7, PageSizeB8, PageSizeB9, PageSizeB10,
		PageSizeC5E, PageSizeComm10E, PageSizeDLE, PageSizeExecutive,
		PageSizeFolio, PageSizeLedger, PageSizeLegal, PageSizeLetter, PageSizeTabloid,
	}
	m := make(map[string]PageSize, len(all))
	for _, s := range all {
		m[strings.ToLower(string(s))] = s
	}
	return m
}()

// ParsePageSize returns the canonical spelling of a page size name
// (case-insensitive). Empty means DefaultPageSize.
func ParsePageSize(name string) (PageSize, error) {
	if name == "" {
		return DefaultPageSize, nil
	}
	size, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPageSize, name)
	}
	return size, nil
}

// Orientation is the page orientation passed to --orientation.
type Orientation string

// Orientation constants.
const (
	OrientationPortrait  Orientation = "Portrait"
	OrientationLandscape Orientation = "Landscape"
)

// ParseOrientation accepts "portrait" or "landscape" in any case.
// Empty means OrientationPortrait.
func ParseOrientation(name string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "portrait":
		return OrientationPortrait, nil
	case "landscape":
		return OrientationLandscape, nil
	}
	return "", fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, name)
}

// Margins holds the four page margins in millimeters.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Validate rejects negative margins.
func (m Margins) Validate() error {
	for _, side := range []struct {
		name  string
		value float64
	}{
		{"top", m.Top},
		{"bottom", m.Bottom},
		{"left", m.Left},
		{"right", m.Right},
	} {
		if side.value < 0 {
			return fmt.Errorf("%w: %s %v (must not be negative)", ErrInvalidMargin, side.name, side.value)
		}
	}
	return nil
}

// millimeters formats v the way wkhtmltopdf expects unit values: "12.5mm".
func millimeters(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "mm"
}
