package parser

import (
	"strconv"
	"strings"
)

// Input column layout:
//
//	id|device|contagem|date|temperatura|umidade|luminosidade|ruido|eco2|etvoc|latitude|longitude
//
// Only the device, date, and the six sensor columns are extracted; the
// trailing latitude/longitude pair is optional and any extra columns are
// ignored.
const (
	fieldDevice     = 1
	fieldDate       = 3
	fieldFirstValue = 4

	// minFields is the device through etvoc span; lines shorter than this
	// cannot produce a complete record.
	minFields = fieldFirstValue + NumChannels
)

// dateLen is the significant prefix of the date column (YYYY-MM-DD); any
// time-of-day suffix is dropped before splitting.
const dateLen = 10

// lineParser implements the Parser interface.
type lineParser struct{}

// New creates a new Parser instance.
func New() Parser {
	return &lineParser{}
}

// ParseLine implements Parser.ParseLine.
func (p *lineParser) ParseLine(line string) (*Record, error) {
	if line == "" {
		return nil, &ParseError{Data: line, Err: ErrEmptyLine}
	}

	fields := strings.Split(line, "|")
	if len(fields) < minFields {
		return nil, &ParseError{Data: line, Err: ErrFieldCount}
	}

	device := strings.TrimSpace(fields[fieldDevice])
	if device == "" {
		return nil, &ParseError{Field: "device", Data: fields[fieldDevice], Err: ErrEmptyDevice}
	}
	if len(device) > MaxDeviceLen {
		device = device[:MaxDeviceLen]
	}

	year, month, err := ParseYearMonth(fields[fieldDate])
	if err != nil {
		return nil, &ParseError{Field: "date", Data: fields[fieldDate], Err: err}
	}

	rec := &Record{
		Device: device,
		Year:   year,
		Month:  month,
	}

	for c := 0; c < NumChannels; c++ {
		raw := strings.TrimSpace(fields[fieldFirstValue+c])
		v, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			return nil, &ParseError{Field: channelLabels[c], Data: raw, Err: ErrInvalidValue}
		}
		rec.Values[c] = v
	}

	if err := rec.Validate(); err != nil {
		return nil, &ParseError{Data: line, Err: err}
	}

	return rec, nil
}

// ParseYearMonth extracts the (year, month) pair from a date string.
//
// The date is reduced to its first 10 characters (YYYY-MM-DD) and split
// on "-"; the day component and everything after it are discarded.
// Accepts bare YYYY-MM as well.
//
// Returns ErrInvalidDate if the pair cannot be extracted, the year is
// not positive, or the month is outside 1..12.
func ParseYearMonth(date string) (year, month int, err error) {
	s := strings.TrimSpace(date)
	if len(s) > dateLen {
		s = s[:dateLen]
	}

	parts := strings.SplitN(s, "-", 3)
	if len(parts) < 2 {
		return 0, 0, ErrInvalidDate
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrInvalidDate
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, ErrInvalidDate
	}

	if year <= 0 || month < 1 || month > 12 {
		return 0, 0, ErrInvalidDate
	}

	return year, month, nil
}
