// Package parser provides record parsing for pipe-delimited sensor
// readings. It extracts the device, the (year, month) pair, and the six
// sensor channel values from each data line and validates them for
// correctness.
//
// Malformed lines are reported per record so callers can skip and count
// them rather than failing the whole run.
//
// Example usage:
//
//	p := parser.New()
//	rec, err := p.ParseLine("17|ag-sala-03|1|2024-03-05 14:22:09|23.5|61.2|412.0|52.1|410.3|12.7|-23.52|-46.63")
//	if err != nil {
//	    // skip and count
//	}
//	fmt.Printf("%s %04d-%02d temp=%.2f\n", rec.Device, rec.Year, rec.Month, rec.Values[parser.ChannelTemperature])
package parser

// Channel identifies one of the six fixed sensor channels, in input
// column order.
type Channel int

// The six fixed sensor channels.
const (
	ChannelTemperature Channel = iota
	ChannelHumidity
	ChannelLuminosity
	ChannelNoise
	ChannelECO2
	ChannelETVOC
)

// NumChannels is the number of fixed sensor channels per record.
const NumChannels = 6

// MaxDeviceLen bounds device identifiers. Longer names are truncated at
// ingestion, matching the upstream dataset field width.
const MaxDeviceLen = 49

// channelLabels holds the canonical channel labels in column order. The
// labels double as the report vocabulary, so they keep the dataset's
// Portuguese names.
var channelLabels = [NumChannels]string{
	"temperatura",
	"umidade",
	"luminosidade",
	"ruido",
	"eco2",
	"etvoc",
}

// String returns the canonical label for the channel.
func (c Channel) String() string {
	if c < 0 || int(c) >= NumChannels {
		return "unknown"
	}
	return channelLabels[c]
}

// ChannelLabels returns the canonical channel labels in column order.
//
// The returned array is a copy; consumers that need the label table
// (report writer, display) receive it explicitly instead of reading
// shared state.
func ChannelLabels() [NumChannels]string {
	return channelLabels
}

// ParseChannel resolves a canonical label to its Channel.
//
// Returns ErrUnknownChannel if the label is not one of the six fixed
// channels.
func ParseChannel(label string) (Channel, error) {
	for i, l := range channelLabels {
		if l == label {
			return Channel(i), nil
		}
	}
	return 0, ErrUnknownChannel
}

// Record represents one sensor reading row after ingestion.
//
// Invariant: Device is non-empty and at most MaxDeviceLen characters.
// Invariant: Month is in 1..12 and Year is positive.
// The day component of the source date is discarded; aggregation is
// monthly.
type Record struct {
	// Device is the reporting device identifier.
	Device string

	// Year and Month locate the reading in calendar time.
	Year  int
	Month int

	// Values holds one reading per channel, indexed by Channel.
	Values [NumChannels]float64
}

// Validate checks if the record satisfies all invariants.
//
// Returns an error if:
//   - Device is empty or exceeds MaxDeviceLen
//   - Year is not positive
//   - Month is outside 1..12
//
// Thread-safety: read-only and safe for concurrent use.
func (r *Record) Validate() error {
	if r.Device == "" {
		return ErrEmptyDevice
	}
	if len(r.Device) > MaxDeviceLen {
		return ErrDeviceTooLong
	}
	if r.Year <= 0 || r.Month < 1 || r.Month > 12 {
		return ErrInvalidDate
	}
	return nil
}

// Parser parses pipe-delimited sensor reading lines.
type Parser interface {
	// ParseLine parses a single data line (without newline character).
	//
	// Parameters:
	//   - line: One pipe-delimited record row
	//
	// Returns:
	//   - Parsed Record
	//   - *ParseError if the line is structurally short or any extracted
	//     field is malformed
	//
	// Thread-safety: this method is thread-safe.
	ParseLine(line string) (*Record, error)
}
