package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
		check   func(t *testing.T, rec *Record)
	}{
		{
			name: "valid full row",
			line: "17|ag-sala-03|1|2024-03-05 14:22:09|23.5|61.2|412.0|52.1|410.3|12.7|-23.52|-46.63",
			check: func(t *testing.T, rec *Record) {
				if rec.Device != "ag-sala-03" {
					t.Errorf("Device = %q, want %q", rec.Device, "ag-sala-03")
				}
				if rec.Year != 2024 || rec.Month != 3 {
					t.Errorf("Year-Month = %04d-%02d, want 2024-03", rec.Year, rec.Month)
				}
				if rec.Values[ChannelTemperature] != 23.5 {
					t.Errorf("temperatura = %v, want 23.5", rec.Values[ChannelTemperature])
				}
				if rec.Values[ChannelETVOC] != 12.7 {
					t.Errorf("etvoc = %v, want 12.7", rec.Values[ChannelETVOC])
				}
			},
		},
		{
			name: "valid row without coordinates",
			line: "17|ag01|1|2025-01-02|1.0|2.0|3.0|4.0|5.0|6.0",
			check: func(t *testing.T, rec *Record) {
				if rec.Year != 2025 || rec.Month != 1 {
					t.Errorf("Year-Month = %04d-%02d, want 2025-01", rec.Year, rec.Month)
				}
				for c := 0; c < NumChannels; c++ {
					if want := float64(c + 1); rec.Values[c] != want {
						t.Errorf("Values[%d] = %v, want %v", c, rec.Values[c], want)
					}
				}
			},
		},
		{
			name: "negative sensor values",
			line: "9|frio|1|2024-07-01|-3.25|40.0|0.0|30.1|400.0|1.0",
			check: func(t *testing.T, rec *Record) {
				if rec.Values[ChannelTemperature] != -3.25 {
					t.Errorf("temperatura = %v, want -3.25", rec.Values[ChannelTemperature])
				}
			},
		},
		{
			name: "device longer than bound is truncated",
			line: "1|" + strings.Repeat("x", 80) + "|1|2024-05-01|1|2|3|4|5|6",
			check: func(t *testing.T, rec *Record) {
				if len(rec.Device) != MaxDeviceLen {
					t.Errorf("len(Device) = %d, want %d", len(rec.Device), MaxDeviceLen)
				}
			},
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: ErrEmptyLine,
		},
		{
			name:    "too few fields",
			line:    "17|ag01|1|2024-03-05|23.5",
			wantErr: ErrFieldCount,
		},
		{
			name:    "empty device",
			line:    "17| |1|2024-03-05|1|2|3|4|5|6",
			wantErr: ErrEmptyDevice,
		},
		{
			name:    "unparseable date",
			line:    "17|ag01|1|not-a-date|1|2|3|4|5|6",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "month out of range",
			line:    "17|ag01|1|2024-13-05|1|2|3|4|5|6",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "malformed sensor value",
			line:    "17|ag01|1|2024-03-05|1|2|oops|4|5|6",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "empty sensor value",
			line:    "17|ag01|1|2024-03-05|1|2||4|5|6",
			wantErr: ErrInvalidValue,
		},
	}

	p := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.ParseLine(tt.line)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("ParseLine() error = nil, want error")
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseLine() error = %v, want %v", err, tt.wantErr)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("ParseLine() error type = %T, want *ParseError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseLine() error = %v, want nil", err)
			}
			if rec == nil {
				t.Fatal("ParseLine() returned nil record")
			}
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{"plain date", "2024-03-01", 2024, 3, false},
		{"date with time suffix", "2024-03-01 14:22:09", 2024, 3, false},
		{"iso timestamp", "2024-11-30T23:59:59", 2024, 11, false},
		{"bare year-month", "2024-12", 2024, 12, false},
		{"single digit month", "2023-7-5", 2023, 7, false},
		{"december", "2025-12-31", 2025, 12, false},
		{"month zero", "2024-00-01", 0, 0, true},
		{"month thirteen", "2024-13-01", 0, 0, true},
		{"year zero", "0000-05-01", 0, 0, true},
		{"no separator", "20240301", 0, 0, true},
		{"garbage", "not-a-date", 0, 0, true},
		{"empty", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, err := ParseYearMonth(tt.date)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseYearMonth(%q) error = nil, want error", tt.date)
				}
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseYearMonth(%q) error = %v, want ErrInvalidDate", tt.date, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseYearMonth(%q) error = %v, want nil", tt.date, err)
			}
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("ParseYearMonth(%q) = (%d, %d), want (%d, %d)",
					tt.date, year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestChannelString(t *testing.T) {
	tests := []struct {
		channel Channel
		want    string
	}{
		{ChannelTemperature, "temperatura"},
		{ChannelHumidity, "umidade"},
		{ChannelLuminosity, "luminosidade"},
		{ChannelNoise, "ruido"},
		{ChannelECO2, "eco2"},
		{ChannelETVOC, "etvoc"},
		{Channel(-1), "unknown"},
		{Channel(NumChannels), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.channel.String(); got != tt.want {
			t.Errorf("Channel(%d).String() = %q, want %q", tt.channel, got, tt.want)
		}
	}
}

func TestParseChannel(t *testing.T) {
	for c := 0; c < NumChannels; c++ {
		label := Channel(c).String()
		got, err := ParseChannel(label)
		if err != nil {
			t.Errorf("ParseChannel(%q) error = %v, want nil", label, err)
		}
		if got != Channel(c) {
			t.Errorf("ParseChannel(%q) = %d, want %d", label, got, c)
		}
	}

	if _, err := ParseChannel("pressure"); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("ParseChannel(unknown) error = %v, want ErrUnknownChannel", err)
	}
}

func TestChannelLabelsIsCopy(t *testing.T) {
	labels := ChannelLabels()
	labels[0] = "mutated"

	if got := ChannelLabels()[0]; got != "temperatura" {
		t.Errorf("ChannelLabels()[0] = %q after mutation of copy, want %q", got, "temperatura")
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{Device: "ag01", Year: 2024, Month: 3}

	tests := []struct {
		name    string
		mutate  func(r *Record)
		wantErr error
	}{
		{"valid record", func(r *Record) {}, nil},
		{"empty device", func(r *Record) { r.Device = "" }, ErrEmptyDevice},
		{"device too long", func(r *Record) { r.Device = strings.Repeat("d", MaxDeviceLen+1) }, ErrDeviceTooLong},
		{"zero year", func(r *Record) { r.Year = 0 }, ErrInvalidDate},
		{"zero month", func(r *Record) { r.Month = 0 }, ErrInvalidDate},
		{"month thirteen", func(r *Record) { r.Month = 13 }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)

			err := rec.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Benchmark tests for performance validation.

func BenchmarkParseLine(b *testing.B) {
	line := "17|ag-sala-03|1|2024-03-05 14:22:09|23.5|61.2|412.0|52.1|410.3|12.7|-23.52|-46.63"
	p := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.ParseLine(line); err != nil {
			b.Fatal(err)
		}
	}
}
