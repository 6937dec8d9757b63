package timezone

import (
	"strings"
	"time"
)

var (
	MYT *time.Location // UTC+8 - Malaysia, Singapore
	ICT *time.Location // UTC+7 - Thailand, Vietnam, Cambodia
	JST *time.Location // UTC+9 - Japan, Korea (shared offset)
)

func init() {
	MYT = time.FixedZone("MYT", 8*60*60)
	ICT = time.FixedZone("ICT", 7*60*60)
	JST = time.FixedZone("JST", 9*60*60)
}

var airportTimezones = map[string]string{
	// UTC+8 - Malaysia / Singapore / Hong Kong
	"KUL": "MYT", // Kuala Lumpur International
	"SZB": "MYT", // Kuala Lumpur - Subang
	"PEN": "MYT", // Penang International
	"LGK": "MYT", // Langkawi International
	"BKI": "MYT", // Kota Kinabalu International
	"KCH": "MYT", // Kuching International
	"JHB": "MYT", // Senai International
	"SIN": "MYT", // Singapore Changi
	"HKG": "MYT", // Hong Kong International
	"TPE": "MYT", // Taipei Taoyuan
	"MNL": "MYT", // Ninoy Aquino International
	"DPS": "MYT", // Bali - Ngurah Rai

	// UTC+7 - Thailand / Vietnam / Cambodia / western Indonesia
	"BKK": "ICT", // Bangkok - Suvarnabhumi
	"DMK": "ICT", // Bangkok - Don Mueang
	"HKT": "ICT", // Phuket International
	"CNX": "ICT", // Chiang Mai International
	"USM": "ICT", // Koh Samui
	"SGN": "ICT", // Ho Chi Minh City - Tan Son Nhat
	"HAN": "ICT", // Hanoi - Noi Bai
	"DAD": "ICT", // Da Nang International
	"PNH": "ICT", // Phnom Penh International
	"REP": "ICT", // Siem Reap
	"CGK": "ICT", // Jakarta - Soekarno-Hatta

	// UTC+9 - Japan / Korea
	"NRT": "JST", // Tokyo Narita
	"HND": "JST", // Tokyo Haneda
	"KIX": "JST", // Osaka Kansai
	"ICN": "JST", // Seoul Incheon
}

func GetTimezoneByAirport(code string) string {
	code = strings.ToUpper(code)
	if tz, ok := airportTimezones[code]; ok {
		return tz
	}
	return "MYT"
}

func GetLocationByAirport(code string) *time.Location {
	switch GetTimezoneByAirport(code) {
	case "ICT":
		return ICT
	case "JST":
		return JST
	default:
		return MYT
	}
}

func GetLocationByName(name string) *time.Location {
	switch strings.ToUpper(name) {
	case "MYT", "SGT", "UTC+8":
		return MYT
	case "ICT", "UTC+7":
		return ICT
	case "JST", "KST", "UTC+9":
		return JST
	default:
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		return MYT
	}
}

// ParseTimeWithOffset parses source timestamps that may or may not
// carry an explicit offset. When the string has none, tzName picks the
// local zone.
func ParseTimeWithOffset(timeStr string, tzName string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	loc := time.UTC
	if tzName != "" {
		loc = GetLocationByName(tzName)
	}
	simpleFormats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, format := range simpleFormats {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   timeStr,
		Message: "unable to parse time string",
	}
}

// ParseLocalAtAirport parses a zone-less local timestamp in the zone of
// the given airport.
func ParseLocalAtAirport(timeStr string, airportCode string) (time.Time, error) {
	return ParseTimeWithOffset(timeStr, GetTimezoneByAirport(airportCode))
}

func ConvertToTimezone(t time.Time, airportCode string) time.Time {
	return t.In(GetLocationByAirport(airportCode))
}
