// Package linkformat builds booking site search URLs from a search request.
//
// City names and cabin classes are substituted verbatim: nothing is URL-encoded
// and city codes are not checked against real airport codes.
package linkformat

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sharedmodels "flightlink/shared/models"
)

var ErrUnsupportedSite = errors.New("unsupported site")

const (
	dateSlashed = "02/01/2006"
	dateDashed  = "02-01-2006"
	dateCompact = "060102"
)

type formatFunc func(req sharedmodels.SearchRequest) string

var formatters = map[sharedmodels.Site]formatFunc{
	sharedmodels.MakeMyTrip: makeMyTrip,
	sharedmodels.EaseMyTrip: easeMyTrip,
	sharedmodels.Goibibo:    goibibo,
	sharedmodels.Cleartrip:  cleartrip,
	sharedmodels.Yatra:      yatra,
	sharedmodels.Skyscanner: skyscanner,
}

// Supported reports whether a formatter exists for site.
func Supported(site sharedmodels.Site) bool {
	_, ok := formatters[site]
	return ok
}

// Generate returns the search URL for one site.
func Generate(site sharedmodels.Site, req sharedmodels.SearchRequest) (string, error) {
	format, ok := formatters[site]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSite, site)
	}
	return format(req), nil
}

// GenerateAll returns one link per requested site, in request order. It fails on
// the first unsupported site and returns no partial result.
func GenerateAll(req sharedmodels.SearchRequest) ([]sharedmodels.LinkResult, error) {
	links := make([]sharedmodels.LinkResult, 0, len(req.Sites))
	for _, site := range req.Sites {
		url, err := Generate(site, req)
		if err != nil {
			return nil, err
		}
		links = append(links, sharedmodels.LinkResult{Site: site, URL: url})
	}
	return links, nil
}

// CityCode is the first three characters of city, uppercased. Shorter names
// produce shorter codes.
func CityCode(city string) string {
	r := []rune(city)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}

// FormatDate renders d in the layout the given site expects.
func FormatDate(site sharedmodels.Site, d time.Time) string {
	switch site {
	case sharedmodels.MakeMyTrip, sharedmodels.EaseMyTrip:
		return d.Format(dateSlashed)
	case sharedmodels.Skyscanner:
		return d.Format(dateCompact)
	default:
		return d.Format(dateDashed)
	}
}

// ExportDate is the date layout used in exported tables.
func ExportDate(d time.Time) string {
	return d.Format(dateDashed)
}

func firstLetter(class sharedmodels.CabinClass) string {
	for _, r := range class {
		return string(r)
	}
	return ""
}

func makeMyTrip(req sharedmodels.SearchRequest) string {
	return fmt.Sprintf(
		"https://www.makemytrip.com/flight/search?itinerary=%s-%s-%s&paxType=A-%d_C-0_I-0&cabinClass=%s",
		CityCode(req.From), CityCode(req.To), FormatDate(sharedmodels.MakeMyTrip, req.Date),
		req.Passengers, strings.ToUpper(firstLetter(req.Class)),
	)
}

func easeMyTrip(req sharedmodels.SearchRequest) string {
	return fmt.Sprintf(
		"https://www.easemytrip.com/flightresult/%s-%s/%s/%d/0/0/%s.html",
		CityCode(req.From), CityCode(req.To), FormatDate(sharedmodels.EaseMyTrip, req.Date),
		req.Passengers, strings.ToUpper(firstLetter(req.Class)),
	)
}

func goibibo(req sharedmodels.SearchRequest) string {
	return fmt.Sprintf(
		"https://www.goibibo.com/flights/air-%s-%s-%s/?adults=%d&class=%s",
		CityCode(req.From), CityCode(req.To), FormatDate(sharedmodels.Goibibo, req.Date),
		req.Passengers, strings.ToLower(string(req.Class)),
	)
}

func cleartrip(req sharedmodels.SearchRequest) string {
	return fmt.Sprintf(
		"https://www.cleartrip.com/flights/results?from=%s&to=%s&depart_date=%s&adults=%d&cabinClass=%s",
		req.From, req.To, FormatDate(sharedmodels.Cleartrip, req.Date),
		req.Passengers, req.Class,
	)
}

func yatra(req sharedmodels.SearchRequest) string {
	return fmt.Sprintf(
		"https://flight.yatra.com/air-search-ui/dom2/trigger?type=O&origin=%s&destination=%s&flight_depart_date=%s&ADT=%d&CL=%s",
		req.From, req.To, FormatDate(sharedmodels.Yatra, req.Date),
		req.Passengers, firstLetter(req.Class),
	)
}

func skyscanner(req sharedmodels.SearchRequest) string {
	return fmt.Sprintf(
		"https://www.skyscanner.co.in/transport/flights/%s/%s/%s/?adults=%d&cabinclass=%s",
		CityCode(req.From), CityCode(req.To), FormatDate(sharedmodels.Skyscanner, req.Date),
		req.Passengers, strings.ToLower(string(req.Class)),
	)
}
