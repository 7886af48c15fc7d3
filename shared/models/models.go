package sharedmodels

import "time"

type Site string

const (
	MakeMyTrip Site = "MakeMyTrip"
	Skyscanner Site = "Skyscanner"
	EaseMyTrip Site = "EaseMyTrip"
	Goibibo    Site = "Goibibo"
	Cleartrip  Site = "Cleartrip"
	Yatra      Site = "Yatra"
)

// AllSites is the booking site list in the order the form presents it.
var AllSites = []Site{MakeMyTrip, Skyscanner, EaseMyTrip, Goibibo, Cleartrip, Yatra}

type CabinClass string

const (
	Economy        CabinClass = "Economy"
	PremiumEconomy CabinClass = "Premium Economy"
	Business       CabinClass = "Business"
	First          CabinClass = "First"
)

var AllCabinClasses = []CabinClass{Economy, PremiumEconomy, Business, First}

// SearchForm is the wire shape of a search, bound from JSON or an HTML form.
type SearchForm struct {
	From       string   `json:"from" form:"from" validate:"required"`
	To         string   `json:"to" form:"to" validate:"required"`
	Date       string   `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
	Passengers int      `json:"passengers" form:"passengers" validate:"min=1,max=9"`
	Class      string   `json:"class" form:"class" validate:"oneof=Economy 'Premium Economy' Business First"`
	Sites      []string `json:"sites" form:"sites" validate:"required,min=1,dive,required"`
}

// SearchRequest is a validated search, ready for link formatting.
type SearchRequest struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Date       time.Time  `json:"date"`
	Passengers int        `json:"passengers"`
	Class      CabinClass `json:"class"`
	Sites      []Site     `json:"sites"`
}

type LinkResult struct {
	Site Site   `json:"site"`
	URL  string `json:"url"`
}

type SearchResult struct {
	SearchID  string        `json:"search_id"`
	Request   SearchRequest `json:"request"`
	Links     []LinkResult  `json:"links"`
	CreatedAt time.Time     `json:"created_at"`
}
