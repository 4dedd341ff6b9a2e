// Package travel defines the default tool catalog of the travel assistant:
// ferry, flight, accommodation, maps and general travel tools, the keyword
// rules that route queries to them, and the ranker's strong associations.
package travel

import (
	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/schema"
	"github.com/zero-day-ai/toolgate/selector"
)

// Categories of the default catalog.
const (
	Transport     catalog.Category = "transport"
	Accommodation catalog.Category = "accommodation"
	Mapping       catalog.Category = "mapping"
	Travel        catalog.Category = "travel"
)

// Integrations owning the default tools.
const (
	IntegrationFerries   = "ferries"
	IntegrationFlights   = "flights"
	IntegrationLodging   = "accommodation"
	IntegrationMaps      = "maps"
	IntegrationAssistant = "travel"
)

// Prefixes maps tool id prefixes to categories.
func Prefixes() catalog.Prefixes {
	return catalog.Prefixes{
		"ferry_":     Transport,
		"flight_":    Transport,
		"hotel_":     Accommodation,
		"apartment_": Accommodation,
		"maps_":      Mapping,
		"travel_":    Travel,
	}
}

// Rules returns the keyword table of the relevance classifier. The travel
// category is the fallback used when nothing else matches.
func Rules() []selector.Rule {
	return []selector.Rule{
		{
			Category: Transport,
			Keywords: []string{
				"ferry", "ferries", "boat", "ship", "port", "island",
				"flight", "flights", "fly", "airport", "plane", "airline",
				"train", "bus",
			},
			Enabled: true,
		},
		{
			Category: Accommodation,
			Keywords: []string{
				"hotel", "hotels", "accommodation", "stay", "room", "airbnb",
				"apartment", "hostel", "booking", "night",
			},
			Enabled: true,
		},
		{
			Category: Mapping,
			Keywords: []string{
				"map", "maps", "direction", "directions", "route", "distance",
				"near", "nearby", "location", "where is", "restaurant", "place",
			},
			Enabled: true,
		},
		{
			Category: Travel,
			Keywords: []string{
				"travel", "trip", "vacation", "holiday", "itinerary", "weather",
				"visit", "plan",
			},
			Enabled:  true,
			Fallback: true,
		},
	}
}

// StrongRules returns the ranker's direct keyword to tool associations.
func StrongRules() []selector.StrongRule {
	return []selector.StrongRule{
		{Keyword: "ferry", Category: Transport, ToolPrefix: "ferry_"},
		{Keyword: "ferries", Category: Transport, ToolPrefix: "ferry_"},
		{Keyword: "boat", ToolPrefix: "ferry_"},
		{Keyword: "island", ToolPrefix: "ferry_"},
		{Keyword: "flight", Category: Transport, ToolPrefix: "flight_"},
		{Keyword: "fly", ToolPrefix: "flight_"},
		{Keyword: "airport", ToolPrefix: "flight_"},
		{Keyword: "hotel", Category: Accommodation, ToolPrefix: "hotel_"},
		{Keyword: "apartment", ToolPrefix: "apartment_"},
		{Keyword: "airbnb", ToolPrefix: "apartment_"},
		{Keyword: "map", Category: Mapping},
		{Keyword: "direction", ToolPrefix: "maps_directions"},
		{Keyword: "near", ToolPrefix: "maps_nearby"},
		{Keyword: "weather", ToolPrefix: "travel_weather"},
		{Keyword: "plan", ToolPrefix: "travel_trip"},
	}
}

// Ranker returns a ranker loaded with StrongRules and the default bonuses.
func Ranker() selector.Ranker {
	return selector.Ranker{
		Strong:      StrongRules(),
		StrongBonus: selector.DefaultStrongBonus,
		TokenBonus:  selector.DefaultTokenBonus,
	}
}

// Catalog builds a catalog from Descriptors.
func Catalog() (*catalog.Catalog, error) {
	return catalog.NewWithPrefixes(Prefixes(), Descriptors()...)
}

// Descriptors returns the default tools, all enabled. Categories are left to
// prefix inference.
func Descriptors() []catalog.Descriptor {
	return []catalog.Descriptor{
		{
			ID:          "ferry_search_routes",
			DisplayName: "Search ferry routes",
			Description: "Search ferry routes between two ports on a given date",
			Integration: IntegrationFerries,
			Enabled:     true,
			InputSchema: map[string]any{
				"$schema": "http://json-schema.org/draft-07/schema#",
				"title":   "FerryRouteSearch",
				"type":    "object",
				"properties": map[string]any{
					"from": map[string]any{"type": "string", "description": "Departure port, e.g. Piraeus"},
					"to":   map[string]any{"type": "string", "description": "Arrival port, e.g. Aegina"},
					"date": map[string]any{"type": "string", "format": "date", "description": "Travel date (YYYY-MM-DD)"},
					"passengers": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"default":     1,
						"description": "Number of passengers",
					},
				},
				"required": []any{"from", "to"},
			},
		},
		{
			ID:          "ferry_get_schedule",
			DisplayName: "Ferry schedule",
			Description: "Get the ferry timetable for a port or route",
			Integration: IntegrationFerries,
			Enabled:     true,
			InputSchema: schema.Object(map[string]schema.JSON{
				"port":  schema.StringWithDesc("Port name"),
				"route": schema.StringWithDesc("Optional route identifier"),
				"date":  schema.StringWithDesc("Date (YYYY-MM-DD)"),
			}, "port").Map(),
		},
		{
			ID:          "ferry_get_prices",
			DisplayName: "Ferry prices",
			Description: "Get ferry ticket prices for passengers and vehicles on a route",
			Integration: IntegrationFerries,
			Enabled:     true,
			InputSchema: schema.FromType(ferryPriceArgs{}).Map(),
		},
		{
			ID:          "flight_search",
			DisplayName: "Search flights",
			Description: "Search flights between airports with dates and passenger counts",
			Integration: IntegrationFlights,
			Enabled:     true,
			InputSchema: schema.FromType(flightSearchArgs{}).Map(),
		},
		{
			ID:          "flight_status",
			DisplayName: "Flight status",
			Description: "Get the live status of a flight by flight number",
			Integration: IntegrationFlights,
			Enabled:     true,
			InputSchema: schema.Object(map[string]schema.JSON{
				"flight_number": schema.StringWithDesc("IATA flight number, e.g. A3 602"),
				"date":          schema.StringWithDesc("Departure date (YYYY-MM-DD)"),
			}, "flight_number").Map(),
		},
		{
			ID:          "hotel_search",
			DisplayName: "Search hotels",
			Description: "Search hotels in a city for check-in and check-out dates",
			Integration: IntegrationLodging,
			Enabled:     true,
			InputSchema: schema.FromType(stayArgs{}).Map(),
		},
		{
			ID:          "hotel_details",
			DisplayName: "Hotel details",
			Description: "Get details, amenities and reviews for a hotel",
			Integration: IntegrationLodging,
			Enabled:     true,
			InputSchema: schema.Object(map[string]schema.JSON{
				"hotel_id": schema.StringWithDesc("Hotel identifier from a search result"),
			}, "hotel_id").WithTitle("HotelDetails").Map(),
		},
		{
			ID:          "apartment_search",
			DisplayName: "Search apartments",
			Description: "Search apartment and vacation rental listings in a city",
			Integration: IntegrationLodging,
			Enabled:     true,
			InputSchema: schema.FromType(stayArgs{}).Map(),
		},
		{
			ID:          "maps_geocode",
			DisplayName: "Geocode",
			Description: "Convert an address or place name into map coordinates",
			Integration: IntegrationMaps,
			Enabled:     true,
			InputSchema: schema.Object(map[string]schema.JSON{
				"address": schema.StringWithDesc("Address or place name"),
			}, "address").Map(),
		},
		{
			ID:          "maps_directions",
			DisplayName: "Directions",
			Description: "Get directions and travel distance between two locations",
			Integration: IntegrationMaps,
			Enabled:     true,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"origin":      map[string]any{"type": "string", "description": "Start location"},
					"destination": map[string]any{"type": "string", "description": "End location"},
					"mode": map[string]any{
						"type":        "string",
						"enum":        []any{"driving", "walking", "transit"},
						"default":     "driving",
						"description": "Travel mode",
					},
				},
				"required": []any{"origin", "destination"},
			},
		},
		{
			ID:          "maps_nearby_search",
			DisplayName: "Nearby places",
			Description: "Find restaurants, attractions and other places near a location",
			Integration: IntegrationMaps,
			Enabled:     true,
			InputSchema: schema.Object(map[string]schema.JSON{
				"location": schema.StringWithDesc("Center location"),
				"type":     schema.StringWithDesc("Place type, e.g. restaurant"),
				"radius":   schema.IntWithDesc("Search radius in meters").WithDefault(1000),
			}, "location").Map(),
		},
		{
			ID:          "travel_weather",
			DisplayName: "Weather forecast",
			Description: "Get the weather forecast for a travel destination",
			Integration: IntegrationAssistant,
			Enabled:     true,
			InputSchema: schema.Object(map[string]schema.JSON{
				"location": schema.StringWithDesc("Destination"),
				"days":     schema.IntWithDesc("Forecast length in days"),
			}, "location").Map(),
		},
		{
			ID:          "travel_trip_planner",
			DisplayName: "Trip planner",
			Description: "Plan a multi-day trip itinerary with destinations and activities",
			Integration: IntegrationAssistant,
			Enabled:     true,
			InputSchema: schema.FromType(tripArgs{}).Map(),
		},
	}
}

type ferryPriceArgs struct {
	Route      string `json:"route" description:"Route identifier, e.g. PIR-AEG"`
	Passengers int    `json:"passengers,omitempty" description:"Number of passengers"`
	Vehicle    string `json:"vehicle,omitempty" description:"Vehicle type" enum:"none,car,motorcycle"`
}

type flightSearchArgs struct {
	From       string `json:"from" description:"Departure airport IATA code"`
	To         string `json:"to" description:"Arrival airport IATA code"`
	Depart     string `json:"depart" description:"Departure date (YYYY-MM-DD)"`
	Return     string `json:"return,omitempty" description:"Return date (YYYY-MM-DD)"`
	Passengers int    `json:"passengers,omitempty" description:"Number of passengers"`
	Cabin      string `json:"cabin,omitempty" description:"Cabin class" enum:"economy,premium,business,first"`
}

type stayArgs struct {
	City     string `json:"city" description:"City or area"`
	CheckIn  string `json:"check_in" description:"Check-in date (YYYY-MM-DD)"`
	CheckOut string `json:"check_out" description:"Check-out date (YYYY-MM-DD)"`
	Guests   int    `json:"guests,omitempty" description:"Number of guests"`
}

type tripArgs struct {
	Destinations []string `json:"destinations" description:"Places to visit, in order"`
	Days         int      `json:"days" description:"Trip length in days"`
	Interests    []string `json:"interests,omitempty" description:"Interests such as beaches or museums"`
}
