package model

// Airline is static reference data owned by administrators.
type Airline struct {
	ID           uint64 // airlines.id
	Name         string // airlines.name
	IATACode     string // airlines.iata_code
	ICAOCode     string // airlines.icao_code
	SupportEmail string // airlines.support_email
}

// Airport is a departure or arrival point.  Search narrows by country,
// then city, then airport.
type Airport struct {
	ID       uint64 // airports.id
	Name     string // airports.name
	City     string // airports.city
	Country  string // airports.country
	IATACode string // airports.iata_code
	ICAOCode string // airports.icao_code
}
