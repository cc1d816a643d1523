package entities

// EventDetails are the caller supplied fields of a scheduled flight event. None of the values are validated, they
// are stored as given.
type EventDetails struct {
	// Date is the date of the event.
	Date string `json:"date" bson:"date"`

	// DepAirport is the departure airport.
	DepAirport string `json:"dep_airport" bson:"dep_airport"`

	// ArrAirport is the arrival airport.
	ArrAirport string `json:"arr_airport" bson:"arr_airport"`

	// DepTime is the departure time.
	DepTime string `json:"dep_time" bson:"dep_time"`

	// FlightTime is the duration of the flight.
	FlightTime string `json:"flight_time" bson:"flight_time"`

	// Operator is the name of the operating airline.
	Operator string `json:"operator" bson:"operator"`

	// FlightNo is the flight number.
	FlightNo string `json:"flight_no" bson:"flight_no"`

	// Aircraft is the aircraft type.
	Aircraft string `json:"aircraft" bson:"aircraft"`

	// Server is the simulator server the event is flown on.
	Server string `json:"server" bson:"server"`
}

// EventRecord is a scheduled flight event.
type EventRecord struct {
	// ID is the generated identifier of the event, for example "OAV-1234".
	ID string `json:"event_id" bson:"event_id"`

	EventDetails `bson:",inline"`
}
