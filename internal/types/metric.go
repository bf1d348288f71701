package types

// Metric identifies one analysable measure. Count metrics come straight
// from the daily aggregates; rate metrics are derived on demand from a
// numerator/denominator count pair and are never stored.
type Metric int

const (
	MetricTrips Metric = iota
	MetricQuotes
	MetricPassthroughs
	MetricHotPasses
	MetricBookings
	MetricNonConverted
	MetricTripToQuote
	MetricTripToPassthrough
	MetricPassthroughToQuote
	MetricHotPassRate
	MetricNonConvertedRate
	MetricBookingRate
)

// CountMetrics lists the stored count measures in display order.
var CountMetrics = []Metric{
	MetricTrips,
	MetricQuotes,
	MetricPassthroughs,
	MetricHotPasses,
	MetricBookings,
	MetricNonConverted,
}

// RateMetrics lists the derived rate measures in display order.
var RateMetrics = []Metric{
	MetricTripToQuote,
	MetricTripToPassthrough,
	MetricPassthroughToQuote,
	MetricHotPassRate,
	MetricNonConvertedRate,
	MetricBookingRate,
}

// IsRate reports whether m is a derived rate rather than a stored count.
func (m Metric) IsRate() bool {
	return m >= MetricTripToQuote
}

// Ratio returns the count pair a rate metric divides, denominator second.
// ok is false for count metrics.
func (m Metric) Ratio() (num, den Metric, ok bool) {
	switch m {
	case MetricTripToQuote:
		return MetricQuotes, MetricTrips, true
	case MetricTripToPassthrough:
		return MetricPassthroughs, MetricTrips, true
	case MetricPassthroughToQuote:
		return MetricQuotes, MetricPassthroughs, true
	case MetricHotPassRate:
		return MetricHotPasses, MetricPassthroughs, true
	case MetricNonConvertedRate:
		return MetricNonConverted, MetricTrips, true
	case MetricBookingRate:
		return MetricBookings, MetricHotPasses, true
	}
	return 0, 0, false
}

func (m Metric) String() string {
	switch m {
	case MetricTrips:
		return "trips"
	case MetricQuotes:
		return "quotes"
	case MetricPassthroughs:
		return "passthroughs"
	case MetricHotPasses:
		return "hot_passes"
	case MetricBookings:
		return "bookings"
	case MetricNonConverted:
		return "non_converted"
	case MetricTripToQuote:
		return "trip_to_quote"
	case MetricTripToPassthrough:
		return "trip_to_passthrough"
	case MetricPassthroughToQuote:
		return "passthrough_to_quote"
	case MetricHotPassRate:
		return "hot_pass_rate"
	case MetricNonConvertedRate:
		return "non_converted_rate"
	case MetricBookingRate:
		return "booking_rate"
	}
	return "unknown"
}

// Label is the human-readable form used in report text and rationales.
func (m Metric) Label() string {
	switch m {
	case MetricTrips:
		return "Trips"
	case MetricQuotes:
		return "Quotes"
	case MetricPassthroughs:
		return "Passthroughs"
	case MetricHotPasses:
		return "Hot Passes"
	case MetricBookings:
		return "Bookings"
	case MetricNonConverted:
		return "Non-Converted"
	case MetricTripToQuote:
		return "Trips > Quotes"
	case MetricTripToPassthrough:
		return "Trips > Passthroughs"
	case MetricPassthroughToQuote:
		return "Passthroughs > Quotes"
	case MetricHotPassRate:
		return "Passthroughs > Hot Passes"
	case MetricNonConvertedRate:
		return "Non-Converted Rate"
	case MetricBookingRate:
		return "Hot Passes > Bookings"
	}
	return "Unknown"
}
