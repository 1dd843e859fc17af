package docref

import "time"

// Timestamp is the store's wall-clock scalar. It is classified opaque: the
// extraction walker copies it as-is and never mistakes it for a container or
// a reference.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// TimestampOf converts a time.Time into a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

// Time converts the timestamp back into a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// GeoPoint is the store's geographic coordinate scalar, likewise opaque.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}
