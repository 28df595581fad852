package store

// Preference is one persisted key/value pair.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt int64
}

// Event is a recorded analytics event awaiting or past upload.
type Event struct {
	ID         string
	Type       string
	Properties string // JSON object
	Flush      bool
	CreatedAt  int64
	FlushedAt  int64 // 0 while pending
}

// Amenity is a cached amenity document keyed by id.
type Amenity struct {
	ID        string
	Dest      string
	Title     string
	Payload   []byte // raw JSON as served by the amenity API
	UpdatedAt int64
}

// Facility is a cached indoor-map facility.
type Facility struct {
	ID        string
	Name      string
	ShortName string
	AppKey    string
	MapKey    string
}
