package stub

// Fixture accounts. Password for every account is "password".
const (
	UserOK     = "mychart"
	UserLocked = "locked"
	UserTerms  = "terms"
	UserDeep   = "deeplink"
	Password   = "password"
)

type amenity struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Dest            string    `json:"dest"`
	Category        string    `json:"category,omitempty"`
	Body            string    `json:"body,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	URL             string    `json:"url,omitempty"`
	Parent          string    `json:"parent,omitempty"`
	NestedAmenities []amenity `json:"nested_amenities,omitempty"`
}

type facility struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	AppKey    string `json:"app_key"`
	MapKey    string `json:"map_key"`
}

type placemark struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subtitle string `json:"subtitle,omitempty"`
	MapKey   string `json:"map_key"`
	Facility string `json:"-"`
}

var facilities = []facility{
	{ID: "east", Name: "East Pavilion", ShortName: "EP", AppKey: "portal", MapKey: "east"},
	{ID: "west", Name: "West Tower", ShortName: "WT", AppKey: "portal", MapKey: "west"},
}

var placemarks = []placemark{
	{ID: "east_cafe", Name: "Cafe", Subtitle: "Floor 1", MapKey: "east", Facility: "east"},
	{ID: "east_atm1", Name: "ATM", Subtitle: "Main lobby", MapKey: "east", Facility: "east"},
	{ID: "east_atm2", Name: "ATM", Subtitle: "Floor 3", MapKey: "east", Facility: "east"},
	{ID: "west_atm1", Name: "ATM", Subtitle: "Entrance B", MapKey: "west", Facility: "west"},
	{ID: "west_pharmacy", Name: "Pharmacy", Subtitle: "Floor 2", MapKey: "west", Facility: "west"},
}

var amenities = map[string]amenity{
	"facility_123": {
		ID: "facility_123", Title: "Clinic A", Dest: "amenityDetail", Category: "Clinics",
		Body:  "Primary care for adults and children. Walk-ins welcome before noon.",
		Phone: "5551230000",
	},
	"amenity_parking": {
		ID: "amenity_parking", Title: "Parking", Dest: "amenityMap", Category: "Getting Here",
		Body: "Visitor parking is available in garages P1 and P2.", Parent: "east",
	},
	"amenity_services": {
		ID: "amenity_services", Title: "Patient Services", Dest: "amenityTableView",
		NestedAmenities: []amenity{
			{ID: "amenity_interpreter", Title: "Interpreter Services", Dest: "amenityDetail", Body: "Free interpreters in 40 languages.", Phone: "5559870001"},
			{ID: "amenity_chaplain", Title: "Chaplaincy", Dest: "amenityDetail", Body: "Spiritual care around the clock."},
		},
	},
	"amenity_pharmacy_east": {
		ID: "amenity_pharmacy_east", Title: "Pharmacy (East)", Dest: "amenityDetail",
		Body: "Open 7am to 9pm.", Phone: "5559870002", Parent: "east",
	},
	"amenity_pharmacy_west": {
		ID: "amenity_pharmacy_west", Title: "Pharmacy (West)", Dest: "amenityDetail",
		Body: "Open 24 hours.", Phone: "5559870003", Parent: "west",
	},
}

// searchFixtures returns the search index. base is the stub's own root URL,
// used for url results.
func searchFixtures(base string) []map[string]any {
	return []map[string]any{
		{"id": "facility_123", "title": "Clinic A", "dest": "amenityDetail", "category": "Clinics"},
		{"id": "amenity_parking", "name": "Parking", "dest": "amenityMap"},
		{"id": "amenity_services", "title": "Patient Services", "dest": "amenityTableView"},
		{
			"id": "amenity_pharmacy", "title": "Pharmacy", "dest": "amenityDetail",
			"multi_location": []map[string]any{
				{"id": "amenity_pharmacy_east", "parent": "east", "parent_name": "East Pavilion", "app_key": "portal"},
				{"id": "amenity_pharmacy_west", "parent": "west", "parent_name": "West Tower", "app_key": "portal"},
			},
		},
		{
			"id": "east_cafe", "title": "Cafe", "entity_type": "placemark", "type": "dining",
			"app_key": "portal", "parent": "east", "parent_name": "East Pavilion",
			"parent_short_name": "EP", "floor": "1",
		},
		{
			"id": "east_atm", "title": "ATM", "entity_type": "Placemark", "app_key": "portal",
			"parent": "east", "parent_name": "East Pavilion",
			"multi_location": []map[string]any{
				{"id": "east_atm1", "parent": "east", "parent_name": "East Pavilion", "app_key": "portal"},
				{"id": "west_atm1", "parent": "west", "parent_name": "West Tower", "app_key": "portal"},
			},
		},
		{"id": "sched_cardio", "title": "Cardiology Scheduling", "entity_type": "scheduling_number", "phone": "5551234567"},
		{"id": "url_billing", "title": "Pay My Bill", "entity_type": "url", "url": base + "/help/billing"},
		{"id": "uc_main", "title": "Urgent Care", "entity_type": "urgent-care"},
		{"id": "east", "title": "East Pavilion", "entity_type": "facility", "image": "east.png"},
		{"id": "west", "title": "West Tower", "entity_type": "facility", "image": "west.png"},
	}
}
