package pincode

// Region is the location resolved from a postal code, used to pre-fill the
// state and district fields.
type Region struct {
	State    string `json:"state"`
	District string `json:"district"`
	City     string `json:"city"`
}

// Lookup resolves an exact 6-digit postal code to its region. There is no
// prefix or fuzzy matching; a miss reports ok=false and the client is
// expected to clear any previously auto-filled values.
func Lookup(code string) (Region, bool) {
	region, ok := regions[code]
	return region, ok
}

// Static table standing in for a postal directory service.
var regions = map[string]Region{
	// Delhi
	"110001": {State: "delhi", District: "Central Delhi", City: "New Delhi"},
	"110002": {State: "delhi", District: "Central Delhi", City: "New Delhi"},
	"110005": {State: "delhi", District: "Central Delhi", City: "New Delhi"},
	"110006": {State: "delhi", District: "Central Delhi", City: "New Delhi"},
	"110051": {State: "delhi", District: "South West Delhi", City: "New Delhi"},
	"110018": {State: "delhi", District: "South Delhi", City: "New Delhi"},

	// Maharashtra
	"400001": {State: "maharashtra", District: "Mumbai", City: "Mumbai"},
	"400002": {State: "maharashtra", District: "Mumbai", City: "Mumbai"},
	"400020": {State: "maharashtra", District: "Mumbai", City: "Mumbai"},
	"411001": {State: "maharashtra", District: "Pune", City: "Pune"},
	"411014": {State: "maharashtra", District: "Pune", City: "Pune"},

	// Karnataka
	"560001": {State: "karnataka", District: "Bangalore Urban", City: "Bangalore"},
	"560002": {State: "karnataka", District: "Bangalore Urban", City: "Bangalore"},
	"560025": {State: "karnataka", District: "Bangalore Urban", City: "Bangalore"},
	"560100": {State: "karnataka", District: "Bangalore Urban", City: "Bangalore"},

	// Tamil Nadu
	"600001": {State: "tamil_nadu", District: "Chennai", City: "Chennai"},
	"600002": {State: "tamil_nadu", District: "Chennai", City: "Chennai"},
	"600020": {State: "tamil_nadu", District: "Chennai", City: "Chennai"},
	"641001": {State: "tamil_nadu", District: "Coimbatore", City: "Coimbatore"},

	// West Bengal
	"700001": {State: "west_bengal", District: "Kolkata", City: "Kolkata"},
	"700002": {State: "west_bengal", District: "Kolkata", City: "Kolkata"},
	"700020": {State: "west_bengal", District: "Kolkata", City: "Kolkata"},

	// Uttar Pradesh
	"201001": {State: "uttar_pradesh", District: "Ghaziabad", City: "Ghaziabad"},
	"226001": {State: "uttar_pradesh", District: "Lucknow", City: "Lucknow"},
	"282001": {State: "uttar_pradesh", District: "Agra", City: "Agra"},

	// Gujarat
	"380001": {State: "gujarat", District: "Ahmedabad", City: "Ahmedabad"},
	"395001": {State: "gujarat", District: "Surat", City: "Surat"},

	// Rajasthan
	"302001": {State: "rajasthan", District: "Jaipur", City: "Jaipur"},
	"342001": {State: "rajasthan", District: "Jodhpur", City: "Jodhpur"},

	// Haryana
	"122001": {State: "haryana", District: "Gurgaon", City: "Gurgaon"},
	"134001": {State: "haryana", District: "Ambala", City: "Ambala"},

	// Punjab
	"140001": {State: "punjab", District: "Chandigarh", City: "Chandigarh"},
	"141001": {State: "punjab", District: "Ludhiana", City: "Ludhiana"},
}
