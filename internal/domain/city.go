package domain

import "strings"

// cityTable maps clean city keys to coordinates. Read-only after init and safe
// for concurrent use.
var cityTable = map[string]Geo{
	// Maharashtra
	"nagpur":     {21.1458, 79.0882},
	"mumbai":     {19.0760, 72.8777},
	"pune":       {18.5204, 73.8567},
	"kamptee":    {21.2235, 79.1943},
	"akola":      {20.7002, 77.0082},
	"amravati":   {20.9374, 77.7796},
	"aurangabad": {19.8762, 75.3433},
	"nashik":     {19.9975, 73.7898},
	"yavatmal":   {20.3888, 78.1204},
	"sangli":     {16.8524, 74.5815},
	"kolhapur":   {16.7050, 74.2433},
	"bhandara":   {21.1777, 79.6570},
	"wardha":     {20.7453, 78.6022},
	"chandrapur": {19.9615, 79.2961},
	"gondia":     {21.4624, 80.2210},

	// Telangana & Andhra Pradesh
	"hyderabad":     {17.3850, 78.4867},
	"secunderabad":  {17.4399, 78.4983},
	"vijayawada":    {16.5062, 80.6480},
	"guntur":        {16.3067, 80.4365},
	"visakhapatnam": {17.6868, 83.2185},
	"vizag":         {17.6868, 83.2185},
	"rajahmundry":   {17.0005, 81.8040},
	"kakinada":      {16.9891, 82.2475},
	"nellore":       {14.4426, 79.9865},
	"kurnool":       {15.8281, 78.0373},
	"warangal":      {17.9689, 79.5941},
	"tirupati":      {13.6288, 79.4192},
	"eluru":         {16.7107, 81.0952},
	"ongole":        {15.5057, 80.0499},
	"tenali":        {16.2430, 80.6409},
	"nizamabad":     {18.6725, 78.0941},
	"khammam":       {17.2473, 80.1514},

	// Uttar Pradesh
	"gorakhpur":  {26.7606, 83.3732},
	"lucknow":    {26.8467, 80.9462},
	"kanpur":     {26.4499, 80.3319},
	"varanasi":   {25.3176, 82.9739},
	"allahabad":  {25.4358, 81.8463},
	"prayagraj":  {25.4358, 81.8463},
	"deoria":     {26.5081, 83.7780},
	"kushinagar": {26.9030, 83.9873},
	"basti":      {26.8140, 82.7630},
	"azamgarh":   {26.0722, 83.1859},
	"faizabad":   {26.7730, 82.1448},
	"ayodhya":    {26.7922, 82.1998},
	"akbarpur":   {26.4385, 82.5350},
	"mirzapur":   {25.1337, 82.5644},
	"ghazipur":   {25.5804, 83.5772},
	"noida":      {28.5355, 77.3910},
	"agra":       {27.1767, 78.0081},
	"meerut":     {28.9845, 77.7064},

	// Rajasthan
	"ajmer":      {26.4499, 74.6399},
	"jaipur":     {26.9124, 75.7873},
	"jodhpur":    {26.2389, 73.0243},
	"kishangarh": {26.5741, 74.8622},
	"beawar":     {26.1030, 74.3218},
	"nasirabad":  {26.3056, 74.7335},
	"pushkar":    {26.4886, 74.5509},
	"sikar":      {27.6094, 75.1398},
	"bhilwara":   {25.3407, 74.6313},

	// Tamil Nadu
	"chennai":         {13.0827, 80.2707},
	"coimbatore":      {11.0168, 76.9558},
	"madurai":         {9.9252, 78.1198},
	"salem":           {11.6643, 78.1460},
	"tiruchirappalli": {10.7905, 78.7047},
	"vellore":         {12.9165, 79.1325},
	"tiruvannamalai":  {12.2253, 79.0747},
	"villupuram":      {11.9401, 79.4861},

	// Gujarat & Madhya Pradesh
	"ahmedabad": {23.0225, 72.5714},
	"surat":     {21.1702, 72.8311},
	"indore":    {22.7196, 75.8577},

	// Metros
	"bangalore": {12.9716, 77.5946},
	"delhi":     {28.6139, 77.2090},
	"kolkata":   {22.5726, 88.3639},
}

// cityDelimiters end the meaningful part of a city value: "Gorakhpur, UP",
// "Vizag (AP)", "Pune - Hinjewadi".
const cityDelimiters = ",(-"

// citySuffixes are administrative qualifiers dropped from the clean key.
var citySuffixes = []string{" district", " city"}

// CleanCityName reduces a free-text city value to a lookup key. It returns
// false when raw is empty (no city). A value that starts with a delimiter
// cleans to the empty key.
func CleanCityName(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	city := strings.TrimSpace(strings.ToLower(raw))
	if i := strings.IndexAny(city, cityDelimiters); i >= 0 {
		city = city[:i]
	}
	city = strings.TrimSpace(city)

	// Repeat until stable: removing one qualifier can splice together another.
	for {
		stripped := city
		for _, suffix := range citySuffixes {
			stripped = strings.ReplaceAll(stripped, suffix, "")
		}
		if stripped == city {
			break
		}
		city = stripped
	}

	return strings.TrimSpace(city), true
}

// LookupCity returns the coordinates for an exact clean key.
func LookupCity(clean string) (Geo, bool) {
	g, ok := cityTable[clean]
	return g, ok
}

// KnownCities returns the number of entries in the coordinate table.
func KnownCities() int {
	return len(cityTable)
}
