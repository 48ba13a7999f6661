package mapper

import "strings"

// stateCodes maps Indian state and union territory names to GST state codes.
var stateCodes = map[string]string{
	"jammu and kashmir": "01",
	"himachal pradesh":  "02",
	"punjab":            "03",
	"chandigarh":        "04",
	"uttarakhand":       "05",
	"haryana":           "06",
	"delhi":             "07",
	"rajasthan":         "08",
	"uttar pradesh":     "09",
	"bihar":             "10",
	"sikkim":            "11",
	"arunachal pradesh": "12",
	"nagaland":          "13",
	"manipur":           "14",
	"mizoram":           "15",
	"tripura":           "16",
	"meghalaya":         "17",
	"assam":             "18",
	"west bengal":       "19",
	"jharkhand":         "20",
	"odisha":            "21",
	"chhattisgarh":      "22",
	"madhya pradesh":    "23",
	"gujarat":           "24",
	"dadra and nagar haveli and daman and diu": "26",
	"maharashtra":                 "27",
	"karnataka":                   "29",
	"goa":                         "30",
	"lakshadweep":                 "31",
	"kerala":                      "32",
	"tamil nadu":                  "33",
	"puducherry":                  "34",
	"andaman and nicobar islands": "35",
	"telangana":                   "36",
	"andhra pradesh":              "37",
	"ladakh":                      "38",
}

// Common spellings seen in storefront exports.
var stateAliases = map[string]string{
	"new delhi":                            "delhi",
	"nct of delhi":                         "delhi",
	"orissa":                               "odisha",
	"pondicherry":                          "puducherry",
	"jammu & kashmir":                      "jammu and kashmir",
	"andaman & nicobar islands":            "andaman and nicobar islands",
	"dadra & nagar haveli and daman & diu": "dadra and nagar haveli and daman and diu",
}

// StateCode returns the two-digit GST code for a state name, or "" when the
// name is not recognised.
func StateCode(state string) string {
	key := strings.ToLower(strings.Join(strings.Fields(state), " "))
	if key == "" {
		return ""
	}
	if canonical, ok := stateAliases[key]; ok {
		key = canonical
	}
	return stateCodes[key]
}
