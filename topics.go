package svtcrawl

import "strings"

// Topics lists the national sections of svt.se that get crawled.
var Topics = []string{
	"nyheter/ekonomi",
	"nyheter/granskning",
	"nyheter/inrikes",
	"nyheter/svtforum",
	"nyheter/nyhetstecken",
	"nyheter/vetenskap",
	"nyheter/konsument",
	"nyheter/utrikes",
	"sport",
	"vader",
	"kultur",
}

// LocalAreas lists the local news regions, crawled under nyheter/lokalt/.
var LocalAreas = []string{
	"blekinge",
	"dalarna",
	"gavleborg",
	"halland",
	"helsingborg",
	"jamtland",
	"jonkoping",
	"norrbotten",
	"skane",
	"smaland",
	"stockholm",
	"sodertalje",
	"sormland",
	"uppsala",
	"varmland",
	"vast",
	"vasterbotten",
	"vasternorrland",
	"vastmanland",
	"orebro",
	"ost",
}

// displayNames maps topic short names to the names used in summaries.
// Topics without an entry are shown under their short name.
var displayNames = map[string]string{
	"blekinge":       "Blekinge",
	"dalarna":        "Dalarna",
	"gavleborg":      "Gävleborg",
	"granskning":     "uppdrag granskning",
	"halland":        "Halland",
	"helsingborg":    "Helsingborg",
	"jamtland":       "Jämtland",
	"jonkoping":      "Jönköping",
	"norrbotten":     "Norrbotten",
	"nyhetstecken":   "nyheter teckenspråk",
	"orebro":         "Örebro",
	"ost":            "Öst",
	"skane":          "Skåne",
	"smaland":        "Småland",
	"sodertalje":     "Södertälje",
	"sormland":       "Sörmland",
	"stockholm":      "Stockholm",
	"uppsala":        "Uppsala",
	"vader":          "väder",
	"varmland":       "Värmland",
	"vast":           "Väst",
	"vasterbotten":   "Västerbotten",
	"vasternorrland": "Västernorrland",
	"vastmanland":    "Västmanland",
}

// AllTopics returns every crawlable topic path, national sections first,
// followed by the local regions.
func AllTopics() []string {
	topics := make([]string, 0, len(Topics)+len(LocalAreas))
	topics = append(topics, Topics...)
	for _, area := range LocalAreas {
		topics = append(topics, "nyheter/lokalt/"+area)
	}
	return topics
}

// ShortName returns the last path segment of a topic, which doubles as its
// directory name on disk.
func ShortName(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}

// IsLocalArea reports whether a topic short name is one of the local regions.
func IsLocalArea(name string) bool {
	for _, area := range LocalAreas {
		if area == name {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable name for a topic short name.
func DisplayName(name string) string {
	if dn, ok := displayNames[name]; ok {
		return dn
	}
	return name
}
