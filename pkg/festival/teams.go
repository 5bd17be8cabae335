package festival

import "strings"

// teamAliases maps the short codes used on paper forms to team names.
var teamAliases = map[string]string{
	"SMD": "SUMUD",
	"INT": "INTIFADA",
	"AQS": "AQSA",
}

// NormalizeTeamName trims, uppercases and resolves short team codes,
// so "smd", " Sumud " and "SUMUD" all become "SUMUD".
func NormalizeTeamName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if full, ok := teamAliases[name]; ok {
		return full
	}
	return name
}
