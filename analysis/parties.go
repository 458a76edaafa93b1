package analysis

import (
	"regexp"
	"strings"

	"clauselens-backend/models"
)

const (
	maxParties        = 5
	partyScanWindow   = 2000
	roleSearchWindow  = 1000
	minPartyNameChars = 5
)

var (
	betweenPattern     = regexp.MustCompile(`(?i)(?:between|by and between)\s+([^,]+?)\s+(?:and|&)\s+([^,\.]+)`)
	partyEntityPattern = regexp.MustCompile(`(?i)\b([A-Z][A-Za-z\s&]+(?:LLC|Inc|Corp|Ltd|LLP|L\.L\.C\.|Corporation)\.?)\b`)
	referredAsPattern  = regexp.MustCompile(`(?i)referred to as\s+["']([^"']+)["']`)
)

var partyRoles = []struct {
	markers string
	role    string
}{
	{`employer|company`, "Employer/Company"},
	{`employee|contractor`, "Employee/Contractor"},
	{`vendor|supplier`, "Vendor/Supplier"},
	{`client|customer`, "Client/Customer"},
}

// IdentifyParties finds the parties named in the contract preamble and
// infers each party's role from how it is introduced.
func IdentifyParties(text string) []models.ContractParty {
	window := text[:runeBoundary(text, partyScanWindow)]

	var parties []models.ContractParty
	seen := make(map[string]bool)
	add := func(name, role string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] || len(parties) >= maxParties {
			return
		}
		seen[name] = true
		parties = append(parties, models.ContractParty{Name: name, Role: role})
	}

	for _, match := range betweenPattern.FindAllStringSubmatch(window, -1) {
		add(match[1], "Party 1")
		add(match[2], "Party 2")
	}
	for _, match := range partyEntityPattern.FindAllStringSubmatch(window, -1) {
		name := strings.TrimSpace(match[1])
		if len(name) > minPartyNameChars {
			add(name, determinePartyRole(text, name))
		}
	}
	for _, match := range referredAsPattern.FindAllStringSubmatch(window, -1) {
		name := strings.TrimSpace(match[1])
		if len(name) > minPartyNameChars {
			add(name, determinePartyRole(text, name))
		}
	}
	return parties
}

// determinePartyRole looks at how the party is first introduced to
// decide whether it is the employer, employee, vendor, or client side.
func determinePartyRole(text, party string) string {
	lower := strings.ToLower(text)
	lower = lower[:runeBoundary(lower, roleSearchWindow)]
	quoted := regexp.QuoteMeta(strings.ToLower(party))

	for _, candidate := range partyRoles {
		re, err := regexp.Compile(quoted + `.*?(?:` + candidate.markers + `)`)
		if err != nil {
			continue
		}
		if re.MatchString(lower) {
			return candidate.role
		}
	}
	return "Party"
}
