package radiorules

import "strings"

// Rule pairs a selector pattern with the decision to apply it. shouldApply
// false means the pattern is known but deliberately left alone.
type Rule struct {
	Pattern     string
	ShouldApply bool
}

// originRules is the static per-origin table: selector patterns applied only
// when the current page origin matches the key. Origins are matched on host
// suffix so subdomains inherit their site's rules.
var originRules = map[string][]Rule{
	"craigslist.org": {
		{Pattern: `input[type=radio][name=contact_ok]`, ShouldApply: true},
	},
	"gumtree.com": {
		{Pattern: `input[type=radio][name*=condition][value=used]`, ShouldApply: true},
	},
	"olx.pl": {
		{Pattern: `input[type=radio][name*=accept]`, ShouldApply: true},
	},
}

// OriginRules returns the static rules for a page origin, or nil.
func OriginRules(origin string) []Rule {
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	for site, rules := range originRules {
		if host == site || strings.HasSuffix(host, "."+site) {
			return rules
		}
	}
	return nil
}

// consentTokens are the attribute fragments the generic heuristics look for
// in a radio's name/id.
var consentTokens = []string{"agree", "terms", "accept", "consent"}

// affirmativeTokens mark a radio value as the "yes" choice.
var affirmativeTokens = []string{"yes", "true", "1", "on", "agree", "accept", "ok"}

// GenericConsent reports whether a radio identified by nameID (the joined
// name/id attributes) and value looks like an affirmative consent choice.
// Applied regardless of origin.
func GenericConsent(nameID, value string) bool {
	nameID = strings.ToLower(nameID)
	hit := false
	for _, tok := range consentTokens {
		if strings.Contains(nameID, tok) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	value = strings.ToLower(strings.TrimSpace(value))
	for _, tok := range affirmativeTokens {
		if value == tok {
			return true
		}
	}
	return false
}
