package classify

import "strings"

// unitRule maps measurement vocabulary to the unit labels offered on the
// numbers keypad. Rules are ordered; the first match wins, so "how long"
// resolves to distance/time by position in this table, not by specificity.
type unitRule struct {
	keywords []string
	units    []string
}

var unitRules = []unitRule{
	{[]string{"distance", "far", "mile", "miles"}, []string{"miles", "km", "ft"}},
	{[]string{"weight", "weigh", "heavy", "lbs", "pound", "kilogram"}, []string{"lbs", "kg"}},
	{[]string{"length", "tall", "height", "width", "inch", "inches"}, []string{"cm", "in", "ft"}},
	{[]string{"temperature", "degree", "degrees", "fever"}, []string{"°F", "°C"}},
	{[]string{"time", "long", "minute", "minutes", "hour", "hours", "day", "days"}, []string{"min", "hours", "days"}},
	{[]string{"money", "cost", "price", "dollar", "dollars", "cent", "cents", "pay", "fee"}, []string{"$", "dollars", "cents"}},
	{[]string{"speed", "fast", "mph"}, []string{"mph", "kmh"}},
	{[]string{"percent", "percentage"}, []string{"%"}},
	{[]string{"volume", "oz", "ounce", "ml", "cup", "cups"}, []string{"oz", "ml", "cups"}},
}

// defaultUnits is offered when the context gives no measurement signal.
var defaultUnits = []string{"cm", "in", "lbs", "kg", "%"}

// InferUnits returns the unit labels to offer alongside the numeric keypad
// for the given context text. The result is a fresh slice; callers may
// mutate it.
func InferUnits(contextText string) []string {
	lower := strings.ToLower(contextText)
	for _, rule := range unitRules {
		if containsAny(lower, rule.keywords) {
			return append([]string(nil), rule.units...)
		}
	}
	return append([]string(nil), defaultUnits...)
}
