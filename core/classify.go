package core

import (
	"strings"

	"github.com/qualitydesk/qualens/schema"
)

// Severity keyword groups, evaluated in priority order. The first group with
// any hit wins; a comment with no hit defaults to High, biasing toward
// flagging items as noteworthy rather than under-reporting.
var (
	criticalKeywords = []string{"critical", "severe", "complete", "total", "broken", "shattered", "mold", "water damage"}
	highKeywords     = []string{"major", "significant", "large", "multiple", "extensive", "crack", "chip"}
	mediumKeywords   = []string{"minor", "small", "scratch", "dent", "mark"}
)

// MapSeverity derives a severity level from a free-text comment. It cannot
// fail: every input, including an empty comment, resolves to a level.
func MapSeverity(comment string) schema.Severity {
	lower := strings.ToLower(comment)

	if containsAny(lower, criticalKeywords) {
		return schema.CriticalSeverity
	}
	if containsAny(lower, highKeywords) {
		return schema.HighSeverity
	}
	if containsAny(lower, mediumKeywords) {
		return schema.MediumSeverity
	}
	return schema.HighSeverity
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// defectLabel pairs a comment keyword with its display label. Order matters:
// the first matching keyword wins.
type defectLabel struct {
	keyword string
	label   string
}

// defectLabels is the keyword-to-label dictionary for per-row defect tags.
var defectLabels = []defectLabel{
	{"crack", "Crack"},
	{"chip", "Chip"},
	{"scratch", "Scratch"},
	{"dent", "Dent"},
	{"damage", "Damage"},
	{"broken", "Broken"},
	{"defect", "Defect"},
	{"splinter", "Splinter"},
	{"stain", "Stain"},
	{"odor", "Odor"},
	{"tear", "Tear"},
	{"rip", "Rip"},
	{"warp", "Warp"},
	{"misalign", "Misalignment"},
	{"missing", "Missing Parts"},
	{"loose", "Loose"},
	{"peel", "Peeling Finish"},
	{"discolor", "Discoloration"},
	{"mold", "Mold"},
	{"water", "Water Damage"},
}

// genericDefectRotation supplies defect tags when a comment matches no
// keyword, indexed by the row's position within the product's evidence.
// Rotation keeps tags from degenerating to one identical label across a
// product's evidence set when comments are uninformative.
var genericDefectRotation = []string{
	"Surface Blemish",
	"Finish Defect",
	"Assembly Issue",
	"Material Flaw",
	"Packaging Damage",
	"General Damage",
}

// ExtractDefectType derives a short defect tag from a comment. When no
// keyword matches, the rotating generic list indexed by row position is
// used, so the result is never empty.
func ExtractDefectType(comment string, index int) string {
	lower := strings.ToLower(comment)

	for _, entry := range defectLabels {
		if strings.Contains(lower, entry.keyword) {
			return entry.label
		}
	}

	if index < 0 {
		index = 0
	}
	return genericDefectRotation[index%len(genericDefectRotation)]
}

// programPoolSize returns how many of the twelve programs are candidates for
// assignment, scaled by the product's incident volume. Low-incident products
// draw from a smaller sub-range to avoid implausibly diverse program
// assignment on thin evidence.
func programPoolSize(totalIncidents float64) int {
	switch {
	case totalIncidents < 3:
		return 4
	case totalIncidents < 8:
		return 8
	default:
		return len(schema.AllPrograms)
	}
}

// stringHash is a deterministic 31-based rolling hash. It is a presentation
// heuristic, not domain truth: program assignment and display boosting must
// be reproducible across runs, so this must never be replaced with a real
// random source.
func stringHash(s string) int {
	h := 0
	for i := 0; i < len(s); i++ {
		h = h*31 + int(s[i])
		h &= 0x7fffffff
	}
	return h
}

// AssignProgram deterministically selects an inspection program for one
// evidence row. The source data carries no program field; this synthesizes
// plausible-looking program diversity from (delivery date, incident flag,
// row index) and the product's incident volume. It does not simulate any
// real inspection-routing logic.
func AssignProgram(deliveryDate, incidentFlag string, index int, totalIncidents float64) schema.Program {
	pool := programPoolSize(totalIncidents)
	h := stringHash(deliveryDate + incidentFlag)
	if index < 0 {
		index = 0
	}
	return schema.AllPrograms[(h+index)%pool]
}
