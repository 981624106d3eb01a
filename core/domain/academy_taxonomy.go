package domain

import "strings"

// CategoryCode is one of the fixed feedback issue category codes.
type CategoryCode string

const (
	CategoryTeachingClarity   CategoryCode = "C1" // Explanations, comprehension
	CategoryPacing            CategoryCode = "C2" // Speed, scheduling
	CategoryEngagement        CategoryCode = "C3" // Interaction, participation
	CategoryInstructorSupport CategoryCode = "C4" // Responsiveness, guidance
	CategoryMaterials         CategoryCode = "M1" // Slides, handouts, examples
	CategoryAssessment        CategoryCode = "A1" // Workload, grading, deadlines
	CategoryTechnical         CategoryCode = "T1" // LMS, platform, links
	CategoryFacilities        CategoryCode = "F1" // Room, equipment, environment
	CategoryUnknown           CategoryCode = "UNK"
)

// Category describes one entry of the fixed taxonomy.
type Category struct {
	Code        CategoryCode `json:"code"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Keywords    []string     `json:"keywords"`
}

// CategoryPriority is the evaluation order for keyword matching. Keyword
// sets overlap, so the order encodes which category wins a tie.
var CategoryPriority = []CategoryCode{
	CategoryAssessment,
	CategoryTeachingClarity,
	CategoryPacing,
	CategoryEngagement,
	CategoryInstructorSupport,
	CategoryMaterials,
	CategoryTechnical,
	CategoryFacilities,
}

var taxonomy = map[CategoryCode]Category{
	CategoryTeachingClarity: {
		Code:        CategoryTeachingClarity,
		Name:        "Teaching Clarity",
		Description: "Explanations are hard to follow or leave students confused",
		Keywords: []string{
			"explain", "explanation", "don't understand", "dont understand",
			"do not understand", "didn't understand", "didnt understand",
			"cant understand", "can't understand", "hard to understand",
			"unclear", "confusing", "confused", "lost",
		},
	},
	CategoryPacing: {
		Code:        CategoryPacing,
		Name:        "Pacing",
		Description: "Lessons move too fast or too slow, or scheduling conflicts",
		Keywords: []string{
			"pace", "pacing", "too fast", "too quick", "too slow", "rushed",
			"schedule", "time conflict", "timing", "duration", "not enough time",
		},
	},
	CategoryEngagement: {
		Code:        CategoryEngagement,
		Name:        "Engagement & Interaction",
		Description: "Lessons lack interaction, discussion, or participation",
		Keywords: []string{
			"interaction", "interactive", "boring", "bored", "discussion",
			"participation", "participate", "engage", "engaging", "monotonous",
		},
	},
	CategoryInstructorSupport: {
		Code:        CategoryInstructorSupport,
		Name:        "Instructor Support",
		Description: "Instructor availability, responsiveness, and guidance",
		Keywords: []string{
			"support", "help", "helpful", "response", "reply", "respond",
			"guidance", "communication", "unresponsive", "ignored",
			"no answer", "office hours",
		},
	},
	CategoryMaterials: {
		Code:        CategoryMaterials,
		Name:        "Materials & Resources",
		Description: "Quality and availability of slides, documents, and examples",
		Keywords: []string{
			"slides", "slide", "document", "documents", "handout", "handouts",
			"materials", "material", "practice", "examples", "exercises",
			"resources", "notes", "textbook",
		},
	},
	CategoryAssessment: {
		Code:        CategoryAssessment,
		Name:        "Assessment & Workload Fairness",
		Description: "Workload, homework volume, grading fairness, deadlines",
		Keywords: []string{
			"workload", "homework", "assignment", "assignments", "too much work",
			"stress", "stressed", "stressful", "overwhelm", "overwhelmed",
			"overwhelming", "grading", "grade", "unfair", "deadline", "deadlines",
			"exam", "difficult for me",
		},
	},
	CategoryTechnical: {
		Code:        CategoryTechnical,
		Name:        "Technical/System",
		Description: "LMS, platform access, broken links and files",
		Keywords: []string{
			"lms", "platform", "link", "links", "file", "files", "upload",
			"download", "not working", "doesn't work", "doesnt work", "broken",
			"crash", "crashes", "login", "log in", "error message",
		},
	},
	CategoryFacilities: {
		Code:        CategoryFacilities,
		Name:        "Facilities/Environment",
		Description: "Physical classroom environment and equipment",
		Keywords: []string{
			"temperature", "hot", "cold", "projector", "wifi", "wi-fi",
			"noise", "noisy", "loud", "seating", "seats", "chairs", "crowded",
			"room", "air conditioning", "lighting",
		},
	},
	CategoryUnknown: {
		Code:        CategoryUnknown,
		Name:        "Unclassified",
		Description: "No category could be determined",
		Keywords:    nil,
	},
}

// legacyCategoryCodes maps free-form category labels from older AI prompts
// and the previous feedback system onto the current code space. Lookup keys
// are lowercase.
var legacyCategoryCodes = map[string]CategoryCode{
	"clarity":             CategoryTeachingClarity,
	"teaching":            CategoryTeachingClarity,
	"teaching clarity":    CategoryTeachingClarity,
	"comprehension":       CategoryTeachingClarity,
	"pacing":              CategoryPacing,
	"pace":                CategoryPacing,
	"speed":               CategoryPacing,
	"schedule":            CategoryPacing,
	"engagement":          CategoryEngagement,
	"interaction":         CategoryEngagement,
	"participation":       CategoryEngagement,
	"support":             CategoryInstructorSupport,
	"instructor":          CategoryInstructorSupport,
	"instructor support":  CategoryInstructorSupport,
	"communication":       CategoryInstructorSupport,
	"materials":           CategoryMaterials,
	"resources":           CategoryMaterials,
	"content":             CategoryMaterials,
	"assessment":          CategoryAssessment,
	"workload":            CategoryAssessment,
	"homework":            CategoryAssessment,
	"grading":             CategoryAssessment,
	"technical":           CategoryTechnical,
	"system":              CategoryTechnical,
	"it":                  CategoryTechnical,
	"platform":            CategoryTechnical,
	"facilities":          CategoryFacilities,
	"environment":         CategoryFacilities,
	"classroom":           CategoryFacilities,
	"other":               CategoryUnknown,
	"unknown":             CategoryUnknown,
	"none":                CategoryUnknown,
}

// CategoryByCode resolves a code case-insensitively against the taxonomy.
func CategoryByCode(code string) (Category, bool) {
	c, ok := taxonomy[CategoryCode(strings.ToUpper(strings.TrimSpace(code)))]
	return c, ok
}

// CategoryDisplayName returns the canonical display name for a code, or the
// unclassified name when the code is unknown.
func CategoryDisplayName(code CategoryCode) string {
	if c, ok := taxonomy[code]; ok {
		return c.Name
	}
	return taxonomy[CategoryUnknown].Name
}

// IsValidCategoryCode reports whether code (case-insensitive) names one of
// the 8 issue categories or UNK.
func IsValidCategoryCode(code string) bool {
	_, ok := CategoryByCode(code)
	return ok
}

// LegacyCategoryCode maps a free-form legacy category label to a current
// code. Returns false when the label is not in the lookup table.
func LegacyCategoryCode(label string) (CategoryCode, bool) {
	code, ok := legacyCategoryCodes[strings.ToLower(strings.TrimSpace(label))]
	return code, ok
}

// CategoryKeywords returns the keyword set for a code in priority-match
// form. The slice is shared; callers must not mutate it.
func CategoryKeywords(code CategoryCode) []string {
	return taxonomy[code].Keywords
}

// AllCategories returns the 8 classifiable categories in priority order.
func AllCategories() []Category {
	out := make([]Category, 0, len(CategoryPriority))
	for _, code := range CategoryPriority {
		out = append(out, taxonomy[code])
	}
	return out
}
