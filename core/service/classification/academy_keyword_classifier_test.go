package classification

import (
	"testing"

	"academy_server/core/domain"
)

// TestClassifyByKeywords tests keyword matching and the priority order that
// decides overlapping matches.
func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.CategoryCode
	}{
		{
			name: "workload beats clarity on overlap",
			text: "too much homework and I am lost",
			want: domain.CategoryAssessment,
		},
		{
			name: "clarity beats materials on overlap",
			text: "the slides were unclear",
			want: domain.CategoryTeachingClarity,
		},
		{
			name: "technical beats facilities on overlap",
			text: "projector software is broken",
			want: domain.CategoryTechnical,
		},
		{
			name: "pacing keyword",
			text: "the lectures feel rushed",
			want: domain.CategoryPacing,
		},
		{
			name: "engagement keyword",
			text: "the class is monotonous",
			want: domain.CategoryEngagement,
		},
		{
			name: "instructor support keyword",
			text: "emails go unanswered, totally unresponsive",
			want: domain.CategoryInstructorSupport,
		},
		{
			name: "materials keyword",
			text: "the handouts need more examples",
			want: domain.CategoryMaterials,
		},
		{
			name: "facilities keyword",
			text: "the wifi in the back row drops constantly",
			want: domain.CategoryFacilities,
		},
		{
			name: "no keyword match",
			text: "thanks for a fun semester",
			want: "",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
		{
			name: "case-insensitive match",
			text: "GRADING FEELS UNFAIR",
			want: domain.CategoryAssessment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyByKeywords(tt.text)
			if got != tt.want {
				t.Errorf("category = %v, want %v", got, tt.want)
			}
		})
	}
}
