package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"academy_server/core/domain"
)

// FeedbackPrompt carries the submission fields embedded into the
// classification prompts.
type FeedbackPrompt struct {
	Answers           map[int64]int
	SatisfactionScore float64
	FreeText          string
	Transcript        string
}

const feedbackSchemaBlock = `Respond with this exact JSON format:
{
  "category_code": "C1|C2|C3|C4|M1|A1|T1|F1|UNK",
  "category_name": "display name for the code",
  "confidence": 0.0-1.0,
  "urgency": 0-10,
  "sentiment": "Positive|Neutral|Negative",
  "sentiment_score": -1.0-1.0,
  "reason": "one or two sentence summary of the issue in your own words"
}`

// ClassifyFeedbackRaw issues the primary classification call and returns
// the raw completion text. Parsing and repair happen upstream.
func (c *Client) ClassifyFeedbackRaw(ctx context.Context, fp *FeedbackPrompt) (string, error) {
	systemPrompt := `You are a student feedback classification AI for an academy. Analyze the feedback and respond with JSON only.

Categories (pick ONE code):
` + categoryPromptList() + `
- UNK: nothing above fits

Urgency: 0 (no action needed) to 10 (immediate attention required).
Sentiment: overall tone of the feedback.
The "reason" must be a summary in your own words, never a verbatim copy of the student's text.

` + feedbackSchemaBlock

	return c.CompleteJSON(ctx, systemPrompt, fp.userPrompt())
}

// ClassifyCategoryRaw issues the secondary, category-focused call. It asks
// only for the taxonomy verdict plus sentiment/urgency/reason; when usable,
// its fields win over the primary result.
func (c *Client) ClassifyCategoryRaw(ctx context.Context, fp *FeedbackPrompt) (string, error) {
	systemPrompt := `You are an issue-category specialist for academy student feedback. Your only job is to pick the single best matching category. Respond with JSON only.

Categories (pick ONE code):
` + categoryPromptList() + `
- UNK: nothing above fits

Respond with this exact JSON format:
{
  "category_code": "C1|C2|C3|C4|M1|A1|T1|F1|UNK",
  "category_name": "display name for the code",
  "sentiment": "Positive|Neutral|Negative",
  "urgency": 0-10,
  "reason": "one sentence naming the issue in your own words"
}`

	return c.CompleteJSON(ctx, systemPrompt, fp.userPrompt())
}

func (fp *FeedbackPrompt) userPrompt() string {
	var b strings.Builder

	if len(fp.Answers) > 0 {
		ids := make([]int64, 0, len(fp.Answers))
		for id := range fp.Answers {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		b.WriteString("Ratings (1=worst, 4=best):\n")
		for _, id := range ids {
			fmt.Fprintf(&b, "- question %d: %d\n", id, fp.Answers[id])
		}
	}

	fmt.Fprintf(&b, "Satisfaction score (0=worst, 1=best): %.2f\n", fp.SatisfactionScore)

	if text := strings.TrimSpace(fp.FreeText); text != "" {
		fmt.Fprintf(&b, "\nStudent comment:\n%s\n", truncateText(text, 2000))
	}
	if transcript := strings.TrimSpace(fp.Transcript); transcript != "" {
		fmt.Fprintf(&b, "\nVoice transcript:\n%s\n", truncateText(transcript, 2000))
	}

	return b.String()
}

func categoryPromptList() string {
	var b strings.Builder
	for _, cat := range domain.AllCategories() {
		fmt.Fprintf(&b, "- %s (%s): %s\n", cat.Code, cat.Name, cat.Description)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
