package ai

import "strings"

// templateBuckets maps mention keywords to canned replies, checked in
// order. The first bucket whose keywords match wins.
var templateBuckets = []struct {
	keywords []string
	reply    string
}{
	{[]string{"thanks", "thank you", "appreciate"},
		"You're very welcome! Glad I could help!"},
	{[]string{"help", "how", "?"},
		"Happy to help! Feel free to DM me if you need more details."},
	{[]string{"great", "awesome", "love", "amazing"},
		"Thank you so much! Really appreciate the kind words!"},
	{[]string{"problem", "issue", "bug", "error"},
		"Sorry to hear that! Can you DM me more details so I can look into it?"},
}

const templateDefault = "Thanks for reaching out! I appreciate you connecting with me."

// TemplateReply returns a deterministic keyword-based reply to a mention.
// It is the fallback for every path where AI generation is unavailable.
func TemplateReply(mentionText string) string {
	lower := strings.ToLower(mentionText)
	for _, bucket := range templateBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.reply
			}
		}
	}
	return templateDefault
}
