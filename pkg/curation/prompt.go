package curation

import "fmt"

const systemPrompt = `You are a journaling curator. You turn a spoken journaling session into a structured entry.
Respond with a single JSON object and nothing else. The object must have exactly these fields:
{
  "title": string,
  "curated_entry_md": string (markdown, first person),
  "summary_bullets": string[],
  "themes": string[] (between 3 and 8 items),
  "emotional_timeline": [{"t": "start" | "mid" | "end", "label": string, "evidence": string}],
  "key_moments": [{"timestamp_ms": number, "moment": string, "why_it_matters": string}],
  "followup_questions": string[],
  "memory_candidates": [{"category": "preference" | "goal" | "relationship" | "project" | "value" | "other", "text": string, "confidence": number between 0 and 1}]
}
%s
Only propose memory candidates for durable facts about the user, not passing moods.`

const strictTimelineRule = `"emotional_timeline" must contain exactly three entries, one for each of "start", "mid" and "end".`

func systemMessage(strictTimeline bool) string {
	rule := ""
	if strictTimeline {
		rule = strictTimelineRule
	}
	return fmt.Sprintf(systemPrompt, rule)
}

func initialPrompt(transcript string) string {
	return "Return strict JSON only matching the schema. Transcript:\n" + transcript
}

func repairPrompt(previousRaw string) string {
	return "Fix this JSON to match the required schema exactly and return only JSON:\n" + previousRaw
}
