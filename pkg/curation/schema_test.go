package curation

import (
	"encoding/json"
	"testing"

	"github.com/ProbablyAY/SparkCo/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":            "A reflective check-in",
		"curated_entry_md": "Today was good.",
		"summary_bullets":  []string{"a", "b"},
		"themes":           []string{"focus", "family", "energy"},
		"emotional_timeline": []map[string]interface{}{
			{"t": "start", "label": "tense", "evidence": "meeting stress"},
			{"t": "mid", "label": "calmer", "evidence": "walk break"},
			{"t": "end", "label": "hopeful", "evidence": "planned tomorrow"},
		},
		"key_moments": []map[string]interface{}{
			{"timestamp_ms": 12000, "moment": "Call ended", "why_it_matters": "freed attention"},
		},
		"followup_questions": []string{"What felt best today?"},
		"memory_candidates": []map[string]interface{}{
			{"category": "goal", "text": "Run 3 times weekly", "confidence": 0.8},
		},
	}
}

func encode(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestSchema_Parse_Valid(t *testing.T) {
	out, err := Schema{StrictTimeline: true}.Parse(encode(t, validPayload()))

	require.NoError(t, err)
	assert.Equal(t, "A reflective check-in", *out.Title)
	assert.Len(t, out.Themes, 3)
	assert.Len(t, out.MemoryCandidates, 1)
}

func TestSchema_Parse_Malformed(t *testing.T) {
	_, err := Schema{}.Parse(`{"title": "unterminated`)
	assert.ErrorIs(t, err, ErrMalformedJSON)

	_, err = Schema{}.Parse(`[]`)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestSchema_Parse_Themes(t *testing.T) {
	cases := map[int]bool{2: false, 3: true, 8: true, 9: false}
	for n, ok := range cases {
		p := validPayload()
		themes := make([]string, n)
		for i := range themes {
			themes[i] = "theme"
		}
		p["themes"] = themes

		_, err := Schema{}.Parse(encode(t, p))
		if ok {
			assert.NoError(t, err, "themes=%d", n)
		} else {
			assert.ErrorIs(t, err, ErrSchema, "themes=%d", n)
		}
	}
}

func TestSchema_Parse_Confidence(t *testing.T) {
	cases := map[float64]bool{-0.01: false, 0: true, 1: true, 1.5: false}
	for c, ok := range cases {
		p := validPayload()
		p["memory_candidates"] = []map[string]interface{}{{"category": "value", "text": "honesty", "confidence": c}}

		_, err := Schema{}.Parse(encode(t, p))
		if ok {
			assert.NoError(t, err, "confidence=%v", c)
		} else {
			assert.ErrorIs(t, err, ErrSchema, "confidence=%v", c)
		}
	}
}

func TestSchema_Parse_RequiredFieldsAndEnums(t *testing.T) {
	t.Run("missing title", func(t *testing.T) {
		p := validPayload()
		delete(p, "title")
		_, err := Schema{}.Parse(encode(t, p))
		assert.ErrorIs(t, err, ErrSchema)
		assert.Contains(t, err.Error(), "title")
	})

	t.Run("empty title is allowed", func(t *testing.T) {
		p := validPayload()
		p["title"] = ""
		_, err := Schema{}.Parse(encode(t, p))
		assert.NoError(t, err)
	})

	t.Run("missing memory_candidates", func(t *testing.T) {
		p := validPayload()
		delete(p, "memory_candidates")
		_, err := Schema{}.Parse(encode(t, p))
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("empty memory_candidates is allowed", func(t *testing.T) {
		p := validPayload()
		p["memory_candidates"] = []interface{}{}
		_, err := Schema{}.Parse(encode(t, p))
		assert.NoError(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		p := validPayload()
		p["memory_candidates"] = []map[string]interface{}{{"category": "hobby", "text": "x", "confidence": 0.5}}
		_, err := Schema{}.Parse(encode(t, p))
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("unknown anchor", func(t *testing.T) {
		p := validPayload()
		p["emotional_timeline"] = []map[string]interface{}{{"t": "later", "label": "x", "evidence": "y"}}
		_, err := Schema{}.Parse(encode(t, p))
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("timestamp must be a number", func(t *testing.T) {
		p := validPayload()
		p["key_moments"] = []map[string]interface{}{{"timestamp_ms": "soon", "moment": "x", "why_it_matters": "y"}}
		_, err := Schema{}.Parse(encode(t, p))
		assert.ErrorIs(t, err, ErrMalformedJSON)
	})
}

func TestSchema_Parse_TimelineAnchors(t *testing.T) {
	duplicated := validPayload()
	duplicated["emotional_timeline"] = []map[string]interface{}{
		{"t": "start", "label": "a", "evidence": "a"},
		{"t": "start", "label": "b", "evidence": "b"},
		{"t": "end", "label": "c", "evidence": "c"},
	}
	raw := encode(t, duplicated)

	_, err := Schema{StrictTimeline: true}.Parse(raw)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), `"mid"`)

	_, err = Schema{StrictTimeline: false}.Parse(raw)
	assert.NoError(t, err)
}

func TestOutput_Projections(t *testing.T) {
	out, err := Schema{}.Parse(encode(t, validPayload()))
	require.NoError(t, err)

	sessionID, userID := uuid.New(), uuid.New()

	artifact := out.Artifact(sessionID)
	assert.Equal(t, sessionID, artifact.SessionId)
	assert.Equal(t, "Today was good.", artifact.CuratedEntryMd)
	assert.Equal(t, entity.TimelineMid, artifact.EmotionalTimeline[1].T)
	assert.Equal(t, float64(12000), artifact.KeyMoments[0].TimestampMs)

	candidates := out.Candidates(userID, sessionID)
	require.Len(t, candidates, 1)
	assert.Equal(t, entity.MemoryCategoryGoal, candidates[0].Category)
	assert.Equal(t, entity.ReviewPending, candidates[0].Review.Kind)
	assert.Equal(t, userID, candidates[0].UserId)
}
