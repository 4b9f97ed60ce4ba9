// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assistant

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/pkg/types"
)

func newResponder(t *testing.T) (*Responder, *Knowledge) {
	t.Helper()
	kb, err := DefaultKnowledge()
	require.NoError(t, err)
	return NewWithKnowledge(kb, types.AssistantConfig{
		Seed:        42,
		ThinkingMin: 500 * time.Millisecond,
		ThinkingMax: 2 * time.Second,
	}), kb
}

func TestBuiltinKnowledgeCoversEveryConverter(t *testing.T) {
	kb, err := DefaultKnowledge()
	require.NoError(t, err)
	for _, name := range types.Converters {
		info := kb.Converters[name]
		assert.NotEmpty(t, info.Description, name)
		assert.NotEmpty(t, info.Steps, name)
		assert.NotEmpty(t, info.Tips, name)
		assert.NotEmpty(t, info.Troubleshooting, name)
	}
	assert.Len(t, kb.Contextual, 6)
}

func TestGreeting(t *testing.T) {
	r, kb := newResponder(t)
	for _, in := range []string{"hi", "Hello there!", "hey, good morning"} {
		got, _ := r.Respond(in, types.ConversationContext{})
		assert.Contains(t, kb.General.Greeting, got, in)
	}
}

func TestGreetingMatchesWholeWordsOnly(t *testing.T) {
	r, kb := newResponder(t)
	got, _ := r.Respond("is this thing on", types.ConversationContext{})
	assert.NotContains(t, kb.General.Greeting, got)
	assert.Contains(t, kb.General.Fallback, got)
}

func TestGratitude(t *testing.T) {
	r, kb := newResponder(t)
	got, _ := r.Respond("Thanks a lot", types.ConversationContext{})
	assert.Contains(t, kb.General.Gratitude, got)
}

func TestConverterSteps(t *testing.T) {
	r, kb := newResponder(t)
	info := kb.Converters[types.ConverterPDFToJPG]

	want := info.Description + "\n\nHere's how to do it:\n"
	for i, s := range info.Steps {
		want += strings.Join([]string{string(rune('1' + i)), ". ", s, "\n"}, "")
	}

	got, ctx := r.Respond("how do I use pdf to jpg", types.ConversationContext{})
	assert.Equal(t, want, got)
	assert.Equal(t, types.ConverterPDFToJPG, ctx.Topic)
}

func TestConverterBranches(t *testing.T) {
	r, kb := newResponder(t)
	info := kb.Converters[types.ConverterImageResizer]

	got, _ := r.Respond("any tips for the image resizer?", types.ConversationContext{})
	assert.True(t, strings.HasPrefix(got, info.Description+"\n\nPro tips for best results:\n• "+info.Tips[0]+"\n"), got)

	got, _ = r.Respond("image resizer issue", types.ConversationContext{})
	assert.True(t, strings.HasPrefix(got, info.Description+"\n\nCommon issues and solutions:\n• "), got)
	assert.Contains(t, got, info.Troubleshooting[0])

	got, _ = r.Respond("tell me about image resizer", types.ConversationContext{})
	assert.Equal(t, info.Description+"\n\nWould you like to know the steps, get some tips, or need troubleshooting help?", got)
}

func TestContextualTable(t *testing.T) {
	r, kb := newResponder(t)
	tests := []struct {
		in   string
		want []string
	}{
		{"What can you do?", kb.General.Help},
		{"how do you work", kb.General.Privacy},
		{"what formats are supported", kb.General.Formats},
		{"I'm having trouble", kb.General.Error},
		{"is my data secure? privacy matters", kb.General.Privacy},
		{"security", kb.General.Privacy},
	}
	for _, tt := range tests {
		got, _ := r.Respond(tt.in, types.ConversationContext{})
		assert.Contains(t, tt.want, got, tt.in)
	}
}

func TestTroubleshooting(t *testing.T) {
	r, kb := newResponder(t)
	got, _ := r.Respond("it's broken", types.ConversationContext{})

	preamble, tip, ok := strings.Cut(got, "\n\n")
	require.True(t, ok, got)
	assert.Contains(t, kb.General.Troubleshooting, preamble)
	assert.Contains(t, kb.General.Error, tip)
}

func TestFollowUpUsesContext(t *testing.T) {
	r, kb := newResponder(t)

	got, _ := r.Respond("why?", types.ConversationContext{})
	assert.Equal(t, kb.General.Clarify[0], got)

	got, ctx := r.Respond("how do I resize pdf", types.ConversationContext{})
	assert.Equal(t, types.ConverterPDFResizer, ctx.Topic)
	assert.Equal(t, "Since you're working with pdf resizer, here's what I can tell you: "+
		kb.Converters[types.ConverterPDFResizer].Description+
		". Would you like specific steps, tips, or troubleshooting help?", got)
}

func TestDefaultFallback(t *testing.T) {
	r, kb := newResponder(t)
	got, _ := r.Respond("banana", types.ConversationContext{})
	assert.Contains(t, kb.General.Fallback, got)
}

func TestContextUpdates(t *testing.T) {
	r, _ := newResponder(t)

	_, ctx := r.Respond("I want to upload images to pdf", types.ConversationContext{})
	assert.Equal(t, types.ConverterImageToPDF, ctx.Topic)
	assert.Equal(t, types.ActionUpload, ctx.LastAction)

	_, ctx = r.Respond("where do I save it", ctx)
	assert.Equal(t, types.ConverterImageToPDF, ctx.Topic, "topic is never cleared")
	assert.Equal(t, types.ActionDownload, ctx.LastAction)

	_, ctx = r.Respond("processing takes long", ctx)
	assert.Equal(t, types.ActionConvert, ctx.LastAction)
}

func TestSeededResponsesRepeat(t *testing.T) {
	a, _ := newResponder(t)
	b, _ := newResponder(t)
	for i := 0; i < 5; i++ {
		ra, _ := a.Respond("hello", types.ConversationContext{})
		rb, _ := b.Respond("hello", types.ConversationContext{})
		assert.Equal(t, ra, rb)
	}
}

func TestThinkingDelayRange(t *testing.T) {
	r, _ := newResponder(t)
	for i := 0; i < 100; i++ {
		d := r.ThinkingDelay()
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.Less(t, d, 2*time.Second)
	}

	fixed := NewWithKnowledge(r.kb, types.AssistantConfig{ThinkingMin: time.Second, ThinkingMax: time.Second})
	assert.Equal(t, time.Second, fixed.ThinkingDelay())
}

func TestWelcome(t *testing.T) {
	r, kb := newResponder(t)
	assert.Contains(t, kb.General.Greeting, r.Welcome())
}

func TestLoadKnowledgeValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("converters: {}\n"), 0o644))

	_, err := LoadKnowledge(path)
	assert.ErrorContains(t, err, "missing")

	_, err = LoadKnowledge(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)

	_, err = New(types.AssistantConfig{KnowledgeFile: path})
	assert.Error(t, err)
}
