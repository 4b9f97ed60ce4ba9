// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assistant answers help questions about the converters. It is a
// rule-matching responder over a YAML knowledge base: no model, no network.
package assistant

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/convertkit/pkg/types"
)

// Responder maps an utterance and the conversation context to a canned
// response. It is safe for concurrent use.
type Responder struct {
	kb       *Knowledge
	thinkMin time.Duration
	thinkMax time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a Responder from cfg, loading cfg.KnowledgeFile when set and
// the built-in knowledge base otherwise.
func New(cfg types.AssistantConfig) (*Responder, error) {
	var (
		kb  *Knowledge
		err error
	)
	if cfg.KnowledgeFile != "" {
		kb, err = LoadKnowledge(cfg.KnowledgeFile)
	} else {
		kb, err = DefaultKnowledge()
	}
	if err != nil {
		return nil, err
	}
	return NewWithKnowledge(kb, cfg), nil
}

// NewWithKnowledge builds a Responder over kb. A zero cfg.Seed seeds the
// variant picker from the clock.
func NewWithKnowledge(kb *Knowledge, cfg types.AssistantConfig) *Responder {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Responder{
		kb:       kb,
		thinkMin: cfg.ThinkingMin,
		thinkMax: cfg.ThinkingMax,
		rng:      rand.New(rand.NewPCG(seed, seed)),
	}
}

// Welcome returns the opening message of a conversation.
func (r *Responder) Welcome() string {
	return r.pick(r.kb.General.Greeting)
}

// ThinkingDelay returns how long to pause before posting a response, drawn
// uniformly from [ThinkingMin, ThinkingMax).
func (r *Responder) ThinkingDelay() time.Duration {
	span := r.thinkMax - r.thinkMin
	if span <= 0 {
		return max(r.thinkMin, 0)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.thinkMin + time.Duration(r.rng.Int64N(int64(span)))
}

// Respond classifies utterance and returns the response with the updated
// context. The context is updated from the utterance before classification,
// so a follow-up question can refer to a converter named in the same line.
func (r *Responder) Respond(utterance string, ctx types.ConversationContext) (string, types.ConversationContext) {
	text := normalize(utterance)
	ctx = r.updateContext(text, ctx)

	switch {
	case containsAny(text, r.kb.Keywords.Greeting):
		return r.pick(r.kb.General.Greeting), ctx
	case containsAny(text, r.kb.Keywords.Gratitude):
		return r.pick(r.kb.General.Gratitude), ctx
	}

	if name, ok := r.detectConverter(text); ok {
		return r.converterResponse(name, text), ctx
	}

	for _, e := range r.kb.Contextual {
		if contains(text, e.Phrase) {
			return r.pick(r.kb.responses(e.Topic)), ctx
		}
	}

	switch {
	case containsAny(text, r.kb.Keywords.Trouble):
		return r.pick(r.kb.General.Troubleshooting) + "\n\n" + r.pick(r.kb.General.Error), ctx
	case containsAny(text, r.kb.Keywords.FollowUp):
		return r.followUp(ctx), ctx
	}
	return r.pick(r.kb.General.Fallback), ctx
}

func (r *Responder) updateContext(text string, ctx types.ConversationContext) types.ConversationContext {
	for _, name := range types.Converters {
		info := r.kb.Converters[name]
		if contains(text, string(name)) || containsAny(text, info.Aliases) {
			ctx.Topic = name
			break
		}
	}

	switch {
	case containsAny(text, r.kb.Actions.Upload):
		ctx.LastAction = types.ActionUpload
	case containsAny(text, r.kb.Actions.Download):
		ctx.LastAction = types.ActionDownload
	case containsAny(text, r.kb.Actions.Convert):
		ctx.LastAction = types.ActionConvert
	}
	return ctx
}

// detectConverter matches the four fixed converter names only; aliases
// set the topic but never select a converter answer.
func (r *Responder) detectConverter(text string) (types.Converter, bool) {
	for _, name := range types.Converters {
		if contains(text, string(name)) {
			return name, true
		}
	}
	return "", false
}

func (r *Responder) converterResponse(name types.Converter, text string) string {
	info := r.kb.Converters[name]
	switch {
	case containsAny(text, r.kb.Keywords.Steps):
		return formatSteps(info.Description, info.Steps)
	case containsAny(text, r.kb.Keywords.Tips):
		return formatBullets(info.Description, "Pro tips for best results:", info.Tips)
	case containsAny(text, r.kb.Keywords.Problems):
		return formatBullets(info.Description, "Common issues and solutions:", info.Troubleshooting)
	}
	return info.Description + "\n\nWould you like to know the steps, get some tips, or need troubleshooting help?"
}

func (r *Responder) followUp(ctx types.ConversationContext) string {
	if ctx.Topic == "" {
		return r.pick(r.kb.General.Clarify)
	}
	return fmt.Sprintf("Since you're working with %s, here's what I can tell you: %s. Would you like specific steps, tips, or troubleshooting help?",
		ctx.Topic, r.kb.Converters[ctx.Topic].Description)
}

func (r *Responder) pick(set []string) string {
	if len(set) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return set[r.rng.IntN(len(set))]
}

func formatSteps(description string, steps []string) string {
	var b strings.Builder
	b.WriteString(description)
	b.WriteString("\n\nHere's how to do it:\n")
	for i, s := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

func formatBullets(description, heading string, items []string) string {
	var b strings.Builder
	b.WriteString(description)
	b.WriteString("\n\n")
	b.WriteString(heading)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s\n", item)
	}
	return b.String()
}
