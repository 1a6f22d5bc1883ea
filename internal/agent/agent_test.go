package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maliksaad1/ai-surrogate/internal/adapter/llm"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
)

// fakeLLM returns canned replies and records the last prompt it saw.
type fakeLLM struct {
	reply      *llm.Reply
	classified string
	summary    string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Generate(ctx context.Context, message, conversationContext, memorySummary string) (*llm.Reply, error) {
	f.lastPrompt = message
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Classify(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.classified, nil
}

func (f *fakeLLM) Summarize(ctx context.Context, lines []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type memoryWriterSpy struct {
	entries []*domain.MemoryEntry
	err     error
}

func (m *memoryWriterSpy) InsertMemory(ctx context.Context, entry *domain.MemoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func TestChatAgentProcess(t *testing.T) {
	ctx := context.Background()
	client := &fakeLLM{reply: &llm.Reply{Content: "Nice to hear from you!", Emotion: "happy"}}
	a := NewChatAgent(client)

	res := a.Process(ctx, domain.AgentRequest{Message: "good morning", UserID: "u1"})
	if res.Content != "Nice to hear from you!" || res.Confidence != 0.9 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Degraded || res.Error != "" {
		t.Fatalf("expected clean result, got %+v", res)
	}
}

func TestChatAgentFallback(t *testing.T) {
	ctx := context.Background()
	a := NewChatAgent(&fakeLLM{err: errors.New("model offline")})

	res := a.Process(ctx, domain.AgentRequest{Message: "good morning"})
	want := "I understand you're saying: 'good morning'. I'm here to chat with you!"
	if res.Content != want {
		t.Fatalf("unexpected content: %q", res.Content)
	}
	if res.Confidence != 0.5 || !res.Degraded || res.Error != "model offline" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestEmotionAnalyze(t *testing.T) {
	ctx := context.Background()

	a := NewEmotionAgent(&fakeLLM{classified: "excited"})
	if got := a.Analyze(ctx, "we won!"); got != "excited" {
		t.Fatalf("expected excited, got %q", got)
	}

	// Out-of-vocabulary labels collapse to neutral.
	a = NewEmotionAgent(&fakeLLM{classified: "angry"})
	if got := a.Analyze(ctx, "grr"); got != domain.EmotionNeutral {
		t.Fatalf("expected neutral, got %q", got)
	}

	a = NewEmotionAgent(&fakeLLM{err: errors.New("model offline")})
	if got := a.Analyze(ctx, "anything"); got != domain.EmotionNeutral {
		t.Fatalf("expected neutral on failure, got %q", got)
	}
}

func TestEmotionAgentPrimary(t *testing.T) {
	ctx := context.Background()
	client := &fakeLLM{reply: &llm.Reply{Content: "That sounds hard.", Emotion: "supportive"}}
	a := NewEmotionAgent(client)

	res := a.Process(ctx, domain.AgentRequest{Message: "I feel sad today"})
	if res.Content != "That sounds hard." || res.Confidence != 0.85 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(client.lastPrompt, "Respond with empathy") {
		t.Fatalf("unexpected prompt: %q", client.lastPrompt)
	}

	a = NewEmotionAgent(&fakeLLM{err: errors.New("model offline")})
	res = a.Process(ctx, domain.AgentRequest{Message: "I feel sad today"})
	if res.Content != "I understand you're going through something. I'm here to listen and support you." {
		t.Fatalf("unexpected fallback: %q", res.Content)
	}
	if res.Confidence != 0.6 || !res.Degraded {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMemoryShouldUpdate(t *testing.T) {
	a := NewMemoryAgent(&fakeLLM{}, &memoryWriterSpy{})

	decision := a.ShouldUpdate("my birthday is June 1st", "Noted!")
	if decision == nil || decision.ImportanceScore != 7 {
		t.Fatalf("expected importance 7, got %+v", decision)
	}
	if decision.Reason != "Contains important personal information" {
		t.Fatalf("unexpected reason: %q", decision.Reason)
	}

	// Keywords in the response count too.
	decision = a.ShouldUpdate("ok", "I will remember that for you")
	if decision == nil || decision.ImportanceScore != 7 {
		t.Fatalf("expected importance 7, got %+v", decision)
	}

	long := strings.Repeat("we discussed the weather and the news in great detail. ", 3)
	decision = a.ShouldUpdate(long, "Sounds good")
	if decision == nil || decision.ImportanceScore != 4 || decision.Reason != "Detailed conversation" {
		t.Fatalf("expected importance 4, got %+v", decision)
	}

	if decision = a.ShouldUpdate("hello", "hi"); decision != nil {
		t.Fatalf("expected nil decision, got %+v", decision)
	}
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	spy := &memoryWriterSpy{}
	a := NewMemoryAgent(&fakeLLM{}, spy)

	if err := a.Update(ctx, "u1", "User: hi\nAI: hello", 7); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(spy.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(spy.entries))
	}
	entry := spy.entries[0]
	if !strings.HasPrefix(entry.MemoryID, "mem_") || entry.UserID != "u1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Context != "agent_orchestrator" || entry.ImportanceScore != 7 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	a = NewMemoryAgent(&fakeLLM{}, &memoryWriterSpy{err: errors.New("db down")})
	if err := a.Update(ctx, "u1", "summary", 4); err == nil {
		t.Fatal("expected error from failing writer")
	}
}

func TestMemoryAgentRecall(t *testing.T) {
	ctx := context.Background()
	client := &fakeLLM{reply: &llm.Reply{Content: "You told me you like coffee.", Emotion: "neutral"}}
	a := NewMemoryAgent(client, &memoryWriterSpy{})

	res := a.Process(ctx, domain.AgentRequest{
		Message:           "what do you remember about me?",
		UserMemorySummary: "User likes coffee",
	})
	if res.Content != "You told me you like coffee." || res.Confidence != 0.8 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(client.lastPrompt, "User likes coffee") {
		t.Fatalf("prompt not seeded with memory: %q", client.lastPrompt)
	}

	a = NewMemoryAgent(&fakeLLM{err: errors.New("model offline")}, &memoryWriterSpy{})
	res = a.Process(ctx, domain.AgentRequest{Message: "what do you remember?"})
	if res.Confidence != 0.6 || !res.Degraded {
		t.Fatalf("unexpected fallback: %+v", res)
	}
}

func TestDocsAgentProcess(t *testing.T) {
	ctx := context.Background()
	client := &fakeLLM{reply: &llm.Reply{Content: "A goroutine is a lightweight thread.", Emotion: "neutral"}}
	a := NewDocsAgent(client)

	res := a.Process(ctx, domain.AgentRequest{Message: "what is a goroutine?"})
	if res.Content != "A goroutine is a lightweight thread." || res.Confidence != 0.8 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(client.lastPrompt, "knowledgeable assistant") {
		t.Fatalf("unexpected prompt: %q", client.lastPrompt)
	}

	a = NewDocsAgent(&fakeLLM{err: errors.New("model offline")})
	res = a.Process(ctx, domain.AgentRequest{Message: "what is a goroutine?"})
	want := "I'd be happy to help you find information about: 'what is a goroutine?'. Let me provide what I can help with!"
	if res.Content != want || res.Confidence != 0.6 || !res.Degraded {
		t.Fatalf("unexpected fallback: %+v", res)
	}
}
