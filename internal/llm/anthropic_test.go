package llm

import "testing"

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	if _, err := NewAnthropicClient("", "claude-sonnet-4-20250514", 400); err == nil {
		t.Errorf("empty api key should be rejected")
	}
}

func TestConvertMessages(t *testing.T) {
	converted, system, err := convertMessages([]Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "question"},
	})
	if err != nil {
		t.Fatalf("convertMessages: %v", err)
	}
	if system != "persona" {
		t.Errorf("system = %q", system)
	}
	if len(converted) != 3 {
		t.Errorf("converted %d messages, want 3 (system extracted)", len(converted))
	}
}

func TestConvertMessagesFirstSystemWins(t *testing.T) {
	_, system, err := convertMessages([]Message{
		{Role: "system", Content: "first"},
		{Role: "system", Content: "second"},
		{Role: "user", Content: "hello"},
	})
	if err != nil {
		t.Fatalf("convertMessages: %v", err)
	}
	if system != "first" {
		t.Errorf("system = %q, want the first system message", system)
	}
}

func TestConvertMessagesRequiresUser(t *testing.T) {
	if _, _, err := convertMessages([]Message{{Role: "system", Content: "persona"}}); err == nil {
		t.Errorf("conversation without a user message should be rejected")
	}
	if _, _, err := convertMessages(nil); err == nil {
		t.Errorf("empty conversation should be rejected")
	}
}
