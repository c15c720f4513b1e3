package telegram

import (
	"strings"
	"testing"
)

func TestSplitMessage(t *testing.T) {
	short := "Hello world"
	parts := splitMessage(short)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0] != short {
		t.Errorf("expected %q, got %q", short, parts[0])
	}
}

func TestSplitMessageLong(t *testing.T) {
	long := strings.Repeat("a", 5000)
	parts := splitMessage(long)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if len(parts[0]) != maxTelegramMessage {
		t.Errorf("expected first part length %d, got %d", maxTelegramMessage, len(parts[0]))
	}
}

func TestParseTarget(t *testing.T) {
	chatID, err := parseTarget("telegram:12345")
	if err != nil {
		t.Fatalf("parseTarget failed: %v", err)
	}
	if chatID != 12345 {
		t.Errorf("expected 12345, got %d", chatID)
	}

	if _, err := parseTarget("slack:12345"); err == nil {
		t.Error("expected error for non-telegram target")
	}
	if _, err := parseTarget("telegram:abc"); err == nil {
		t.Error("expected error for non-numeric chat id")
	}
}
