package budget

import (
	"strings"
	"testing"

	"github.com/user/campaignforge/internal/types"
)

func TestCounterCount(t *testing.T) {
	c, err := New("gpt-4o-mini", 8192, 1024)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if n := c.Count(""); n != 0 {
		t.Errorf("empty string should count 0 tokens, got %d", n)
	}
	if n := c.Count("hello world"); n == 0 {
		t.Error("non-empty string should count at least 1 token")
	}
}

func TestCounterUnknownModelFallsBack(t *testing.T) {
	if _, err := New("not-a-real-model", 4096, 512); err != nil {
		t.Fatalf("expected fallback encoding, got error: %v", err)
	}
}

func TestCheckInput(t *testing.T) {
	c, err := New("gpt-4o-mini", 200, 100)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.InputBudget() != 100 {
		t.Errorf("expected input budget 100, got %d", c.InputBudget())
	}

	if err := c.CheckInput("short prompt"); err != nil {
		t.Errorf("short prompt should fit: %v", err)
	}

	long := strings.Repeat("marketing campaign brief ", 100)
	if err := c.CheckInput(long); err == nil {
		t.Error("expected budget error for long prompt")
	}
}

func TestOutputCeiling(t *testing.T) {
	cases := []struct {
		assetType types.AssetType
		want      int
	}{
		{types.AssetCaption, 300},
		{types.AssetVideoScript, 300},
		{types.AssetBlog, 800},
		{types.AssetImage, DefaultOutputTokens},
		{types.AssetFlyer, DefaultOutputTokens},
	}
	for _, tc := range cases {
		if got := OutputCeiling(tc.assetType); got != tc.want {
			t.Errorf("OutputCeiling(%s) = %d, want %d", tc.assetType, got, tc.want)
		}
	}
}
