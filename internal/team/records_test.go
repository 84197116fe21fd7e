package team

import (
	"strings"
	"testing"
)

func TestDecodeToolArguments(t *testing.T) {
	args := DecodeToolArguments(`{"target_file": "app.tsx", "limit": 5}`)
	if args["target_file"] != "app.tsx" {
		t.Errorf("expected parsed object, got %v", args)
	}

	// Malformed JSON never raises; it lands under "raw".
	args = DecodeToolArguments(`{bad`)
	if args["raw"] != "{bad" {
		t.Errorf("malformed input should be stored raw, got %v", args)
	}

	args = DecodeToolArguments("")
	if args["raw"] != "" {
		t.Errorf("empty input should be stored raw, got %v", args)
	}

	// A JSON array is not an object; stored raw too.
	args = DecodeToolArguments(`[1, 2]`)
	if args["raw"] != "[1, 2]" {
		t.Errorf("array input should be stored raw, got %v", args)
	}
}

func TestIsSentinelOnly(t *testing.T) {
	if !IsSentinelOnly("  TERMINATE \n", "TERMINATE", "SUBTASK_DONE") {
		t.Error("whitespace-padded sentinel should match")
	}
	if IsSentinelOnly("All done, TERMINATE", "TERMINATE") {
		t.Error("sentinel embedded in prose is not sentinel-only")
	}
	if IsSentinelOnly("", "TERMINATE") {
		t.Error("empty content is not a sentinel")
	}
}

func TestPreview(t *testing.T) {
	short := "hello"
	if Preview(short) != short {
		t.Errorf("short content should pass through")
	}
	long := strings.Repeat("x", 1000)
	got := Preview(long)
	if len(got) != previewLimit+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("long content should truncate with ellipsis, got %d chars", len(got))
	}
}
