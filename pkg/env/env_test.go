package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("PRICEPANEL_TEST_VALUE", "  ")
	if got := Get("PRICEPANEL_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("PRICEPANEL_TEST_VALUE", "console")
	if got := Get("PRICEPANEL_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("PRICEPANEL_TEST_FLAG", "true")
	if !Bool("PRICEPANEL_TEST_FLAG", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("PRICEPANEL_TEST_FLAG", "nope")
	if Bool("PRICEPANEL_TEST_FLAG", false) {
		t.Fatalf("expected fallback for garbage")
	}
}
