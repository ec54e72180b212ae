package main

import (
	"testing"
	"time"
)

func TestGetenvDefault(t *testing.T) {
	t.Setenv("FM_TEST_KEY", "set")
	if got := getenvDefault("FM_TEST_KEY", "def"); got != "set" {
		t.Errorf("got %q, want set", got)
	}
	if got := getenvDefault("FM_TEST_MISSING", "def"); got != "def" {
		t.Errorf("got %q, want def", got)
	}
}

func TestGetenvInt64(t *testing.T) {
	t.Setenv("FM_TEST_INT", "1048576")
	got, err := getenvInt64("FM_TEST_INT", 0)
	if err != nil || got != 1048576 {
		t.Errorf("got %d err %v", got, err)
	}

	if got, err := getenvInt64("FM_TEST_INT_MISSING", 42); err != nil || got != 42 {
		t.Errorf("default: got %d err %v", got, err)
	}

	t.Setenv("FM_TEST_INT_BAD", "lots")
	if _, err := getenvInt64("FM_TEST_INT_BAD", 0); err == nil {
		t.Error("expected a parse error")
	}
}

func TestGetenvDuration(t *testing.T) {
	t.Setenv("FM_TEST_TTL", "30m")
	got, err := getenvDuration("FM_TEST_TTL", 24*time.Hour)
	if err != nil || got != 30*time.Minute {
		t.Errorf("got %v err %v", got, err)
	}

	if got, err := getenvDuration("FM_TEST_TTL_MISSING", 24*time.Hour); err != nil || got != 24*time.Hour {
		t.Errorf("default: got %v err %v", got, err)
	}

	t.Setenv("FM_TEST_TTL_BAD", "soon")
	if _, err := getenvDuration("FM_TEST_TTL_BAD", 0); err == nil {
		t.Error("expected a parse error")
	}
}
