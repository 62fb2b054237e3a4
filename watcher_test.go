package main

import (
	"testing"
	"time"
)

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"probe.png", true},
		{"probe.PNG", true},
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"anim.gif", true},
		{"scan.bmp", true},
		{"notes.txt", false},
		{"report.quality.txt", false},
		{"archive.tar.gz", false},
		{"no_extension", false},
	}

	for _, tt := range tests {
		if got := isImageFile(tt.name); got != tt.want {
			t.Errorf("isImageFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWatcherIsRelevant(t *testing.T) {
	w := NewWatcher(nil, t.TempDir())
	settled := time.Now().Add(-10 * time.Second)

	if !w.isRelevant("/images/a.png", settled) {
		t.Error("a new settled file should be relevant")
	}
	if w.isRelevant("/images/a.png", settled) {
		t.Error("an unchanged file should not be relevant twice")
	}

	// A changed modtime means the file was rewritten.
	changed := settled.Add(2 * time.Second)
	if !w.isRelevant("/images/a.png", changed) {
		t.Error("a rewritten file should be relevant again")
	}
}

func TestWatcherIsRelevant_SettleWindow(t *testing.T) {
	w := NewWatcher(nil, t.TempDir())

	if w.isRelevant("/images/fresh.png", time.Now()) {
		t.Error("a file modified just now should wait for the settle window")
	}
	// The skip must not mark the file as seen.
	if !w.isRelevant("/images/fresh.png", time.Now().Add(-10*time.Second)) {
		t.Error("the file should become relevant once its modtime settles")
	}
}
