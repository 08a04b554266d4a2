package docs

import (
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md loads, and every topic is listed.
	index, err := GetTopic(readme)
	if err != nil {
		t.Fatalf("GetTopic(readme) failed: %v", err)
	}
	topicRegex := regexp.MustCompile(`(?m)^\*\s+([^:]+):.*$`)
	var listed []string
	for _, m := range topicRegex.FindAllStringSubmatch(index, -1) {
		listed = append(listed, strings.TrimSpace(m[1]))
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := AllTopics()
	if err != nil {
		t.Fatalf("AllTopics() failed: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestTopicsHaveTitle(t *testing.T) {
	all, err := AllTopics()
	if err != nil {
		t.Fatal(err)
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	for _, topic := range append(all, readme) {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			doc := md.Parser().Parse(text.NewReader([]byte(content)))
			h, ok := doc.FirstChild().(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("topic %q does not start with a title", topic)
			}
		})
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) failed: %v", err)
	}
	for _, title := range []string{"# Simulations", "# FX", "# Margin"} {
		if !strings.Contains(all, title) {
			t.Errorf("GetTopics(*) does not contain %q", title)
		}
	}
	if strings.Contains(all, "# pdash\n") {
		t.Error("GetTopics(*) contains the readme")
	}

	if _, err := GetTopics("fx", "nope"); err == nil {
		t.Error("GetTopics with an unknown topic succeeded")
	}
}
