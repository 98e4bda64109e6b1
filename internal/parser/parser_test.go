package parser

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nibzard/duke-go/internal/command"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseValid(t *testing.T) {
	tests := []struct {
		line string
		want command.Command
	}{
		{"bye", command.Bye{}},
		{"bye now please", command.Bye{}},
		{"list", command.List{}},
		{"list ", command.List{}},
		{"done 2", command.Done{Index: 2}},
		{"done 0", command.Done{Index: 0}},
		{"delete 3", command.Delete{Index: 3}},
		{"delete -1", command.Delete{Index: -1}},
		{"todo read book", command.ToDo{Description: "read book"}},
		{"deadline submit /by 2024-03-01", command.Deadline{Description: "submit", Date: day(2024, 3, 1)}},
		{"deadline file taxes /by  2024-04-15 ", command.Deadline{Description: "file taxes", Date: day(2024, 4, 15)}},
		{"event party /at 2024-03-02", command.Event{Description: "party", Date: day(2024, 3, 2)}},
		{"deadline read a/bye note /by 2024-03-01", command.Deadline{Description: "read a/bye note", Date: day(2024, 3, 1)}},
		{"deadline pay bill/by /by 2024-03-01", command.Deadline{Description: "pay bill/by", Date: day(2024, 3, 1)}},
		{"event meet at/atrium /at 2024-03-01", command.Event{Description: "meet at/atrium", Date: day(2024, 3, 1)}},
		{"event /atlas launch /at 2024-03-01", command.Event{Description: "/atlas launch", Date: day(2024, 3, 1)}},
		{"find buy", command.Find{Query: "buy"}},
		{"find buy milk", command.Find{Query: "buy milk"}},
		{"sort", command.Sort{}},
		{"sort by date please", command.Sort{}},
		{"help todo", command.Help{Topic: "todo"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error %v", tt.line, err)
			}
			if !ok {
				t.Fatalf("Parse(%q): no match", tt.line)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q): got %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line    string
		keyword string
		reason  string
	}{
		{"list extra", command.KeywordList, ReasonListArgs},
		{"done", command.KeywordDone, ReasonTaskNumberEmpty},
		{"done ", command.KeywordDone, ReasonTaskNumberEmpty},
		{"done abc", command.KeywordDone, ReasonTaskNumberNotInt},
		{"done 1.5", command.KeywordDone, ReasonTaskNumberNotInt},
		{"delete", command.KeywordDelete, ReasonTaskNumberEmpty},
		{"delete two", command.KeywordDelete, ReasonTaskNumberNotInt},
		{"todo", command.KeywordToDo, ReasonDescriptionEmpty},
		{"todo   ", command.KeywordToDo, ReasonDescriptionEmpty},
		{"deadline", command.KeywordDeadline, ReasonDescriptionEmpty},
		{"deadline /by 2024-03-01", command.KeywordDeadline, ReasonDescriptionEmpty},
		{"deadline submit", command.KeywordDeadline, ReasonDeadlineEmpty},
		{"deadline submit /by", command.KeywordDeadline, ReasonDeadlineEmpty},
		{"deadline submit /by friday", command.KeywordDeadline, ReasonDateInvalid},
		{"deadline submit /by 2024-02-30", command.KeywordDeadline, ReasonDateInvalid},
		{"event", command.KeywordEvent, ReasonDescriptionEmpty},
		{"event party", command.KeywordEvent, ReasonEventTimeEmpty},
		{"event party /at 03/02/2024", command.KeywordEvent, ReasonDateInvalid},
		{"event party /by 2024-03-02", command.KeywordEvent, ReasonEventTimeEmpty},
		{"deadline submit/by 2024-03-01", command.KeywordDeadline, ReasonDeadlineEmpty},
		{"deadline submit /by2024-03-01", command.KeywordDeadline, ReasonDeadlineEmpty},
		{"find", command.KeywordFind, ReasonSearchEmpty},
		{"help", command.KeywordHelp, ReasonCommandNameEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok, err := Parse(tt.line)
			if got != nil {
				t.Errorf("Parse(%q): got command %#v, want none", tt.line, got)
			}
			if !ok {
				t.Errorf("Parse(%q): keyword should match", tt.line)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q): got %v, want *ParseError", tt.line, err)
			}
			if pe.Keyword != tt.keyword {
				t.Errorf("Parse(%q): keyword got %q, want %q", tt.line, pe.Keyword, tt.keyword)
			}
			if pe.Error() != tt.reason {
				t.Errorf("Parse(%q): reason got %q, want %q", tt.line, pe.Error(), tt.reason)
			}
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	lines := []string{
		"",
		"hello",
		"todoist",
		"listing",
		" list",
		"LIST",
		"byebye",
	}
	for _, line := range lines {
		got, ok, err := Parse(line)
		if got != nil || ok || err != nil {
			t.Errorf("Parse(%q): got (%v, %v, %v), want no match", line, got, ok, err)
		}
	}
}

func TestParseEveryKeywordMatches(t *testing.T) {
	for _, kw := range command.Keywords() {
		_, ok, _ := Parse(kw)
		if !ok {
			t.Errorf("Parse(%q): keyword not recognized", kw)
		}
	}
}

func TestParseDescriptionContainingKeyword(t *testing.T) {
	// The first grammar to claim the line wins.
	got, _, err := Parse("todo list groceries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (command.ToDo{Description: "list groceries"}); got != want {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestKeyword(t *testing.T) {
	tests := []struct{ line, want string }{
		{"", ""},
		{"   ", ""},
		{"frobnicate now", "frobnicate"},
		{"  x", "x"},
	}
	for _, tt := range tests {
		if got := Keyword(tt.line); got != tt.want {
			t.Errorf("Keyword(%q): got %q, want %q", tt.line, got, tt.want)
		}
	}
}
