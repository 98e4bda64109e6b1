// Package parser turns one line of input into a command.
//
// Grammars are tried in a fixed priority order. A grammar claims a line when
// the line is its keyword alone or its keyword followed by a space; the first
// grammar to claim the line is the only one that validates it.
package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/duke-go/internal/command"
	"github.com/nibzard/duke-go/internal/task"
)

// Validation failure reasons.
const (
	ReasonListArgs         = "List does not accept arguments"
	ReasonTaskNumberEmpty  = "Task number cannot be empty"
	ReasonTaskNumberNotInt = "Task number must be an integer"
	ReasonDescriptionEmpty = "Description cannot be empty"
	ReasonDeadlineEmpty    = "Deadline cannot be empty"
	ReasonEventTimeEmpty   = "Event time cannot be empty"
	ReasonDateInvalid      = "Date must be valid (expected YYYY-MM-DD)"
	ReasonSearchEmpty      = "Search string cannot be empty"
	ReasonCommandNameEmpty = "Command name cannot be empty"
)

// ParseError reports a recognized keyword with missing or malformed arguments.
type ParseError struct {
	Keyword string
	Reason  string
}

func (e *ParseError) Error() string {
	return e.Reason
}

type grammar struct {
	keyword string
	build   func(rest string) (command.Command, error)
}

// grammars is ordered by priority.
var grammars = []grammar{
	{command.KeywordBye, parseBye},
	{command.KeywordDeadline, parseDeadline},
	{command.KeywordDelete, parseDelete},
	{command.KeywordDone, parseDone},
	{command.KeywordEvent, parseEvent},
	{command.KeywordList, parseList},
	{command.KeywordToDo, parseToDo},
	{command.KeywordFind, parseFind},
	{command.KeywordSort, parseSort},
	{command.KeywordHelp, parseHelp},
}

// Parse classifies line. It returns (cmd, true, nil) on success,
// (nil, false, nil) when no keyword matches, and (nil, true, *ParseError)
// when a keyword matches but its arguments are invalid.
func Parse(line string) (command.Command, bool, error) {
	for _, g := range grammars {
		rest, ok := matchKeyword(line, g.keyword)
		if !ok {
			continue
		}
		cmd, err := g.build(rest)
		if err != nil {
			return nil, true, err
		}
		return cmd, true, nil
	}
	return nil, false, nil
}

// Keyword returns the first word of line, for reporting unknown commands.
func Keyword(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func matchKeyword(line, keyword string) (string, bool) {
	if line == keyword {
		return "", true
	}
	if strings.HasPrefix(line, keyword+" ") {
		return line[len(keyword)+1:], true
	}
	return "", false
}

func fail(keyword, reason string) error {
	return &ParseError{Keyword: keyword, Reason: reason}
}

func parseBye(string) (command.Command, error) {
	return command.Bye{}, nil
}

func parseSort(string) (command.Command, error) {
	return command.Sort{}, nil
}

func parseList(rest string) (command.Command, error) {
	if strings.TrimSpace(rest) != "" {
		return nil, fail(command.KeywordList, ReasonListArgs)
	}
	return command.List{}, nil
}

func parseDone(rest string) (command.Command, error) {
	n, err := taskNumber(command.KeywordDone, rest)
	if err != nil {
		return nil, err
	}
	return command.Done{Index: n}, nil
}

func parseDelete(rest string) (command.Command, error) {
	n, err := taskNumber(command.KeywordDelete, rest)
	if err != nil {
		return nil, err
	}
	return command.Delete{Index: n}, nil
}

func taskNumber(keyword, rest string) (int, error) {
	s := strings.TrimSpace(rest)
	if s == "" {
		return 0, fail(keyword, ReasonTaskNumberEmpty)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fail(keyword, ReasonTaskNumberNotInt)
	}
	return n, nil
}

func parseToDo(rest string) (command.Command, error) {
	desc := strings.TrimSpace(rest)
	if desc == "" {
		return nil, fail(command.KeywordToDo, ReasonDescriptionEmpty)
	}
	return command.ToDo{Description: desc}, nil
}

func parseDeadline(rest string) (command.Command, error) {
	desc, date, err := dated(command.KeywordDeadline, rest, "/by", ReasonDeadlineEmpty)
	if err != nil {
		return nil, err
	}
	return command.Deadline{Description: desc, Date: date}, nil
}

func parseEvent(rest string) (command.Command, error) {
	desc, date, err := dated(command.KeywordEvent, rest, "/at", ReasonEventTimeEmpty)
	if err != nil {
		return nil, err
	}
	return command.Event{Description: desc, Date: date}, nil
}

// dated splits "<description> <sep> <date>" at the first sep that stands
// as its own word. Without sep the whole remainder is the description and
// the date is empty.
func dated(keyword, rest, sep, emptyDate string) (string, time.Time, error) {
	desc, when := cutWord(rest, sep)
	desc = strings.TrimSpace(desc)
	when = strings.TrimSpace(when)

	if desc == "" {
		return "", time.Time{}, fail(keyword, ReasonDescriptionEmpty)
	}
	if when == "" {
		return "", time.Time{}, fail(keyword, emptyDate)
	}
	d, err := task.ParseDate(when)
	if err != nil {
		return "", time.Time{}, fail(keyword, ReasonDateInvalid)
	}
	return desc, d, nil
}

// cutWord cuts s around the first occurrence of word that is bounded by
// spaces or the ends of s. "a/bye /by x" cuts at the second token only.
func cutWord(s, word string) (before, after string) {
	for i := 0; i+len(word) <= len(s); {
		j := strings.Index(s[i:], word)
		if j < 0 {
			break
		}
		start, end := i+j, i+j+len(word)
		if (start == 0 || s[start-1] == ' ') && (end == len(s) || s[end] == ' ') {
			return s[:start], s[end:]
		}
		i = start + 1
	}
	return s, ""
}

func parseFind(rest string) (command.Command, error) {
	q := strings.TrimSpace(rest)
	if q == "" {
		return nil, fail(command.KeywordFind, ReasonSearchEmpty)
	}
	return command.Find{Query: q}, nil
}

func parseHelp(rest string) (command.Command, error) {
	topic := strings.TrimSpace(rest)
	if topic == "" {
		return nil, fail(command.KeywordHelp, ReasonCommandNameEmpty)
	}
	return command.Help{Topic: topic}, nil
}
