package command

var usages = map[string]string{
	KeywordBye:      "bye\n  Save and exit.",
	KeywordList:     "list\n  Show all tasks. Takes no arguments.",
	KeywordDone:     "done <task number>\n  Mark a task as done.",
	KeywordDelete:   "delete <task number>\n  Remove a task. Later task numbers shift down by one.",
	KeywordToDo:     "todo <description>\n  Add a task without a date.",
	KeywordDeadline: "deadline <description> /by <YYYY-MM-DD>\n  Add a task due by a date.",
	KeywordEvent:    "event <description> /at <YYYY-MM-DD>\n  Add a task happening on a date.",
	KeywordFind:     "find <text>\n  Show tasks whose description contains the text (case-sensitive).",
	KeywordSort:     "sort\n  Order dated tasks by date, followed by tasks without a date.",
	KeywordHelp:     "help <command>\n  Show usage for a command.",
}

// Usage returns the usage text for the command named topic.
func Usage(topic string) (string, bool) {
	u, ok := usages[topic]
	return u, ok
}
