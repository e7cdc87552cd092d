package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tasklist/pkg/task"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncStr(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func (c *cli) printTask(w io.Writer, t *task.Task) error {
	if c.format == "json" {
		return printJSON(w, t)
	}
	return c.printTasks(w, []task.Task{*t})
}

func (c *cli) printTasks(w io.Writer, tasks []task.Task) error {
	if c.format == "json" {
		return printJSON(w, tasks)
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%4d  [%s]  %-6s  %s\n", t.ID, mark, t.Priority, truncStr(t.Text, 70))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
