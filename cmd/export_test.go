package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/storage"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func exportRecords() model.Records {
	nine := "09:00"
	mood := "calm"
	rating := 3
	end := timecalc.MustDate("2024-03-10")
	start := timecalc.MustDate("2024-03-04")
	night := "night"
	return model.Records{
		Entries: []model.Entry{
			{ID: "e2", Date: timecalc.MustDate("2024-03-05"), Title: "Trim, small"},
			{ID: "e1", Date: timecalc.MustDate("2024-03-04"), Title: "Wash", Time: &nine, Mood: &mood, Rating: &rating},
		},
		Goals:    []model.Goal{{ID: "g1", Title: "Grow", Start: start, End: &end}},
		Routines: []model.Routine{{ID: "r1", Title: "Oil", Frequency: model.Weekly, StartDate: &start, TimeOfDay: &night}},
	}
}

func TestCSVRecords(t *testing.T) {
	got := csvRecords(exportRecords())
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	want := []string{
		"kind,id,date,end,time,title,mood,rating,frequency,progress",
		`entry,e2,2024-03-05,,,"Trim, small",,,,`,
		"entry,e1,2024-03-04,,09:00,Wash,calm,3,,",
		"goal,g1,2024-03-04,2024-03-10,,Grow,,,,",
		"routine,r1,2024-03-04,,night,Oil,,,weekly,",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestMarkdownListSortsByDate(t *testing.T) {
	got := markdownList(exportRecords())
	first := strings.Index(got, "## 2024-03-04")
	second := strings.Index(got, "## 2024-03-05")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("day headings missing or out of order:\n%s", got)
	}
	for _, want := range []string{"- 09:00 Wash [calm] ★3", "- 12:00 Trim, small", "## Goals", "- Oil (weekly, 21:00)"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownListEmpty(t *testing.T) {
	if got := markdownList(model.Records{}); got != "No entries found.\n" {
		t.Errorf("markdownList(empty) = %q", got)
	}
}

func TestWriteExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, exportRecords(), "json"); err != nil {
		t.Fatalf("writeExport: %v", err)
	}
	for _, want := range []string{`"date": "2024-03-04"`, `"frequency": "weekly"`, `"end": "2024-03-10"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("json missing %s:\n%s", want, buf.String())
		}
	}
}

func TestExportScope(t *testing.T) {
	anchor := timecalc.MustDate("2024-03-15")
	tests := []struct {
		period string
		want   storage.Scope
	}{
		{"all", storage.Scope{}},
		{"month", storage.Scope{From: timecalc.MustDate("2024-03-01"), To: timecalc.MustDate("2024-03-31")}},
		{"week", storage.Scope{From: timecalc.MustDate("2024-03-11"), To: timecalc.MustDate("2024-03-17")}},
		{"day", storage.Scope{From: anchor, To: anchor}},
	}
	for _, tt := range tests {
		got, err := exportScope(tt.period, anchor)
		if err != nil {
			t.Fatalf("exportScope(%q): %v", tt.period, err)
		}
		if got != tt.want {
			t.Errorf("exportScope(%q) = %+v, want %+v", tt.period, got, tt.want)
		}
	}
	if _, err := exportScope("year", anchor); err == nil {
		t.Error("exportScope(year) should fail")
	}
}
