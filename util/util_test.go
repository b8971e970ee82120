package util

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.IntP("capacity", "c", 50, "")
	flags.BoolP("verbose", "v", false, "")
	flags.StringP("loglevel", "o", "info", "")

	return flags
}

func TestExtractUnknownArgs(t *testing.T) {
	tests := []struct {
		args     []string
		expected []string
	}{
		{[]string{"debug"}, []string{"debug"}},
		{[]string{"--capacity", "50", "debug"}, []string{"debug"}},
		{[]string{"-c", "50", "warn"}, []string{"warn"}},
		{[]string{"--capacity=50", "50"}, []string{"50"}},
		{[]string{"-v", "error"}, []string{"error"}},
		{[]string{"-", "x"}, []string{"-", "x"}},
		{[]string{"--unknown", "info"}, []string{"--unknown", "info"}},
		{nil, nil},
	}

	for _, test := range tests {
		if res := ExtractUnknownArgs(newFlags(), test.args); !reflect.DeepEqual(res, test.expected) {
			t.Errorf("ExtractUnknownArgs(%v) = %v but expected %v", test.args, res, test.expected)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	tests := []struct {
		level    string
		expected log.Level
		notice   bool
	}{
		{"ALL", log.DebugLevel, false},
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"warn", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}

	for _, test := range tests {
		var buf bytes.Buffer

		SetLogLevel(test.level, &buf)

		if res := log.GetLevel(); res != test.expected {
			t.Errorf("SetLogLevel(%q) set %s but expected %s", test.level, res, test.expected)
		}

		if got := strings.Contains(buf.String(), "Invalid log level"); got != test.notice {
			t.Errorf("SetLogLevel(%q) printed notice = %t", test.level, got)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := [][]string{{"op", "nanos"}, {"upsert", "120"}, {"lookup", "80"}}

	if err := WriteCSV(path, rows); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	res, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(res, rows) {
		t.Errorf("read back %v but expected %v", res, rows)
	}

	if err := WriteCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), rows); err == nil {
		t.Error("expected error for missing directory")
	}
}
