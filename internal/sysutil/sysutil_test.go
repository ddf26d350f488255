package sysutil

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":     zerolog.DebugLevel,
		"  DeBuG  ": zerolog.DebugLevel,
		"info":      zerolog.InfoLevel,
		"":          zerolog.InfoLevel,
		"warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"fatal":     zerolog.FatalLevel,
		"panic":     zerolog.PanicLevel,
		"verbose":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	SetLogLevel("warn")
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Fatalf("global level = %v; want warn", got)
	}
	SetLogLevel("nonsense")
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Fatalf("global level = %v; want info", got)
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "Y", "on"} {
		if b, ok := ParseBool(v); !ok || !b {
			t.Errorf("ParseBool(%q) = %v,%v; want true,true", v, b, ok)
		}
	}
	for _, v := range []string{"0", "false", "No", "n", " off "} {
		if b, ok := ParseBool(v); !ok || b {
			t.Errorf("ParseBool(%q) = %v,%v; want false,true", v, b, ok)
		}
	}
	for _, v := range []string{"", "  ", "random", "2"} {
		if _, ok := ParseBool(v); ok {
			t.Errorf("ParseBool(%q) should not be recognized", v)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	if !IsTruthy("on") || IsTruthy("off") || IsTruthy("maybe") || IsTruthy("") {
		t.Fatal("IsTruthy mismatch")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q", got)
	}
	if got := FirstNonEmpty(" ", "\t", "\n"); got != "" {
		t.Fatalf("FirstNonEmpty(blanks) = %q", got)
	}
	if got := FirstNonEmpty("   ", "  trainflow  ", "x"); got != "  trainflow  " {
		t.Fatalf("FirstNonEmpty keeps spacing, got %q", got)
	}
}
