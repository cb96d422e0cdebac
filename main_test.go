package main

import (
	"errors"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	config, err := parseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if config.Width != 800 || config.Height != 600 || config.MaxIter != 256 {
		t.Errorf("defaults = %+v", config)
	}
}

func TestParseConfigValues(t *testing.T) {
	config, err := parseConfig([]string{"-width", "1920", "-height", "1080", "-iter", "1000"})
	if err != nil {
		t.Fatal(err)
	}
	if config.Width != 1920 || config.Height != 1080 || config.MaxIter != 1000 {
		t.Errorf("parsed = %+v", config)
	}
}

func TestParseConfigRejectsNonPositive(t *testing.T) {
	bad := [][]string{
		{"-width", "0"},
		{"-width", "-800"},
		{"-height", "0"},
		{"-height", "-1"},
		{"-iter", "0"},
		{"-iter", "-5"},
	}
	for _, args := range bad {
		_, err := parseConfig(args)
		if !errors.Is(err, errInvalidArgument) {
			t.Errorf("parseConfig(%v) = %v, want invalid argument", args, err)
		}
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	if _, err := parseConfig([]string{"-depth", "3"}); err == nil {
		t.Errorf("unknown flag accepted")
	}
}
