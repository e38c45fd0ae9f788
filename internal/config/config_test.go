// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "testing"

func TestParseRequiresQueryAndDB(t *testing.T) {
	if _, err := Parse("gophast", []string{"-p", "blastn"}); err == nil {
		t.Fatal("expected an error when -query/-db are missing")
	}
}

func TestParseDefaults(t *testing.T) {
	opt, err := Parse("gophast", []string{"-query", "q.fa", "-db", "db"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opt.Program != BlastN {
		t.Errorf("default program = %v, want BlastN", opt.Program)
	}
	if opt.SeedLength != 11 {
		t.Errorf("default word_size = %d, want 11", opt.SeedLength)
	}
	if opt.Threads <= 0 {
		t.Errorf("Threads should default to a positive value, got %d", opt.Threads)
	}
}

func TestParseRejectsUnknownProgram(t *testing.T) {
	if _, err := Parse("gophast", []string{"-query", "q.fa", "-db", "db", "-p", "nonsense"}); err == nil {
		t.Fatal("expected an error for an unknown program")
	}
}

func TestParseRejectsUnknownIndexKind(t *testing.T) {
	if _, err := Parse("gophast", []string{"-query", "q.fa", "-db", "db", "-di", "nonsense"}); err == nil {
		t.Fatal("expected an error for an unknown index kind")
	}
}

func TestParseDefaultsIndexKindToSA(t *testing.T) {
	opt, err := Parse("gophast", []string{"-query", "q.fa", "-db", "db"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opt.IndexKind != "sa" {
		t.Errorf("default index kind = %q, want %q", opt.IndexKind, "sa")
	}
}
