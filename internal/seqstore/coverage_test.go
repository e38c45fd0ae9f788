// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seqstore

import "testing"

func TestCoverage(t *testing.T) {
	c, err := NewCoverage(100)
	if err != nil {
		t.Fatalf("NewCoverage: %v", err)
	}
	if err := c.Mark(10, 20); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := c.Mark(15, 30); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if got, want := c.Covered(), int64(20); got != want {
		t.Errorf("Covered() = %d, want %d (overlapping marks should not double count)", got, want)
	}
}
