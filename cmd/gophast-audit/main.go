// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gophast-audit dumps the length-adjustment kv cache left behind
// by a gophast run as a JSON stream, generalizing cmd/audit-ins-db's
// forward.db/regions.db/reverse.db dump from BLAST hit storage to this
// project's (m, n, lambda, K, H) -> length-adjustment memoization table.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"io"
	"log"
	"math"
	"os"

	"modernc.org/kv"
)

func main() {
	path := flag.String("cache", "", "length-adjustment kv cache path to audit (required)")
	flag.Usage = func() {
		os.Stderr.WriteString("usage: gophast-audit -cache <path>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := kv.Open(*path, &kv.Options{})
	if err != nil {
		log.Fatalf("opening cache: %v", err)
	}
	defer db.Close()

	enc := json.NewEncoder(os.Stdout)
	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return
		}
		log.Fatalf("seeking cache: %v", err)
	}
	for {
		k, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatalf("reading cache: %v", err)
		}
		entry, err := decode(k, v)
		if err != nil {
			log.Printf("skipping malformed entry: %v", err)
			continue
		}
		if err := enc.Encode(entry); err != nil {
			log.Fatalf("encoding entry: %v", err)
		}
	}
}

type entry struct {
	QueryLen, DBLen       int64
	Lambda, K, H          float64
	LengthAdjustment      int64
}

func decode(key, value []byte) (entry, error) {
	order := binary.BigEndian
	var e entry
	if len(key) != 40 || len(value) != 8 {
		return e, os.ErrInvalid
	}
	e.QueryLen = int64(order.Uint64(key[0:8]))
	e.DBLen = int64(order.Uint64(key[8:16]))
	e.Lambda = math.Float64frombits(order.Uint64(key[16:24]))
	e.K = math.Float64frombits(order.Uint64(key[24:32]))
	e.H = math.Float64frombits(order.Uint64(key[32:40]))
	e.LengthAdjustment = int64(order.Uint64(value))
	return e, nil
}
