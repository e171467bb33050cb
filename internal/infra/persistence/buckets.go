// Package persistence holds the bucket codec shared by the registry stores.
// A snapshot is stored as one JSON payload per bucket; every store writes all
// buckets in a single transaction.
package persistence

import (
	"encoding/json"
	"fmt"

	"biochemreg/pkg/domain"
)

// Bucket names.
const (
	BucketCompounds  = "compounds"
	BucketNames      = "names"
	BucketAliases    = "aliases"
	BucketStructures = "structures"
)

// Buckets lists every bucket in write order.
var Buckets = []string{BucketCompounds, BucketNames, BucketAliases, BucketStructures}

// Row is one persisted bucket.
type Row struct {
	Bucket  string
	Payload []byte
}

// Encode marshals snapshot into one row per bucket.
func Encode(snapshot domain.Snapshot) ([]Row, error) {
	snapshot = snapshot.Clone()
	snapshot.Normalize()
	rows := make([]Row, 0, len(Buckets))
	for _, bucket := range Buckets {
		var (
			data []byte
			err  error
		)
		switch bucket {
		case BucketCompounds:
			data, err = json.Marshal(snapshot.Compounds)
		case BucketNames:
			data, err = json.Marshal(snapshot.Names)
		case BucketAliases:
			data, err = json.Marshal(snapshot.Aliases)
		case BucketStructures:
			data, err = json.Marshal(snapshot.Structures)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		rows = append(rows, Row{Bucket: bucket, Payload: data})
	}
	return rows, nil
}

// Decode rebuilds a snapshot from stored rows. Unknown buckets are ignored and
// missing ones decode as empty.
func Decode(rows []Row) (domain.Snapshot, error) {
	snapshot := domain.NewSnapshot()
	for _, r := range rows {
		if len(r.Payload) == 0 {
			continue
		}
		var target any
		switch r.Bucket {
		case BucketCompounds:
			target = &snapshot.Compounds
		case BucketNames:
			target = &snapshot.Names
		case BucketAliases:
			target = &snapshot.Aliases
		case BucketStructures:
			target = &snapshot.Structures
		default:
			continue
		}
		if err := json.Unmarshal(r.Payload, target); err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode %s: %w", r.Bucket, err)
		}
	}
	snapshot.Normalize()
	return snapshot, nil
}
