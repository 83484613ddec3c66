package codec

import "fmt"

// A migration is a pure transform from one payload version to the next.
// The chain is ordered; decoding applies every transform from the payload's
// version up to StorageVersion.
type migration struct {
	from  int
	to    int
	apply func(map[string]interface{}) map[string]interface{}
}

var migrations = []migration{
	{from: 1, to: 2, apply: migrateV1toV2},
	{from: 2, to: 3, apply: migrateV2toV3},
}

// migrate walks the chain from the given version to StorageVersion.
// A version with no path to the current version is corrupt.
func migrate(doc map[string]interface{}, version int) (map[string]interface{}, error) {
	if version == StorageVersion {
		return doc, nil
	}
	current := version
	for _, m := range migrations {
		if m.from != current {
			continue
		}
		doc = m.apply(doc)
		current = m.to
		if current == StorageVersion {
			return doc, nil
		}
	}
	return nil, &CorruptError{Reason: fmt.Sprintf("no migration path from version %d", version)}
}

// migrateV1toV2 upgrades tasks-only payloads: lists were introduced in v2,
// and the task "completed" flag was renamed to "done".
func migrateV1toV2(doc map[string]interface{}) map[string]interface{} {
	if _, ok := doc["lists"]; !ok {
		doc["lists"] = []interface{}{}
	}
	eachTask(doc, func(t map[string]interface{}) {
		if v, ok := t["completed"]; ok {
			t["done"] = v
			delete(t, "completed")
		}
	})
	return doc
}

// migrateV2toV3 renames the legacy "completed_at" timestamp to "done_at".
// The archived flag also arrived in v3 and defaults to absent (false).
func migrateV2toV3(doc map[string]interface{}) map[string]interface{} {
	eachTask(doc, func(t map[string]interface{}) {
		if v, ok := t["completed_at"]; ok {
			if _, exists := t["done_at"]; !exists {
				t["done_at"] = v
			}
			delete(t, "completed_at")
		}
	})
	return doc
}

func eachTask(doc map[string]interface{}, fn func(map[string]interface{})) {
	tasks, ok := doc["tasks"].([]interface{})
	if !ok {
		return
	}
	for _, item := range tasks {
		if t, ok := item.(map[string]interface{}); ok {
			fn(t)
		}
	}
}
