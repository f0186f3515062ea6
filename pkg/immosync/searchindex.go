package immosync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// searchIndexMaxLen caps raw index length; longer keys are hashed so index
// size stays bounded regardless of filter complexity.
const searchIndexMaxLen = 256

// SearchIndexFor derives the canonical string key identifying one tracked
// result set from a (filter, sort configuration) pair. Two logically equal
// pairs always produce the same index: map keys are sorted, nil optional
// fields are omitted, and pointers are dereferenced, so construction order
// never affects the key.
func SearchIndexFor(filter any, sortCfg SortConfig) string {
	var b strings.Builder
	if part, ok := canonValue(reflect.ValueOf(filter)); ok {
		b.WriteString(part)
	} else {
		b.WriteString("nil")
	}
	b.WriteString("|sort:")
	for i, key := range sortCfg {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(key.Column)
		b.WriteByte(':')
		b.WriteString(string(key.Dir))
	}

	index := b.String()
	if len(index) <= searchIndexMaxLen {
		return index
	}
	hash := sha256.Sum256([]byte(index))
	return hex.EncodeToString(hash[:])
}

// canonValue serializes a value deterministically. The second return is
// false for unset optional values (nil pointers, nil slices, nil maps),
// which callers omit entirely so "absent" and "never set" canonicalize
// identically.
func canonValue(v reflect.Value) (string, bool) {
	if !v.IsValid() {
		return "", false
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return "", false
		}
		return canonValue(v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return "", false
		}
		return canonSeq(v), true
	case reflect.Array:
		return canonSeq(v), true
	case reflect.Map:
		if v.IsNil() {
			return "", false
		}
		return canonMap(v), true
	case reflect.Struct:
		return canonStruct(v), true
	case reflect.String:
		return strconv.Quote(v.String()), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), true
	default:
		return fmt.Sprintf("%v", v.Interface()), true
	}
}

func canonSeq(v reflect.Value) string {
	parts := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		part, ok := canonValue(v.Index(i))
		if !ok {
			part = "nil"
		}
		parts = append(parts, part)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// canonMap serializes map entries sorted by key so iteration order never
// leaks into the index.
func canonMap(v reflect.Value) string {
	pairs := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, ok := canonValue(iter.Key())
		if !ok {
			key = "nil"
		}
		value, ok := canonValue(iter.Value())
		if !ok {
			continue
		}
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ",") + "}"
}

func canonStruct(v reflect.Value) string {
	t := v.Type()
	parts := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		value, ok := canonValue(v.Field(i))
		if !ok {
			// Unset optional predicate: omit so logically equal filters
			// share one index.
			continue
		}
		parts = append(parts, field.Name+":"+value)
	}
	return t.Name() + "{" + strings.Join(parts, ",") + "}"
}
